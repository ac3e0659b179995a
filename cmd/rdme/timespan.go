package main

import (
	"fmt"
	"log"
	"log/slog"

	"github.com/rdme-xyz/go-rdme/store"
	"github.com/spf13/cobra"
)

// timespanCmd represents the timespan command
var timespanCmd = &cobra.Command{
	Use:   "timespan <file>",
	Short: "Print the stored time vector",
	Long: `Print the simulation output times recorded in a trajectory file,
one per line.

Examples:
  rdme timespan run.h5`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		setDefaultSlog(cmd, args)
		slog.Debug("reading timespan", "path", args[0])

		tspan, err := store.ReadTimespan(args[0])
		if err != nil {
			log.Fatalln(err)
		}
		for _, t := range tspan {
			fmt.Printf("%g\n", t)
		}
	},
}

func init() {
	rootCmd.AddCommand(timespanCmd)
}
