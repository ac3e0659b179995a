package main

import (
	"encoding/json"
	"fmt"
	"log"
	"log/slog"

	"github.com/rdme-xyz/go-rdme/store"
	"github.com/spf13/cobra"
)

var optInfoJSON bool

// infoCmd represents the info command
var infoCmd = &cobra.Command{
	Use:   "info <file>",
	Short: "Show dataset shape and timepoint count",
	Long: `Print the solution shape stored in a trajectory file.

Examples:
  rdme info run.h5
  rdme info run.h5 --json`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		setDefaultSlog(cmd, args)
		slog.Debug("describing trajectory file", "path", args[0])

		info, err := store.Describe(args[0])
		if err != nil {
			log.Fatalln(err)
		}

		if optInfoJSON {
			out, err := json.MarshalIndent(info, "", "  ")
			if err != nil {
				log.Fatalln(err)
			}
			fmt.Println(string(out))
			return
		}

		fmt.Printf("File:       %s\n", info.Path)
		fmt.Printf("Timepoints: %d\n", info.Timepoints)
		fmt.Printf("Columns:    %d\n", info.Columns)
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
	infoCmd.Flags().BoolVar(&optInfoJSON, "json", false, "emit JSON instead of text")
}
