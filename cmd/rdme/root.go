package main

import (
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var optVerbose bool

// rootCmd is the base of the command tree; subcommands attach themselves
// in their own init functions.
var rootCmd = &cobra.Command{
	Use:   "rdme",
	Short: "Inspect and manage spatial simulation trajectories",
	Long: `rdme reads trajectory files written by a spatial stochastic solver
and slices, snapshots, and catalogs them.

Every flag can also be set through the environment with an RDME_ prefix,
so RDME_CATALOG names the catalog database and RDME_TMPDIR picks where
restored trajectory files land.

Examples:
  # Show the stored solution shape
  rdme info run.h5

  # Print one species over time
  rdme species run.h5 A --species A,B

  # Bundle a run into a portable snapshot and store it
  rdme snapshot save run.h5 -o run.json
  rdme catalog save run.json --catalog runs.db`,
}

// Execute runs the command tree. Called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&optVerbose, "verbose", false, "enable debug logging")

	viper.SetEnvPrefix("RDME")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// setDefaultSlog installs the process-wide logger on stderr, honoring
// --verbose. Subcommands call it first thing in Run so stdout stays
// reserved for command output.
func setDefaultSlog(cmd *cobra.Command, args []string) {
	level := slog.LevelInfo
	if viper.GetBool("verbose") {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
}
