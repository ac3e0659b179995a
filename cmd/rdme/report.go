package main

import (
	"encoding/json"
	"fmt"
	"log"
	"sort"

	"github.com/rdme-xyz/go-rdme/analysis"
	"github.com/rdme-xyz/go-rdme/trajectory"
	"github.com/spf13/cobra"
)

var (
	optReportSpecies []string
	optReportJSON    bool
)

// reportCmd represents the report command
var reportCmd = &cobra.Command{
	Use:   "report <file>",
	Short: "Compute insights from a trajectory",
	Long: `Analyze total populations per species: summary statistics, peaks,
and steady-state detection.

Examples:
  rdme report run.h5 --species A,B
  rdme report run.h5 --species A,B --json`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		setDefaultSlog(cmd, args)
		path := args[0]

		m, err := buildInspectionModel(path, optReportSpecies, 0)
		if err != nil {
			log.Fatalln(err)
		}
		r := trajectory.New(m, path)
		rep, err := analysis.NewAnalyzer(r).Report()
		if err != nil {
			log.Fatalln(err)
		}

		if optReportJSON {
			out, err := json.MarshalIndent(rep, "", "  ")
			if err != nil {
				log.Fatalln(err)
			}
			fmt.Println(string(out))
			return
		}
		printReport(rep)
	},
}

func printReport(rep *analysis.Report) {
	if rep.Model != "" {
		fmt.Printf("=== Analysis: %s ===\n\n", rep.Model)
	}

	if len(rep.Peaks) > 0 {
		fmt.Println("Peaks:")
		for _, p := range rep.Peaks {
			fmt.Printf("  %s: %.2f at t=%.2f (prominence: %.2f)\n",
				p.Species, p.Value, p.Time, p.Prominence)
		}
		fmt.Println()
	}

	names := make([]string, 0, len(rep.Statistics))
	for name := range rep.Statistics {
		names = append(names, name)
	}
	sort.Strings(names)

	if len(rep.SteadyState) > 0 {
		fmt.Println("Steady State:")
		for _, name := range names {
			ss, ok := rep.SteadyState[name]
			if !ok {
				continue
			}
			if ss.Reached {
				fmt.Printf("  %s: reached at t=%.2f\n", name, ss.Time)
			} else {
				fmt.Printf("  %s: not reached\n", name)
			}
		}
		fmt.Println()
	}

	fmt.Println("Statistics:")
	for _, name := range names {
		stat := rep.Statistics[name]
		fmt.Printf("  %s:\n", name)
		fmt.Printf("    Min:    %.2f\n", stat.Min)
		fmt.Printf("    Max:    %.2f\n", stat.Max)
		fmt.Printf("    Mean:   %.2f\n", stat.Mean)
		fmt.Printf("    Median: %.2f\n", stat.Median)
		fmt.Printf("    Std:    %.2f\n", stat.Std)
		fmt.Printf("    Final:  %.2f\n", stat.Final)
	}
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().StringSliceVar(&optReportSpecies, "species", nil, "full species ordering, comma separated")
	reportCmd.Flags().BoolVar(&optReportJSON, "json", false, "emit JSON instead of text")
}
