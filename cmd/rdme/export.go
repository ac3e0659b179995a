package main

import (
	"log"
	"log/slog"
	"os"

	"github.com/rdme-xyz/go-rdme/export"
	"github.com/rdme-xyz/go-rdme/trajectory"
	"github.com/spf13/cobra"
)

var (
	optExportSpecies       []string
	optExportOut           string
	optExportFormat        string
	optExportConcentration bool
	optExportVolume        float64
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Dump a trajectory to CSV or JSON Lines",
	Long: `Export trajectory data to flat files.

csv writes one file per species into the output directory, named
species_<name>.csv with a Time column and one column per voxel.
jsonl writes one JSON object per timepoint to the output file, or to
stdout when -o is omitted.

Examples:
  rdme export run.h5 --species A,B --format csv -o dump/
  rdme export run.h5 --species A,B --format jsonl -o frames.jsonl
  rdme export run.h5 --species A,B --format jsonl`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		setDefaultSlog(cmd, args)
		path := args[0]

		volume := 0.0
		if optExportConcentration {
			volume = optExportVolume
		}
		m, err := buildInspectionModel(path, optExportSpecies, volume)
		if err != nil {
			log.Fatalln(err)
		}
		r := trajectory.New(m, path)
		opts := export.Options{Concentration: optExportConcentration}

		switch optExportFormat {
		case "csv":
			if optExportOut == "" {
				log.Fatalln("csv export writes a directory: pass -o")
			}
			if err := export.CSV(r, optExportOut, opts); err != nil {
				log.Fatalln(err)
			}
			slog.Info("exported", "format", "csv", "dir", optExportOut, "species", len(optExportSpecies))
		case "jsonl":
			if optExportOut == "" {
				if err := export.JSONL(r, os.Stdout, opts); err != nil {
					log.Fatalln(err)
				}
				return
			}
			if err := export.JSONLFile(r, optExportOut, opts); err != nil {
				log.Fatalln(err)
			}
			slog.Info("exported", "format", "jsonl", "path", optExportOut)
		default:
			log.Fatalf("unknown format %q: want csv or jsonl", optExportFormat)
		}
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringSliceVar(&optExportSpecies, "species", nil, "full species ordering, comma separated")
	exportCmd.Flags().StringVarP(&optExportOut, "output", "o", "", "output directory (csv) or file (jsonl)")
	exportCmd.Flags().StringVar(&optExportFormat, "format", "csv", "export format: csv or jsonl")
	exportCmd.Flags().BoolVar(&optExportConcentration, "concentration", false, "convert copy numbers to molar concentration")
	exportCmd.Flags().Float64Var(&optExportVolume, "volume", 1.0, "uniform voxel volume used with --concentration")
}
