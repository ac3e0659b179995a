package main

import (
	"fmt"
	"log"

	"github.com/rdme-xyz/go-rdme/trajectory"
	"github.com/spf13/cobra"
)

var (
	optSpeciesAt            int
	optSpeciesConcentration bool
	optSpeciesList          []string
	optSpeciesVolume        float64
)

// speciesCmd represents the species command
var speciesCmd = &cobra.Command{
	Use:   "species <file> <name>",
	Short: "Print one species across voxels",
	Long: `Slice a single species out of a trajectory file.

The file interleaves every species, so the command needs the full
species ordering to locate the right block; pass it with --species.
Voxel indexing assumes the vertex and dof orders coincide, which holds
for meshes written in vertex order.

Examples:
  # Whole time series, one row per timepoint
  rdme species run.h5 A --species A,B

  # Final state only
  rdme species run.h5 A --species A,B --at -1

  # Concentrations, with a uniform voxel volume in liters
  rdme species run.h5 A --species A,B --concentration --volume 2.5e-15`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		setDefaultSlog(cmd, args)
		path, name := args[0], args[1]

		volume := 0.0
		if optSpeciesConcentration {
			volume = optSpeciesVolume
		}
		m, err := buildInspectionModel(path, optSpeciesList, volume)
		if err != nil {
			log.Fatalln(err)
		}
		r := trajectory.New(m, path)

		if cmd.Flags().Changed("at") {
			vals, err := r.GetSpeciesAt(name, optSpeciesAt, optSpeciesConcentration)
			if err != nil {
				log.Fatalln(err)
			}
			fmt.Println(formatRow(vals))
			return
		}

		tspan, err := r.Timespan()
		if err != nil {
			log.Fatalln(err)
		}
		mat, err := r.GetSpecies(name, nil, optSpeciesConcentration)
		if err != nil {
			log.Fatalln(err)
		}
		if len(tspan) < mat.Rows {
			log.Fatalf("file has %d timepoints for %d solution rows", len(tspan), mat.Rows)
		}
		for i := 0; i < mat.Rows; i++ {
			fmt.Printf("t=%g: %s\n", tspan[i], formatRow(mat.Row(i)))
		}
	},
}

func init() {
	rootCmd.AddCommand(speciesCmd)
	speciesCmd.Flags().IntVar(&optSpeciesAt, "at", 0, "single timepoint index (negative counts from the end)")
	speciesCmd.Flags().BoolVar(&optSpeciesConcentration, "concentration", false, "convert copy numbers to molar concentration")
	speciesCmd.Flags().StringSliceVar(&optSpeciesList, "species", nil, "full species ordering, comma separated")
	speciesCmd.Flags().Float64Var(&optSpeciesVolume, "volume", 1.0, "uniform voxel volume used with --concentration")
}
