package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/rdme-xyz/go-rdme/mesh"
	"github.com/rdme-xyz/go-rdme/model"
	"github.com/rdme-xyz/go-rdme/store"
)

// buildInspectionModel derives a model from a trajectory file's column
// count and a species ordering, assuming vertex and dof orders coincide.
// A positive volume fills DofVolumes uniformly; zero leaves it nil.
func buildInspectionModel(path string, species []string, volume float64) (*model.Model, error) {
	if len(species) == 0 {
		return nil, fmt.Errorf("species ordering required: pass --species with the full comma-separated list")
	}
	info, err := store.Describe(path)
	if err != nil {
		return nil, err
	}
	if info.Columns%len(species) != 0 {
		return nil, fmt.Errorf("file has %d columns, not divisible by %d species", info.Columns, len(species))
	}
	numVoxels := info.Columns / len(species)
	slog.Debug("built inspection model", "species", len(species), "voxels", numVoxels)

	m := model.NewModel("inspect")
	for _, s := range species {
		m.AddSpecies(s, 0)
	}
	m.Geometry = mesh.Identity(numVoxels)
	if volume > 0 {
		m.DofVolumes = make([]float64, numVoxels)
		for i := range m.DofVolumes {
			m.DofVolumes[i] = volume
		}
	}
	return m, nil
}

func formatRow(vals []float64) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = fmt.Sprintf("%g", v)
	}
	return strings.Join(parts, " ")
}
