package trajectory

import "fmt"

// DenseState is the fully materialized view of a trajectory: for each
// species, one dof-ordered vector per timepoint holding copy number
// divided by dof volume (no Avogadro factor). Frames are parallel to
// Times.
type DenseState struct {
	Times   []float64
	Species map[string][][]float64
}

// DenseSolution materializes the whole trajectory species by species.
// It walks every species and timepoint through GetSpeciesAt, so the
// cost is species x timepoints file reads; the result is cached and
// later calls are free.
//
// Deprecated: exporters that need per-voxel values should slice with
// GetSpecies instead of materializing everything.
func (r *Result) DenseSolution() (*DenseState, error) {
	if r.denseReady {
		return r.dense, nil
	}
	if r.Model == nil {
		return nil, ErrNoModel
	}
	tspan, err := r.Timespan()
	if err != nil {
		return nil, err
	}
	table, err := r.permutationTable()
	if err != nil {
		return nil, err
	}
	n := table.NumVoxels()

	species := make(map[string][][]float64, r.Model.NumSpecies())
	for _, name := range r.Model.SpeciesNames() {
		frames := make([][]float64, len(tspan))
		for j := range tspan {
			s, err := r.GetSpeciesAt(name, j, false)
			if err != nil {
				return nil, err
			}
			frame := make([]float64, n)
			for vox := 0; vox < n; vox++ {
				ix := table.V2D[vox]
				if ix >= len(r.Model.DofVolumes) {
					return nil, fmt.Errorf("trajectory: dof %d for voxel %d has no volume (model carries %d volumes)",
						ix, vox, len(r.Model.DofVolumes))
				}
				frame[ix] = s[vox] / r.Model.DofVolumes[ix]
			}
			frames[j] = frame
		}
		species[name] = frames
	}

	r.dense = &DenseState{
		Times:   append([]float64(nil), tspan...),
		Species: species,
	}
	r.denseReady = true
	return r.dense, nil
}
