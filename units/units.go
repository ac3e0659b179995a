// Package units converts raw copy numbers into molar concentrations
// using per-voxel volumes.
package units

import (
	"fmt"

	"github.com/rdme-xyz/go-rdme/store"
)

// Avogadro is the number of molecules per mole.
const Avogadro = 6.022e23

// Converter scales copy numbers by voxel volume. Volumes must be in
// dof order: column i of the input matrix is divided by Volumes[i].
type Converter struct {
	Volumes []float64
}

// NewConverter returns a Converter over the given dof-ordered volumes.
func NewConverter(volumes []float64) *Converter {
	return &Converter{Volumes: volumes}
}

// Concentrations returns a fresh matrix holding m scaled to molar
// concentration: value / (Avogadro * volume). The input is not
// modified.
func (c *Converter) Concentrations(m *store.Matrix) (*store.Matrix, error) {
	if m.Cols > len(c.Volumes) {
		return nil, fmt.Errorf("units: matrix has %d columns but only %d volumes are known", m.Cols, len(c.Volumes))
	}
	out := m.Clone()
	for t := 0; t < out.Rows; t++ {
		row := out.Row(t)
		for i := range row {
			row[i] /= Avogadro * c.Volumes[i]
		}
	}
	return out, nil
}
