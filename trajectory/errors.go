package trajectory

import (
	"errors"
	"fmt"
)

// ErrNoModel is returned by operations that need an attached model
// when the result was created or restored without one.
var ErrNoModel = errors.New("trajectory: result has no model attached")

// ErrNoFile is returned by operations that need a backing file when
// the result has no data file.
var ErrNoFile = errors.New("trajectory: result has no data file")

// UnknownSpeciesError reports a species lookup that the attached
// model does not know about.
type UnknownSpeciesError struct {
	Name string
}

func (e *UnknownSpeciesError) Error() string {
	return fmt.Sprintf("trajectory: unknown species %q", e.Name)
}

// ReorderError reports an out-of-range index during column
// reordering. Silent misindexing here would return wrong simulation
// data without any signal, so the error carries everything needed to
// diagnose the mismatch between the file and the permutation table.
type ReorderError struct {
	DstRows, DstCols int
	SrcRows, SrcCols int
	Voxel            int
	Species          int
	NumSpecies       int
	DstCol           int
	SrcCol           int
	Mapped           int // permutation value for Voxel
}

func (e *ReorderError) Error() string {
	return fmt.Sprintf(
		"trajectory: reorder out of range at voxel %d, species %d of %d: "+
			"writing column %d of %dx%d from column %d of %dx%d (voxel maps to %d)",
		e.Voxel, e.Species, e.NumSpecies,
		e.DstCol, e.DstRows, e.DstCols,
		e.SrcCol, e.SrcRows, e.SrcCols,
		e.Mapped)
}
