// Package trajectory provides access to one spatial stochastic
// simulation trajectory stored in a backing result file. A Result
// resolves species slices on demand, remaps the solver's dof column
// ordering into the caller-facing voxel ordering, and owns the
// lifecycle of the file behind it, including snapshot, restore and
// removal.
package trajectory

import (
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/rdme-xyz/go-rdme/mesh"
	"github.com/rdme-xyz/go-rdme/model"
	"github.com/rdme-xyz/go-rdme/store"
	"github.com/rdme-xyz/go-rdme/units"
)

// Result is one simulation trajectory. The zero-value fields populate
// lazily: nothing is read from the backing file until an accessor
// needs it. A Result is not safe for concurrent use.
type Result struct {
	ID     string
	Model  *model.Model
	Path   string
	Stdout string
	Stderr string

	table      *mesh.Table
	tspan      []float64
	u          *store.Matrix
	loaded     bool
	dense      *DenseState
	denseReady bool
}

// New returns a Result bound to a backing file. path may be empty for
// a result a runner will fill in later.
func New(m *model.Model, path string) *Result {
	return &Result{ID: uuid.NewString(), Model: m, Path: path}
}

// AttachModel binds a model to a result that was restored or created
// without one.
func (r *Result) AttachModel(m *model.Model) {
	r.Model = m
}

// permutationTable returns the table for this result, preferring one
// carried over from a restore and falling back to the model's.
func (r *Result) permutationTable() (*mesh.Table, error) {
	if r.table != nil {
		return r.table, nil
	}
	if r.Model == nil {
		return nil, ErrNoModel
	}
	t, err := r.Model.Table()
	if err != nil {
		return nil, err
	}
	r.table = t
	return t, nil
}

// load reads the backing file once, reorders the solution into voxel
// order and caches it alongside the time vector.
func (r *Result) load() error {
	if r.loaded {
		return nil
	}
	if r.Path == "" {
		return ErrNoFile
	}
	if r.Model == nil {
		return ErrNoModel
	}
	u, tspan, err := store.ReadSolution(r.Path)
	if err != nil {
		return err
	}
	table, err := r.permutationTable()
	if err != nil {
		return err
	}
	ordered, err := reorderDofToVoxel(u, table, r.Model.NumSpecies())
	if err != nil {
		return err
	}
	r.u = ordered
	r.tspan = tspan
	r.loaded = true
	return nil
}

// Timespan returns the trajectory's time vector. The first call
// triggers the full load; every call re-reads the vector fresh from
// the backing file and updates the cache, so a file rewritten in
// place shows up here even though SolutionMatrix keeps serving the
// matrix cached at load time.
func (r *Result) Timespan() ([]float64, error) {
	if err := r.load(); err != nil {
		return nil, err
	}
	tspan, err := store.ReadTimespan(r.Path)
	if err != nil {
		return nil, err
	}
	r.tspan = tspan
	return r.tspan, nil
}

// SolutionMatrix returns the full voxel-ordered solution, loading it
// on first use and serving the cached copy afterwards.
func (r *Result) SolutionMatrix() (*store.Matrix, error) {
	if err := r.load(); err != nil {
		return nil, err
	}
	return r.u, nil
}

// speciesName resolves the flexible species argument: a name, a
// model.Species, or a *model.Species.
func speciesName(species any) (string, error) {
	switch s := species.(type) {
	case string:
		return s, nil
	case model.Species:
		return s.Name, nil
	case *model.Species:
		if s == nil {
			return "", fmt.Errorf("trajectory: nil species")
		}
		return s.Name, nil
	default:
		return "", fmt.Errorf("trajectory: species must be a name or model.Species, got %T", species)
	}
}

// timepointRows resolves the flexible timepoints argument: nil or
// "all" select every row, an int selects one (negative counts from
// the end), []int selects several.
func timepointRows(timepoints any) ([]int, error) {
	switch t := timepoints.(type) {
	case nil:
		return nil, nil
	case string:
		if t == "all" {
			return nil, nil
		}
		return nil, fmt.Errorf("trajectory: unknown timepoint selector %q", t)
	case int:
		return []int{t}, nil
	case []int:
		return t, nil
	default:
		return nil, fmt.Errorf(`trajectory: timepoints must be "all", an int, or []int, got %T`, timepoints)
	}
}

// GetSpecies returns the trajectory of one species, one row per
// selected timepoint and one column per voxel, in voxel order. It
// slices the backing file directly, opening and closing it within the
// call; the Result's cached solution is never consulted or populated.
// With concentration set, raw copy numbers are scaled by
// 1/(Avogadro * dof volume) before reordering.
func (r *Result) GetSpecies(species, timepoints any, concentration bool) (*store.Matrix, error) {
	if r.Model == nil {
		return nil, ErrNoModel
	}
	if r.Path == "" {
		return nil, ErrNoFile
	}
	name, err := speciesName(species)
	if err != nil {
		return nil, err
	}
	idx, ok := r.Model.SpeciesMap()[name]
	if !ok {
		return nil, &UnknownSpeciesError{Name: name}
	}
	rows, err := timepointRows(timepoints)
	if err != nil {
		return nil, err
	}

	window, err := store.ReadBlockWindow(r.Path, rows, idx, r.Model.NumSpecies())
	if err != nil {
		return nil, err
	}

	// Concentration scaling comes before reordering: the window is
	// still dof-ordered here, and the volume weights are indexed by
	// dof.
	if concentration {
		conv := units.NewConverter(r.Model.DofVolumes)
		window, err = conv.Concentrations(window)
		if err != nil {
			return nil, err
		}
	}

	table, err := r.permutationTable()
	if err != nil {
		return nil, err
	}
	return reorderDofToVoxel(window, table, 1)
}

// GetSpeciesAt returns one species at one timepoint as a flat
// voxel-ordered vector. Negative indices count from the end, so -1 is
// the final timepoint.
func (r *Result) GetSpeciesAt(species any, timepoint int, concentration bool) ([]float64, error) {
	m, err := r.GetSpecies(species, timepoint, concentration)
	if err != nil {
		return nil, err
	}
	return m.Row(0), nil
}

// Equal reports whether two results describe the same trajectory:
// identical timespans and identical values for every species the
// attached model lists, at every timepoint. Any failure to compare,
// from missing files to shape mismatches, reports false; Equal never
// returns an error.
func (r *Result) Equal(other *Result) bool {
	if other == nil {
		return false
	}
	tspan, err := r.Timespan()
	if err != nil {
		return false
	}
	otherTspan, err := other.Timespan()
	if err != nil {
		return false
	}
	if len(tspan) != len(otherTspan) {
		return false
	}
	for i := range tspan {
		if tspan[i] != otherTspan[i] {
			return false
		}
	}
	if r.Model == nil {
		return false
	}
	for _, name := range r.Model.SpeciesNames() {
		for i := range tspan {
			mine, err := r.GetSpeciesAt(name, i, false)
			if err != nil {
				return false
			}
			theirs, err := other.GetSpeciesAt(name, i, false)
			if err != nil {
				return false
			}
			if len(mine) != len(theirs) {
				return false
			}
			for v := range mine {
				if mine[v] != theirs[v] {
					return false
				}
			}
		}
	}
	return true
}

// EndtimeModel returns a copy of the attached model whose initial
// state is this trajectory's final timepoint, so a new run can
// continue where this one stopped.
func (r *Result) EndtimeModel() (*model.Model, error) {
	if r.Model == nil {
		return nil, ErrNoModel
	}
	next := r.Model.Clone()
	for _, name := range r.Model.SpeciesNames() {
		final, err := r.GetSpeciesAt(name, -1, false)
		if err != nil {
			return nil, err
		}
		if err := next.SetInitialState(name, final); err != nil {
			return nil, err
		}
	}
	return next, nil
}

// Close removes the backing file. Results are routinely closed after
// the file has already been moved or deleted, so removal failures are
// deliberately discarded; Close is idempotent and always returns nil.
func (r *Result) Close() error {
	if r.Path == "" {
		return nil
	}
	os.Remove(r.Path)
	return nil
}
