package store

import (
	"fmt"
	"os"

	"github.com/robert-malhotra/go-hdf5/hdf5"
)

// Dataset names inside a result container.
const (
	SolutionDataset = "U"
	TimespanDataset = "tspan"

	// shapeAttr records the 2-D shape of the flat solution dataset
	// written by WriteSolution.
	shapeAttr = "shape"
)

// Error wraps a backing-file failure with the operation and path that
// hit it.
type Error struct {
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("store: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func storeErr(op, path string, err error) error {
	return &Error{Op: op, Path: path, Err: err}
}

// Info describes a result container without loading its bulk data.
type Info struct {
	Path       string `json:"path"`
	Timepoints int    `json:"timepoints"`
	Columns    int    `json:"columns"`
}

// ReadSolution reads the full solution matrix and time vector. The
// matrix comes back dof-ordered, exactly as the solver wrote it.
func ReadSolution(path string) (*Matrix, []float64, error) {
	return readContainer(path)
}

// ReadTimespan reads just the time vector, fresh from disk.
func ReadTimespan(path string) ([]float64, error) {
	f, err := hdf5.Open(path)
	if err != nil {
		return nil, storeErr("open", path, err)
	}
	defer f.Close()

	tspan, err := readTimespan(f)
	if err != nil {
		return nil, storeErr("read", path, err)
	}
	return tspan, nil
}

// ReadColumnWindow reads columns [lo,hi) of the solution matrix for
// the selected rows. rows may be nil for every timepoint; negative
// indices count from the end per the usual sequence rules. The file is
// opened and closed within the call, so the result is always fresh
// from disk.
func ReadColumnWindow(path string, rows []int, lo, hi int) (*Matrix, error) {
	u, _, err := readContainer(path)
	if err != nil {
		return nil, err
	}
	out, err := sliceWindow(u, rows, lo, hi)
	if err != nil {
		return nil, storeErr("slice", path, err)
	}
	return out, nil
}

// ReadBlockWindow reads one block of a solution whose columns divide
// into numBlocks equal contiguous blocks, for the selected rows (nil
// rows = all). A column count that does not divide evenly is reported
// as an error rather than truncated. One open/close per call, like
// ReadColumnWindow.
func ReadBlockWindow(path string, rows []int, block, numBlocks int) (*Matrix, error) {
	if numBlocks <= 0 {
		return nil, storeErr("slice", path, fmt.Errorf("invalid block count %d", numBlocks))
	}
	u, _, err := readContainer(path)
	if err != nil {
		return nil, err
	}
	if u.Cols%numBlocks != 0 {
		return nil, storeErr("slice", path, fmt.Errorf("dataset has %d columns, not divisible into %d blocks", u.Cols, numBlocks))
	}
	if block < 0 || block >= numBlocks {
		return nil, storeErr("slice", path, fmt.Errorf("block %d out of range [0,%d)", block, numBlocks))
	}
	w := u.Cols / numBlocks
	out, err := sliceWindow(u, rows, block*w, (block+1)*w)
	if err != nil {
		return nil, storeErr("slice", path, err)
	}
	return out, nil
}

func sliceWindow(u *Matrix, rows []int, lo, hi int) (*Matrix, error) {
	if lo < 0 || hi < lo {
		return nil, fmt.Errorf("invalid column window [%d,%d)", lo, hi)
	}
	if hi > u.Cols {
		return nil, fmt.Errorf("column window [%d,%d) out of bounds: dataset has %d columns", lo, hi, u.Cols)
	}
	sel, err := resolveRows(rows, u.Rows)
	if err != nil {
		return nil, err
	}
	out := NewMatrix(len(sel), hi-lo)
	for i, r := range sel {
		copy(out.Row(i), u.Row(r)[lo:hi])
	}
	return out, nil
}

// resolveRows maps a row selection (possibly negative) onto concrete
// indices. nil selects every row.
func resolveRows(rows []int, n int) ([]int, error) {
	if rows == nil {
		sel := make([]int, n)
		for i := range sel {
			sel[i] = i
		}
		return sel, nil
	}
	sel := make([]int, len(rows))
	for i, r := range rows {
		idx := r
		if idx < 0 {
			idx += n
		}
		if idx < 0 || idx >= n {
			return nil, fmt.Errorf("timepoint index %d out of range for %d timepoints", r, n)
		}
		sel[i] = idx
	}
	return sel, nil
}

// Describe reports the container's dataset shapes.
func Describe(path string) (*Info, error) {
	f, err := hdf5.Open(path)
	if err != nil {
		return nil, storeErr("open", path, err)
	}
	defer f.Close()

	tspan, err := readTimespan(f)
	if err != nil {
		return nil, storeErr("read", path, err)
	}

	ds, err := f.OpenDataset(SolutionDataset)
	if err != nil {
		return nil, storeErr("read", path, fmt.Errorf("dataset %q: %w", SolutionDataset, err))
	}
	rows, cols, err := solutionShape(ds, len(tspan))
	if err != nil {
		return nil, storeErr("read", path, err)
	}
	if rows != len(tspan) {
		return nil, storeErr("read", path, fmt.Errorf("solution has %d rows for %d timepoints", rows, len(tspan)))
	}

	return &Info{Path: path, Timepoints: len(tspan), Columns: cols}, nil
}

// WriteSolution creates a result container holding the solution matrix
// and time vector. The matrix must have one row per timepoint. U is
// stored flat with its shape in an attribute; readers rebuild the 2-D
// view from it.
func WriteSolution(path string, u *Matrix, tspan []float64) error {
	if u == nil {
		return storeErr("write", path, fmt.Errorf("nil solution matrix"))
	}
	if u.Rows != len(tspan) {
		return storeErr("write", path, fmt.Errorf("solution has %d rows for %d timepoints", u.Rows, len(tspan)))
	}

	f, err := hdf5.Create(path)
	if err != nil {
		return storeErr("create", path, err)
	}

	root := f.Root()
	if _, err := root.CreateDataset(TimespanDataset, tspan); err != nil {
		f.Close()
		os.Remove(path)
		return storeErr("write", path, fmt.Errorf("dataset %q: %w", TimespanDataset, err))
	}
	shape := []int64{int64(u.Rows), int64(u.Cols)}
	if _, err := root.CreateDataset(SolutionDataset, u.Data, hdf5.WithAttribute(shapeAttr, shape)); err != nil {
		f.Close()
		os.Remove(path)
		return storeErr("write", path, fmt.Errorf("dataset %q: %w", SolutionDataset, err))
	}

	if err := f.Close(); err != nil {
		os.Remove(path)
		return storeErr("close", path, err)
	}
	return nil
}

// readContainer performs the shared open/read/close cycle: one open,
// both datasets, closed before returning.
func readContainer(path string) (*Matrix, []float64, error) {
	f, err := hdf5.Open(path)
	if err != nil {
		return nil, nil, storeErr("open", path, err)
	}
	defer f.Close()

	tspan, err := readTimespan(f)
	if err != nil {
		return nil, nil, storeErr("read", path, err)
	}
	u, err := readSolution(f, len(tspan))
	if err != nil {
		return nil, nil, storeErr("read", path, err)
	}
	return u, tspan, nil
}

func readTimespan(f *hdf5.File) ([]float64, error) {
	ds, err := f.OpenDataset(TimespanDataset)
	if err != nil {
		return nil, fmt.Errorf("dataset %q: %w", TimespanDataset, err)
	}
	// reading into a flat slice flattens any rank, like the flatten()
	// the time vector gets on the producer side
	var tspan []float64
	if err := ds.Read(&tspan); err != nil {
		return nil, fmt.Errorf("dataset %q: %w", TimespanDataset, err)
	}
	return tspan, nil
}

func readSolution(f *hdf5.File, numTimepoints int) (*Matrix, error) {
	ds, err := f.OpenDataset(SolutionDataset)
	if err != nil {
		return nil, fmt.Errorf("dataset %q: %w", SolutionDataset, err)
	}
	rows, cols, err := solutionShape(ds, numTimepoints)
	if err != nil {
		return nil, err
	}
	var data []float64
	if err := ds.Read(&data); err != nil {
		return nil, fmt.Errorf("dataset %q: %w", SolutionDataset, err)
	}
	if len(data) != rows*cols {
		return nil, fmt.Errorf("dataset %q has %d values, want %dx%d", SolutionDataset, len(data), rows, cols)
	}
	return &Matrix{Rows: rows, Cols: cols, Data: data}, nil
}

// solutionShape determines the 2-D shape of the solution dataset. It
// accepts a true rank-2 dataset (h5py-style producers), a flat dataset
// carrying the shape attribute (this package's writer), or, failing
// both, a flat dataset whose width is derived from the timepoint
// count.
func solutionShape(ds *hdf5.Dataset, numTimepoints int) (int, int, error) {
	if ds.Rank() == 2 {
		s := ds.Shape()
		return int(s[0]), int(s[1]), nil
	}
	if ds.HasAttr(shapeAttr) {
		dims, err := ds.Attr(shapeAttr).ReadInt64()
		if err != nil {
			return 0, 0, fmt.Errorf("attribute %q: %w", shapeAttr, err)
		}
		if len(dims) != 2 {
			return 0, 0, fmt.Errorf("attribute %q has %d entries, want 2", shapeAttr, len(dims))
		}
		return int(dims[0]), int(dims[1]), nil
	}
	n := int(ds.NumElements())
	if numTimepoints <= 0 || n%numTimepoints != 0 {
		return 0, 0, fmt.Errorf("cannot infer solution shape: %d values across %d timepoints", n, numTimepoints)
	}
	return numTimepoints, n / numTimepoints, nil
}
