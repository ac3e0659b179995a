package store_test

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/robert-malhotra/go-hdf5/hdf5"

	"github.com/rdme-xyz/go-rdme/store"
)

// writeFixture creates a container on disk and returns its path along
// with the matrix and timespan it holds.
func writeFixture(t *testing.T) (string, *store.Matrix, []float64) {
	t.Helper()
	u, err := store.MatrixFromRows([][]float64{
		{1, 2, 3, 4},
		{5, 6, 7, 8},
		{9, 10, 11, 12},
	})
	if err != nil {
		t.Fatalf("building fixture matrix: %v", err)
	}
	tspan := []float64{0, 0.5, 1.0}
	path := filepath.Join(t.TempDir(), "result.h5")
	if err := store.WriteSolution(path, u, tspan); err != nil {
		t.Fatalf("WriteSolution failed: %v", err)
	}
	return path, u, tspan
}

func TestSolutionRoundTrip(t *testing.T) {
	path, u, tspan := writeFixture(t)

	got, gotTspan, err := store.ReadSolution(path)
	if err != nil {
		t.Fatalf("ReadSolution failed: %v", err)
	}
	if !got.Equal(u) {
		t.Errorf("solution mismatch: got %v, want %v", got.Data, u.Data)
	}
	if len(gotTspan) != len(tspan) {
		t.Fatalf("expected %d timepoints, got %d", len(tspan), len(gotTspan))
	}
	for i := range tspan {
		if gotTspan[i] != tspan[i] {
			t.Errorf("tspan[%d] = %v, want %v", i, gotTspan[i], tspan[i])
		}
	}
}

func TestReadTimespan(t *testing.T) {
	path, _, tspan := writeFixture(t)

	got, err := store.ReadTimespan(path)
	if err != nil {
		t.Fatalf("ReadTimespan failed: %v", err)
	}
	if len(got) != len(tspan) || got[2] != 1.0 {
		t.Errorf("unexpected timespan: %v", got)
	}
}

func TestReadColumnWindow(t *testing.T) {
	path, _, _ := writeFixture(t)

	t.Run("all rows", func(t *testing.T) {
		got, err := store.ReadColumnWindow(path, nil, 2, 4)
		if err != nil {
			t.Fatalf("ReadColumnWindow failed: %v", err)
		}
		want, _ := store.MatrixFromRows([][]float64{{3, 4}, {7, 8}, {11, 12}})
		if !got.Equal(want) {
			t.Errorf("got %v, want %v", got.Data, want.Data)
		}
	})

	t.Run("selected rows", func(t *testing.T) {
		got, err := store.ReadColumnWindow(path, []int{2, 0}, 0, 2)
		if err != nil {
			t.Fatalf("ReadColumnWindow failed: %v", err)
		}
		want, _ := store.MatrixFromRows([][]float64{{9, 10}, {1, 2}})
		if !got.Equal(want) {
			t.Errorf("got %v, want %v", got.Data, want.Data)
		}
	})

	t.Run("negative row counts from the end", func(t *testing.T) {
		got, err := store.ReadColumnWindow(path, []int{-1}, 0, 4)
		if err != nil {
			t.Fatalf("ReadColumnWindow failed: %v", err)
		}
		want, _ := store.MatrixFromRows([][]float64{{9, 10, 11, 12}})
		if !got.Equal(want) {
			t.Errorf("got %v, want %v", got.Data, want.Data)
		}
	})

	t.Run("row out of range", func(t *testing.T) {
		_, err := store.ReadColumnWindow(path, []int{3}, 0, 4)
		if err == nil {
			t.Fatal("expected error for out-of-range row")
		}
		if !strings.Contains(err.Error(), "timepoint index 3") {
			t.Errorf("error should name the bad index: %v", err)
		}
	})

	t.Run("window out of bounds", func(t *testing.T) {
		_, err := store.ReadColumnWindow(path, nil, 2, 6)
		if err == nil {
			t.Fatal("expected error for out-of-bounds window")
		}
		if !strings.Contains(err.Error(), "out of bounds") {
			t.Errorf("error should flag the window: %v", err)
		}
	})
}

func TestReadBlockWindow(t *testing.T) {
	path, _, _ := writeFixture(t)

	t.Run("second of two blocks", func(t *testing.T) {
		got, err := store.ReadBlockWindow(path, nil, 1, 2)
		if err != nil {
			t.Fatalf("ReadBlockWindow failed: %v", err)
		}
		want, _ := store.MatrixFromRows([][]float64{{3, 4}, {7, 8}, {11, 12}})
		if !got.Equal(want) {
			t.Errorf("got %v, want %v", got.Data, want.Data)
		}
	})

	t.Run("first block at the last row", func(t *testing.T) {
		got, err := store.ReadBlockWindow(path, []int{-1}, 0, 2)
		if err != nil {
			t.Fatalf("ReadBlockWindow failed: %v", err)
		}
		want, _ := store.MatrixFromRows([][]float64{{9, 10}})
		if !got.Equal(want) {
			t.Errorf("got %v, want %v", got.Data, want.Data)
		}
	})

	t.Run("column count not divisible", func(t *testing.T) {
		_, err := store.ReadBlockWindow(path, nil, 0, 3)
		if err == nil {
			t.Fatal("expected error for non-divisible column count")
		}
		if !strings.Contains(err.Error(), "not divisible") {
			t.Errorf("error should flag divisibility: %v", err)
		}
	})

	t.Run("block out of range", func(t *testing.T) {
		_, err := store.ReadBlockWindow(path, nil, 2, 2)
		if err == nil {
			t.Fatal("expected error for out-of-range block")
		}
		if !strings.Contains(err.Error(), "out of range") {
			t.Errorf("error should flag the block index: %v", err)
		}
	})

	t.Run("invalid block count", func(t *testing.T) {
		_, err := store.ReadBlockWindow(path, nil, 0, 0)
		if err == nil {
			t.Fatal("expected error for zero block count")
		}
		if !strings.Contains(err.Error(), "invalid block count") {
			t.Errorf("error should flag the count: %v", err)
		}
	})
}

func TestDescribe(t *testing.T) {
	path, _, _ := writeFixture(t)

	info, err := store.Describe(path)
	if err != nil {
		t.Fatalf("Describe failed: %v", err)
	}
	if info.Timepoints != 3 || info.Columns != 4 {
		t.Errorf("expected 3 timepoints x 4 columns, got %d x %d", info.Timepoints, info.Columns)
	}
	if info.Path != path {
		t.Errorf("expected path %q, got %q", path, info.Path)
	}
}

func TestMissingFile(t *testing.T) {
	_, _, err := store.ReadSolution(filepath.Join(t.TempDir(), "nope.h5"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	var serr *store.Error
	if !errors.As(err, &serr) {
		t.Fatalf("expected *store.Error, got %T", err)
	}
	if serr.Op != "open" {
		t.Errorf("expected op %q, got %q", "open", serr.Op)
	}
}

func TestMissingSolutionDataset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.h5")
	f, err := hdf5.Create(path)
	if err != nil {
		t.Fatalf("creating fixture: %v", err)
	}
	if _, err := f.Root().CreateDataset("tspan", []float64{0, 1}); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("closing fixture: %v", err)
	}

	_, _, err = store.ReadSolution(path)
	if err == nil {
		t.Fatal("expected error for missing solution dataset")
	}
	if !strings.Contains(err.Error(), `"U"`) {
		t.Errorf("error should name the missing dataset: %v", err)
	}
}

func TestWriteSolutionRowMismatch(t *testing.T) {
	u, _ := store.MatrixFromRows([][]float64{{1, 2}, {3, 4}})
	err := store.WriteSolution(filepath.Join(t.TempDir(), "bad.h5"), u, []float64{0})
	if err == nil {
		t.Fatal("expected error for row/timepoint mismatch")
	}
	if !strings.Contains(err.Error(), "2 rows for 1 timepoints") {
		t.Errorf("error should describe the mismatch: %v", err)
	}
}
