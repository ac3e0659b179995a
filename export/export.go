// Package export writes trajectory data to flat interchange formats:
// one CSV file per species, or JSON Lines with one frame per timepoint.
package export

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/rdme-xyz/go-rdme/store"
	"github.com/rdme-xyz/go-rdme/trajectory"
)

// Options configures what the exporters write.
type Options struct {
	Concentration bool // write molar concentrations instead of copy numbers
}

// CSV dumps a trajectory to a set of CSV files inside dir, one per
// species, named species_<name>.csv. Columns are Time followed by one
// column per voxel. The directory is created if absent.
func CSV(r *trajectory.Result, dir string, opts Options) error {
	if r.Model == nil {
		return trajectory.ErrNoModel
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("export: creating %s: %w", dir, err)
	}
	for _, name := range r.Model.SpeciesNames() {
		path := filepath.Join(dir, "species_"+name+".csv")
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("export: creating %s: %w", path, err)
		}
		err = CSVSpecies(r, name, f, opts)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return fmt.Errorf("export: writing %s: %w", path, err)
		}
	}
	return nil
}

// CSVSpecies writes one species as CSV: a Time column followed by one
// column per voxel, one row per timepoint.
func CSVSpecies(r *trajectory.Result, species string, w io.Writer, opts Options) error {
	tspan, err := r.Timespan()
	if err != nil {
		return err
	}
	mat, err := r.GetSpecies(species, nil, opts.Concentration)
	if err != nil {
		return err
	}
	if len(tspan) < mat.Rows {
		return fmt.Errorf("export: %d timepoints for %d solution rows", len(tspan), mat.Rows)
	}

	cw := csv.NewWriter(w)
	header := make([]string, mat.Cols+1)
	header[0] = "Time"
	for v := 0; v < mat.Cols; v++ {
		header[v+1] = fmt.Sprintf("Voxel %d", v)
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	record := make([]string, mat.Cols+1)
	for i := 0; i < mat.Rows; i++ {
		record[0] = formatFloat(tspan[i])
		for j, v := range mat.Row(i) {
			record[j+1] = formatFloat(v)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Frame is one JSONL line: a timepoint with per-species voxel values,
// voxel ordered.
type Frame struct {
	Time    float64              `json:"time"`
	Species map[string][]float64 `json:"species"`
}

// JSONL writes the trajectory as JSON Lines, one frame per timepoint.
// Every species is read once up front, so the backing file is opened
// once per species rather than once per frame.
func JSONL(r *trajectory.Result, w io.Writer, opts Options) error {
	if r.Model == nil {
		return trajectory.ErrNoModel
	}
	tspan, err := r.Timespan()
	if err != nil {
		return err
	}
	names := r.Model.SpeciesNames()
	series := make(map[string]*store.Matrix, len(names))
	rows := len(tspan)
	for _, name := range names {
		mat, err := r.GetSpecies(name, nil, opts.Concentration)
		if err != nil {
			return err
		}
		if mat.Rows < rows {
			rows = mat.Rows
		}
		series[name] = mat
	}

	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	for i := 0; i < rows; i++ {
		frame := Frame{Time: tspan[i], Species: make(map[string][]float64, len(names))}
		for _, name := range names {
			frame.Species[name] = series[name].Row(i)
		}
		if err := enc.Encode(frame); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// JSONLFile writes the trajectory as JSON Lines to a file.
func JSONLFile(r *trajectory.Result, path string, opts Options) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: creating %s: %w", path, err)
	}
	err = JSONL(r, f, opts)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("export: writing %s: %w", path, err)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
