package export_test

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/rdme-xyz/go-rdme/export"
	"github.com/rdme-xyz/go-rdme/mesh"
	"github.com/rdme-xyz/go-rdme/model"
	"github.com/rdme-xyz/go-rdme/store"
	"github.com/rdme-xyz/go-rdme/trajectory"
	"github.com/rdme-xyz/go-rdme/units"
)

// testResult writes a small two-species trajectory and wraps it in a
// result ready for export.
func testResult(t *testing.T) *trajectory.Result {
	t.Helper()
	m := model.NewModel("osc")
	m.AddSpecies("A", 0.01)
	m.AddSpecies("B", 0.02)
	m.Geometry = mesh.NewStaticGeometry([]int{1, 0}, []int{1, 0})
	m.DofVolumes = []float64{2.0, 4.0}

	u, err := store.MatrixFromRows([][]float64{
		{1, 2, 3, 4},
		{5, 6, 7, 8},
		{9, 10, 11, 12},
	})
	if err != nil {
		t.Fatalf("building fixture matrix: %v", err)
	}
	path := filepath.Join(t.TempDir(), "result.h5")
	if err := store.WriteSolution(path, u, []float64{0, 1, 2}); err != nil {
		t.Fatalf("WriteSolution failed: %v", err)
	}
	return trajectory.New(m, path)
}

func TestCSVSpecies(t *testing.T) {
	r := testResult(t)

	var buf bytes.Buffer
	if err := export.CSVSpecies(r, "A", &buf, export.Options{}); err != nil {
		t.Fatalf("CSVSpecies failed: %v", err)
	}

	want := strings.Join([]string{
		"Time,Voxel 0,Voxel 1",
		"0,2,1",
		"1,6,5",
		"2,10,9",
	}, "\n") + "\n"
	if buf.String() != want {
		t.Errorf("got:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestCSVWritesOneFilePerSpecies(t *testing.T) {
	r := testResult(t)
	dir := filepath.Join(t.TempDir(), "dump")

	if err := export.CSV(r, dir, export.Options{}); err != nil {
		t.Fatalf("CSV failed: %v", err)
	}

	f, err := os.Open(filepath.Join(dir, "species_B.csv"))
	if err != nil {
		t.Fatalf("expected species_B.csv: %v", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("parsing species_B.csv: %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("expected header + 3 rows, got %d records", len(records))
	}
	if records[0][0] != "Time" || records[0][2] != "Voxel 1" {
		t.Errorf("unexpected header: %v", records[0])
	}
	if records[3][1] != "12" || records[3][2] != "11" {
		t.Errorf("unexpected final row: %v", records[3])
	}

	if _, err := os.Stat(filepath.Join(dir, "species_A.csv")); err != nil {
		t.Errorf("expected species_A.csv: %v", err)
	}
}

func TestCSVSpeciesConcentration(t *testing.T) {
	r := testResult(t)

	var buf bytes.Buffer
	if err := export.CSVSpecies(r, "A", &buf, export.Options{Concentration: true}); err != nil {
		t.Fatalf("CSVSpecies failed: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parsing output: %v", err)
	}
	got, err := strconv.ParseFloat(records[1][1], 64)
	if err != nil {
		t.Fatalf("parsing value %q: %v", records[1][1], err)
	}
	want := 2.0 / (units.Avogadro * 4.0)
	if math.Abs(got-want) > want*1e-12 {
		t.Errorf("voxel 0 concentration = %g, want %g", got, want)
	}
}

func TestJSONL(t *testing.T) {
	r := testResult(t)

	var buf bytes.Buffer
	if err := export.JSONL(r, &buf, export.Options{}); err != nil {
		t.Fatalf("JSONL failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 frames, got %d", len(lines))
	}

	var frame export.Frame
	if err := json.Unmarshal([]byte(lines[0]), &frame); err != nil {
		t.Fatalf("decoding frame: %v", err)
	}
	if frame.Time != 0 {
		t.Errorf("frame time = %v, want 0", frame.Time)
	}
	wantA := []float64{2, 1}
	wantB := []float64{4, 3}
	for i := range wantA {
		if frame.Species["A"][i] != wantA[i] {
			t.Errorf("A[%d] = %v, want %v", i, frame.Species["A"][i], wantA[i])
		}
		if frame.Species["B"][i] != wantB[i] {
			t.Errorf("B[%d] = %v, want %v", i, frame.Species["B"][i], wantB[i])
		}
	}
}

func TestJSONLFile(t *testing.T) {
	r := testResult(t)
	path := filepath.Join(t.TempDir(), "frames.jsonl")

	if err := export.JSONLFile(r, path, export.Options{}); err != nil {
		t.Fatalf("JSONLFile failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if n := strings.Count(string(data), "\n"); n != 3 {
		t.Errorf("expected 3 lines, got %d", n)
	}
}

func TestExportWithoutModel(t *testing.T) {
	r := trajectory.New(nil, "unused.h5")

	if err := export.CSV(r, t.TempDir(), export.Options{}); !errors.Is(err, trajectory.ErrNoModel) {
		t.Errorf("CSV error = %v, want ErrNoModel", err)
	}
	if err := export.JSONL(r, &bytes.Buffer{}, export.Options{}); !errors.Is(err, trajectory.ErrNoModel) {
		t.Errorf("JSONL error = %v, want ErrNoModel", err)
	}
}
