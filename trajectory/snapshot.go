package trajectory

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/rdme-xyz/go-rdme/mesh"
	"github.com/rdme-xyz/go-rdme/model"
)

// Snapshot is the durable record of a Result. It embeds the raw bytes
// of the backing file together with the permutation tables in force
// when it was taken, so the trajectory can be reconstructed on a
// machine that never saw the original file.
type Snapshot struct {
	ID           string       `json:"id"`
	Stdout       string       `json:"stdout,omitempty"`
	Stderr       string       `json:"stderr,omitempty"`
	V2D          []int        `json:"v2d,omitempty"`
	D2V          []int        `json:"d2v,omitempty"`
	Model        *model.Model `json:"model,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	FileContents []byte       `json:"filecontents"`
}

// Snapshot captures the result with the backing file's bytes embedded.
// The permutation tables ride along when they are available; a result
// with no model and no restored table is still snapshottable, it just
// needs AttachModel after restore.
func (r *Result) Snapshot() (*Snapshot, error) {
	if r.Path == "" {
		return nil, ErrNoFile
	}
	contents, err := os.ReadFile(r.Path)
	if err != nil {
		return nil, fmt.Errorf("trajectory: reading backing file %s for snapshot: %w", r.Path, err)
	}
	snap := &Snapshot{
		ID:           r.ID,
		Stdout:       r.Stdout,
		Stderr:       r.Stderr,
		Model:        r.Model,
		CreatedAt:    time.Now().UTC(),
		FileContents: contents,
	}
	if table, err := r.permutationTable(); err == nil {
		snap.V2D = append([]int(nil), table.V2D...)
		snap.D2V = append([]int(nil), table.D2V...)
	}
	return snap, nil
}

// Restore materializes a snapshot into a live Result backed by a
// freshly written temp file. RDME_TMPDIR overrides where the file
// lands; unset, it goes to the platform default temp directory. The
// restored Result owns the new file and removes it on Close; the
// original file, wherever it was, is untouched.
func Restore(snap *Snapshot) (*Result, error) {
	f, err := os.CreateTemp(os.Getenv("RDME_TMPDIR"), "rdme-result-*.h5")
	if err != nil {
		return nil, fmt.Errorf("trajectory: creating restored backing file: %w", err)
	}
	path := f.Name()
	if _, err := f.Write(snap.FileContents); err != nil {
		f.Close()
		os.Remove(path)
		return nil, fmt.Errorf("trajectory: writing restored backing file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("trajectory: writing restored backing file: %w", err)
	}

	r := &Result{
		ID:     snap.ID,
		Model:  snap.Model,
		Path:   path,
		Stdout: snap.Stdout,
		Stderr: snap.Stderr,
	}
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if len(snap.V2D) > 0 {
		table, err := mesh.NewTable(snap.V2D, snap.D2V)
		if err != nil {
			os.Remove(path)
			return nil, fmt.Errorf("trajectory: snapshot permutation tables: %w", err)
		}
		r.table = table
		// A model serialized without its geometry gets a static one
		// rebuilt from the tables, so Table() keeps working on it.
		if r.Model != nil && r.Model.Geometry == nil {
			r.Model.Geometry = mesh.NewStaticGeometry(snap.V2D, snap.D2V)
		}
	}
	return r, nil
}

// EncodeSnapshot renders a snapshot as indented JSON. The file bytes
// travel base64-encoded inside it.
func EncodeSnapshot(snap *Snapshot) ([]byte, error) {
	return json.MarshalIndent(snap, "", "  ")
}

// DecodeSnapshot parses a snapshot produced by EncodeSnapshot.
func DecodeSnapshot(data []byte) (*Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("trajectory: decoding snapshot: %w", err)
	}
	return &snap, nil
}

// WriteSnapshotFile writes a snapshot to path as JSON.
func WriteSnapshotFile(path string, snap *Snapshot) error {
	data, err := EncodeSnapshot(snap)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadSnapshotFile loads a snapshot written by WriteSnapshotFile.
func ReadSnapshotFile(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return DecodeSnapshot(data)
}
