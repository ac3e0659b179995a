package mesh

import "fmt"

// Table holds the voxel/dof permutation pair. V2D maps a voxel index to
// its dof index, D2V maps a dof index back to its voxel. The two arrays
// are mutual inverses: D2V[V2D[i]] == i for every i. A Table never
// changes after construction.
type Table struct {
	V2D []int `json:"v2d"`
	D2V []int `json:"d2v"`
}

// NewTable creates a validated permutation table from the two arrays.
// It rejects length mismatches, out-of-range entries, and pairs that are
// not mutual inverses, since a bad table silently scrambles every result
// read through it.
func NewTable(v2d, d2v []int) (*Table, error) {
	if len(v2d) != len(d2v) {
		return nil, fmt.Errorf("permutation length mismatch: v2d has %d entries, d2v has %d", len(v2d), len(d2v))
	}
	n := len(v2d)
	for i, d := range v2d {
		if d < 0 || d >= n {
			return nil, fmt.Errorf("v2d[%d] = %d out of range [0,%d)", i, d, n)
		}
		if d2v[d] != i {
			return nil, fmt.Errorf("tables are not mutual inverses: d2v[v2d[%d]] = %d, want %d", i, d2v[d], i)
		}
	}
	return &Table{V2D: v2d, D2V: d2v}, nil
}

// TableFromGeometry obtains both permutation arrays from the mesh
// collaborator and validates them.
func TableFromGeometry(g Geometry) (*Table, error) {
	v2d, err := g.VertexToDof()
	if err != nil {
		return nil, fmt.Errorf("vertex-to-dof map: %w", err)
	}
	d2v, err := g.DofToVertex()
	if err != nil {
		return nil, fmt.Errorf("dof-to-vertex map: %w", err)
	}
	return NewTable(v2d, d2v)
}

// NumVoxels returns the number of voxels the table covers.
func (t *Table) NumVoxels() int {
	return len(t.V2D)
}

// Inverse returns the table with the two directions swapped, so that a
// reorder through it undoes a reorder through the original.
func (t *Table) Inverse() *Table {
	return &Table{V2D: t.D2V, D2V: t.V2D}
}
