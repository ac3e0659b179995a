// Package mesh exposes the slice of the mesh collaborator that the result
// layer consumes: a voxel count and the two permutation arrays relating the
// caller-facing voxel ordering to the solver's internal dof ordering.
// Mesh construction itself lives upstream; this package only carries the
// permutation tables around and validates them.
package mesh

// Geometry is the surface a mesh implementation must provide.
// VertexToDof and DofToVertex return the voxel->dof and dof->voxel
// permutation arrays, each of length NumVoxels.
type Geometry interface {
	NumVoxels() int
	VertexToDof() ([]int, error)
	DofToVertex() ([]int, error)
}

// StaticGeometry is an in-memory Geometry with explicit permutation tables.
// It backs tests, restored results, and callers that already hold the
// arrays.
type StaticGeometry struct {
	Voxels int   `json:"voxels"`
	V2D    []int `json:"v2d"`
	D2V    []int `json:"d2v"`
}

var _ Geometry = (*StaticGeometry)(nil)

// NewStaticGeometry creates a geometry from explicit permutation arrays.
// The arrays are used as-is; validation happens when a Table is built.
func NewStaticGeometry(v2d, d2v []int) *StaticGeometry {
	return &StaticGeometry{
		Voxels: len(v2d),
		V2D:    v2d,
		D2V:    d2v,
	}
}

// Identity creates a geometry whose dof ordering equals the voxel ordering.
func Identity(n int) *StaticGeometry {
	v2d := make([]int, n)
	d2v := make([]int, n)
	for i := 0; i < n; i++ {
		v2d[i] = i
		d2v[i] = i
	}
	return &StaticGeometry{Voxels: n, V2D: v2d, D2V: d2v}
}

// NumVoxels returns the number of voxels in the geometry.
func (g *StaticGeometry) NumVoxels() int {
	return g.Voxels
}

// VertexToDof returns the voxel->dof permutation array.
func (g *StaticGeometry) VertexToDof() ([]int, error) {
	return g.V2D, nil
}

// DofToVertex returns the dof->voxel permutation array.
func (g *StaticGeometry) DofToVertex() ([]int, error) {
	return g.D2V, nil
}
