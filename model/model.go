// Package model describes the simulation model collaborator: the ordered
// species list, the per-dof volume weights, and the mesh geometry that a
// result object needs to interpret its solution matrix. The simulation
// engine that fills these in lives upstream.
package model

import (
	"fmt"

	"github.com/rdme-xyz/go-rdme/mesh"
)

// Species is one chemical species tracked by the solver.
type Species struct {
	Name      string  `json:"name"`
	Diffusion float64 `json:"diffusion,omitempty"`
}

// Model carries the metadata a result layer consumes: species in
// declaration order, the mesh geometry, per-dof volume weights, and an
// optional initial state per species. It is not goroutine-safe.
type Model struct {
	Name       string               `json:"name"`
	Species    []*Species           `json:"species"`
	DofVolumes []float64            `json:"dofvol,omitempty"`
	Initial    map[string][]float64 `json:"initial,omitempty"`

	// Geometry is fixed once set; Table caches its permutation pair.
	Geometry mesh.Geometry `json:"-"`

	table *mesh.Table
}

// NewModel creates an empty model with the given name.
func NewModel(name string) *Model {
	return &Model{Name: name}
}

// AddSpecies appends a species, preserving declaration order. Adding a
// name that already exists updates the existing entry in place.
func (m *Model) AddSpecies(name string, diffusion float64) *Species {
	for _, s := range m.Species {
		if s.Name == name {
			s.Diffusion = diffusion
			return s
		}
	}
	s := &Species{Name: name, Diffusion: diffusion}
	m.Species = append(m.Species, s)
	return s
}

// GetSpecies returns the species with the given name, or nil.
func (m *Model) GetSpecies(name string) *Species {
	for _, s := range m.Species {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// SpeciesNames returns the species names in declaration order.
func (m *Model) SpeciesNames() []string {
	names := make([]string, len(m.Species))
	for i, s := range m.Species {
		names[i] = s.Name
	}
	return names
}

// SpeciesMap returns the name -> zero-based index mapping, in declaration
// order. Column offsets into the solution matrix derive from these
// indices.
func (m *Model) SpeciesMap() map[string]int {
	idx := make(map[string]int, len(m.Species))
	for i, s := range m.Species {
		idx[s.Name] = i
	}
	return idx
}

// NumSpecies returns the number of species.
func (m *Model) NumSpecies() int {
	return len(m.Species)
}

// NumVoxels returns the geometry's voxel count, or 0 when no geometry is
// attached.
func (m *Model) NumVoxels() int {
	if m.Geometry == nil {
		return 0
	}
	return m.Geometry.NumVoxels()
}

// Table returns the voxel/dof permutation table, computing it from the
// geometry on first use and caching it. The geometry must not change
// afterwards; recomputation for an unchanged geometry yields the same
// arrays.
func (m *Model) Table() (*mesh.Table, error) {
	if m.table != nil {
		return m.table, nil
	}
	if m.Geometry == nil {
		return nil, fmt.Errorf("model %q has no geometry", m.Name)
	}
	t, err := mesh.TableFromGeometry(m.Geometry)
	if err != nil {
		return nil, fmt.Errorf("model %q: %w", m.Name, err)
	}
	m.table = t
	return t, nil
}

// SetInitialState records an initial per-voxel population for a declared
// species. The values are copied.
func (m *Model) SetInitialState(name string, values []float64) error {
	if m.GetSpecies(name) == nil {
		return fmt.Errorf("model %q has no species %q", m.Name, name)
	}
	if m.Initial == nil {
		m.Initial = make(map[string][]float64, len(m.Species))
	}
	v := make([]float64, len(values))
	copy(v, values)
	m.Initial[name] = v
	return nil
}

// InitialState returns the recorded initial population for a species, or
// nil if none was set.
func (m *Model) InitialState(name string) []float64 {
	return m.Initial[name]
}

// Clone returns a deep copy of the model. The geometry is shared (it is
// immutable once set); species, volumes, and initial state are copied.
func (m *Model) Clone() *Model {
	c := &Model{
		Name:     m.Name,
		Geometry: m.Geometry,
	}
	c.Species = make([]*Species, len(m.Species))
	for i, s := range m.Species {
		cp := *s
		c.Species[i] = &cp
	}
	if m.DofVolumes != nil {
		c.DofVolumes = make([]float64, len(m.DofVolumes))
		copy(c.DofVolumes, m.DofVolumes)
	}
	if m.Initial != nil {
		c.Initial = make(map[string][]float64, len(m.Initial))
		for k, v := range m.Initial {
			vv := make([]float64, len(v))
			copy(vv, v)
			c.Initial[k] = vv
		}
	}
	return c
}
