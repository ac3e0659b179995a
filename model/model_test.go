package model

import (
	"testing"

	"github.com/rdme-xyz/go-rdme/mesh"
)

func TestAddSpeciesOrder(t *testing.T) {
	m := NewModel("test")
	m.AddSpecies("A", 0.1)
	m.AddSpecies("B", 0.2)
	m.AddSpecies("C", 0.3)

	names := m.SpeciesNames()
	want := []string{"A", "B", "C"}
	for i, n := range want {
		if names[i] != n {
			t.Errorf("species[%d] = %s, want %s", i, names[i], n)
		}
	}

	idx := m.SpeciesMap()
	if idx["A"] != 0 || idx["B"] != 1 || idx["C"] != 2 {
		t.Errorf("unexpected species map: %v", idx)
	}
}

func TestAddSpeciesReplace(t *testing.T) {
	m := NewModel("test")
	m.AddSpecies("A", 0.1)
	m.AddSpecies("B", 0.2)
	m.AddSpecies("A", 0.9)

	if m.NumSpecies() != 2 {
		t.Fatalf("expected 2 species, got %d", m.NumSpecies())
	}
	if m.GetSpecies("A").Diffusion != 0.9 {
		t.Errorf("re-adding A should update diffusion, got %f", m.GetSpecies("A").Diffusion)
	}
	// A keeps its original position
	if m.SpeciesMap()["A"] != 0 {
		t.Errorf("A should keep index 0, got %d", m.SpeciesMap()["A"])
	}
}

func TestTableCached(t *testing.T) {
	m := NewModel("test")
	m.Geometry = mesh.NewStaticGeometry([]int{1, 0}, []int{1, 0})

	t1, err := m.Table()
	if err != nil {
		t.Fatalf("Table failed: %v", err)
	}
	t2, err := m.Table()
	if err != nil {
		t.Fatalf("Table failed: %v", err)
	}
	if t1 != t2 {
		t.Error("Table should return the cached instance")
	}
}

func TestTableNoGeometry(t *testing.T) {
	m := NewModel("bare")
	if _, err := m.Table(); err == nil {
		t.Error("expected error for model without geometry")
	}
}

func TestSetInitialState(t *testing.T) {
	m := NewModel("test")
	m.AddSpecies("A", 0)

	vals := []float64{1, 2, 3}
	if err := m.SetInitialState("A", vals); err != nil {
		t.Fatalf("SetInitialState failed: %v", err)
	}

	// stored copy must be independent of the caller's slice
	vals[0] = 99
	got := m.InitialState("A")
	if got[0] != 1 {
		t.Errorf("initial state should be copied, got %v", got)
	}

	if err := m.SetInitialState("Z", vals); err == nil {
		t.Error("expected error for unknown species")
	}
}

func TestClone(t *testing.T) {
	m := NewModel("orig")
	m.AddSpecies("A", 0.5)
	m.DofVolumes = []float64{1, 2}
	m.Geometry = mesh.Identity(2)
	m.SetInitialState("A", []float64{10, 20})

	c := m.Clone()

	c.AddSpecies("B", 0.1)
	c.DofVolumes[0] = 99
	c.Initial["A"][0] = 99

	if m.NumSpecies() != 1 {
		t.Errorf("clone mutation leaked into original species list")
	}
	if m.DofVolumes[0] != 1 {
		t.Errorf("clone mutation leaked into original volumes")
	}
	if m.Initial["A"][0] != 10 {
		t.Errorf("clone mutation leaked into original initial state")
	}
	if c.Geometry != m.Geometry {
		t.Error("geometry should be shared")
	}
}
