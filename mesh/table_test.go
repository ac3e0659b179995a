package mesh

import "testing"

func TestNewTable(t *testing.T) {
	tab, err := NewTable([]int{1, 0, 2}, []int{1, 0, 2})
	if err != nil {
		t.Fatalf("NewTable failed: %v", err)
	}
	if tab.NumVoxels() != 3 {
		t.Errorf("expected 3 voxels, got %d", tab.NumVoxels())
	}
}

func TestNewTableLengthMismatch(t *testing.T) {
	_, err := NewTable([]int{0, 1}, []int{0})
	if err == nil {
		t.Error("expected error for mismatched lengths")
	}
}

func TestNewTableOutOfRange(t *testing.T) {
	_, err := NewTable([]int{0, 5}, []int{0, 1})
	if err == nil {
		t.Error("expected error for out-of-range entry")
	}
}

func TestNewTableNotInverse(t *testing.T) {
	// both valid permutations, but not inverses of each other
	_, err := NewTable([]int{1, 0, 2}, []int{0, 1, 2})
	if err == nil {
		t.Error("expected error for non-inverse tables")
	}
}

func TestTableInverse(t *testing.T) {
	tab, err := NewTable([]int{2, 0, 1}, []int{1, 2, 0})
	if err != nil {
		t.Fatalf("NewTable failed: %v", err)
	}

	inv := tab.Inverse()
	for i := range tab.V2D {
		if inv.V2D[i] != tab.D2V[i] {
			t.Errorf("inverse V2D[%d] = %d, want %d", i, inv.V2D[i], tab.D2V[i])
		}
		if inv.D2V[i] != tab.V2D[i] {
			t.Errorf("inverse D2V[%d] = %d, want %d", i, inv.D2V[i], tab.V2D[i])
		}
	}

	// inverting twice recovers the original
	back := inv.Inverse()
	for i := range tab.V2D {
		if back.V2D[i] != tab.V2D[i] {
			t.Errorf("double inverse V2D[%d] = %d, want %d", i, back.V2D[i], tab.V2D[i])
		}
	}
}

func TestTableFromGeometry(t *testing.T) {
	g := NewStaticGeometry([]int{1, 0}, []int{1, 0})
	tab, err := TableFromGeometry(g)
	if err != nil {
		t.Fatalf("TableFromGeometry failed: %v", err)
	}
	if tab.V2D[0] != 1 || tab.V2D[1] != 0 {
		t.Errorf("unexpected v2d: %v", tab.V2D)
	}
}

func TestIdentityGeometry(t *testing.T) {
	g := Identity(4)
	if g.NumVoxels() != 4 {
		t.Errorf("expected 4 voxels, got %d", g.NumVoxels())
	}
	tab, err := TableFromGeometry(g)
	if err != nil {
		t.Fatalf("TableFromGeometry failed: %v", err)
	}
	for i := 0; i < 4; i++ {
		if tab.V2D[i] != i {
			t.Errorf("identity v2d[%d] = %d", i, tab.V2D[i])
		}
	}
}
