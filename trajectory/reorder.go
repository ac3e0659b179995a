package trajectory

import (
	"fmt"

	"github.com/rdme-xyz/go-rdme/mesh"
	"github.com/rdme-xyz/go-rdme/store"
)

// permuteColumns builds a copy of m with its column blocks rearranged:
// block vox of the result is block perm[vox] of the input, where a
// block is numSpecies adjacent columns. The input width must match
// what the permutation implies; a file narrower or wider than the
// table is reported, never truncated or zero-padded.
func permuteColumns(m *store.Matrix, perm []int, numSpecies int) (*store.Matrix, error) {
	out := store.NewMatrix(m.Rows, len(perm)*numSpecies)
	for vox, mapped := range perm {
		for s := 0; s < numSpecies; s++ {
			src := mapped*numSpecies + s
			if src < 0 || src >= m.Cols {
				return nil, &ReorderError{
					DstRows: out.Rows, DstCols: out.Cols,
					SrcRows: m.Rows, SrcCols: m.Cols,
					Voxel: vox, Species: s, NumSpecies: numSpecies,
					DstCol: vox*numSpecies + s, SrcCol: src, Mapped: mapped,
				}
			}
		}
	}
	if out.Cols != m.Cols {
		return nil, fmt.Errorf("trajectory: solution has %d columns but the permutation table implies %d (%d voxels x %d species)",
			m.Cols, out.Cols, len(perm), numSpecies)
	}
	for t := 0; t < m.Rows; t++ {
		srcRow := m.Row(t)
		dstRow := out.Row(t)
		for vox, mapped := range perm {
			copy(dstRow[vox*numSpecies:(vox+1)*numSpecies],
				srcRow[mapped*numSpecies:(mapped+1)*numSpecies])
		}
	}
	return out, nil
}

// reorderDofToVoxel remaps a dof-ordered matrix into voxel order:
// out[:, vox*ns+s] = in[:, v2d[vox]*ns+s]. The output always has the
// input's shape; single-row inputs stay single-row.
func reorderDofToVoxel(m *store.Matrix, table *mesh.Table, numSpecies int) (*store.Matrix, error) {
	return permuteColumns(m, table.V2D, numSpecies)
}

// reorderVoxelToDof is the exact inverse of reorderDofToVoxel.
func reorderVoxelToDof(m *store.Matrix, table *mesh.Table, numSpecies int) (*store.Matrix, error) {
	return permuteColumns(m, table.D2V, numSpecies)
}
