package kzg

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ethereum/go-kzg4844/params"
)

func TestRecoverCellsAndKZGProofsFromHalf(t *testing.T) {
	ctx := newTestContext(t)
	defer ctx.Free()

	blob := randomBlob()
	cells, proofs, err := ctx.ComputeCellsAndKZGProofs(blob)
	require.NoError(t, err)

	// Keep only the even-indexed cells: exactly half, satisfying the
	// reconstruction threshold.
	half := params.CellsPerExtBlob / 2
	cellIndices := make([]uint64, half)
	haveCells := make([][params.BytesPerCell]byte, half)
	for i := 0; i < half; i++ {
		cellIndices[i] = uint64(2 * i)
		haveCells[i] = cells[2*i]
	}

	recoveredCells, recoveredProofs, err := ctx.RecoverCellsAndKZGProofs(cellIndices, haveCells)
	require.NoError(t, err)

	for i := 0; i < params.CellsPerExtBlob; i++ {
		require.Equal(t, cells[i], recoveredCells[i], "cell %d", i)
		require.Equal(t, proofs[i], recoveredProofs[i], "proof %d", i)
	}
}

func TestRecoverCellsAndKZGProofsRejectsTooFew(t *testing.T) {
	ctx := newTestContext(t)
	defer ctx.Free()

	blob := randomBlob()
	cells, _, err := ctx.ComputeCellsAndKZGProofs(blob)
	require.NoError(t, err)

	n := params.CellsPerExtBlob/2 - 1
	cellIndices := make([]uint64, n)
	haveCells := make([][params.BytesPerCell]byte, n)
	for i := 0; i < n; i++ {
		cellIndices[i] = uint64(i)
		haveCells[i] = cells[i]
	}

	_, _, err = ctx.RecoverCellsAndKZGProofs(cellIndices, haveCells)
	require.Error(t, err)
	require.Equal(t, CodeBadArgs, CodeOf(err))
}

func TestRecoverCellsAndKZGProofsRejectsDuplicateIndex(t *testing.T) {
	ctx := newTestContext(t)
	defer ctx.Free()

	blob := randomBlob()
	cells, _, err := ctx.ComputeCellsAndKZGProofs(blob)
	require.NoError(t, err)

	half := params.CellsPerExtBlob / 2
	cellIndices := make([]uint64, half)
	haveCells := make([][params.BytesPerCell]byte, half)
	for i := 0; i < half; i++ {
		cellIndices[i] = 0 // duplicate every index
		haveCells[i] = cells[i]
	}

	_, _, err = ctx.RecoverCellsAndKZGProofs(cellIndices, haveCells)
	require.Error(t, err)
	require.Equal(t, CodeBadArgs, CodeOf(err))
}
