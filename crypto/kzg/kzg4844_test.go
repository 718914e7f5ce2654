package kzg

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ethereum/go-kzg4844/params"
)

func TestBlobToKZGCommitmentZeroBlob(t *testing.T) {
	ctx := newTestContext(t)
	defer ctx.Free()

	commitment, err := ctx.BlobToKZGCommitment(zeroBlob())
	require.NoError(t, err)
	// The commitment to the zero polynomial is the G1 identity, whose
	// compressed encoding sets the infinity bit (0x40) on top of the
	// compression bit (0x80).
	require.Equal(t, byte(0xc0), commitment[0])
	for _, b := range commitment[1:] {
		require.Equal(t, byte(0), b)
	}
}

func TestComputeAndVerifyKZGProof(t *testing.T) {
	ctx := newTestContext(t)
	defer ctx.Free()

	blob := randomBlob()
	commitment, err := ctx.BlobToKZGCommitment(blob)
	require.NoError(t, err)

	var z [32]byte
	z[0] = 7

	proof, y, err := ctx.ComputeKZGProof(blob, z)
	require.NoError(t, err)

	ok, err := ctx.VerifyKZGProof(commitment, z, y, proof)
	require.NoError(t, err)
	require.True(t, ok)

	// Flipping a byte of y must make verification fail.
	badY := y
	badY[0] ^= 1
	ok, err = ctx.VerifyKZGProof(commitment, z, badY, proof)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestComputeAndVerifyBlobKZGProof(t *testing.T) {
	ctx := newTestContext(t)
	defer ctx.Free()

	blob := randomBlob()
	commitment, err := ctx.BlobToKZGCommitment(blob)
	require.NoError(t, err)

	proof, err := ctx.ComputeBlobKZGProof(blob, commitment)
	require.NoError(t, err)

	ok, err := ctx.VerifyBlobKZGProof(blob, commitment, proof)
	require.NoError(t, err)
	require.True(t, ok)

	other := randomBlob()
	ok, err = ctx.VerifyBlobKZGProof(other, commitment, proof)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestBlobToKZGCommitmentRejectsWrongLength(t *testing.T) {
	ctx := newTestContext(t)
	defer ctx.Free()

	_, err := ctx.BlobToKZGCommitment(make([]byte, params.BytesPerBlob-1))
	require.Error(t, err)
	require.Equal(t, CodeBadArgs, CodeOf(err))
}

func TestContextRejectsUseAfterFree(t *testing.T) {
	ctx := newTestContext(t)
	ctx.Free()
	ctx.Free() // idempotent

	_, err := ctx.BlobToKZGCommitment(randomBlob())
	require.Error(t, err)
	require.Equal(t, CodeBadArgs, CodeOf(err))
}
