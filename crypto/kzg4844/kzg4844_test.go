package kzg4844

import (
	"testing"

	"github.com/protolambda/go-kzg/bls"
	"github.com/stretchr/testify/require"

	"github.com/ethereum/go-kzg4844/crypto/kzg"
	"github.com/ethereum/go-kzg4844/params"
)

// newTestContext builds a toy trusted setup for the wrapper package's own
// tests, reusing crypto/kzg's exported primitives rather than a real
// ceremony output.
func newTestContext(t *testing.T) *Context {
	t.Helper()

	tau := bls.RandomFr()

	g1Monomial := make([]byte, params.NumG1Points*params.BytesPerG1)
	g1MonomialPoints := make([]bls.G1Point, params.NumG1Points)
	var tauPow bls.Fr
	bls.AsFr(&tauPow, 1)
	for i := 0; i < params.NumG1Points; i++ {
		var p bls.G1Point
		bls.MulG1(&p, &bls.GenG1, &tauPow)
		g1MonomialPoints[i] = p
		copy(g1Monomial[i*params.BytesPerG1:], bls.ToCompressedG1(&p))
		bls.MulModFr(&tauPow, &tauPow, tau)
	}

	g2Monomial := make([]byte, params.NumG2Points*params.BytesPerG2)
	bls.AsFr(&tauPow, 1)
	for i := 0; i < params.NumG2Points; i++ {
		var p bls.G2Point
		bls.MulG2(&p, &bls.GenG2, &tauPow)
		copy(g2Monomial[i*params.BytesPerG2:], bls.ToCompressedG2(&p))
		bls.MulModFr(&tauPow, &tauPow, tau)
	}

	root, err := kzg.PrimitiveRootOfUnity(params.NumG1Points)
	require.NoError(t, err)
	roots, err := kzg.ExpandRootOfUnity(&root, params.NumG1Points)
	require.NoError(t, err)

	g1LagrangePoints, err := kzg.G1FFT(g1MonomialPoints, roots, true)
	require.NoError(t, err)
	g1Lagrange := make([]byte, params.NumG1Points*params.BytesPerG1)
	for i, p := range g1LagrangePoints {
		pp := p
		copy(g1Lagrange[i*params.BytesPerG1:], bls.ToCompressedG1(&pp))
	}

	ctx, err := NewContext(g1Monomial, g1Lagrange, g2Monomial, 0)
	require.NoError(t, err)
	return ctx
}

func randomBlob() *Blob {
	var b Blob
	for i := 0; i < params.FieldElementsPerBlob; i++ {
		fr := bls.RandomFr()
		bytes := bls.FrTo32(fr)
		copy(b[i*params.BytesPerFieldElement:], bytes[:])
	}
	return &b
}

func TestWrapperCommitProveVerifyRoundTrip(t *testing.T) {
	ctx := newTestContext(t)
	defer ctx.Close()

	blob := randomBlob()
	commitment, err := ctx.BlobToCommitment(blob)
	require.NoError(t, err)

	proof, err := ctx.ComputeBlobProof(blob, commitment)
	require.NoError(t, err)

	ok, err := ctx.VerifyBlobProof(blob, commitment, proof)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestWrapperBatchRoundTrip(t *testing.T) {
	ctx := newTestContext(t)
	defer ctx.Close()

	n := 3
	blobs := make([]*Blob, n)
	commitments := make([]Commitment, n)
	proofs := make([]Proof, n)
	for i := 0; i < n; i++ {
		blobs[i] = randomBlob()
		c, err := ctx.BlobToCommitment(blobs[i])
		require.NoError(t, err)
		commitments[i] = c
		p, err := ctx.ComputeBlobProof(blobs[i], c)
		require.NoError(t, err)
		proofs[i] = p
	}

	ok, err := ctx.VerifyBlobProofBatch(blobs, commitments, proofs)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestWrapperCellsRoundTrip(t *testing.T) {
	ctx := newTestContext(t)
	defer ctx.Close()

	blob := randomBlob()
	commitment, err := ctx.BlobToCommitment(blob)
	require.NoError(t, err)

	cells, proofs, err := ctx.ComputeCellsAndProofs(blob)
	require.NoError(t, err)

	commitments := make([]Commitment, params.CellsPerExtBlob)
	cellIndices := make([]uint64, params.CellsPerExtBlob)
	for i := range commitments {
		commitments[i] = commitment
		cellIndices[i] = uint64(i)
	}

	ok, err := ctx.VerifyCellProofBatch(commitments, cellIndices, cells[:], proofs[:])
	require.NoError(t, err)
	require.True(t, ok)

	half := params.CellsPerExtBlob / 2
	recoveredCells, recoveredProofs, err := ctx.RecoverCellsAndProofs(cellIndices[:half], cells[:half])
	require.NoError(t, err)
	require.Equal(t, cells, recoveredCells)
	require.Equal(t, proofs, recoveredProofs)
}

func TestCloseIsIdempotentAndNilSafe(t *testing.T) {
	ctx := newTestContext(t)
	ctx.Close()
	ctx.Close()

	var nilCtx *Context
	nilCtx.Close()
}
