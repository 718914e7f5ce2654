package kzg

import (
	"testing"

	"github.com/protolambda/go-kzg/bls"
	"github.com/stretchr/testify/require"
)

func TestBitReversalPermutationSelfInverse(t *testing.T) {
	n := 16
	orig := make([]int, n)
	for i := range orig {
		orig[i] = i
	}
	permuted := make([]int, n)
	copy(permuted, orig)
	require.NoError(t, BitReversalPermutation(permuted))
	require.NotEqual(t, orig, permuted)
	require.NoError(t, BitReversalPermutation(permuted))
	require.Equal(t, orig, permuted)
}

func TestBitReversalPermutationRejectsBadLength(t *testing.T) {
	require.Error(t, BitReversalPermutation(make([]int, 1)))
	require.Error(t, BitReversalPermutation(make([]int, 3)))
}

func TestFrFFTRoundTrip(t *testing.T) {
	n := uint64(16)
	root, err := PrimitiveRootOfUnity(n)
	require.NoError(t, err)
	roots, err := ExpandRootOfUnity(&root, n)
	require.NoError(t, err)

	vals := make([]bls.Fr, n)
	for i := range vals {
		vals[i] = *bls.RandomFr()
	}

	freq, err := FrFFT(vals, roots, false)
	require.NoError(t, err)
	back, err := FrFFT(freq, roots, true)
	require.NoError(t, err)

	for i := range vals {
		require.True(t, bls.EqualFr(&vals[i], &back[i]), "index %d", i)
	}
}

func TestFrFFTConstantPolynomial(t *testing.T) {
	n := uint64(8)
	root, err := PrimitiveRootOfUnity(n)
	require.NoError(t, err)
	roots, err := ExpandRootOfUnity(&root, n)
	require.NoError(t, err)

	var c bls.Fr
	bls.AsFr(&c, 42)
	coeffs := make([]bls.Fr, n)
	coeffs[0] = c

	evals, err := FrFFT(coeffs, roots, false)
	require.NoError(t, err)
	for i := range evals {
		require.True(t, bls.EqualFr(&evals[i], &c), "index %d", i)
	}
}

func TestG1FFTRoundTrip(t *testing.T) {
	n := uint64(8)
	root, err := PrimitiveRootOfUnity(n)
	require.NoError(t, err)
	roots, err := ExpandRootOfUnity(&root, n)
	require.NoError(t, err)

	vals := make([]bls.G1Point, n)
	for i := range vals {
		var p bls.G1Point
		bls.MulG1(&p, &bls.GenG1, bls.RandomFr())
		vals[i] = p
	}

	freq, err := G1FFT(vals, roots, false)
	require.NoError(t, err)
	back, err := G1FFT(freq, roots, true)
	require.NoError(t, err)

	for i := range vals {
		require.True(t, bls.EqualG1(&vals[i], &back[i]), "index %d", i)
	}
}
