package kzg

import (
	"testing"

	"github.com/protolambda/go-kzg/bls"
	"github.com/stretchr/testify/require"
)

func TestFrBytesRoundTrip(t *testing.T) {
	for i := 0; i < 16; i++ {
		x := bls.RandomFr()
		b := FrToBytes(x)
		y, err := FrFromBytes(b)
		require.NoError(t, err)
		require.True(t, bls.EqualFr(x, &y))
	}
}

func TestFrFromBytesRejectsNonCanonical(t *testing.T) {
	// Little-endian encoding of the field modulus r itself is non-canonical.
	modBytes := reverse32([32]byte(modulus.Bytes()))
	_, err := FrFromBytes(modBytes)
	require.Error(t, err)
	require.Equal(t, CodeBadArgs, CodeOf(err))
}

func TestFrBatchInv(t *testing.T) {
	in := make([]bls.Fr, 8)
	for i := range in {
		in[i] = *bls.RandomFr()
	}
	out := make([]bls.Fr, 8)
	require.NoError(t, FrBatchInv(out, in))

	var one bls.Fr
	bls.AsFr(&one, 1)
	for i := range in {
		var product bls.Fr
		bls.MulModFr(&product, &in[i], &out[i])
		require.True(t, bls.EqualFr(&product, &one))
	}
}

func TestFrBatchInvRejectsZero(t *testing.T) {
	in := make([]bls.Fr, 4)
	out := make([]bls.Fr, 4)
	err := FrBatchInv(out, in) // all zero
	require.Error(t, err)
	require.Equal(t, CodeBadArgs, CodeOf(err))
}

func TestComputePowers(t *testing.T) {
	var x bls.Fr
	bls.AsFr(&x, 3)
	powers := ComputePowers(&x, 5)
	require.Len(t, powers, 5)

	var one bls.Fr
	bls.AsFr(&one, 1)
	require.True(t, bls.EqualFr(&powers[0], &one))

	expect := x
	require.True(t, bls.EqualFr(&powers[1], &expect))

	var x4 bls.Fr
	bls.AsFr(&x4, 81)
	require.True(t, bls.EqualFr(&powers[4], &x4))
}

func TestG1LincombFastMatchesNaive(t *testing.T) {
	n := 20
	points := make([]bls.G1Point, n)
	scalars := make([]bls.Fr, n)
	for i := 0; i < n; i++ {
		s := bls.RandomFr()
		scalars[i] = *s
		bls.MulG1(&points[i], &bls.GenG1, bls.RandomFr())
	}
	fast, err := G1LincombFast(points, scalars)
	require.NoError(t, err)
	naive, err := G1LincombNaive(points, scalars)
	require.NoError(t, err)
	require.True(t, bls.EqualG1(fast, naive))
}
