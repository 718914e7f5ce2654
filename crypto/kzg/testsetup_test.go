package kzg

import (
	"testing"

	"github.com/protolambda/go-kzg/bls"

	"github.com/ethereum/go-kzg4844/params"
)

// toySetupBytes derives a full raw trusted-setup byte triple from a single
// secret scalar tau, exactly the way a reference implementation's own test
// suite would: real deployments load the output of a multi-party ceremony,
// but unit tests and benchmarks only need *a* valid setup, not *the* mainnet
// one.
func toySetupBytes(tau *bls.Fr) (g1Monomial, g1Lagrange, g2Monomial []byte) {
	g1Monomial = make([]byte, params.NumG1Points*params.BytesPerG1)
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

	g2Monomial = make([]byte, params.NumG2Points*params.BytesPerG2)
	bls.AsFr(&tauPow, 1)
	for i := 0; i < params.NumG2Points; i++ {
		var p bls.G2Point
		bls.MulG2(&p, &bls.GenG2, &tauPow)
		copy(g2Monomial[i*params.BytesPerG2:], bls.ToCompressedG2(&p))
		bls.MulModFr(&tauPow, &tauPow, tau)
	}

	root, err := PrimitiveRootOfUnity(params.NumG1Points)
	if err != nil {
		panic(err)
	}
	roots, err := ExpandRootOfUnity(&root, params.NumG1Points)
	if err != nil {
		panic(err)
	}

	// The Lagrange-basis commitment to L_i is [L_i(tau)]_1; since the IDFT
	// matrix is symmetric, the vector of Lagrange-basis points is exactly
	// the (non bit-reversed) inverse FFT of the monomial points.
	g1LagrangePoints, err := G1FFT(g1MonomialPoints, roots, true)
	if err != nil {
		panic(err)
	}
	g1Lagrange = make([]byte, params.NumG1Points*params.BytesPerG1)
	for i, p := range g1LagrangePoints {
		pp := p
		copy(g1Lagrange[i*params.BytesPerG1:], bls.ToCompressedG1(&pp))
	}
	return g1Monomial, g1Lagrange, g2Monomial
}

// newTestContext builds a toy trusted setup context for use by this
// package's tests.
func newTestContext(t *testing.T) *Context {
	t.Helper()
	g1Monomial, g1Lagrange, g2Monomial := toySetupBytes(bls.RandomFr())
	ctx, err := NewContext4096(g1Monomial, g1Lagrange, g2Monomial, 0)
	if err != nil {
		t.Fatalf("new context: %v", err)
	}
	return ctx
}

func zeroBlob() []byte {
	return make([]byte, params.BytesPerBlob)
}

func randomBlob() []byte {
	blob := make([]byte, params.BytesPerBlob)
	for i := 0; i < params.FieldElementsPerBlob; i++ {
		fr := bls.RandomFr()
		b := FrToBytes(fr)
		copy(blob[i*params.BytesPerFieldElement:], b[:])
	}
	return blob
}
