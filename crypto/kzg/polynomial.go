package kzg

import (
	"github.com/protolambda/go-kzg/bls"

	"github.com/ethereum/go-kzg4844/params"
)

// Polynomial is a length FieldElementsPerBlob sequence of scalars, understood
// to be in Lagrange form over the bit-reversal-permuted 4096th roots of
// unity: Polynomial[i] is p(blobBRPRootsOfUnity[i]).
type Polynomial []bls.Fr

// BlobToPolynomial parses a blob's 4096 32-byte chunks into a Polynomial,
// failing on the first non-canonical chunk.
func BlobToPolynomial(blob []byte) (Polynomial, error) {
	if len(blob) != params.BytesPerBlob {
		return nil, badArgs("blob has the wrong length")
	}
	out := make(Polynomial, params.FieldElementsPerBlob)
	for i := 0; i < params.FieldElementsPerBlob; i++ {
		var chunk [32]byte
		copy(chunk[:], blob[i*params.BytesPerFieldElement:(i+1)*params.BytesPerFieldElement])
		fr, err := FrFromBytes(chunk)
		if err != nil {
			return nil, badArgsf("field element %d: %v", i, err)
		}
		out[i] = fr
	}
	return out, nil
}

// EvaluatePolynomialInEvaluationForm evaluates p, given in Lagrange form over
// the BRP domain of c, at an arbitrary point z. When z coincides with one of
// the domain points the value is read off directly, avoiding division by
// zero; otherwise the barycentric formula is used with a single batched
// field inversion.
func (c *Context) EvaluatePolynomialInEvaluationForm(p Polynomial, z *bls.Fr) (bls.Fr, error) {
	if err := c.checkLoaded(); err != nil {
		return bls.Fr{}, err
	}
	if len(p) != params.FieldElementsPerBlob {
		return bls.Fr{}, badArgs("polynomial has the wrong length")
	}

	n := params.FieldElementsPerBlob
	omega := c.blobBRPRootsOfUnity

	for m := 0; m < n; m++ {
		if bls.EqualFr(&omega[m], z) {
			return p[m], nil
		}
	}

	denom := make([]bls.Fr, n)
	for i := 0; i < n; i++ {
		bls.SubModFr(&denom[i], z, &omega[i])
	}
	invDenom := make([]bls.Fr, n)
	if err := FrBatchInv(invDenom, denom); err != nil {
		return bls.Fr{}, internalErr("batch inversion failed during evaluation")
	}

	var sum bls.Fr
	var term bls.Fr
	for i := 0; i < n; i++ {
		bls.MulModFr(&term, &p[i], &omega[i])
		bls.MulModFr(&term, &term, &invDenom[i])
		bls.AddModFr(&sum, &sum, &term)
	}

	zPowN := frPow(z, uint64(n))

	var one bls.Fr
	bls.AsFr(&one, 1)
	var factor bls.Fr
	bls.SubModFr(&factor, &zPowN, &one)

	var nInv bls.Fr
	bls.AsFr(&nInv, uint64(n))
	bls.DivModFr(&nInv, &one, &nInv)
	bls.MulModFr(&factor, &factor, &nInv)

	var result bls.Fr
	bls.MulModFr(&result, &factor, &sum)
	return result, nil
}

func frPow(base *bls.Fr, exp uint64) bls.Fr {
	var result bls.Fr
	bls.AsFr(&result, 1)
	b := *base
	for exp > 0 {
		if exp&1 == 1 {
			bls.MulModFr(&result, &result, &b)
		}
		bls.MulModFr(&b, &b, &b)
		exp >>= 1
	}
	return result
}
