package kzg

import (
	"github.com/protolambda/go-kzg/bls"

	"github.com/ethereum/go-kzg4844/params"
)

// BlobToKZGCommitment implements blob_to_kzg_commitment: the commitment is
// the MSM of the blob's Lagrange-BRP evaluations against the Lagrange-BRP
// G1 table.
func (c *Context) BlobToKZGCommitment(blob []byte) ([params.BytesPerCommitment]byte, error) {
	var out [params.BytesPerCommitment]byte
	if err := c.checkLoaded(); err != nil {
		return out, err
	}
	p, err := BlobToPolynomial(blob)
	if err != nil {
		return out, err
	}
	commitment, err := G1LincombFast(c.g1LagrangeBRP, p)
	if err != nil {
		return out, internalErr(err.Error())
	}
	copy(out[:], bls.ToCompressedG1(commitment))
	return out, nil
}

// ComputeKZGProof implements compute_kzg_proof: it opens blob's polynomial
// at z, returning the proof and the claimed evaluation y.
func (c *Context) ComputeKZGProof(blob []byte, zBytes [32]byte) (proof [params.BytesPerProof]byte, y [32]byte, err error) {
	if err = c.checkLoaded(); err != nil {
		return
	}
	p, err := BlobToPolynomial(blob)
	if err != nil {
		return
	}
	z, err := FrFromBytes(zBytes)
	if err != nil {
		return
	}
	proofPoint, yFr, err := c.computeQuotient(p, &z)
	if err != nil {
		return
	}
	copy(proof[:], bls.ToCompressedG1(proofPoint))
	y = FrToBytes(yFr)
	return
}

// ComputeBlobKZGProof implements compute_blob_kzg_proof: same as
// ComputeKZGProof but the evaluation point is the Fiat-Shamir challenge
// derived from the blob and its commitment.
func (c *Context) ComputeBlobKZGProof(blob []byte, commitment [params.BytesPerCommitment]byte) ([params.BytesPerProof]byte, error) {
	var out [params.BytesPerProof]byte
	if err := c.checkLoaded(); err != nil {
		return out, err
	}
	if _, err := bls.FromCompressedG1(commitment[:]); err != nil {
		return out, badArgsf("commitment: %v", err)
	}
	p, err := BlobToPolynomial(blob)
	if err != nil {
		return out, err
	}
	z, err := ComputeChallenge(blob, commitment)
	if err != nil {
		return out, err
	}
	proofPoint, _, err := c.computeQuotient(p, &z)
	if err != nil {
		return out, err
	}
	copy(out[:], bls.ToCompressedG1(proofPoint))
	return out, nil
}

// computeQuotient evaluates p at z and builds the quotient commitment
// q(X) = (p(X)-y)/(X-z) in Lagrange-BRP form, handling the case where z
// coincides with a domain point per the in-domain branch of compute_kzg_proof.
func (c *Context) computeQuotient(p Polynomial, z *bls.Fr) (*bls.G1Point, *bls.Fr, error) {
	n := params.FieldElementsPerBlob
	omega := c.blobBRPRootsOfUnity

	y, err := c.EvaluatePolynomialInEvaluationForm(p, z)
	if err != nil {
		return nil, nil, err
	}

	inDomain := -1
	for m := 0; m < n; m++ {
		if bls.EqualFr(&omega[m], z) {
			inDomain = m
			break
		}
	}

	q := make([]bls.Fr, n)

	if inDomain == -1 {
		denom := make([]bls.Fr, n)
		for i := 0; i < n; i++ {
			bls.SubModFr(&denom[i], &omega[i], z)
		}
		invDenom := make([]bls.Fr, n)
		if err := FrBatchInv(invDenom, denom); err != nil {
			return nil, nil, internalErr("batch inversion failed while building quotient")
		}
		var numerator bls.Fr
		for i := 0; i < n; i++ {
			bls.SubModFr(&numerator, &p[i], &y)
			bls.MulModFr(&q[i], &numerator, &invDenom[i])
		}
	} else {
		m := inDomain
		idxMap := make([]int, 0, n-1)
		for i := 0; i < n; i++ {
			if i == m {
				continue
			}
			idxMap = append(idxMap, i)
		}

		// First pass: generic denominators (omega_i - z) for i != m.
		genDenom := make([]bls.Fr, n-1)
		for k, i := range idxMap {
			bls.SubModFr(&genDenom[k], &omega[i], z)
		}
		genInv := make([]bls.Fr, n-1)
		if err := FrBatchInv(genInv, genDenom); err != nil {
			return nil, nil, internalErr("batch inversion failed while building in-domain quotient")
		}
		for k, i := range idxMap {
			var numerator bls.Fr
			bls.SubModFr(&numerator, &p[i], &y)
			bls.MulModFr(&q[i], &numerator, &genInv[k])
		}

		// Second pass: accumulate q[m] = sum_{i != m} (p[i]-y)*omega[i] / (z*(z-omega[i])).
		zDenom := make([]bls.Fr, n-1)
		for k, i := range idxMap {
			var zMinusOmega bls.Fr
			bls.SubModFr(&zMinusOmega, z, &omega[i])
			bls.MulModFr(&zDenom[k], z, &zMinusOmega)
		}
		zInv := make([]bls.Fr, n-1)
		if err := FrBatchInv(zInv, zDenom); err != nil {
			return nil, nil, internalErr("batch inversion failed while building in-domain quotient")
		}
		var acc bls.Fr
		var term bls.Fr
		for k, i := range idxMap {
			bls.SubModFr(&term, &p[i], &y)
			bls.MulModFr(&term, &term, &omega[i])
			bls.MulModFr(&term, &term, &zInv[k])
			bls.AddModFr(&acc, &acc, &term)
		}
		q[m] = acc
	}

	proof, err := G1LincombFast(c.g1LagrangeBRP, q)
	if err != nil {
		return nil, nil, internalErr(err.Error())
	}
	return proof, &y, nil
}

// VerifyKZGProof implements verify_kzg_proof: it checks
// e(commitment - y*G1, G2) == e(proof, X2 - z*G2) where X2 = [tau]_2.
func (c *Context) VerifyKZGProof(commitment [params.BytesPerCommitment]byte, zBytes, yBytes [32]byte, proof [params.BytesPerProof]byte) (bool, error) {
	if err := c.checkLoaded(); err != nil {
		return false, err
	}
	comm, err := bls.FromCompressedG1(commitment[:])
	if err != nil {
		return false, badArgsf("commitment: %v", err)
	}
	proofPoint, err := bls.FromCompressedG1(proof[:])
	if err != nil {
		return false, badArgsf("proof: %v", err)
	}
	z, err := FrFromBytes(zBytes)
	if err != nil {
		return false, err
	}
	y, err := FrFromBytes(yBytes)
	if err != nil {
		return false, err
	}

	var yG1 bls.G1Point
	bls.MulG1(&yG1, &bls.GenG1, &y)
	var commMinusY bls.G1Point
	bls.SubG1(&commMinusY, comm, &yG1)

	var zG2 bls.G2Point
	bls.MulG2(&zG2, &bls.GenG2, &z)
	var x2MinusZ bls.G2Point
	bls.SubG2(&x2MinusZ, &c.g2Monomial[1], &zG2)

	return PairingsVerify(&commMinusY, &bls.GenG2, proofPoint, &x2MinusZ), nil
}

// VerifyBlobKZGProof implements verify_blob_kzg_proof: it recomputes the
// Fiat-Shamir challenge z, evaluates y from the blob directly, and delegates
// to VerifyKZGProof.
func (c *Context) VerifyBlobKZGProof(blob []byte, commitment [params.BytesPerCommitment]byte, proof [params.BytesPerProof]byte) (bool, error) {
	if err := c.checkLoaded(); err != nil {
		return false, err
	}
	p, err := BlobToPolynomial(blob)
	if err != nil {
		return false, err
	}
	z, err := ComputeChallenge(blob, commitment)
	if err != nil {
		return false, err
	}
	y, err := c.EvaluatePolynomialInEvaluationForm(p, &z)
	if err != nil {
		return false, err
	}
	return c.VerifyKZGProof(commitment, FrToBytes(&z), FrToBytes(&y), proof)
}
