package kzg

import (
	"github.com/protolambda/go-kzg/bls"

	"github.com/ethereum/go-kzg4844/params"
)

// VerifyBlobKZGProofBatch implements verify_blob_kzg_proof_batch: n==0
// trivially accepts, n==1 delegates to the single-proof check (no Fiat-Shamir
// randomness needed), and otherwise the whole batch collapses into one
// pairing check by folding every row together with random coefficients
// derived from every row's contents.
func (c *Context) VerifyBlobKZGProofBatch(blobs [][]byte, commitments [][params.BytesPerCommitment]byte, proofs [][params.BytesPerProof]byte) (bool, error) {
	if err := c.checkLoaded(); err != nil {
		return false, err
	}
	n := len(blobs)
	if len(commitments) != n || len(proofs) != n {
		return false, badArgs("verify_blob_kzg_proof_batch: mismatched row counts")
	}
	if n == 0 {
		return true, nil
	}
	if n == 1 {
		return c.VerifyBlobKZGProof(blobs[0], commitments[0], proofs[0])
	}

	tuples := make([]batchTuple, n)
	commPoints := make([]*bls.G1Point, n)
	proofPoints := make([]*bls.G1Point, n)
	zs := make([]bls.Fr, n)
	ys := make([]bls.Fr, n)

	for i := 0; i < n; i++ {
		comm, err := bls.FromCompressedG1(commitments[i][:])
		if err != nil {
			return false, badArgsf("commitment %d: %v", i, err)
		}
		proofPoint, err := bls.FromCompressedG1(proofs[i][:])
		if err != nil {
			return false, badArgsf("proof %d: %v", i, err)
		}
		p, err := BlobToPolynomial(blobs[i])
		if err != nil {
			return false, err
		}
		z, err := ComputeChallenge(blobs[i], commitments[i])
		if err != nil {
			return false, err
		}
		y, err := c.EvaluatePolynomialInEvaluationForm(p, &z)
		if err != nil {
			return false, err
		}

		commPoints[i] = comm
		proofPoints[i] = proofPoint
		zs[i] = z
		ys[i] = y
		tuples[i] = batchTuple{Commitment: commitments[i], Z: FrToBytes(&z), Y: FrToBytes(&y), Proof: proofs[i]}
	}

	rPowers, err := ComputeRPowersForVerifyBlobKZGProofBatch(tuples)
	if err != nil {
		return false, err
	}

	return c.verifyFoldedOpenings(commPoints, zs, ys, proofPoints, rPowers)
}

// verifyFoldedOpenings checks the batched KZG pairing equation
//
//	e(sum r^i*C_i - sum r^i*y_i*G1 + sum r^i*z_i*proof_i, G2) == e(sum r^i*proof_i, [tau]_2)
//
// which holds iff every row individually satisfies e(C_i-y_i*G1, G2) ==
// e(proof_i, [tau]_2-z_i*G2), the single-opening equation from
// VerifyKZGProof, folded with random weights r^i so a forged row cannot
// cancel against a genuine one except with negligible probability.
func (c *Context) verifyFoldedOpenings(commitments []*bls.G1Point, zs, ys []bls.Fr, proofs []*bls.G1Point, rPowers []bls.Fr) (bool, error) {
	n := len(commitments)

	weightedComms := make([]bls.G1Point, n)
	for i := 0; i < n; i++ {
		weightedComms[i] = *commitments[i]
	}
	commAgg, err := G1LincombFast(weightedComms, rPowers)
	if err != nil {
		return false, internalErr(err.Error())
	}

	var rY bls.Fr
	for i := 0; i < n; i++ {
		var term bls.Fr
		bls.MulModFr(&term, &rPowers[i], &ys[i])
		bls.AddModFr(&rY, &rY, &term)
	}
	var rYG1 bls.G1Point
	bls.MulG1(&rYG1, &bls.GenG1, &rY)

	rzPowers := make([]bls.Fr, n)
	for i := 0; i < n; i++ {
		bls.MulModFr(&rzPowers[i], &rPowers[i], &zs[i])
	}
	weightedProofsForZ := make([]bls.G1Point, n)
	for i := 0; i < n; i++ {
		weightedProofsForZ[i] = *proofs[i]
	}
	rzProofAgg, err := G1LincombFast(weightedProofsForZ, rzPowers)
	if err != nil {
		return false, internalErr(err.Error())
	}

	var lhs bls.G1Point
	bls.SubG1(&lhs, commAgg, &rYG1)
	bls.AddG1(&lhs, &lhs, rzProofAgg)

	proofAgg, err := G1LincombFast(weightedProofsForZ, rPowers)
	if err != nil {
		return false, internalErr(err.Error())
	}

	return PairingsVerify(&lhs, &bls.GenG2, proofAgg, &c.g2Monomial[1]), nil
}
