package kzg

import (
	"github.com/protolambda/go-kzg/bls"

	"github.com/ethereum/go-kzg4844/params"
)

// RecoverCellsAndKZGProofs implements recover_cells_and_kzg_proofs: given at
// least half of the CellsPerExtBlob cells of an extended blob (cell_index
// identifying which coset each supplied cell occupies), it reconstructs the
// full set of extended evaluations via the zero-polynomial erasure-coding
// method, then recomputes every cell and its proof from the recovered
// polynomial.
func (c *Context) RecoverCellsAndKZGProofs(cellIndices []uint64, cells [][params.BytesPerCell]byte) (outCells [params.CellsPerExtBlob][params.BytesPerCell]byte, outProofs [params.CellsPerExtBlob][params.BytesPerProof]byte, err error) {
	if err = c.checkLoaded(); err != nil {
		return
	}
	if len(cellIndices) != len(cells) {
		err = badArgs("recover_cells_and_kzg_proofs: cell_indices/cells length mismatch")
		return
	}
	if len(cellIndices) < params.CellsPerExtBlob/2 {
		err = badArgs("recover_cells_and_kzg_proofs: fewer than half the cells were supplied")
		return
	}

	seen := make(map[uint64]bool, len(cellIndices))
	present := make([]bool, params.CellsPerExtBlob)
	extEvalsBRP := make([]bls.Fr, params.FieldElementsPerExtBlob)
	n := params.FieldElementsPerCell

	for i, idx := range cellIndices {
		if idx >= params.CellsPerExtBlob {
			err = badArgs("cell index out of range")
			return
		}
		if seen[idx] {
			err = badArgs("recover_cells_and_kzg_proofs: duplicate cell index")
			return
		}
		seen[idx] = true
		present[idx] = true
		for k := 0; k < n; k++ {
			var chunk [32]byte
			copy(chunk[:], cells[i][k*params.BytesPerFieldElement:(k+1)*params.BytesPerFieldElement])
			fr, ferr := FrFromBytes(chunk)
			if ferr != nil {
				err = badArgsf("cell %d element %d: %v", i, k, ferr)
				return
			}
			extEvalsBRP[int(idx)*n+k] = fr
		}
	}

	recovered, rerr := c.recoverPolynomialCoefficients(present, extEvalsBRP)
	if rerr != nil {
		err = rerr
		return
	}

	extEvals, eerr := c.extendToDomain(recovered)
	if eerr != nil {
		err = eerr
		return
	}

	for j := 0; j < params.CellsPerExtBlob; j++ {
		for i := 0; i < n; i++ {
			b := FrToBytes(&extEvals[j*n+i])
			copy(outCells[j][i*params.BytesPerFieldElement:(i+1)*params.BytesPerFieldElement], b[:])
		}
		q := syntheticDivideByXNMinusA(recovered, n, &c.fk20.cosetShiftPow[j])
		proofPoint, perr := G1LincombFast(c.g1Monomial[:len(q)], q)
		if perr != nil {
			err = internalErr(perr.Error())
			return
		}
		copy(outProofs[j][:], bls.ToCompressedG1(proofPoint))
	}
	return
}

// recoverPolynomialCoefficients reconstructs the original (degree <
// FieldElementsPerBlob) polynomial's coefficients from a partial set of
// bit-reversal-permuted extended evaluations, via the standard
// zero-polynomial erasure decoding method:
//
//  1. Build Z(X), the vanishing polynomial of the missing cells' cosets:
//     Z(X) = Π (X^n - a_j) over every missing cell index j. Raising a point
//     of cell j's coset to the n-th power collapses it to the single value
//     a_j = cosetShiftPow[j], so Z is exactly zero at every missing
//     evaluation point and nonzero everywhere else.
//  2. E(X) = (Z * P)(X) is known everywhere the evaluations are known (it is
//     zero at every missing point, and agrees with Z*P elsewhere), so its
//     evaluations are Z's own evaluations times the known samples, with 0
//     standing in for P's unknown value at missing points.
//  3. Divide out Z in the coefficient domain via another pair of FFTs:
//     Q = E / Z is computed by transforming both into a domain where the
//     division becomes pointwise, then transforming back.
func (c *Context) recoverPolynomialCoefficients(present []bool, extEvalsBRP []bls.Fr) ([]bls.Fr, error) {
	extLen := params.FieldElementsPerExtBlob
	n := params.FieldElementsPerCell

	zCoeffs := make([]bls.Fr, 1)
	bls.AsFr(&zCoeffs[0], 1)
	for j := 0; j < params.CellsPerExtBlob; j++ {
		if present[j] {
			continue
		}
		zCoeffs = multiplyByXNMinusA(zCoeffs, n, &c.fk20.cosetShiftPow[j])
	}
	if len(zCoeffs) > extLen {
		return nil, internalErr("recover_cells_and_kzg_proofs: too many missing cells")
	}
	zCoeffsPadded := make([]bls.Fr, extLen)
	copy(zCoeffsPadded, zCoeffs)

	zEvalsNatural, err := FrFFT(zCoeffsPadded, c.rootsOfUnity, false)
	if err != nil {
		return nil, internalErr(err.Error())
	}
	zEvalsBRP := BitReversalPermuted(zEvalsNatural)

	eEvalsBRP := make([]bls.Fr, extLen)
	for i := range eEvalsBRP {
		bls.MulModFr(&eEvalsBRP[i], &zEvalsBRP[i], &extEvalsBRP[i])
	}

	eEvalsNatural := make([]bls.Fr, extLen)
	copy(eEvalsNatural, eEvalsBRP)
	if err := BitReversalPermutation(eEvalsNatural); err != nil {
		return nil, internalErr(err.Error())
	}
	ezCoeffs, err := FrFFT(eEvalsNatural, c.rootsOfUnity, true)
	if err != nil {
		return nil, internalErr(err.Error())
	}

	// Evaluate both Z and E's coefficient-domain representations at a coset
	// shift of the extended domain (multiplying the natural-order
	// coefficient vectors by a geometric sequence before transforming is the
	// standard trick to avoid evaluating exactly at the vanishing points),
	// then divide pointwise and transform back.
	shift := primitiveRootGenerator
	var shiftFr bls.Fr
	BigToFr(&shiftFr, shift)

	zCosetEvals, err := cosetFFT(zCoeffsPadded, &shiftFr, c.rootsOfUnity, false)
	if err != nil {
		return nil, err
	}
	ezCosetEvals, err := cosetFFT(ezCoeffs, &shiftFr, c.rootsOfUnity, false)
	if err != nil {
		return nil, err
	}

	pCosetEvals := make([]bls.Fr, extLen)
	invZ := make([]bls.Fr, extLen)
	if err := FrBatchInv(invZ, zCosetEvals); err != nil {
		return nil, internalErr("recover_cells_and_kzg_proofs: vanishing polynomial evaluated to zero on its coset")
	}
	for i := range pCosetEvals {
		bls.MulModFr(&pCosetEvals[i], &ezCosetEvals[i], &invZ[i])
	}

	pCoeffsShifted, err := FrFFT(pCosetEvals, c.rootsOfUnity, true)
	if err != nil {
		return nil, internalErr(err.Error())
	}
	var one, shiftInv bls.Fr
	bls.AsFr(&one, 1)
	bls.DivModFr(&shiftInv, &one, &shiftFr)
	shiftInvPowers := ComputePowers(&shiftInv, extLen)
	pCoeffs := make([]bls.Fr, extLen)
	for i := range pCoeffs {
		bls.MulModFr(&pCoeffs[i], &pCoeffsShifted[i], &shiftInvPowers[i])
	}

	return pCoeffs[:params.FieldElementsPerBlob], nil
}

// cosetFFT evaluates the polynomial given by coeffs (natural order) at
// shift*omega^i for i=0..len(coeffs)-1, by first scaling coeffs by powers of
// shift and then running a plain FFT.
func cosetFFT(coeffs []bls.Fr, shift *bls.Fr, roots []bls.Fr, inverse bool) ([]bls.Fr, error) {
	shiftPowers := ComputePowers(shift, len(coeffs))
	scaled := make([]bls.Fr, len(coeffs))
	for i := range coeffs {
		bls.MulModFr(&scaled[i], &coeffs[i], &shiftPowers[i])
	}
	return FrFFT(scaled, roots, inverse)
}

// multiplyByXNMinusA returns coeffs * (X^n - a) in ascending-degree order,
// the inverse of syntheticDivideByXNMinusA: the coefficient of X^i on the
// right is coeffs[i-n] - a*coeffs[i], with either term treated as zero once
// its index falls outside coeffs.
func multiplyByXNMinusA(coeffs []bls.Fr, n int, a *bls.Fr) []bls.Fr {
	m := len(coeffs)
	out := make([]bls.Fr, m+n)
	for i := range out {
		var term bls.Fr
		if i >= n {
			term = coeffs[i-n]
		}
		if i < m {
			var sub bls.Fr
			bls.MulModFr(&sub, a, &coeffs[i])
			bls.SubModFr(&term, &term, &sub)
		}
		out[i] = term
	}
	return out
}
