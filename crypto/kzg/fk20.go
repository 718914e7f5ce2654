package kzg

import (
	"runtime"

	"github.com/protolambda/go-kzg/bls"
	"golang.org/x/sync/errgroup"

	"github.com/ethereum/go-kzg4844/params"
)

// fk20Setup holds the per-cell data the multi-proof path reuses across every
// call, none of which depends on the blob being opened, only on the setup's
// roots of unity:
//
//   - nthRoots: the canonical FieldElementsPerCell-th roots of unity, used to
//     move a cell's evaluations into and out of its own coset.
//   - cosetShiftPow: a_j = h_j^n, the scalar with Z_j(X) = X^n - a_j the
//     vanishing polynomial of the j-th cell's evaluation points.
//   - cosetShiftInvPow: h_j^-k for k = 0..n-1, used to undo the coset shift
//     when interpolating a cell's evaluations back to monomial form.
type fk20Setup struct {
	nthRoots         []bls.Fr
	cosetShiftPow    []bls.Fr
	cosetShiftInvPow [][]bls.Fr
}

// buildFK20Setup derives the FK20 per-cell coset data from ctx's extended
// roots-of-unity table. The j-th cell of the bit-reversal-permuted extended
// domain is exactly the multiplicative coset h_j * <omega_n>, where h_j is
// brpRootsOfUnity[j*n] and omega_n is the canonical n-th root of unity; its
// vanishing polynomial is X^n - h_j^n.
func buildFK20Setup(ctx *Context) (*fk20Setup, error) {
	n := params.FieldElementsPerCell
	k := params.CellsPerExtBlob

	root, err := PrimitiveRootOfUnity(uint64(n))
	if err != nil {
		return nil, err
	}
	nthRoots, err := ExpandRootOfUnity(&root, uint64(n))
	if err != nil {
		return nil, err
	}

	var one bls.Fr
	bls.AsFr(&one, 1)

	shifts := make([]bls.Fr, k)
	shiftInvPows := make([][]bls.Fr, k)
	for j := 0; j < k; j++ {
		h := ctx.brpRootsOfUnity[j*n]
		shifts[j] = frPow(&h, uint64(n))

		var hInv bls.Fr
		bls.DivModFr(&hInv, &one, &h)
		shiftInvPows[j] = ComputePowers(&hInv, n)
	}
	return &fk20Setup{nthRoots: nthRoots, cosetShiftPow: shifts, cosetShiftInvPow: shiftInvPows}, nil
}

// ComputeCellsAndKZGProofs implements compute_cells_and_kzg_proofs: it
// extends blob's polynomial to CellsPerExtBlob*FieldElementsPerCell
// evaluations via a Reed-Solomon extension, and opens a proof for each of
// the CellsPerExtBlob cells the extended evaluations partition into.
func (c *Context) ComputeCellsAndKZGProofs(blob []byte) (cells [params.CellsPerExtBlob][params.BytesPerCell]byte, proofs [params.CellsPerExtBlob][params.BytesPerProof]byte, err error) {
	if err = c.checkLoaded(); err != nil {
		return
	}
	p, err := BlobToPolynomial(blob)
	if err != nil {
		return
	}

	coeffs, err := c.polynomialCoefficients(p)
	if err != nil {
		return
	}

	extEvals, err := c.extendToDomain(coeffs)
	if err != nil {
		return
	}

	n := params.FieldElementsPerCell
	for j := 0; j < params.CellsPerExtBlob; j++ {
		for i := 0; i < n; i++ {
			b := FrToBytes(&extEvals[j*n+i])
			copy(cells[j][i*params.BytesPerFieldElement:(i+1)*params.BytesPerFieldElement], b[:])
		}

		q := syntheticDivideByXNMinusA(coeffs, n, &c.fk20.cosetShiftPow[j])
		proofPoint, perr := G1LincombFast(c.g1Monomial[:len(q)], q)
		if perr != nil {
			err = internalErr(perr.Error())
			return
		}
		copy(proofs[j][:], bls.ToCompressedG1(proofPoint))
	}
	return
}

// polynomialCoefficients recovers p's monomial-basis coefficients from its
// Lagrange-BRP evaluations: undo the BRP, then run an inverse FFT over the
// blob's 4096th-root domain.
func (c *Context) polynomialCoefficients(p Polynomial) ([]bls.Fr, error) {
	evalsNatural := make([]bls.Fr, len(p))
	copy(evalsNatural, p)
	if err := BitReversalPermutation(evalsNatural); err != nil {
		return nil, internalErr(err.Error())
	}
	coeffs, err := FrFFT(evalsNatural, c.blobRootsOfUnity, true)
	if err != nil {
		return nil, internalErr(err.Error())
	}
	return coeffs, nil
}

// extendToDomain zero-pads coeffs (degree < FieldElementsPerBlob) out to
// FieldElementsPerExtBlob and evaluates over the extended roots of unity,
// returning the bit-reversal-permuted result so it lines up cell-for-cell
// with brpRootsOfUnity.
func (c *Context) extendToDomain(coeffs []bls.Fr) ([]bls.Fr, error) {
	padded := make([]bls.Fr, params.FieldElementsPerExtBlob)
	copy(padded, coeffs)
	evalsNatural, err := FrFFT(padded, c.rootsOfUnity, false)
	if err != nil {
		return nil, internalErr(err.Error())
	}
	return BitReversalPermuted(evalsNatural), nil
}

// syntheticDivideByXNMinusA divides the polynomial given by coeffs
// (ascending degree order) by X^n - a, discarding the remainder (which, for
// the cell openings, is exactly the coset's Lagrange interpolation and is
// handled separately by the verifier). len(coeffs) must be a multiple of n.
//
// Writing p(X) = q(X)*(X^n - a) + r(X), the coefficient of X^m on the right
// is q[m-n] - a*q[m] for m >= n (with q[m] treated as zero once m exceeds
// q's degree), so q[m-n] = coeffs[m] + a*q[m]. Since q[m-n] only depends on
// q[m], a single descending pass fills q completely.
func syntheticDivideByXNMinusA(coeffs []bls.Fr, n int, a *bls.Fr) []bls.Fr {
	N := len(coeffs)
	q := make([]bls.Fr, N-n)
	for m := N - 1; m >= n; m-- {
		contribution := coeffs[m]
		if m < len(q) {
			var term bls.Fr
			bls.MulModFr(&term, a, &q[m])
			bls.AddModFr(&contribution, &coeffs[m], &term)
		}
		q[m-n] = contribution
	}
	return q
}

// VerifyCellKZGProofBatch implements verify_cell_kzg_proof_batch: each
// (commitment, cell_index, cell, proof) row asserts that the polynomial
// committed to evaluates, over the cell_index-th coset of the extended
// domain, to the field elements packed into cell. Rows are grouped by cell
// index so every group shares the same vanishing-polynomial commitment on
// the pairing's right-hand side.
func (c *Context) VerifyCellKZGProofBatch(commitments [][params.BytesPerCommitment]byte, cellIndices []uint64, cells [][params.BytesPerCell]byte, proofs [][params.BytesPerProof]byte) (bool, error) {
	if err := c.checkLoaded(); err != nil {
		return false, err
	}
	m := len(cellIndices)
	if len(commitments) != m || len(cells) != m || len(proofs) != m {
		return false, badArgs("verify_cell_kzg_proof_batch: mismatched row counts")
	}
	if m == 0 {
		return true, nil
	}
	for _, idx := range cellIndices {
		if idx >= params.CellsPerExtBlob {
			return false, badArgs("cell index out of range")
		}
	}

	tuples := make([]cellBatchTuple, m)
	for i := 0; i < m; i++ {
		tuples[i] = cellBatchTuple{Commitment: commitments[i], CellIndex: cellIndices[i], Cell: cells[i], Proof: proofs[i]}
	}
	rPowers, err := ComputeRPowersForVerifyCellKZGProofBatch(tuples)
	if err != nil {
		return false, err
	}

	// Decoding each row's commitment/proof and interpolating its cell (an
	// FFT plus an MSM) is independent per row, so fan it out across workers
	// before folding the results into the per-cell-index groups below, which
	// must happen sequentially since every row adds into a shared map.
	type row struct {
		commitment *bls.G1Point
		proof      *bls.G1Point
		interp     *bls.G1Point
	}
	rows := make([]row, m)
	var eg errgroup.Group
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for i := 0; i < m; i++ {
		i := i
		eg.Go(func() error {
			comm, err := bls.FromCompressedG1(commitments[i][:])
			if err != nil {
				return badArgsf("commitment %d: %v", i, err)
			}
			proofPoint, err := bls.FromCompressedG1(proofs[i][:])
			if err != nil {
				return badArgsf("proof %d: %v", i, err)
			}

			poly := make(Polynomial, params.FieldElementsPerCell)
			for k := 0; k < params.FieldElementsPerCell; k++ {
				var chunk [32]byte
				copy(chunk[:], cells[i][k*params.BytesPerFieldElement:(k+1)*params.BytesPerFieldElement])
				fr, err := FrFromBytes(chunk)
				if err != nil {
					return badArgsf("cell %d element %d: %v", i, k, err)
				}
				poly[k] = fr
			}
			interp, err := c.interpolateCoset(poly, int(cellIndices[i]))
			if err != nil {
				return err
			}
			rows[i] = row{commitment: comm, proof: proofPoint, interp: interp}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return false, err
	}

	type group struct {
		lhs   bls.G1Point // sum r^i * (C_i - I_i)
		proof bls.G1Point // sum r^i * proof_i
	}
	groups := make(map[uint64]*group)

	for i := 0; i < m; i++ {
		var diff bls.G1Point
		bls.SubG1(&diff, rows[i].commitment, rows[i].interp)
		var weightedDiff, weightedProof bls.G1Point
		bls.MulG1(&weightedDiff, &diff, &rPowers[i])
		bls.MulG1(&weightedProof, rows[i].proof, &rPowers[i])

		g, ok := groups[cellIndices[i]]
		if !ok {
			id := g1Identity()
			g = &group{lhs: id, proof: id}
			groups[cellIndices[i]] = g
		}
		bls.AddG1(&g.lhs, &g.lhs, &weightedDiff)
		bls.AddG1(&g.proof, &g.proof, &weightedProof)
	}

	zN := c.g2Monomial[params.FieldElementsPerCell]
	for idx, g := range groups {
		var shiftG2 bls.G2Point
		bls.MulG2(&shiftG2, &bls.GenG2, &c.fk20.cosetShiftPow[idx])
		var zJ bls.G2Point
		bls.SubG2(&zJ, &zN, &shiftG2)
		if !PairingsVerify(&g.lhs, &bls.GenG2, &g.proof, &zJ) {
			return false, nil
		}
	}
	return true, nil
}

// interpolateCoset commits to the Lagrange interpolation of poly (a cell's
// worth of evaluations, given at h*omega^0..h*omega^(n-1) for the cellIdx-th
// coset shift h, but stored bit-reversal-permuted like every other per-cell
// array) in monomial form. Writing I(X) = sum d_k X^k, evaluating at
// h*omega^i gives sum_k (d_k h^k) omega^(ik), i.e. the naturally-ordered
// evaluations are the forward DFT of e_k = d_k h^k at the canonical n-th
// roots. So e = IFFT(natural-order poly), and d_k = e_k * h^-k.
func (c *Context) interpolateCoset(poly Polynomial, cellIdx int) (*bls.G1Point, error) {
	n := len(poly)
	natural := make(Polynomial, n)
	copy(natural, poly)
	if err := BitReversalPermutation(natural); err != nil {
		return nil, internalErr(err.Error())
	}
	e, err := FrFFT(natural, c.fk20.nthRoots, true)
	if err != nil {
		return nil, internalErr(err.Error())
	}
	d := make([]bls.Fr, n)
	hInvPow := c.fk20.cosetShiftInvPow[cellIdx]
	for k := 0; k < n; k++ {
		bls.MulModFr(&d[k], &e[k], &hInvPow[k])
	}
	return G1LincombFast(c.g1Monomial[:n], d)
}
