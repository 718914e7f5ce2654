package kzg

import (
	"math/big"
	"math/bits"

	"github.com/protolambda/go-kzg/bls"
)

// primitiveRootGenerator is generator 7 of the BLS12-381 scalar field,
// from which every root of unity used by the core is derived.
var primitiveRootGenerator = big.NewInt(7)

// PrimitiveRootOfUnity returns a primitive N-th root of unity of Fr, derived
// as generator^((r-1)/N). N must divide r-1.
func PrimitiveRootOfUnity(n uint64) (bls.Fr, error) {
	nBig := new(big.Int).SetUint64(n)
	rMinus1 := new(big.Int).Sub(modulus, big.NewInt(1))
	q, rem := new(big.Int).QuoRem(rMinus1, nBig, new(big.Int))
	if rem.Sign() != 0 {
		return bls.Fr{}, badArgsf("order %d does not divide r-1", n)
	}
	rootBig := new(big.Int).Exp(primitiveRootGenerator, q, modulus)
	var root bls.Fr
	BigToFr(&root, rootBig)
	return root, nil
}

// ExpandRootOfUnity fills out[0..N] with successive powers of root, i.e. the
// N-th roots of unity plus a trailing wrap-around copy of 1. It requires
// N >= 2 and validates that root has exact order N: out[N] must equal 1 and
// no earlier entry may.
func ExpandRootOfUnity(root *bls.Fr, n uint64) ([]bls.Fr, error) {
	if n < 2 {
		return nil, badArgs("expand_root_of_unity requires N >= 2")
	}
	out := make([]bls.Fr, n+1)
	bls.AsFr(&out[0], 1)
	out[1] = *root
	for i := uint64(2); i <= n; i++ {
		bls.MulModFr(&out[i], &out[i-1], root)
	}
	if !bls.EqualFr(&out[n], &out[0]) {
		return nil, badArgs("expand_root_of_unity: root does not have order N")
	}
	for i := uint64(1); i < n; i++ {
		if bls.EqualFr(&out[i], &out[0]) {
			return nil, badArgs("expand_root_of_unity: root has order smaller than N")
		}
	}
	return out, nil
}

func isPowerOfTwo(n uint64) bool { return n > 0 && n&(n-1) == 0 }

func reverseBitsOrder(i, order uint64) uint64 {
	return bits.Reverse64(i) >> (64 - bits.Len64(order-1))
}

// BitReversalPermutation reorders s in place so the element originally at
// index i moves to index bitrev_{log2 N}(i). len(s) must be a power of two
// >= 2.
func BitReversalPermutation[T any](s []T) error {
	n := uint64(len(s))
	if !isPowerOfTwo(n) || n < 2 {
		return badArgs("bit_reversal_permutation requires a power-of-two length >= 2")
	}
	for i := uint64(0); i < n; i++ {
		j := reverseBitsOrder(i, n)
		if j > i {
			s[i], s[j] = s[j], s[i]
		}
	}
	return nil
}

// BitReversalPermuted returns a bit-reversal-permuted copy of s, leaving s
// untouched.
func BitReversalPermuted[T any](s []T) []T {
	out := make([]T, len(s))
	copy(out, s)
	_ = BitReversalPermutation(out)
	return out
}

// invertRootsTable turns a table of n forward n-th roots [ω^0,...,ω^(n-1)]
// into the corresponding table of inverse roots [ω^0,ω^-1,...,ω^-(n-1)],
// using ω^-i = ω^(n-i).
func invertRootsTable(roots []bls.Fr) []bls.Fr {
	n := len(roots)
	out := make([]bls.Fr, n)
	out[0] = roots[0]
	for i := 1; i < n; i++ {
		out[i] = roots[n-i]
	}
	return out
}

// FrFFT computes the forward or inverse radix-2 DFT of vals over the
// provided roots-of-unity table (length must be len(vals)+1, as produced by
// ExpandRootOfUnity: the trailing entry, the wrap-around 1, is not used by
// the recursion but keeps callers from having to special-case the table).
// The same forward table works for both directions: the inverse transform
// runs the identical recursion over the inverted roots, then scales by 1/n.
func FrFFT(vals []bls.Fr, roots []bls.Fr, inverse bool) ([]bls.Fr, error) {
	n := len(vals)
	if n == 0 || !isPowerOfTwo(uint64(n)) {
		return nil, badArgs("fr_fft requires a power-of-two length")
	}
	if len(roots) < n {
		return nil, badArgs("fr_fft: roots table too short")
	}
	stride := len(roots) / n
	// roots table strided down to exactly n distinct n-th roots.
	rootsN := make([]bls.Fr, n)
	for i := range rootsN {
		rootsN[i] = roots[i*stride]
	}
	if inverse {
		rootsN = invertRootsTable(rootsN)
	}
	out := frFFTRecurse(vals, rootsN)
	if inverse {
		var nInv bls.Fr
		bls.AsFr(&nInv, uint64(n))
		var one bls.Fr
		bls.AsFr(&one, 1)
		bls.DivModFr(&nInv, &one, &nInv)
		for i := range out {
			bls.MulModFr(&out[i], &out[i], &nInv)
		}
	}
	return out, nil
}

// frFFTRecurse implements the textbook radix-2 decimation-in-time recursion
// (even/odd split of the inputs); roots holds
// exactly len(vals) n-th roots of unity (not bit-reversal-permuted).
func frFFTRecurse(vals []bls.Fr, roots []bls.Fr) []bls.Fr {
	n := len(vals)
	if n == 1 {
		return []bls.Fr{vals[0]}
	}
	half := n / 2

	evenVals := make([]bls.Fr, half)
	oddVals := make([]bls.Fr, half)
	evenRoots := make([]bls.Fr, half)
	for i := 0; i < half; i++ {
		evenVals[i] = vals[2*i]
		oddVals[i] = vals[2*i+1]
		evenRoots[i] = roots[2*i]
	}

	l := frFFTRecurse(evenVals, evenRoots)
	r := frFFTRecurse(oddVals, evenRoots)

	out := make([]bls.Fr, n)
	var tmp bls.Fr
	for i := 0; i < half; i++ {
		bls.MulModFr(&tmp, &roots[i], &r[i])
		bls.AddModFr(&out[i], &l[i], &tmp)
		bls.SubModFr(&out[i+half], &l[i], &tmp)
	}
	return out
}

// G1FFT is the G1-point analogue of FrFFT, used to move between a
// polynomial's monomial G1 coefficients and its evaluations (or back) in the
// FK20 pipeline.
func G1FFT(vals []bls.G1Point, roots []bls.Fr, inverse bool) ([]bls.G1Point, error) {
	n := len(vals)
	if n == 0 || !isPowerOfTwo(uint64(n)) {
		return nil, badArgs("g1_fft requires a power-of-two length")
	}
	if len(roots) < n {
		return nil, badArgs("g1_fft: roots table too short")
	}
	stride := len(roots) / n
	rootsN := make([]bls.Fr, n)
	for i := range rootsN {
		rootsN[i] = roots[i*stride]
	}
	if inverse {
		rootsN = invertRootsTable(rootsN)
	}
	out := g1FFTRecurse(vals, rootsN)
	if inverse {
		var nInv bls.Fr
		bls.AsFr(&nInv, uint64(n))
		var one bls.Fr
		bls.AsFr(&one, 1)
		bls.DivModFr(&nInv, &one, &nInv)
		for i := range out {
			bls.MulG1(&out[i], &out[i], &nInv)
		}
	}
	return out, nil
}

func g1FFTRecurse(vals []bls.G1Point, roots []bls.Fr) []bls.G1Point {
	n := len(vals)
	if n == 1 {
		return []bls.G1Point{vals[0]}
	}
	half := n / 2

	evenVals := make([]bls.G1Point, half)
	oddVals := make([]bls.G1Point, half)
	evenRoots := make([]bls.Fr, half)
	for i := 0; i < half; i++ {
		evenVals[i] = vals[2*i]
		oddVals[i] = vals[2*i+1]
		evenRoots[i] = roots[2*i]
	}

	l := g1FFTRecurse(evenVals, evenRoots)
	r := g1FFTRecurse(oddVals, evenRoots)

	out := make([]bls.G1Point, n)
	var tmp bls.G1Point
	for i := 0; i < half; i++ {
		bls.MulG1(&tmp, &r[i], &roots[i])
		bls.AddG1(&out[i], &l[i], &tmp)
		bls.SubG1(&out[i+half], &l[i], &tmp)
	}
	return out
}
