package kzg

import (
	"math/big"

	"github.com/protolambda/go-kzg/bls"
)

// modulus is the BLS12-381 scalar field order r, used only for the big.Int
// reductions (HashToBLSField, BigToFr) and the root-of-unity derivation; all
// other field arithmetic goes through bls.Fr.
var modulus, _ = new(big.Int).SetString(
	"52435875175126190479447740508185965837690552500527637822603658699938581184513", 10)

// lincombFastThreshold is the crossover point at and above which
// G1LincombFast switches from a direct double-and-add loop to the library's Pippenger-style
// multi-scalar multiplication.
const lincombFastThreshold = 8

// FrFromBytes deserializes a canonical, little-endian 32-byte scalar,
// rejecting any encoding of a value >= the field modulus.
func FrFromBytes(b [32]byte) (bls.Fr, error) {
	var out bls.Fr
	if !bls.FrFrom32(&out, b) {
		return out, badArgs("non-canonical field element")
	}
	return out, nil
}

// FrToBytes serializes a scalar to its canonical, little-endian 32-byte form.
func FrToBytes(f *bls.Fr) [32]byte {
	return bls.FrTo32(f)
}

// FrToBig converts a scalar to a big.Int via its canonical byte encoding.
func FrToBig(f *bls.Fr) *big.Int {
	b := bls.FrTo32(f)
	be := reverse32(b)
	return new(big.Int).SetBytes(be[:])
}

// BigToFr reduces an arbitrary big.Int modulo r and converts it to a scalar.
func BigToFr(out *bls.Fr, v *big.Int) {
	reduced := new(big.Int).Mod(v, modulus)
	bls.SetFr(out, reduced.String())
}

func reverse32(b [32]byte) [32]byte {
	for i := 0; i < 16; i++ {
		b[i], b[31-i] = b[31-i], b[i]
	}
	return b
}

// HashToBLSField reduces a 32-byte SHA-256 digest modulo r, per
// hash_to_bls_field. Unlike FrFromBytes this never fails: every digest maps
// to some canonical field element.
func HashToBLSField(digest [32]byte) bls.Fr {
	be := reverse32(digest)
	v := new(big.Int).Mod(new(big.Int).SetBytes(be[:]), modulus)
	var out bls.Fr
	bls.SetFr(&out, v.String())
	return out
}

// ComputePowers returns [1, x, x^2, ..., x^(n-1)].
func ComputePowers(x *bls.Fr, n int) []bls.Fr {
	powers := make([]bls.Fr, n)
	if n == 0 {
		return powers
	}
	bls.AsFr(&powers[0], 1)
	for i := 1; i < n; i++ {
		bls.MulModFr(&powers[i], &powers[i-1], x)
	}
	return powers
}

// FrBatchInv inverts every element of in using a single underlying field
// inversion (the Montgomery batch-inversion trick). It requires all elements
// to be non-zero and forbids in and out from aliasing.
func FrBatchInv(out, in []bls.Fr) error {
	n := len(in)
	if n == 0 {
		return badArgs("fr_batch_inv requires a non-empty input")
	}
	if len(out) != n {
		return badArgs("fr_batch_inv: out/in length mismatch")
	}
	if &in[0] == &out[0] {
		return badArgs("fr_batch_inv: in and out must not alias")
	}

	var zero bls.Fr
	bls.AsFr(&zero, 0)

	prefix := make([]bls.Fr, n)
	prefix[0] = in[0]
	if bls.EqualFr(&in[0], &zero) {
		return badArgs("fr_batch_inv: zero element in input")
	}
	for i := 1; i < n; i++ {
		if bls.EqualFr(&in[i], &zero) {
			return badArgs("fr_batch_inv: zero element in input")
		}
		bls.MulModFr(&prefix[i], &prefix[i-1], &in[i])
	}

	var one bls.Fr
	bls.AsFr(&one, 1)
	var inv bls.Fr
	bls.DivModFr(&inv, &one, &prefix[n-1])

	for i := n - 1; i > 0; i-- {
		bls.MulModFr(&out[i], &inv, &prefix[i-1])
		bls.MulModFr(&inv, &inv, &in[i])
	}
	out[0] = inv

	return nil
}

// G1LincombNaive computes sum(scalars[i] * points[i]) with a direct
// scalar-multiply-and-add loop. Intended for small N, or as the reference
// implementation against which G1LincombFast is checked.
func G1LincombNaive(points []bls.G1Point, scalars []bls.Fr) (*bls.G1Point, error) {
	if len(points) != len(scalars) {
		return nil, badArgs("g1_lincomb_naive: points/scalars length mismatch")
	}
	var zero bls.Fr
	var acc bls.G1Point
	bls.MulG1(&acc, &bls.GenG1, &zero) // identity
	var term bls.G1Point
	for i := range points {
		bls.MulG1(&term, &points[i], &scalars[i])
		bls.AddG1(&acc, &acc, &term)
	}
	return &acc, nil
}

// G1LincombFast computes sum(scalars[i] * points[i]), switching to the
// library's multi-scalar multiplication once N reaches
// lincombFastThreshold. No precomputed fixed-base tables are used.
func G1LincombFast(points []bls.G1Point, scalars []bls.Fr) (*bls.G1Point, error) {
	if len(points) != len(scalars) {
		return nil, badArgs("g1_lincomb_fast: points/scalars length mismatch")
	}
	if len(points) == 0 {
		var zero bls.Fr
		var acc bls.G1Point
		bls.MulG1(&acc, &bls.GenG1, &zero)
		return &acc, nil
	}
	if len(points) < lincombFastThreshold {
		return G1LincombNaive(points, scalars)
	}
	return bls.LinCombG1(points, scalars), nil
}

// PairingsVerify checks e(a,b) == e(c,d), the single pairing equation every
// KZG opening (and batch of openings) reduces to.
func PairingsVerify(a *bls.G1Point, b *bls.G2Point, c *bls.G1Point, d *bls.G2Point) bool {
	return bls.PairingsVerify(a, b, c, d)
}

// g1Identity returns the G1 identity element, obtained as 0*G rather than a
// hard-coded constant so it always agrees with the library's own notion of
// the point at infinity.
func g1Identity() bls.G1Point {
	var zero bls.Fr
	var id bls.G1Point
	bls.MulG1(&id, &bls.GenG1, &zero)
	return id
}
