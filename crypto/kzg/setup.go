package kzg

import (
	"sync/atomic"

	"github.com/protolambda/go-kzg/bls"

	"github.com/ethereum/go-kzg4844/params"
)

// setupState tracks the lifecycle of a Context: Loaded -> Freed.
// NewContext4096 produces a Loaded context; Free() may be called from either
// Loaded or Freed (idempotent) and makes every subsequent operation fail
// instead of touching freed memory.
type setupState int32

const (
	stateLoaded setupState = iota
	stateFreed
)

// Context holds a loaded trusted setup: the monomial and Lagrange G1 tables,
// the monomial G2 table, the extended and blob-sized roots-of-unity arrays
// with their bit-reversal-permuted forms, and the FK20 per-cell coset data.
// It holds no FK20 Toeplitz columns and no fixed-base MSM tables, whatever
// the precompute value. It is immutable after construction, so any number of
// goroutines may run commit/prove/verify/recover against the same *Context
// concurrently. NewContext4096, LoadTrustedSetupFile and Free are not safe to
// call concurrently with each other or with any in-flight operation; the
// embedder must serialize lifecycle against use.
type Context struct {
	state atomic.Int32

	g1Monomial     []bls.G1Point // [tau^i]_1, i=0..NumG1Points-1
	g1LagrangeBRP  []bls.G1Point // Lagrange basis over BRP(4096th roots), already permuted
	g2Monomial     []bls.G2Point // [tau^i]_2, i=0..NumG2Points-1

	rootsOfUnity    []bls.Fr // EXT+1 entries, starts and ends at 1
	brpRootsOfUnity []bls.Fr // bit-reversal permutation of rootsOfUnity[:EXT]

	blobRootsOfUnity    []bls.Fr // NumG1Points+1 entries, the 4096th roots
	blobBRPRootsOfUnity []bls.Fr // BRP of blobRootsOfUnity[:NumG1Points]

	precompute int
	fk20       *fk20Setup // always built by NewContext4096; nil after Free
}

func (c *Context) checkLoaded() error {
	if setupState(c.state.Load()) == stateFreed {
		return badArgs("trusted setup has been freed")
	}
	return nil
}

// NewContext4096 validates and loads a trusted setup from its raw,
// compressed point byte arrays: NumG1Points G1 points in monomial form,
// NumG1Points G1 points in Lagrange form, and NumG2Points G2 points in
// monomial form. precompute must be in [0,15]; it is range-checked and
// stored, but no fixed-base MSM tables are built and no operation reads it,
// so every value takes the same code path.
func NewContext4096(g1Monomial, g1Lagrange, g2Monomial []byte, precompute int) (*Context, error) {
	if precompute < 0 || precompute > params.MaxPrecomputeWbits {
		return nil, badArgsf("precompute must be in [0,%d]", params.MaxPrecomputeWbits)
	}
	if len(g1Monomial) != params.NumG1Points*params.BytesPerG1 {
		return nil, badArgs("g1 monomial table has the wrong length")
	}
	if len(g1Lagrange) != params.NumG1Points*params.BytesPerG1 {
		return nil, badArgs("g1 lagrange table has the wrong length")
	}
	if len(g2Monomial) != params.NumG2Points*params.BytesPerG2 {
		return nil, badArgs("g2 monomial table has the wrong length")
	}

	g1Mon, err := decompressG1Table(g1Monomial)
	if err != nil {
		return nil, err
	}
	g1Lag, err := decompressG1Table(g1Lagrange)
	if err != nil {
		return nil, err
	}
	g2Mon, err := decompressG2Table(g2Monomial)
	if err != nil {
		return nil, err
	}

	// Reject a setup whose "Lagrange" table is actually in monomial form:
	// e(g1_lag[1], g2_mon[0]) == e(g1_lag[0], g2_mon[1]) only holds when
	// g1_lag is secretly [tau^i]_1 rather than the Lagrange basis.
	if PairingsVerify(&g1Lag[1], &g2Mon[0], &g1Lag[0], &g2Mon[1]) {
		return nil, badArgs("g1 lagrange table is in monomial form")
	}

	if err := BitReversalPermutation(g1Lag); err != nil {
		return nil, err
	}

	root4096, err := PrimitiveRootOfUnity(params.NumG1Points)
	if err != nil {
		return nil, err
	}
	blobRoots, err := ExpandRootOfUnity(&root4096, params.NumG1Points)
	if err != nil {
		return nil, err
	}
	blobBRP := BitReversalPermuted(blobRoots[:params.NumG1Points])

	rootExt, err := PrimitiveRootOfUnity(params.FieldElementsPerExtBlob)
	if err != nil {
		return nil, err
	}
	roots, err := ExpandRootOfUnity(&rootExt, params.FieldElementsPerExtBlob)
	if err != nil {
		return nil, err
	}
	brpRoots := BitReversalPermuted(roots[:params.FieldElementsPerExtBlob])

	ctx := &Context{
		g1Monomial:          g1Mon,
		g1LagrangeBRP:       g1Lag,
		g2Monomial:          g2Mon,
		rootsOfUnity:        roots,
		brpRootsOfUnity:     brpRoots,
		blobRootsOfUnity:    blobRoots,
		blobBRPRootsOfUnity: blobBRP,
		precompute:          precompute,
	}

	fk, err := buildFK20Setup(ctx)
	if err != nil {
		return nil, err
	}
	ctx.fk20 = fk

	return ctx, nil
}

// Free releases the setup. It is safe to call more than once and safe to
// call on a nil *Context.
func (c *Context) Free() {
	if c == nil {
		return
	}
	if !c.state.CompareAndSwap(int32(stateLoaded), int32(stateFreed)) {
		return
	}
	c.g1Monomial = nil
	c.g1LagrangeBRP = nil
	c.g2Monomial = nil
	c.rootsOfUnity = nil
	c.brpRootsOfUnity = nil
	c.blobRootsOfUnity = nil
	c.blobBRPRootsOfUnity = nil
	c.fk20 = nil
}

func decompressG1Table(raw []byte) ([]bls.G1Point, error) {
	n := len(raw) / params.BytesPerG1
	out := make([]bls.G1Point, n)
	for i := 0; i < n; i++ {
		p, err := bls.FromCompressedG1(raw[i*params.BytesPerG1 : (i+1)*params.BytesPerG1])
		if err != nil {
			return nil, badArgsf("g1 point %d: %v", i, err)
		}
		out[i] = *p
	}
	return out, nil
}

func decompressG2Table(raw []byte) ([]bls.G2Point, error) {
	n := len(raw) / params.BytesPerG2
	out := make([]bls.G2Point, n)
	for i := 0; i < n; i++ {
		p, err := bls.FromCompressedG2(raw[i*params.BytesPerG2 : (i+1)*params.BytesPerG2])
		if err != nil {
			return nil, badArgsf("g2 point %d: %v", i, err)
		}
		out[i] = *p
	}
	return out, nil
}
