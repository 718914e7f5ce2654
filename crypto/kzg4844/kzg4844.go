// Package kzg4844 gives the core crypto/kzg engine a binding-friendly face:
// named, fixed-size types standing in for the raw byte arrays, and method
// names matching the EIP-4844/EIP-7594 operations they implement. It holds
// no package-level state — every call takes the *Context it operates
// against, so embedders decide setup lifetime and lifetime alone.
package kzg4844

import (
	"github.com/ethereum/go-kzg4844/crypto/kzg"
	"github.com/ethereum/go-kzg4844/params"
)

// Blob is the 4096-field-element polynomial data carried by an EIP-4844 blob
// transaction.
type Blob [params.BytesPerBlob]byte

// Commitment is a compressed KZG commitment to a Blob's polynomial.
type Commitment [params.BytesPerCommitment]byte

// Proof is a compressed KZG opening proof, either at an arbitrary point or
// at the Fiat-Shamir challenge derived from a blob and its commitment.
type Proof [params.BytesPerProof]byte

// Cell is one of the 128 equal partitions of a blob's Reed-Solomon-extended
// evaluations, used by EIP-7594 data availability sampling.
type Cell [params.BytesPerCell]byte

// Context wraps a loaded trusted setup. It is safe for concurrent use by
// every method below once constructed; NewContext and Close must not race
// with each other or with any in-flight call.
type Context struct {
	inner *kzg.Context
}

// NewContext loads a trusted setup from its three raw point tables:
// NumG1Points compressed G1 points in monomial form, the same count in
// Lagrange form, and NumG2Points compressed G2 points in monomial form.
// precompute must be in [0,15]; it is validated but builds no fixed-base MSM
// tables, so every value takes the same code path.
func NewContext(g1Monomial, g1Lagrange, g2Monomial []byte, precompute int) (*Context, error) {
	inner, err := kzg.NewContext4096(g1Monomial, g1Lagrange, g2Monomial, precompute)
	if err != nil {
		return nil, err
	}
	return &Context{inner: inner}, nil
}

// NewContextFromSetupFile loads a trusted setup from the on-disk text format
// described by the project's reference setup file.
func NewContextFromSetupFile(path string, precompute int) (*Context, error) {
	inner, err := kzg.LoadTrustedSetupFile(path, precompute)
	if err != nil {
		return nil, err
	}
	return &Context{inner: inner}, nil
}

// Close releases the setup. Safe to call more than once, and safe to call
// on a nil *Context.
func (c *Context) Close() {
	if c == nil {
		return
	}
	c.inner.Free()
}

// BlobToCommitment commits to blob's polynomial.
func (c *Context) BlobToCommitment(blob *Blob) (Commitment, error) {
	raw, err := c.inner.BlobToKZGCommitment(blob[:])
	return Commitment(raw), err
}

// ComputeProof opens blob's polynomial at z, returning the proof and the
// claimed evaluation y.
func (c *Context) ComputeProof(blob *Blob, z [32]byte) (Proof, [32]byte, error) {
	raw, y, err := c.inner.ComputeKZGProof(blob[:], z)
	return Proof(raw), y, err
}

// ComputeBlobProof opens blob's polynomial at the Fiat-Shamir challenge
// derived from blob and commitment.
func (c *Context) ComputeBlobProof(blob *Blob, commitment Commitment) (Proof, error) {
	raw, err := c.inner.ComputeBlobKZGProof(blob[:], [params.BytesPerCommitment]byte(commitment))
	return Proof(raw), err
}

// VerifyProof checks that commitment opens to y at z under proof.
func (c *Context) VerifyProof(commitment Commitment, z, y [32]byte, proof Proof) (bool, error) {
	return c.inner.VerifyKZGProof([params.BytesPerCommitment]byte(commitment), z, y, [params.BytesPerProof]byte(proof))
}

// VerifyBlobProof checks that proof opens commitment to blob's polynomial at
// the Fiat-Shamir challenge derived from blob and commitment.
func (c *Context) VerifyBlobProof(blob *Blob, commitment Commitment, proof Proof) (bool, error) {
	return c.inner.VerifyBlobKZGProof(blob[:], [params.BytesPerCommitment]byte(commitment), [params.BytesPerProof]byte(proof))
}

// VerifyBlobProofBatch checks n (blob, commitment, proof) triples at once.
// It accepts iff every triple individually verifies.
func (c *Context) VerifyBlobProofBatch(blobs []*Blob, commitments []Commitment, proofs []Proof) (bool, error) {
	rawBlobs := make([][]byte, len(blobs))
	for i, b := range blobs {
		rawBlobs[i] = b[:]
	}
	rawComms := make([][params.BytesPerCommitment]byte, len(commitments))
	for i, cm := range commitments {
		rawComms[i] = [params.BytesPerCommitment]byte(cm)
	}
	rawProofs := make([][params.BytesPerProof]byte, len(proofs))
	for i, p := range proofs {
		rawProofs[i] = [params.BytesPerProof]byte(p)
	}
	return c.inner.VerifyBlobKZGProofBatch(rawBlobs, rawComms, rawProofs)
}

// ComputeCellsAndProofs extends blob to its CellsPerExtBlob cells and opens
// a proof for each.
func (c *Context) ComputeCellsAndProofs(blob *Blob) ([params.CellsPerExtBlob]Cell, [params.CellsPerExtBlob]Proof, error) {
	var cells [params.CellsPerExtBlob]Cell
	var proofs [params.CellsPerExtBlob]Proof
	rawCells, rawProofs, err := c.inner.ComputeCellsAndKZGProofs(blob[:])
	if err != nil {
		return cells, proofs, err
	}
	for i := range rawCells {
		cells[i] = Cell(rawCells[i])
		proofs[i] = Proof(rawProofs[i])
	}
	return cells, proofs, nil
}

// VerifyCellProofBatch checks m (commitment, cell_index, cell, proof) rows.
func (c *Context) VerifyCellProofBatch(commitments []Commitment, cellIndices []uint64, cells []Cell, proofs []Proof) (bool, error) {
	rawComms := make([][params.BytesPerCommitment]byte, len(commitments))
	for i, cm := range commitments {
		rawComms[i] = [params.BytesPerCommitment]byte(cm)
	}
	rawCells := make([][params.BytesPerCell]byte, len(cells))
	for i, cl := range cells {
		rawCells[i] = [params.BytesPerCell]byte(cl)
	}
	rawProofs := make([][params.BytesPerProof]byte, len(proofs))
	for i, p := range proofs {
		rawProofs[i] = [params.BytesPerProof]byte(p)
	}
	return c.inner.VerifyCellKZGProofBatch(rawComms, cellIndices, rawCells, rawProofs)
}

// RecoverCellsAndProofs reconstructs every cell and proof of an extended
// blob from at least half of its CellsPerExtBlob cells.
func (c *Context) RecoverCellsAndProofs(cellIndices []uint64, cells []Cell) ([params.CellsPerExtBlob]Cell, [params.CellsPerExtBlob]Proof, error) {
	var outCells [params.CellsPerExtBlob]Cell
	var outProofs [params.CellsPerExtBlob]Proof
	rawCells := make([][params.BytesPerCell]byte, len(cells))
	for i, cl := range cells {
		rawCells[i] = [params.BytesPerCell]byte(cl)
	}
	recCells, recProofs, err := c.inner.RecoverCellsAndKZGProofs(cellIndices, rawCells)
	if err != nil {
		return outCells, outProofs, err
	}
	for i := range recCells {
		outCells[i] = Cell(recCells[i])
		outProofs[i] = Proof(recProofs[i])
	}
	return outCells, outProofs, nil
}
