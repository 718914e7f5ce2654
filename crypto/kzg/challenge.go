package kzg

import (
	"crypto/sha256"
	"encoding/binary"

	"github.com/protolambda/go-kzg/bls"
	"github.com/protolambda/ztyp/codec"

	"github.com/ethereum/go-kzg4844/params"
)

// domainBytes pads/truncates a domain separation tag to the fixed
// DomainStrLength the core hashes into every challenge.
func domainBytes(tag string) [params.DomainStrLength]byte {
	var out [params.DomainStrLength]byte
	copy(out[:], tag)
	return out
}

func writeUint64BE(w *codec.EncodingWriter, v uint64) error {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	return w.Write(b[:])
}

// ComputeChallenge derives the Fiat-Shamir evaluation point used by
// compute_blob_kzg_proof / verify_blob_kzg_proof: SHA-256 of the domain tag,
// a fixed zero count, the field-elements-per-blob count, the blob and the
// commitment, reduced modulo r.
func ComputeChallenge(blob []byte, commitment [params.BytesPerCommitment]byte) (bls.Fr, error) {
	if len(blob) != params.BytesPerBlob {
		return bls.Fr{}, badArgs("blob has the wrong length")
	}
	h := sha256.New()
	w := codec.NewEncodingWriter(h)
	tag := domainBytes(params.DomainFSBlobVerify)
	if err := w.Write(tag[:]); err != nil {
		return bls.Fr{}, internalErr(err.Error())
	}
	if err := writeUint64BE(w, 0); err != nil {
		return bls.Fr{}, internalErr(err.Error())
	}
	if err := writeUint64BE(w, params.FieldElementsPerBlob); err != nil {
		return bls.Fr{}, internalErr(err.Error())
	}
	if err := w.Write(blob); err != nil {
		return bls.Fr{}, internalErr(err.Error())
	}
	if err := w.Write(commitment[:]); err != nil {
		return bls.Fr{}, internalErr(err.Error())
	}
	var digest [32]byte
	copy(digest[:], h.Sum(nil))
	return HashToBLSField(digest), nil
}

// batchTuple is one (commitment, z, y, proof) row hashed into the
// verify_blob_kzg_proof_batch Fiat-Shamir challenge.
type batchTuple struct {
	Commitment [params.BytesPerCommitment]byte
	Z          [32]byte
	Y          [32]byte
	Proof      [params.BytesPerProof]byte
}

// ComputeRPowersForVerifyBlobKZGProofBatch derives r from the domain tag, the
// field-elements-per-blob count, n, and the n (commitment,z,y,proof) tuples,
// then returns [1, r, ..., r^(n-1)].
func ComputeRPowersForVerifyBlobKZGProofBatch(tuples []batchTuple) ([]bls.Fr, error) {
	r, err := hashTuplesToFr(params.DomainRCKZGBatch, uint64(len(tuples)), tuples)
	if err != nil {
		return nil, err
	}
	return ComputePowers(&r, len(tuples)), nil
}

// cellBatchTuple is one (commitment, cell_index, cell, proof) row hashed into
// the verify_cell_kzg_proof_batch Fiat-Shamir challenge.
type cellBatchTuple struct {
	Commitment [params.BytesPerCommitment]byte
	CellIndex  uint64
	Cell       [params.BytesPerCell]byte
	Proof      [params.BytesPerProof]byte
}

// ComputeRPowersForVerifyCellKZGProofBatch is the cell-batch analogue of
// ComputeRPowersForVerifyBlobKZGProofBatch, using the
// DomainRCKZGCellBatch domain separation tag.
func ComputeRPowersForVerifyCellKZGProofBatch(tuples []cellBatchTuple) ([]bls.Fr, error) {
	r, err := hashTuplesToFr(params.DomainRCKZGCellBatch, uint64(len(tuples)), tuples)
	if err != nil {
		return nil, err
	}
	return ComputePowers(&r, len(tuples)), nil
}

func hashTuplesToFr(tag string, n uint64, tuples any) (bls.Fr, error) {
	h := sha256.New()
	w := codec.NewEncodingWriter(h)
	tagBytes := domainBytes(tag)
	if err := w.Write(tagBytes[:]); err != nil {
		return bls.Fr{}, internalErr(err.Error())
	}
	if err := writeUint64BE(w, params.FieldElementsPerBlob); err != nil {
		return bls.Fr{}, internalErr(err.Error())
	}
	if err := writeUint64BE(w, n); err != nil {
		return bls.Fr{}, internalErr(err.Error())
	}

	switch rows := tuples.(type) {
	case []batchTuple:
		for _, row := range rows {
			if err := w.Write(row.Commitment[:]); err != nil {
				return bls.Fr{}, internalErr(err.Error())
			}
			if err := w.Write(row.Z[:]); err != nil {
				return bls.Fr{}, internalErr(err.Error())
			}
			if err := w.Write(row.Y[:]); err != nil {
				return bls.Fr{}, internalErr(err.Error())
			}
			if err := w.Write(row.Proof[:]); err != nil {
				return bls.Fr{}, internalErr(err.Error())
			}
		}
	case []cellBatchTuple:
		for _, row := range rows {
			if err := w.Write(row.Commitment[:]); err != nil {
				return bls.Fr{}, internalErr(err.Error())
			}
			var idx [8]byte
			binary.BigEndian.PutUint64(idx[:], row.CellIndex)
			if err := w.Write(idx[:]); err != nil {
				return bls.Fr{}, internalErr(err.Error())
			}
			if err := w.Write(row.Cell[:]); err != nil {
				return bls.Fr{}, internalErr(err.Error())
			}
			if err := w.Write(row.Proof[:]); err != nil {
				return bls.Fr{}, internalErr(err.Error())
			}
		}
	}

	var digest [32]byte
	copy(digest[:], h.Sum(nil))
	return HashToBLSField(digest), nil
}
