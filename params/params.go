// Package params collects the fixed sizes and domain constants shared by the
// KZG commitment core. They mirror the values fixed by EIP-4844 and EIP-7594
// and are never configurable at runtime.
package params

const (
	// BlobCommitmentVersionKZG is the version byte prefixed onto a versioned
	// hash derived from a KZG commitment.
	BlobCommitmentVersionKZG uint8 = 0x01

	// BytesPerFieldElement is the size of a canonical, little-endian encoded
	// element of the BLS12-381 scalar field.
	BytesPerFieldElement = 32

	// FieldElementsPerBlob is the number of scalar field elements making up
	// one blob's evaluation-form polynomial.
	FieldElementsPerBlob = 4096

	// BytesPerBlob is the wire size of a blob.
	BytesPerBlob = FieldElementsPerBlob * BytesPerFieldElement

	// BytesPerCommitment and BytesPerProof are both compressed G1 points.
	BytesPerCommitment = 48
	BytesPerProof       = 48

	// BytesPerG1 and BytesPerG2 are the compressed point encodings used by
	// the trusted setup.
	BytesPerG1 = 48
	BytesPerG2 = 96

	// NumG1Points and NumG2Points size the monomial/Lagrange trusted setup.
	NumG1Points = FieldElementsPerBlob
	NumG2Points = 65

	// FieldElementsPerExtBlob, CellsPerExtBlob and FieldElementsPerCell
	// describe the Reed-Solomon extension used by the FK20 cell scheme.
	FieldElementsPerExtBlob = FieldElementsPerBlob * 2
	CellsPerExtBlob         = 128
	FieldElementsPerCell    = FieldElementsPerExtBlob / CellsPerExtBlob
	BytesPerCell            = FieldElementsPerCell * BytesPerFieldElement

	// DomainStrLength is the fixed length of every Fiat-Shamir domain
	// separation string used by the core.
	DomainStrLength = 16

	// MaxPrecomputeWbits bounds the fixed-base MSM window size accepted by
	// the trusted setup loader.
	MaxPrecomputeWbits = 15
)

// Fiat-Shamir domain separation tags. Every hash input this core produces is
// prefixed with exactly one of these, padded/truncated to DomainStrLength.
const (
	DomainFSBlobVerify  = "FSBLOBVERIFY_V1_"
	DomainRCKZGBatch    = "RCKZGBATCH___V1_"
	DomainRCKZGCellBatch = "RCKZGCBATCH__V1_"
)
