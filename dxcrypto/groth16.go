package dxcrypto

import (
	"errors"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/ethereum/go-ethereum/crypto"
)

// Serialized sizes of compressed bn254 points.
const (
	g1Len = bn254.SizeOfG1AffineCompressed
	g2Len = bn254.SizeOfG2AffineCompressed

	// groth16ProofLen is A (G1) + B (G2) + C (G1), compressed.
	groth16ProofLen = g1Len + g2Len + g1Len

	// groth16VKLen is alpha (G1) + beta/gamma/delta (G2) + 2 IC points
	// (G1). The circuit takes a single public input: the field-reduced
	// digest of the message's public input material.
	groth16VKLen = g1Len + 3*g2Len + 2*g1Len
)

var (
	errBadProofLen = errors.New("groth16: bad proof length")
	errBadVKLen    = errors.New("groth16: bad verification key length")
)

// groth16VK is a deserialized verification key for a single-public-input
// circuit.
type groth16VK struct {
	Alpha bn254.G1Affine
	Beta  bn254.G2Affine
	Gamma bn254.G2Affine
	Delta bn254.G2Affine
	IC    [2]bn254.G1Affine
}

// groth16Proof is a deserialized proof.
type groth16Proof struct {
	A bn254.G1Affine
	B bn254.G2Affine
	C bn254.G1Affine
}

// groth16Backend verifies Groth16 proofs over bn254. Proving requires the
// circuit's proving key and is performed by the external proving service;
// this backend only reproduces the pairing check, which is all consensus
// needs. ProveMessage is therefore unsupported here.
type groth16Backend struct{}

// NewGroth16Backend returns the production SnarkBackend.
func NewGroth16Backend() SnarkBackend {
	return &groth16Backend{}
}

// ProveMessage is not available on the consensus side; outbound proving
// goes through the interop gateway's proving backend.
func (b *groth16Backend) ProveMessage(publicInputs []byte, provingKey []byte) ([]byte, error) {
	return nil, errors.New("groth16: proving requires the external proving service")
}

// VerifyMessageProof checks e(A,B) == e(alpha,beta)·e(acc,gamma)·e(C,delta)
// where acc = IC[0] + input·IC[1] and input is the field-reduced double
// hash of publicInputs. Total: malformed material verifies false.
func (b *groth16Backend) VerifyMessageProof(proof []byte, publicInputs []byte, verificationKey []byte) bool {
	vk, err := parseGroth16VK(verificationKey)
	if err != nil {
		return false
	}
	p, err := parseGroth16Proof(proof)
	if err != nil {
		return false
	}

	input := reduceToScalar(publicInputs)

	// acc = IC[0] + input*IC[1]
	var term bn254.G1Jac
	term.FromAffine(&vk.IC[1])
	term.ScalarMultiplication(&term, input)
	var acc bn254.G1Jac
	acc.FromAffine(&vk.IC[0])
	acc.AddAssign(&term)
	var accAff bn254.G1Affine
	accAff.FromJacobian(&acc)

	// move the right-hand side terms across the pairing equation
	var negAlpha, negAcc, negC bn254.G1Affine
	negAlpha.Neg(&vk.Alpha)
	negAcc.Neg(&accAff)
	negC.Neg(&p.C)

	ok, err := bn254.PairingCheck(
		[]bn254.G1Affine{p.A, negAlpha, negAcc, negC},
		[]bn254.G2Affine{p.B, vk.Beta, vk.Gamma, vk.Delta},
	)
	if err != nil {
		return false
	}
	return ok
}

// reduceToScalar maps arbitrary public input bytes onto the bn254 scalar
// field via the chain's double hash.
func reduceToScalar(publicInputs []byte) *big.Int {
	digest := crypto.Keccak256(crypto.Keccak256(publicInputs))
	s := new(big.Int).SetBytes(digest)
	return s.Mod(s, fr.Modulus())
}

func parseGroth16VK(raw []byte) (*groth16VK, error) {
	if len(raw) != groth16VKLen {
		return nil, errBadVKLen
	}
	vk := &groth16VK{}
	offset := 0
	if _, err := vk.Alpha.SetBytes(raw[offset : offset+g1Len]); err != nil {
		return nil, err
	}
	offset += g1Len
	if _, err := vk.Beta.SetBytes(raw[offset : offset+g2Len]); err != nil {
		return nil, err
	}
	offset += g2Len
	if _, err := vk.Gamma.SetBytes(raw[offset : offset+g2Len]); err != nil {
		return nil, err
	}
	offset += g2Len
	if _, err := vk.Delta.SetBytes(raw[offset : offset+g2Len]); err != nil {
		return nil, err
	}
	offset += g2Len
	for i := range vk.IC {
		if _, err := vk.IC[i].SetBytes(raw[offset : offset+g1Len]); err != nil {
			return nil, err
		}
		offset += g1Len
	}
	return vk, nil
}

func parseGroth16Proof(raw []byte) (*groth16Proof, error) {
	if len(raw) != groth16ProofLen {
		return nil, errBadProofLen
	}
	p := &groth16Proof{}
	offset := 0
	if _, err := p.A.SetBytes(raw[offset : offset+g1Len]); err != nil {
		return nil, err
	}
	offset += g1Len
	if _, err := p.B.SetBytes(raw[offset : offset+g2Len]); err != nil {
		return nil, err
	}
	offset += g2Len
	if _, err := p.C.SetBytes(raw[offset : offset+g1Len]); err != nil {
		return nil, err
	}
	return p, nil
}
