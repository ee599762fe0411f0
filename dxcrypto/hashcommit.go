package dxcrypto

import (
	"crypto/subtle"
	"errors"

	"github.com/ethereum/go-ethereum/crypto"
)

// hashCommitBackend is the dev-net SnarkBackend. The proof is a keyed
// commitment over the public inputs, with the chain's registered key
// playing both the proving and verification role. It preserves the
// prove/verify contract and determinism of the real backend without a
// trusted setup, which is what fake nets and tests need. It offers no
// zero-knowledge and must never be configured on a public network.
type hashCommitBackend struct{}

// NewHashCommitBackend returns the dev SnarkBackend.
func NewHashCommitBackend() SnarkBackend {
	return &hashCommitBackend{}
}

// ProveMessage commits the public inputs under the proving key.
func (b *hashCommitBackend) ProveMessage(publicInputs []byte, provingKey []byte) ([]byte, error) {
	if len(provingKey) == 0 {
		return nil, errors.New("hashcommit: empty proving key")
	}
	return commit(publicInputs, provingKey), nil
}

// VerifyMessageProof recomputes the commitment. Constant-time comparison
// keeps dev nets honest about the contract even though the backend itself
// is not hiding anything.
func (b *hashCommitBackend) VerifyMessageProof(proof []byte, publicInputs []byte, verificationKey []byte) bool {
	if len(verificationKey) == 0 {
		return false
	}
	want := commit(publicInputs, verificationKey)
	return subtle.ConstantTimeCompare(proof, want) == 1
}

func commit(publicInputs []byte, key []byte) []byte {
	inner := crypto.Keccak256(key, publicInputs)
	return crypto.Keccak256(key, inner)
}
