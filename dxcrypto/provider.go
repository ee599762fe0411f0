// Package dxcrypto provides the node's cryptographic capabilities: double
// hashing, secp256k1 signatures, STARK-style handshake proof verification
// and Groth16 message proof verification. Every operation is deterministic
// and side-effect free; verification failures are reported as boolean
// results, never as panics.
package dxcrypto

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Provider is the capability interface consensus and execution depend on.
// Backends for the zero-knowledge capabilities are selected at
// configuration time.
type Provider interface {
	// Hash returns the chain's fixed double-keccak digest of data.
	Hash(data []byte) common.Hash

	// Sign produces a recoverable secp256k1 signature over Hash(msg).
	Sign(priv []byte, msg []byte) ([]byte, error)

	// Verify reports whether sig is a valid signature of Hash(msg) by
	// pub. It is total: malformed input verifies false.
	Verify(pub []byte, msg []byte, sig []byte) bool

	// SignerAddress recovers the address that produced sig over digest.
	SignerAddress(digest common.Hash, sig []byte) (common.Address, error)

	// VerifyHandshakeProof checks a peer-chain liveness proof against its
	// public inputs.
	VerifyHandshakeProof(proof []byte, publicInputs []byte) bool

	// VerifyMessageProof checks a Groth16 cross-chain message proof
	// against its public inputs and the destination chain's registered
	// verification key.
	VerifyMessageProof(proof []byte, publicInputs []byte, verificationKey []byte) bool
}

// SnarkBackend produces and checks succinct message proofs.
type SnarkBackend interface {
	ProveMessage(publicInputs []byte, provingKey []byte) ([]byte, error)
	VerifyMessageProof(proof []byte, publicInputs []byte, verificationKey []byte) bool
}

// StarkBackend produces and checks handshake liveness proofs.
type StarkBackend interface {
	ProveHandshake(publicInputs []byte, rounds uint64) ([]byte, error)
	VerifyHandshakeProof(proof []byte, publicInputs []byte) bool
}

// secp256k1Provider is the default Provider: secp256k1 signatures plus
// pluggable zk backends.
type secp256k1Provider struct {
	snark SnarkBackend
	stark StarkBackend
}

// NewProvider assembles a Provider from the given zk backends.
func NewProvider(snark SnarkBackend, stark StarkBackend) Provider {
	return &secp256k1Provider{
		snark: snark,
		stark: stark,
	}
}

// NewDevProvider assembles a Provider with the hash-commitment snark
// backend, suitable for fake nets and tests where no trusted setup exists.
func NewDevProvider() Provider {
	return NewProvider(NewHashCommitBackend(), NewHandshakeBackend())
}

// NewMainProvider assembles the production Provider: Groth16 over bn254 for
// message proofs.
func NewMainProvider() Provider {
	return NewProvider(NewGroth16Backend(), NewHandshakeBackend())
}

// Hash is two applications of keccak256. The outer application closes the
// sponge over a fixed-length digest, defeating length-extension style
// constructions on the inner image.
func (p *secp256k1Provider) Hash(data []byte) common.Hash {
	return common.BytesToHash(crypto.Keccak256(crypto.Keccak256(data)))
}

// Sign produces a 65-byte recoverable signature over Hash(msg).
func (p *secp256k1Provider) Sign(priv []byte, msg []byte) ([]byte, error) {
	key, err := crypto.ToECDSA(priv)
	if err != nil {
		return nil, err
	}
	digest := p.Hash(msg)
	return crypto.Sign(digest.Bytes(), key)
}

// Verify is total: any malformed key or signature verifies false.
func (p *secp256k1Provider) Verify(pub []byte, msg []byte, sig []byte) bool {
	if len(sig) < 64 || len(pub) == 0 {
		return false
	}
	digest := p.Hash(msg)
	// strip the recovery id if present
	return crypto.VerifySignature(pub, digest.Bytes(), sig[:64])
}

// SignerAddress recovers the signing address from a recoverable signature.
func (p *secp256k1Provider) SignerAddress(digest common.Hash, sig []byte) (common.Address, error) {
	pub, err := crypto.SigToPub(digest.Bytes(), sig)
	if err != nil {
		return common.Address{}, err
	}
	return crypto.PubkeyToAddress(*pub), nil
}

func (p *secp256k1Provider) VerifyHandshakeProof(proof []byte, publicInputs []byte) bool {
	return p.stark.VerifyHandshakeProof(proof, publicInputs)
}

func (p *secp256k1Provider) VerifyMessageProof(proof []byte, publicInputs []byte, verificationKey []byte) bool {
	return p.snark.VerifyMessageProof(proof, publicInputs, verificationKey)
}
