package inter

import (
	"github.com/Fantom-foundation/lachesis-base/common/bigendian"
	"github.com/ethereum/go-ethereum/common"

	"github.com/dxid-chain/go-dxid/utils/cser"
)

// maxProofLen bounds decoded proof blobs.
const maxProofLen = cser.MaxAlloc

// CrossChainMessage is a message destined for an external chain. It is
// valid only if Proof verifies as a Groth16 message proof against the
// destination chain's registered verification key.
type CrossChainMessage struct {
	// DestChain is the registered id of the destination chain.
	DestChain string
	// PayloadHash commits to the message body; the body itself travels
	// out of band through the network collaborator.
	PayloadHash common.Hash
	// Proof is the opaque Groth16 proof blob.
	Proof []byte
	// Nonce orders messages per destination chain.
	Nonce uint64
}

// MarshalCSER writes the message fields in canonical order.
func (m *CrossChainMessage) MarshalCSER(w *cser.Writer) error {
	w.SliceBytes([]byte(m.DestChain))
	w.FixedBytes(m.PayloadHash.Bytes())
	w.SliceBytes(m.Proof)
	w.U64(m.Nonce)
	return nil
}

// UnmarshalCSER reads the message fields in canonical order.
func (m *CrossChainMessage) UnmarshalCSER(r *cser.Reader) error {
	m.DestChain = string(r.SliceBytes(maxAttrLen))
	r.FixedBytes(m.PayloadHash[:])
	m.Proof = r.SliceBytes(maxProofLen)
	m.Nonce = r.U64()
	return nil
}

// PublicInputs returns the proof's public input material: the commitment
// the proof is checked against. Both proving and verification sides derive
// it the same way.
func (m *CrossChainMessage) PublicInputs() []byte {
	material := append([]byte(m.DestChain), m.PayloadHash.Bytes()...)
	material = append(material, bigendian.Uint64ToBytes(m.Nonce)...)
	return material
}

// Copy returns a deep copy of the message.
func (m *CrossChainMessage) Copy() *CrossChainMessage {
	cp := *m
	cp.Proof = append([]byte{}, m.Proof...)
	return &cp
}

// ChainMetadata is the externally supplied configuration record for a peer
// chain: its id, the verification key incoming message proofs are checked
// against, and endpoint hints for the network collaborator.
type ChainMetadata struct {
	ChainID         string `json:"chainId"`
	VerificationKey []byte `json:"verificationKey"`
	// ProvingKey is set when this node proves outbound messages for the
	// peer itself instead of delegating to an external proving service.
	ProvingKey []byte `json:"provingKey,omitempty"`
	Endpoint   string `json:"endpoint"`
	// LatestHeight is the last observed height of the peer chain, used as
	// the public input of handshake liveness proofs.
	LatestHeight uint64 `json:"latestHeight"`
}
