// Package inter defines the node's core consensus data structures: blocks,
// transactions, identities and cross-chain messages, together with their
// canonical CSER encodings. Header and transaction hashes are computed over
// these encodings, so every field written here is consensus-critical.
package inter

import (
	"errors"

	"github.com/Fantom-foundation/lachesis-base/inter/idx"
	"github.com/ethereum/go-ethereum/common"

	"github.com/dxid-chain/go-dxid/utils/cser"
)

var (
	// ErrMalformedBlock is returned when a block violates structural rules
	// before any consensus check is applied.
	ErrMalformedBlock = errors.New("malformed block")
)

// BlockHeader carries every consensus-checked field of a block except the
// transaction bodies. The header hash is the double hash of the canonical
// CSER encoding of all fields below and must satisfy the PoW predicate for
// the header's own difficulty.
type BlockHeader struct {
	// Height is the block's position in the chain, strictly parent+1.
	Height idx.Block
	// ParentHash is the header hash of the parent block.
	ParentHash common.Hash
	// StateRoot fingerprints the canonical state after applying the block.
	StateRoot common.Hash
	// TxRoot is the Merkle root over the included transaction hashes.
	TxRoot common.Hash
	// Time is the proposer-declared creation time.
	Time Timestamp
	// Difficulty determines the PoW target: target = maxTarget/Difficulty.
	Difficulty uint64
	// Nonce is the free variable of the PoW search.
	Nonce uint64
	// Proposer is the address of the validator selected by the
	// stake-weighted lottery at the parent height.
	Proposer common.Address
}

// Block is a header plus its transaction bodies and the proposer's
// signature over the header hash. The signature is what makes double-sign
// evidence provable.
type Block struct {
	Header      BlockHeader
	Txs         Transactions
	ProposerSig []byte
}

// MarshalCSER writes the header fields in canonical order.
func (h *BlockHeader) MarshalCSER(w *cser.Writer) error {
	w.U64(uint64(h.Height))
	w.FixedBytes(h.ParentHash.Bytes())
	w.FixedBytes(h.StateRoot.Bytes())
	w.FixedBytes(h.TxRoot.Bytes())
	w.U64(uint64(h.Time))
	w.U64(h.Difficulty)
	w.U64(h.Nonce)
	w.FixedBytes(h.Proposer.Bytes())
	return nil
}

// UnmarshalCSER reads the header fields in canonical order.
func (h *BlockHeader) UnmarshalCSER(r *cser.Reader) error {
	h.Height = idx.Block(r.U64())
	r.FixedBytes(h.ParentHash[:])
	r.FixedBytes(h.StateRoot[:])
	r.FixedBytes(h.TxRoot[:])
	h.Time = Timestamp(r.U64())
	h.Difficulty = r.U64()
	h.Nonce = r.U64()
	r.FixedBytes(h.Proposer[:])
	return nil
}

// Bytes returns the canonical encoding the header hash is computed over.
func (h *BlockHeader) Bytes() []byte {
	b, err := cser.MarshalBinaryAdapter(h.MarshalCSER)
	if err != nil {
		panic("can't encode header: " + err.Error())
	}
	return b
}

// Hash returns the double hash of the canonical header encoding.
func (h *BlockHeader) Hash() common.Hash {
	return DoubleHash(h.Bytes())
}

// HeaderFromBytes decodes a canonical header encoding.
func HeaderFromBytes(raw []byte) (*BlockHeader, error) {
	h := &BlockHeader{}
	err := cser.UnmarshalBinaryAdapter(raw, h.UnmarshalCSER)
	if err != nil {
		return nil, err
	}
	return h, nil
}

// CheckMalformed validates structural invariants that hold for every block
// regardless of chain context.
func (b *Block) CheckMalformed() error {
	if b.Header.Difficulty == 0 {
		return ErrMalformedBlock
	}
	if b.Header.TxRoot != CalcTxRoot(b.Txs) {
		return ErrMalformedBlock
	}
	for _, tx := range b.Txs {
		if err := tx.CheckMalformed(); err != nil {
			return err
		}
	}
	return nil
}

// EstimateSize returns a rough in-memory size of the block, used for
// buffering limits.
func (b *Block) EstimateSize() int {
	size := 32*4 + 8*4 + 20 + len(b.ProposerSig)
	for _, tx := range b.Txs {
		size += tx.EstimateSize()
	}
	return size
}
