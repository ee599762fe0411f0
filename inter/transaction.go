package inter

import (
	"errors"

	"github.com/ethereum/go-ethereum/common"

	"github.com/dxid-chain/go-dxid/inter/validatorpk"
	"github.com/dxid-chain/go-dxid/utils/cser"
)

// TxKind discriminates the transaction payload.
type TxKind uint8

const (
	TransferTx TxKind = iota
	StakeTx
	UnstakeTx
	IdentityCreateTx
	IdentityAddAttributeTx
	IdentityRotateTx
	IdentityRevokeTx
	CrossChainMessageTx

	maxTxKind
)

const (
	// SigLen is the length of a recoverable secp256k1 signature.
	SigLen = 65
	// maxAttrLen bounds identity attribute keys and values.
	maxAttrLen = 1024
)

var (
	ErrMalformedTx      = errors.New("malformed transaction")
	ErrUnknownTxKind    = errors.New("unknown transaction kind")
	ErrMissingTxPayload = errors.New("missing transaction payload")
	ErrOversizedTxField = errors.New("oversized transaction field")
	ErrMissingSignature = errors.New("missing or malformed signature")
)

// Valid reports whether the kind is a known transaction kind.
func (k TxKind) Valid() bool {
	return k < maxTxKind
}

// String returns the wire name of the kind, used in logs and RPC rejections.
func (k TxKind) String() string {
	switch k {
	case TransferTx:
		return "Transfer"
	case StakeTx:
		return "Stake"
	case UnstakeTx:
		return "Unstake"
	case IdentityCreateTx:
		return "IdentityCreate"
	case IdentityAddAttributeTx:
		return "IdentityAddAttribute"
	case IdentityRotateTx:
		return "IdentityRotate"
	case IdentityRevokeTx:
		return "IdentityRevoke"
	case CrossChainMessageTx:
		return "CrossChainMessage"
	}
	return "Unknown"
}

// Transaction is the unit of state mutation. Exactly one payload group is
// populated, selected by Kind. Seq is the per-sender sequence number and
// must equal the sender's last applied sequence + 1.
type Transaction struct {
	Kind   TxKind
	Sender common.Address
	Seq    uint64

	// Transfer / Stake / Unstake payload
	Amount    uint64
	Recipient common.Address // Transfer only

	// Stake payload: the key block signatures are verified against
	ValidatorKey validatorpk.PubKey

	// identity payloads
	IdentityID IdentityID
	Key        validatorpk.PubKey // IdentityCreate / IdentityRotate
	AttrKey    string             // IdentityAddAttribute
	AttrValue  string             // IdentityAddAttribute

	// cross-chain payload
	Message *CrossChainMessage

	// Sig is the recoverable secp256k1 signature over the double hash of
	// the signing payload (the canonical encoding of all fields above).
	Sig []byte
}

// Transactions is an ordered list of transactions. Order is
// consensus-critical: blocks apply transactions exactly in list order.
type Transactions []*Transaction

// marshalPayloadCSER writes every signed field in canonical order.
func (tx *Transaction) marshalPayloadCSER(w *cser.Writer) error {
	w.U8(uint8(tx.Kind))
	w.FixedBytes(tx.Sender.Bytes())
	w.U64(tx.Seq)

	switch tx.Kind {
	case TransferTx:
		w.U64(tx.Amount)
		w.FixedBytes(tx.Recipient.Bytes())
	case StakeTx:
		w.U64(tx.Amount)
		w.SliceBytes(tx.ValidatorKey.Bytes())
	case UnstakeTx:
		w.U64(tx.Amount)
	case IdentityCreateTx:
		w.FixedBytes(tx.IdentityID.Bytes())
		w.SliceBytes(tx.Key.Bytes())
	case IdentityAddAttributeTx:
		w.FixedBytes(tx.IdentityID.Bytes())
		w.SliceBytes([]byte(tx.AttrKey))
		w.SliceBytes([]byte(tx.AttrValue))
	case IdentityRotateTx:
		w.FixedBytes(tx.IdentityID.Bytes())
		w.SliceBytes(tx.Key.Bytes())
	case IdentityRevokeTx:
		w.FixedBytes(tx.IdentityID.Bytes())
	case CrossChainMessageTx:
		if tx.Message == nil {
			return ErrMissingTxPayload
		}
		if err := tx.Message.MarshalCSER(w); err != nil {
			return err
		}
	default:
		return ErrUnknownTxKind
	}
	return nil
}

// unmarshalPayloadCSER is the inverse of marshalPayloadCSER.
func (tx *Transaction) unmarshalPayloadCSER(r *cser.Reader) error {
	tx.Kind = TxKind(r.U8())
	r.FixedBytes(tx.Sender[:])
	tx.Seq = r.U64()

	switch tx.Kind {
	case TransferTx:
		tx.Amount = r.U64()
		r.FixedBytes(tx.Recipient[:])
	case StakeTx:
		tx.Amount = r.U64()
		key, err := validatorpk.FromBytes(r.SliceBytes(maxAttrLen))
		if err != nil {
			return err
		}
		tx.ValidatorKey = key
	case UnstakeTx:
		tx.Amount = r.U64()
	case IdentityCreateTx:
		r.FixedBytes(tx.IdentityID[:])
		key, err := validatorpk.FromBytes(r.SliceBytes(maxAttrLen))
		if err != nil {
			return err
		}
		tx.Key = key
	case IdentityAddAttributeTx:
		r.FixedBytes(tx.IdentityID[:])
		tx.AttrKey = string(r.SliceBytes(maxAttrLen))
		tx.AttrValue = string(r.SliceBytes(maxAttrLen))
	case IdentityRotateTx:
		r.FixedBytes(tx.IdentityID[:])
		key, err := validatorpk.FromBytes(r.SliceBytes(maxAttrLen))
		if err != nil {
			return err
		}
		tx.Key = key
	case IdentityRevokeTx:
		r.FixedBytes(tx.IdentityID[:])
	case CrossChainMessageTx:
		tx.Message = &CrossChainMessage{}
		if err := tx.Message.UnmarshalCSER(r); err != nil {
			return err
		}
	default:
		return ErrUnknownTxKind
	}
	return nil
}

// MarshalCSER writes the full transaction, signature included.
func (tx *Transaction) MarshalCSER(w *cser.Writer) error {
	if err := tx.marshalPayloadCSER(w); err != nil {
		return err
	}
	w.SliceBytes(tx.Sig)
	return nil
}

// UnmarshalCSER reads the full transaction, signature included.
func (tx *Transaction) UnmarshalCSER(r *cser.Reader) error {
	if err := tx.unmarshalPayloadCSER(r); err != nil {
		return err
	}
	tx.Sig = r.SliceBytes(SigLen)
	return nil
}

// SigPayload returns the canonical bytes the sender signs: every field of
// the transaction except the signature itself.
func (tx *Transaction) SigPayload() []byte {
	b, err := cser.MarshalBinaryAdapter(tx.marshalPayloadCSER)
	if err != nil {
		panic("can't encode transaction: " + err.Error())
	}
	return b
}

// SigHash is the digest the signature is computed over.
func (tx *Transaction) SigHash() common.Hash {
	return DoubleHash(tx.SigPayload())
}

// Bytes returns the full canonical encoding.
func (tx *Transaction) Bytes() ([]byte, error) {
	return cser.MarshalBinaryAdapter(tx.MarshalCSER)
}

// TxFromBytes decodes a full canonical transaction encoding.
func TxFromBytes(raw []byte) (*Transaction, error) {
	tx := &Transaction{}
	err := cser.UnmarshalBinaryAdapter(raw, tx.UnmarshalCSER)
	if err != nil {
		return nil, err
	}
	return tx, nil
}

// Hash identifies the transaction, signature included.
func (tx *Transaction) Hash() common.Hash {
	b, err := tx.Bytes()
	if err != nil {
		panic("can't encode transaction: " + err.Error())
	}
	return DoubleHash(b)
}

// CheckMalformed validates structural invariants of the transaction before
// any stateful rule is applied.
func (tx *Transaction) CheckMalformed() error {
	if tx.Kind >= maxTxKind {
		return ErrUnknownTxKind
	}
	if len(tx.Sig) != SigLen {
		return ErrMissingSignature
	}
	switch tx.Kind {
	case StakeTx:
		if tx.ValidatorKey.Empty() {
			return ErrMissingTxPayload
		}
	case IdentityCreateTx, IdentityRotateTx:
		if tx.Key.Empty() {
			return ErrMissingTxPayload
		}
	case IdentityAddAttributeTx:
		if len(tx.AttrKey) == 0 {
			return ErrMissingTxPayload
		}
		if len(tx.AttrKey) > maxAttrLen || len(tx.AttrValue) > maxAttrLen {
			return ErrOversizedTxField
		}
	case CrossChainMessageTx:
		if tx.Message == nil {
			return ErrMissingTxPayload
		}
		if len(tx.Message.DestChain) == 0 || len(tx.Message.Proof) == 0 {
			return ErrMissingTxPayload
		}
	}
	return nil
}

// EstimateSize returns a rough in-memory size of the transaction.
func (tx *Transaction) EstimateSize() int {
	size := 1 + 20 + 8 + 8 + 20 + len(tx.Sig) +
		len(tx.ValidatorKey.Raw) + len(tx.Key.Raw) +
		len(tx.AttrKey) + len(tx.AttrValue) + 32
	if tx.Message != nil {
		size += len(tx.Message.DestChain) + 32 + len(tx.Message.Proof) + 8
	}
	return size
}
