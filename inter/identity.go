package inter

import (
	"github.com/Fantom-foundation/lachesis-base/common/bigendian"
	"github.com/Fantom-foundation/lachesis-base/inter/idx"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/dxid-chain/go-dxid/inter/validatorpk"
)

// IdentityID is the opaque unique identifier of an on-chain identity,
// derived deterministically from the creating transaction.
type IdentityID common.Hash

// DerivedIdentityID computes the id assigned to an identity created by
// sender at sequence number seq. The derivation binds the id to exactly one
// transaction, so replays cannot mint a colliding identity.
func DerivedIdentityID(sender common.Address, seq uint64) IdentityID {
	material := append(sender.Bytes(), bigendian.Uint64ToBytes(seq)...)
	return IdentityID(DoubleHash(material))
}

// Bytes returns the raw id bytes.
func (id IdentityID) Bytes() []byte {
	return common.Hash(id).Bytes()
}

// String returns the 0x-prefixed hex form.
func (id IdentityID) String() string {
	return hexutil.Encode(id.Bytes())
}

// IdentityStatus is the lifecycle state of an identity. Transitions form a
// strict order: Active -> Rotated (repeatable) -> Revoked (terminal).
type IdentityStatus uint8

const (
	IdentityActive IdentityStatus = iota
	IdentityRotated
	IdentityRevoked
)

func (s IdentityStatus) String() string {
	switch s {
	case IdentityActive:
		return "Active"
	case IdentityRotated:
		return "Rotated"
	case IdentityRevoked:
		return "Revoked"
	}
	return "Unknown"
}

// KeyGeneration is one entry in an identity's ordered key history. Rotated
// keys stay in the history for signature verification of past transactions
// but are marked superseded.
type KeyGeneration struct {
	Key        validatorpk.PubKey
	AddedAt    idx.Block
	Superseded bool
}

// Identity is an on-chain identity record. It is owned by the execution
// engine's identity table; everything else receives copies.
type Identity struct {
	ID     IdentityID
	Owner  common.Address
	Status IdentityStatus
	// Keys is the ordered history of key generations. The last entry is
	// the active generation unless the identity is revoked.
	Keys []KeyGeneration
	// Attributes is an unordered key/value map.
	Attributes map[string]string
}

// NewIdentity creates an Active identity with a single key generation.
func NewIdentity(id IdentityID, owner common.Address, key validatorpk.PubKey, height idx.Block) *Identity {
	return &Identity{
		ID:     id,
		Owner:  owner,
		Status: IdentityActive,
		Keys: []KeyGeneration{
			{Key: key.Copy(), AddedAt: height},
		},
		Attributes: map[string]string{},
	}
}

// ActiveKey returns the current key generation's public key.
func (iden *Identity) ActiveKey() validatorpk.PubKey {
	return iden.Keys[len(iden.Keys)-1].Key
}

// Rotate appends a new key generation and marks the previous one
// superseded. The caller must have checked the lifecycle state.
func (iden *Identity) Rotate(key validatorpk.PubKey, height idx.Block) {
	iden.Keys[len(iden.Keys)-1].Superseded = true
	iden.Keys = append(iden.Keys, KeyGeneration{Key: key.Copy(), AddedAt: height})
	iden.Status = IdentityRotated
}

// Copy returns a deep copy, safe to hand out as a snapshot.
func (iden *Identity) Copy() *Identity {
	cp := *iden
	cp.Keys = make([]KeyGeneration, len(iden.Keys))
	for i, kg := range iden.Keys {
		cp.Keys[i] = KeyGeneration{
			Key:        kg.Key.Copy(),
			AddedAt:    kg.AddedAt,
			Superseded: kg.Superseded,
		}
	}
	cp.Attributes = make(map[string]string, len(iden.Attributes))
	for k, v := range iden.Attributes {
		cp.Attributes[k] = v
	}
	return &cp
}
