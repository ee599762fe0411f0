// Package store defines the persistence contract between the decision core
// and the storage collaborator. The core never performs its own durability:
// every committed state delta is handed to a Store synchronously before the
// enclosing block is considered final. Layouts behind the contract (key/
// value engine, relational tables, vector indexes) are the collaborator's
// business, not the core's.
package store

import (
	"errors"

	"github.com/Fantom-foundation/lachesis-base/inter/idx"
	"github.com/ethereum/go-ethereum/common"

	"github.com/dxid-chain/go-dxid/inter"
)

// ErrNotFound is returned for keys the store has never seen.
var ErrNotFound = errors.New("store: not found")

// Store is the storage collaborator contract.
type Store interface {
	// GetBlock returns the block committed at the given height.
	GetBlock(height idx.Block) (*inter.Block, error)
	// PutBlock persists a committed block under its height.
	PutBlock(height idx.Block, block *inter.Block) error
	// DeleteBlock removes a block orphaned by a reorganization to a
	// shorter canonical chain. Deleting an absent height is a no-op.
	DeleteBlock(height idx.Block) error

	// GetBalance returns an address's balance; missing addresses are 0.
	GetBalance(addr common.Address) (uint64, error)
	// SetBalance persists an address's balance.
	SetBalance(addr common.Address, amount uint64) error

	// GetIdentity returns the identity record for id.
	GetIdentity(id inter.IdentityID) (*inter.Identity, error)
	// PutIdentity persists an identity record.
	PutIdentity(id inter.IdentityID, identity *inter.Identity) error

	// PutEmbedding persists a vector embedding referencing (never owning)
	// an identity. Embeddings are produced by collaborators downstream of
	// the core; the core only forwards them.
	PutEmbedding(id inter.IdentityID, namespace string, vector []float32, metadata map[string]string) error
}
