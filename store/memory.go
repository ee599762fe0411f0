package store

import (
	"sync"

	"github.com/Fantom-foundation/lachesis-base/inter/idx"
	"github.com/ethereum/go-ethereum/common"

	"github.com/dxid-chain/go-dxid/inter"
)

// MemoryStore is an in-process Store for tests and fake nets. It copies
// identities on the way in and out so callers can't mutate stored records.
type MemoryStore struct {
	mu         sync.RWMutex
	blocks     map[idx.Block]*inter.Block
	balances   map[common.Address]uint64
	identities map[inter.IdentityID]*inter.Identity
	embeddings map[string][]float32
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		blocks:     map[idx.Block]*inter.Block{},
		balances:   map[common.Address]uint64{},
		identities: map[inter.IdentityID]*inter.Identity{},
		embeddings: map[string][]float32{},
	}
}

func (s *MemoryStore) GetBlock(height idx.Block) (*inter.Block, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.blocks[height]
	if !ok {
		return nil, ErrNotFound
	}
	return b, nil
}

func (s *MemoryStore) PutBlock(height idx.Block, block *inter.Block) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blocks[height] = block
	return nil
}

func (s *MemoryStore) DeleteBlock(height idx.Block) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blocks, height)
	return nil
}

func (s *MemoryStore) GetBalance(addr common.Address) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.balances[addr], nil
}

func (s *MemoryStore) SetBalance(addr common.Address, amount uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balances[addr] = amount
	return nil
}

func (s *MemoryStore) GetIdentity(id inter.IdentityID) (*inter.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	iden, ok := s.identities[id]
	if !ok {
		return nil, ErrNotFound
	}
	return iden.Copy(), nil
}

func (s *MemoryStore) PutIdentity(id inter.IdentityID, identity *inter.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identities[id] = identity.Copy()
	return nil
}

func (s *MemoryStore) PutEmbedding(id inter.IdentityID, namespace string, vector []float32, metadata map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := namespace + "/" + id.String()
	s.embeddings[key] = append([]float32{}, vector...)
	return nil
}
