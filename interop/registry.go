package interop

import (
	"sync"

	"github.com/dxid-chain/go-dxid/inter"
)

// registry is the gateway's view of configured peer chains. Metadata is
// copied on the way in and out; callers never share the stored records.
type registry struct {
	mu     sync.RWMutex
	chains map[string]*inter.ChainMetadata
}

func newRegistry() *registry {
	return &registry{
		chains: map[string]*inter.ChainMetadata{},
	}
}

func (r *registry) put(meta *inter.ChainMetadata) {
	cp := *meta
	cp.VerificationKey = append([]byte{}, meta.VerificationKey...)
	cp.ProvingKey = append([]byte{}, meta.ProvingKey...)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.chains[cp.ChainID] = &cp
}

func (r *registry) get(chainID string) (*inter.ChainMetadata, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	meta, ok := r.chains[chainID]
	if !ok {
		return nil, false
	}
	cp := *meta
	cp.VerificationKey = append([]byte{}, meta.VerificationKey...)
	cp.ProvingKey = append([]byte{}, meta.ProvingKey...)
	return &cp, true
}

func (r *registry) setHeight(chainID string, height uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	meta, ok := r.chains[chainID]
	if !ok {
		return false
	}
	meta.LatestHeight = height
	return true
}
