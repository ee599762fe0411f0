// Package contracts holds the contract registry. Execution semantics are
// out of scope for the decision core; the registry only tracks which
// addresses are bound to a contract so collaborators can route calls.
package contracts

import (
	"errors"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

var (
	// ErrNotRegistered is returned for addresses with no bound contract.
	ErrNotRegistered = errors.New("contracts: not registered")
	// ErrAlreadyRegistered is returned when binding an occupied address.
	ErrAlreadyRegistered = errors.New("contracts: already registered")
)

// Contract is the minimal surface a registered contract exposes to the
// core. Invocation is a collaborator concern.
type Contract interface {
	// Address returns the address the contract is bound to.
	Address() common.Address
	// Name returns a human-readable identifier for operator surfaces.
	Name() string
}

// Registry maps addresses to registered contracts.
type Registry struct {
	mu        sync.RWMutex
	contracts map[common.Address]Contract
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		contracts: map[common.Address]Contract{},
	}
}

// Register binds a contract to its address.
func (r *Registry) Register(c Contract) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	addr := c.Address()
	if _, ok := r.contracts[addr]; ok {
		return ErrAlreadyRegistered
	}
	r.contracts[addr] = c
	return nil
}

// Get returns the contract bound to addr.
func (r *Registry) Get(addr common.Address) (Contract, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.contracts[addr]
	if !ok {
		return nil, ErrNotRegistered
	}
	return c, nil
}

// Addresses returns all bound addresses, unordered.
func (r *Registry) Addresses() []common.Address {
	r.mu.RLock()
	defer r.mu.RUnlock()
	addrs := make([]common.Address, 0, len(r.contracts))
	for addr := range r.contracts {
		addrs = append(addrs, addr)
	}
	return addrs
}
