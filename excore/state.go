// Package excore is the deterministic execution engine: it applies ordered
// transaction lists against canonical-state snapshots, computes block rewards
// under the halving/supply-cap schedule, and returns the resulting state
// delta or a typed rejection. It owns the balance, identity and validator
// tables; everything else receives copies.
package excore

import (
	"bytes"
	"sort"

	"github.com/Fantom-foundation/lachesis-base/inter/idx"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/dxid-chain/go-dxid/dxid"
	"github.com/dxid-chain/go-dxid/inter"
	"github.com/dxid-chain/go-dxid/inter/validatorpk"
)

// ValidatorRecord tracks one validator's stake and slashing history. Records
// live in CanonicalState's flat validator table, keyed by id; the address
// index maps back from the staking account.
type ValidatorRecord struct {
	ID      idx.ValidatorID
	Address common.Address
	// PubKey is the key block proposer signatures are verified against.
	PubKey validatorpk.PubKey
	// Stake is the currently bonded amount. Never negative: every debit is
	// checked against it first.
	Stake uint64
	// SlashedTotal accumulates burned stake over the validator's lifetime.
	SlashedTotal uint64
	// CooldownUntil is the height before which a slashed validator is
	// ineligible.
	CooldownUntil idx.Block
	// StakeActivatedAt is the height of the last stake top-up. Unstaking is
	// honored only UnbondingBlocks after it.
	StakeActivatedAt idx.Block
}

// Eligible reports whether the validator may propose at the given height.
func (v *ValidatorRecord) Eligible(height idx.Block, minStake uint64) bool {
	return v.Stake >= minStake && height >= v.CooldownUntil
}

// Copy returns an independent copy of the record.
func (v *ValidatorRecord) Copy() *ValidatorRecord {
	cp := *v
	cp.PubKey = v.PubKey.Copy()
	return &cp
}

// CanonicalState is the node's authoritative state. Exactly one instance is
// live per process; the commit path holds it exclusively and everything else
// works on Copy() snapshots.
type CanonicalState struct {
	// Height is the last applied block height.
	Height idx.Block

	Balances   map[common.Address]uint64
	Seqs       map[common.Address]uint64
	Identities map[inter.IdentityID]*inter.Identity

	Validators      map[idx.ValidatorID]*ValidatorRecord
	ValidatorIDs    map[common.Address]idx.ValidatorID
	NextValidatorID idx.ValidatorID

	// TotalMinted is cumulative minted supply, never above MaxSupply.
	TotalMinted uint64
}

// NewCanonicalState returns an empty state at height 0.
func NewCanonicalState() *CanonicalState {
	return &CanonicalState{
		Balances:        map[common.Address]uint64{},
		Seqs:            map[common.Address]uint64{},
		Identities:      map[inter.IdentityID]*inter.Identity{},
		Validators:      map[idx.ValidatorID]*ValidatorRecord{},
		ValidatorIDs:    map[common.Address]idx.ValidatorID{},
		NextValidatorID: 1,
	}
}

// GenesisState builds the height-0 state from a genesis record. Genesis
// validators are bonded directly; their stake is pre-mined alongside the
// balance allocations.
func GenesisState(g dxid.Genesis) *CanonicalState {
	s := NewCanonicalState()
	for addr, balance := range g.Alloc {
		s.Balances[addr] = balance
	}
	for _, v := range g.Validators {
		id := s.NextValidatorID
		s.Validators[id] = &ValidatorRecord{
			ID:      id,
			Address: v.Address,
			PubKey:  v.PubKey.Copy(),
			Stake:   v.Stake,
		}
		s.ValidatorIDs[v.Address] = id
		s.NextValidatorID++
	}
	return s
}

// Copy returns a deep copy, safe to validate candidate blocks against while
// the original keeps mutating under the single writer.
func (s *CanonicalState) Copy() *CanonicalState {
	cp := &CanonicalState{
		Height:          s.Height,
		Balances:        make(map[common.Address]uint64, len(s.Balances)),
		Seqs:            make(map[common.Address]uint64, len(s.Seqs)),
		Identities:      make(map[inter.IdentityID]*inter.Identity, len(s.Identities)),
		Validators:      make(map[idx.ValidatorID]*ValidatorRecord, len(s.Validators)),
		ValidatorIDs:    make(map[common.Address]idx.ValidatorID, len(s.ValidatorIDs)),
		NextValidatorID: s.NextValidatorID,
		TotalMinted:     s.TotalMinted,
	}
	for k, v := range s.Balances {
		cp.Balances[k] = v
	}
	for k, v := range s.Seqs {
		cp.Seqs[k] = v
	}
	for k, v := range s.Identities {
		cp.Identities[k] = v.Copy()
	}
	for k, v := range s.Validators {
		cp.Validators[k] = v.Copy()
	}
	for k, v := range s.ValidatorIDs {
		cp.ValidatorIDs[k] = v
	}
	return cp
}

// ValidatorByAddress returns the validator record staked from addr, or nil.
func (s *CanonicalState) ValidatorByAddress(addr common.Address) *ValidatorRecord {
	id, ok := s.ValidatorIDs[addr]
	if !ok {
		return nil
	}
	return s.Validators[id]
}

// Flat entry types for the state fingerprint. Maps are flattened into
// deterministically sorted slices so the RLP encoding is canonical.
type balanceEntry struct {
	Addr   common.Address
	Amount uint64
	Seq    uint64
}

type attrEntry struct {
	Key   string
	Value string
}

type keyEntry struct {
	Key        []byte
	AddedAt    idx.Block
	Superseded bool
}

type identityEntry struct {
	ID     common.Hash
	Owner  common.Address
	Status uint8
	Keys   []keyEntry
	Attrs  []attrEntry
}

type validatorEntry struct {
	ID               idx.ValidatorID
	Address          common.Address
	Key              []byte
	Stake            uint64
	SlashedTotal     uint64
	CooldownUntil    idx.Block
	StakeActivatedAt idx.Block
}

type stateFingerprint struct {
	Height          idx.Block
	NextValidatorID idx.ValidatorID
	TotalMinted     uint64
	Balances        []balanceEntry
	Identities      []identityEntry
	Validators      []validatorEntry
}

// Root fingerprints the state: the double hash of a canonical RLP encoding
// of every table, with map entries sorted by key. Block headers commit to it
// as the StateRoot.
func (s *CanonicalState) Root() common.Hash {
	fp := stateFingerprint{
		Height:          s.Height,
		NextValidatorID: s.NextValidatorID,
		TotalMinted:     s.TotalMinted,
	}

	addrs := make([]common.Address, 0, len(s.Balances)+len(s.Seqs))
	seen := map[common.Address]bool{}
	for addr := range s.Balances {
		addrs = append(addrs, addr)
		seen[addr] = true
	}
	for addr := range s.Seqs {
		if !seen[addr] {
			addrs = append(addrs, addr)
		}
	}
	sort.Slice(addrs, func(i, j int) bool {
		return bytes.Compare(addrs[i][:], addrs[j][:]) < 0
	})
	for _, addr := range addrs {
		fp.Balances = append(fp.Balances, balanceEntry{
			Addr:   addr,
			Amount: s.Balances[addr],
			Seq:    s.Seqs[addr],
		})
	}

	ids := make([]inter.IdentityID, 0, len(s.Identities))
	for id := range s.Identities {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return bytes.Compare(ids[i][:], ids[j][:]) < 0
	})
	for _, id := range ids {
		iden := s.Identities[id]
		entry := identityEntry{
			ID:     common.Hash(id),
			Owner:  iden.Owner,
			Status: uint8(iden.Status),
		}
		for _, kg := range iden.Keys {
			entry.Keys = append(entry.Keys, keyEntry{
				Key:        kg.Key.Bytes(),
				AddedAt:    kg.AddedAt,
				Superseded: kg.Superseded,
			})
		}
		attrKeys := make([]string, 0, len(iden.Attributes))
		for k := range iden.Attributes {
			attrKeys = append(attrKeys, k)
		}
		sort.Strings(attrKeys)
		for _, k := range attrKeys {
			entry.Attrs = append(entry.Attrs, attrEntry{Key: k, Value: iden.Attributes[k]})
		}
		fp.Identities = append(fp.Identities, entry)
	}

	vids := make([]idx.ValidatorID, 0, len(s.Validators))
	for id := range s.Validators {
		vids = append(vids, id)
	}
	sort.Slice(vids, func(i, j int) bool { return vids[i] < vids[j] })
	for _, id := range vids {
		v := s.Validators[id]
		fp.Validators = append(fp.Validators, validatorEntry{
			ID:               v.ID,
			Address:          v.Address,
			Key:              v.PubKey.Bytes(),
			Stake:            v.Stake,
			SlashedTotal:     v.SlashedTotal,
			CooldownUntil:    v.CooldownUntil,
			StakeActivatedAt: v.StakeActivatedAt,
		})
	}

	raw, err := rlp.EncodeToBytes(&fp)
	if err != nil {
		panic("can't encode state fingerprint: " + err.Error())
	}
	return inter.DoubleHash(raw)
}
