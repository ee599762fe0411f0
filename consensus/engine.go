// Package consensus implements the hybrid PoW/PoS block acceptance state
// machine: header validation under the PoW predicate and the stake-weighted
// proposer lottery, the difficulty schedule, fork choice by cumulative work,
// double-sign slashing, and parent-wait buffering for out-of-order arrivals.
// Accepted state transitions are handed to the storage collaborator
// synchronously before a block is considered final.
package consensus

import (
	"bytes"
	"fmt"
	"sync"
	"time"

	"github.com/Fantom-foundation/lachesis-base/inter/idx"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/event"
	"github.com/holiman/uint256"
	"github.com/sirupsen/logrus"

	"github.com/dxid-chain/go-dxid/dxcrypto"
	"github.com/dxid-chain/go-dxid/dxid"
	"github.com/dxid-chain/go-dxid/excore"
	"github.com/dxid-chain/go-dxid/inter"
	"github.com/dxid-chain/go-dxid/store"
)

// chainEntry is one validated block together with its post-state snapshot
// and fork-choice weights. Entries form a tree linked by parent pointers;
// fork choice picks the best leaf.
type chainEntry struct {
	block  *inter.Block
	hash   common.Hash
	parent *chainEntry

	state *excore.CanonicalState
	delta *excore.StateDelta

	// work is the chain's cumulative work up to this block.
	work *uint256.Int
	// stakeBacking accumulates the proposer lineage's stake, the first
	// fork-choice tie-break.
	stakeBacking *uint256.Int
}

type proposalKey struct {
	height   idx.Block
	proposer common.Address
}

// allowedClockDrift bounds how far ahead of the local clock a header
// timestamp may claim. Without it a proposer could steer every retarget to
// the clamp edge by declaring arbitrary times.
const allowedClockDrift = 10 * time.Second

// Engine is the consensus engine. Process serializes commits: exactly one
// block mutates the canonical pointer at a time, which keeps replay
// deterministic. Signature recovery inside execution still runs in parallel.
type Engine struct {
	mu sync.Mutex

	rules  dxid.Rules
	crypto dxcrypto.Provider
	exec   *excore.Engine
	store  store.Store
	log    *logrus.Entry

	entries   map[common.Hash]*chainEntry
	best      *chainEntry
	canonical map[idx.Block]common.Hash

	proposals map[proposalKey]common.Hash
	punished  map[proposalKey]bool

	buffer *blockBuffer

	blockFeed    event.Feed
	outboundFeed event.Feed

	halted bool
}

// New builds an engine bootstrapped from genesis. The genesis block is
// validated under the PoW predicate and committed to the store.
func New(provider dxcrypto.Provider, exec *excore.Engine, st store.Store, genesis dxid.Genesis) (*Engine, error) {
	state := excore.GenesisState(genesis)
	block := genesis.Block(state.Root())
	hash := block.Header.Hash()

	if !CheckPow(&block.Header) {
		return nil, fmt.Errorf("genesis: %w", ErrPowTargetNotMet)
	}

	en := &Engine{
		rules:     genesis.Rules,
		crypto:    provider,
		exec:      exec,
		store:     st,
		log:       logrus.WithField("module", "consensus"),
		entries:   map[common.Hash]*chainEntry{},
		canonical: map[idx.Block]common.Hash{},
		proposals: map[proposalKey]common.Hash{},
		punished:  map[proposalKey]bool{},
		buffer:    newBlockBuffer(),
	}

	entry := &chainEntry{
		block:        block,
		hash:         hash,
		state:        state,
		work:         BlockWork(block.Header.Difficulty),
		stakeBacking: uint256.NewInt(0),
	}
	en.entries[hash] = entry
	en.best = entry
	en.canonical[0] = hash

	if err := st.PutBlock(0, block); err != nil {
		return nil, err
	}
	for addr, balance := range genesis.Alloc {
		if err := st.SetBalance(addr, balance); err != nil {
			return nil, err
		}
	}

	en.log.WithFields(logrus.Fields{
		"hash":       hash,
		"difficulty": block.Header.Difficulty,
	}).Info("chain initialized from genesis")
	return en, nil
}

// Process validates a candidate block and, if it extends the best chain
// under fork choice, commits it. An unknown parent is recoverable: the block
// is buffered until the parent arrives or MaxParentWait passes. Every other
// rejection is final for this block.
func (en *Engine) Process(block *inter.Block) error {
	hash, err := en.process(block)
	if err != nil {
		return err
	}
	// the new block may be the parent someone was waiting for
	for _, child := range en.buffer.Pop(hash) {
		if err := en.Process(child); err != nil {
			en.log.WithField("height", child.Header.Height).Debug("buffered block rejected: ", err)
		}
	}
	return nil
}

func (en *Engine) process(block *inter.Block) (common.Hash, error) {
	en.mu.Lock()
	defer en.mu.Unlock()

	if en.halted {
		return common.Hash{}, ErrHalted
	}
	if err := block.CheckMalformed(); err != nil {
		return common.Hash{}, err
	}

	header := &block.Header
	hash := header.Hash()

	if _, ok := en.entries[hash]; ok {
		return common.Hash{}, ErrStaleOrFutureHeight
	}
	parent, ok := en.entries[header.ParentHash]
	if !ok {
		en.buffer.Push(block, en.rules.Blocks.MaxParentWait)
		return common.Hash{}, ErrUnknownParent
	}
	if header.Height != parent.block.Header.Height+1 {
		return common.Hash{}, ErrStaleOrFutureHeight
	}
	if header.Difficulty != en.expectedDifficulty(parent) {
		return common.Hash{}, ErrWrongDifficulty
	}
	if header.Time <= parent.block.Header.Time {
		return common.Hash{}, ErrInvalidTimestamp
	}
	if header.Time > inter.FromTime(time.Now().Add(allowedClockDrift)) {
		return common.Hash{}, ErrInvalidTimestamp
	}

	// PoS: the proposer must be the lottery's pick over the parent state
	validators := BuildValidators(parent.state, header.Height, en.rules.Economy.MinStake)
	selected, err := SelectProposer(validators, LotterySeed(header.ParentHash, header.Height))
	if err != nil {
		return common.Hash{}, ErrIneligibleProposer
	}
	proposer := parent.state.Validators[selected]
	if proposer == nil || proposer.Address != header.Proposer {
		return common.Hash{}, ErrIneligibleProposer
	}

	keyAddr, err := excore.KeyAddress(proposer.PubKey)
	if err != nil {
		return common.Hash{}, ErrBadProposerSignature
	}
	signer, err := en.crypto.SignerAddress(hash, block.ProposerSig)
	if err != nil || signer != keyAddr {
		return common.Hash{}, ErrBadProposerSignature
	}

	// PoW
	if !CheckPow(header) {
		return common.Hash{}, ErrPowTargetNotMet
	}

	delta, err := en.exec.Apply(parent.state, header.Height, header.Proposer, block.Txs)
	if err != nil {
		return common.Hash{}, err
	}
	if delta.State.Root() != header.StateRoot {
		return common.Hash{}, ErrStateRootMismatch
	}

	entry := &chainEntry{
		block:        block,
		hash:         hash,
		parent:       parent,
		state:        delta.State,
		delta:        delta,
		work:         new(uint256.Int).Add(parent.work, BlockWork(header.Difficulty)),
		stakeBacking: new(uint256.Int).Add(parent.stakeBacking, uint256.NewInt(proposer.Stake)),
	}
	en.entries[hash] = entry

	// evidence is checked after execution: both equivocating blocks are
	// otherwise valid, and the slash lands on every live fork's state
	en.noteProposal(header, hash, selected)

	if betterTip(entry, en.best) {
		if err := en.commit(entry); err != nil {
			return common.Hash{}, err
		}
	} else {
		en.log.WithFields(logrus.Fields{
			"height": header.Height,
			"hash":   hash,
		}).Debug("valid block on a lighter fork")
	}
	return hash, nil
}

// noteProposal records the (height, proposer) slot and slashes on the second
// distinct validly signed header in the same slot. Evidence is applied to
// every live fork's validator table, so eligibility drops everywhere at
// once.
func (en *Engine) noteProposal(header *inter.BlockHeader, hash common.Hash, id idx.ValidatorID) {
	key := proposalKey{height: header.Height, proposer: header.Proposer}
	prev, seen := en.proposals[key]
	if !seen {
		en.proposals[key] = hash
		return
	}
	if prev == hash || en.punished[key] {
		return
	}
	en.punished[key] = true
	en.log.WithFields(logrus.Fields{
		"height":    header.Height,
		"validator": id,
	}).Warn("double-sign evidence observed")
	for _, entry := range en.entries {
		// the validator may not exist yet on branches forked before its stake
		_, _ = en.exec.Slash(entry.state, id, header.Height)
	}
}

// betterTip is the fork-choice rule: greatest cumulative work, then greatest
// stake backing of the proposer lineage, then lowest header hash.
func betterTip(a, b *chainEntry) bool {
	if cmp := a.work.Cmp(b.work); cmp != 0 {
		return cmp > 0
	}
	if cmp := a.stakeBacking.Cmp(b.stakeBacking); cmp != 0 {
		return cmp > 0
	}
	return bytes.Compare(a.hash.Bytes(), b.hash.Bytes()) < 0
}

// commit makes entry the canonical tip. The branch from the common ancestor
// is persisted in height order; state before the fork point is untouched.
func (en *Engine) commit(tip *chainEntry) error {
	// collect the non-canonical suffix, tip first
	var branch []*chainEntry
	for e := tip; e != nil; e = e.parent {
		if en.canonical[e.block.Header.Height] == e.hash {
			if err := en.checkCommitted(e); err != nil {
				return err
			}
			break
		}
		branch = append(branch, e)
	}

	reorg := len(branch) > 0 && en.canonical[branch[len(branch)-1].block.Header.Height] != (common.Hash{})
	if reorg {
		en.log.WithFields(logrus.Fields{
			"depth":  len(branch),
			"newTip": tip.hash,
		}).Info("chain reorganization")
	}

	for i := len(branch) - 1; i >= 0; i-- {
		if err := en.persist(branch[i]); err != nil {
			return err
		}
	}
	// a heavier-but-shorter winner leaves the losing fork's blocks above
	// the new tip; they are no longer canonical and must not stay readable
	for h := tip.block.Header.Height + 1; ; h++ {
		if _, ok := en.canonical[h]; !ok {
			break
		}
		delete(en.canonical, h)
		if err := en.store.DeleteBlock(h); err != nil {
			return err
		}
	}
	en.best = tip

	for i := len(branch) - 1; i >= 0; i-- {
		e := branch[i]
		en.blockFeed.Send(e.block)
		for _, msg := range e.delta.Outbound {
			en.outboundFeed.Send(msg)
		}
	}
	return nil
}

// checkCommitted re-reads the fork point from the store and halts on a hash
// mismatch: committed history must never drift.
func (en *Engine) checkCommitted(e *chainEntry) error {
	height := e.block.Header.Height
	stored, err := en.store.GetBlock(height)
	if err != nil {
		return err
	}
	if stored.Header.Hash() != e.hash {
		en.halted = true
		en.log.WithFields(logrus.Fields{
			"height": height,
			"want":   e.hash,
			"stored": stored.Header.Hash(),
		}).Error("committed block hash mismatch, halting block production")
		return ErrChainCorrupted
	}
	return nil
}

// persist hands one block's delta to the storage collaborator.
func (en *Engine) persist(e *chainEntry) error {
	height := e.block.Header.Height
	if err := en.store.PutBlock(height, e.block); err != nil {
		return err
	}
	for addr := range e.delta.TouchedBalances {
		if err := en.store.SetBalance(addr, e.state.Balances[addr]); err != nil {
			return err
		}
	}
	for id := range e.delta.TouchedIdentities {
		if err := en.store.PutIdentity(id, e.state.Identities[id]); err != nil {
			return err
		}
	}
	en.canonical[height] = e.hash

	en.log.WithFields(logrus.Fields{
		"height": height,
		"hash":   e.hash,
		"txs":    len(e.block.Txs),
	}).Info("block committed")
	return nil
}

// expectedDifficulty returns the difficulty a child of parent must declare.
// Retargets happen when the parent closes an adjustment epoch.
func (en *Engine) expectedDifficulty(parent *chainEntry) uint64 {
	h := &parent.block.Header
	epoch := en.rules.Blocks.RetargetEpoch
	if h.Height == 0 || h.Height%epoch != 0 {
		return h.Difficulty
	}
	ancestor := parent
	for i := idx.Block(0); i < epoch && ancestor.parent != nil; i++ {
		ancestor = ancestor.parent
	}
	actual := time.Duration(h.Time - ancestor.block.Header.Time)
	return Retarget(h.Difficulty, actual, en.rules.Blocks)
}

// State returns a copy of the canonical tip's consensus state.
func (en *Engine) State() *ConsensusState {
	en.mu.Lock()
	defer en.mu.Unlock()

	tip := en.best
	h := &tip.block.Header

	var samples []inter.Timestamp
	epochStart := h.Height - h.Height%en.rules.Blocks.RetargetEpoch
	for e := tip; e != nil && e.block.Header.Height >= epochStart; e = e.parent {
		samples = append([]inter.Timestamp{e.block.Header.Time}, samples...)
		if e.block.Header.Height == 0 {
			break
		}
	}

	return &ConsensusState{
		Height:         h.Height,
		LastHash:       tip.hash,
		Difficulty:     en.expectedDifficulty(tip),
		TimeSamples:    samples,
		CumulativeWork: new(uint256.Int).Set(tip.work),
	}
}

// CanonicalSnapshot returns a copy of the canonical tip's full state, for
// read-only queries and candidate validation by collaborators.
func (en *Engine) CanonicalSnapshot() *excore.CanonicalState {
	en.mu.Lock()
	defer en.mu.Unlock()
	return en.best.state.Copy()
}

// Halted reports whether a fatal corruption has stopped the engine.
func (en *Engine) Halted() bool {
	en.mu.Lock()
	defer en.mu.Unlock()
	return en.halted
}

// SubscribeBlocks delivers every newly canonical block.
func (en *Engine) SubscribeBlocks(ch chan<- *inter.Block) event.Subscription {
	return en.blockFeed.Subscribe(ch)
}

// SubscribeOutbound delivers verified outbound cross-chain messages of
// committed blocks, in block order.
func (en *Engine) SubscribeOutbound(ch chan<- *inter.CrossChainMessage) event.Subscription {
	return en.outboundFeed.Subscribe(ch)
}

// SweepBuffer discards buffered blocks whose parent wait timed out. The node
// loop calls it periodically.
func (en *Engine) SweepBuffer() {
	en.buffer.Sweep()
}

// Rules returns the engine's rule set.
func (en *Engine) Rules() dxid.Rules {
	return en.rules
}
