package consensus

import (
	"bytes"
	"context"
	"crypto/ecdsa"
	"testing"
	"time"

	"github.com/Fantom-foundation/lachesis-base/inter/idx"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/dxid-chain/go-dxid/dxcrypto"
	"github.com/dxid-chain/go-dxid/dxid"
	"github.com/dxid-chain/go-dxid/excore"
	"github.com/dxid-chain/go-dxid/inter"
	"github.com/dxid-chain/go-dxid/inter/validatorpk"
	"github.com/dxid-chain/go-dxid/store"
)

func fixedKey(t *testing.T, seed byte) *ecdsa.PrivateKey {
	key, err := crypto.ToECDSA(bytes.Repeat([]byte{seed}, 32))
	require.NoError(t, err)
	return key
}

func pubkeyOf(key *ecdsa.PrivateKey) validatorpk.PubKey {
	return validatorpk.PubKey{
		Type: validatorpk.Types.Secp256k1,
		Raw:  crypto.FromECDSAPub(&key.PublicKey),
	}
}

type tester struct {
	t *testing.T

	en    *Engine
	exec  *excore.Engine
	st    *store.MemoryStore
	rules dxid.Rules

	genesis     dxid.Genesis
	genesisHash common.Hash
	keys        map[common.Address]*ecdsa.PrivateKey
}

func newTesterWithRules(t *testing.T, rules dxid.Rules, stakes ...uint64) *tester {
	keys := map[common.Address]*ecdsa.PrivateKey{}
	var validators []dxid.GenesisValidator
	for i, stake := range stakes {
		key := fixedKey(t, byte(0x11*(i+1)))
		addr := crypto.PubkeyToAddress(key.PublicKey)
		keys[addr] = key
		validators = append(validators, dxid.GenesisValidator{
			Address: addr,
			PubKey:  pubkeyOf(key),
			Stake:   stake,
		})
	}
	genesis := dxid.FakeGenesis(validators, nil, 1000000, rules)

	// pre-mine the genesis nonce so genesis passes its own PoW predicate
	header := genesis.Block(excore.GenesisState(genesis).Root()).Header
	mined, err := SearchNonce(context.Background(), header)
	require.NoError(t, err)
	genesis.Nonce = mined.Nonce

	provider := dxcrypto.NewDevProvider()
	exec := excore.NewEngine(provider, rules, nil)
	st := store.NewMemoryStore()
	en, err := New(provider, exec, st, genesis)
	require.NoError(t, err)

	return &tester{
		t:           t,
		en:          en,
		exec:        exec,
		st:          st,
		rules:       rules,
		genesis:     genesis,
		genesisHash: en.State().LastHash,
		keys:        keys,
	}
}

func newTester(t *testing.T, stakes ...uint64) *tester {
	return newTesterWithRules(t, dxid.FakeNetRules(), stakes...)
}

func (c *tester) genesisState() *excore.CanonicalState {
	return excore.GenesisState(c.genesis)
}

// proposerFor runs the lottery the engine will run for the given position.
func (c *tester) proposerFor(parentHash common.Hash, parentState *excore.CanonicalState, height idx.Block) (*ecdsa.PrivateKey, common.Address) {
	validators := BuildValidators(parentState, height, c.rules.Economy.MinStake)
	id, err := SelectProposer(validators, LotterySeed(parentHash, height))
	require.NoError(c.t, err)
	addr := parentState.Validators[id].Address
	key, ok := c.keys[addr]
	require.True(c.t, ok)
	return key, addr
}

// buildOn constructs a mined, signed block. key == nil means "whoever the
// lottery selects".
func (c *tester) buildOn(parentHash common.Hash, parentState *excore.CanonicalState, height idx.Block, at inter.Timestamp, txs inter.Transactions, difficulty uint64, key *ecdsa.PrivateKey) *inter.Block {
	var addr common.Address
	if key == nil {
		key, addr = c.proposerFor(parentHash, parentState, height)
	} else {
		addr = crypto.PubkeyToAddress(key.PublicKey)
	}

	delta, err := c.exec.Apply(parentState, height, addr, txs)
	require.NoError(c.t, err)

	header := inter.BlockHeader{
		Height:     height,
		ParentHash: parentHash,
		StateRoot:  delta.State.Root(),
		TxRoot:     inter.CalcTxRoot(txs),
		Time:       at,
		Difficulty: difficulty,
		Proposer:   addr,
	}
	mined, err := SearchNonce(context.Background(), header)
	require.NoError(c.t, err)

	sig, err := crypto.Sign(mined.Hash().Bytes(), key)
	require.NoError(c.t, err)
	return &inter.Block{Header: *mined, Txs: txs, ProposerSig: sig}
}

func TestGenesisWork(t *testing.T) {
	c := newTester(t, 1000)

	state := c.en.State()
	require.Equal(t, idx.Block(0), state.Height)
	// fake net genesis difficulty is 1, so work = maxTarget/target = 1
	require.Equal(t, BlockWork(c.rules.Blocks.GenesisDifficulty), state.CumulativeWork)
	require.Equal(t, uint256.NewInt(1), state.CumulativeWork)

	stored, err := c.st.GetBlock(0)
	require.NoError(t, err)
	require.Equal(t, c.genesisHash, stored.Header.Hash())
}

func TestAcceptBlock(t *testing.T) {
	c := newTester(t, 1000)
	state0 := c.genesisState()

	b1 := c.buildOn(c.genesisHash, state0, 1, c.genesis.Time+1, nil, 1, nil)
	require.NoError(t, c.en.Process(b1))

	tip := c.en.State()
	require.Equal(t, idx.Block(1), tip.Height)
	require.Equal(t, b1.Header.Hash(), tip.LastHash)
	require.Equal(t, uint256.NewInt(2), tip.CumulativeWork)

	stored, err := c.st.GetBlock(1)
	require.NoError(t, err)
	require.Equal(t, b1.Header.Hash(), stored.Header.Hash())

	// the proposer got the block reward
	minted := excore.BlockReward(1, 0, c.rules.Economy)
	proposerShare, _ := excore.SplitReward(minted, c.rules.Economy)
	snapshot := c.en.CanonicalSnapshot()
	require.Equal(t, uint64(1000000)+proposerShare, snapshot.Balances[b1.Header.Proposer])

	t.Run("duplicate is rejected", func(t *testing.T) {
		require.ErrorIs(t, c.en.Process(b1), ErrStaleOrFutureHeight)
	})
}

func TestPowTargetNotMet(t *testing.T) {
	rules := dxid.FakeNetRules()
	rules.Blocks.GenesisDifficulty = 4096
	c := newTesterWithRules(t, rules, 1000)
	state0 := c.genesisState()

	key, addr := c.proposerFor(c.genesisHash, state0, 1)
	delta, err := c.exec.Apply(state0, 1, addr, nil)
	require.NoError(t, err)

	header := inter.BlockHeader{
		Height:     1,
		ParentHash: c.genesisHash,
		StateRoot:  delta.State.Root(),
		TxRoot:     inter.CalcTxRoot(nil),
		Time:       c.genesis.Time + 1,
		Difficulty: 4096,
		Proposer:   addr,
	}

	// find a nonce that misses the target
	for CheckPow(&header) {
		header.Nonce++
	}
	sig, err := crypto.Sign(header.Hash().Bytes(), key)
	require.NoError(t, err)
	bad := &inter.Block{Header: header, ProposerSig: sig}
	require.ErrorIs(t, c.en.Process(bad), ErrPowTargetNotMet)
	require.Equal(t, idx.Block(0), c.en.State().Height)

	// the same header with a mined nonce is accepted
	mined, err := SearchNonce(context.Background(), header)
	require.NoError(t, err)
	sig, err = crypto.Sign(mined.Hash().Bytes(), key)
	require.NoError(t, err)
	good := &inter.Block{Header: *mined, ProposerSig: sig}
	require.NoError(t, c.en.Process(good))
	require.Equal(t, idx.Block(1), c.en.State().Height)
}

func TestHeightContinuity(t *testing.T) {
	c := newTester(t, 1000)
	state0 := c.genesisState()

	skipped := c.buildOn(c.genesisHash, state0, 5, c.genesis.Time+1, nil, 1, nil)
	require.ErrorIs(t, c.en.Process(skipped), ErrStaleOrFutureHeight)
}

func TestWrongDifficulty(t *testing.T) {
	c := newTester(t, 1000)
	state0 := c.genesisState()

	b1 := c.buildOn(c.genesisHash, state0, 1, c.genesis.Time+1, nil, 3, nil)
	require.ErrorIs(t, c.en.Process(b1), ErrWrongDifficulty)
}

func TestIneligibleProposer(t *testing.T) {
	t.Run("below minimum stake", func(t *testing.T) {
		c := newTester(t, 100) // below MinStake 500
		state0 := c.genesisState()

		var key *ecdsa.PrivateKey
		for _, k := range c.keys {
			key = k
		}
		b1 := c.buildOn(c.genesisHash, state0, 1, c.genesis.Time+1, nil, 1, key)
		require.ErrorIs(t, c.en.Process(b1), ErrIneligibleProposer)
	})

	t.Run("not the lottery's pick", func(t *testing.T) {
		c := newTester(t, 1000, 1000)
		state0 := c.genesisState()

		_, selected := c.proposerFor(c.genesisHash, state0, 1)
		var otherKey *ecdsa.PrivateKey
		for addr, k := range c.keys {
			if addr != selected {
				otherKey = k
			}
		}
		b1 := c.buildOn(c.genesisHash, state0, 1, c.genesis.Time+1, nil, 1, otherKey)
		require.ErrorIs(t, c.en.Process(b1), ErrIneligibleProposer)
	})
}

func TestBadProposerSignature(t *testing.T) {
	c := newTester(t, 1000)
	state0 := c.genesisState()

	b1 := c.buildOn(c.genesisHash, state0, 1, c.genesis.Time+1, nil, 1, nil)
	intruder := fixedKey(t, 0x77)
	sig, err := crypto.Sign(b1.Header.Hash().Bytes(), intruder)
	require.NoError(t, err)
	b1.ProposerSig = sig

	require.ErrorIs(t, c.en.Process(b1), ErrBadProposerSignature)
}

func TestStateRootMismatch(t *testing.T) {
	c := newTester(t, 1000)
	state0 := c.genesisState()

	key, addr := c.proposerFor(c.genesisHash, state0, 1)
	header := inter.BlockHeader{
		Height:     1,
		ParentHash: c.genesisHash,
		StateRoot:  inter.DoubleHash([]byte("wrong")),
		TxRoot:     inter.CalcTxRoot(nil),
		Time:       c.genesis.Time + 1,
		Difficulty: 1,
		Proposer:   addr,
	}
	mined, err := SearchNonce(context.Background(), header)
	require.NoError(t, err)
	sig, err := crypto.Sign(mined.Hash().Bytes(), key)
	require.NoError(t, err)

	bad := &inter.Block{Header: *mined, ProposerSig: sig}
	require.ErrorIs(t, c.en.Process(bad), ErrStateRootMismatch)
}

func TestUnknownParentBuffering(t *testing.T) {
	c := newTester(t, 1000)
	state0 := c.genesisState()

	b1 := c.buildOn(c.genesisHash, state0, 1, c.genesis.Time+1, nil, 1, nil)

	delta1, err := c.exec.Apply(state0, 1, b1.Header.Proposer, nil)
	require.NoError(t, err)
	b2 := c.buildOn(b1.Header.Hash(), delta1.State, 2, c.genesis.Time+2, nil, 1, nil)

	// child first: buffered, not applied
	require.ErrorIs(t, c.en.Process(b2), ErrUnknownParent)
	require.Equal(t, idx.Block(0), c.en.State().Height)

	// parent arrives: the buffered child follows automatically
	require.NoError(t, c.en.Process(b1))
	require.Equal(t, idx.Block(2), c.en.State().Height)
	require.Equal(t, b2.Header.Hash(), c.en.State().LastHash)
}

func TestParentWaitTimeout(t *testing.T) {
	rules := dxid.FakeNetRules()
	rules.Blocks.MaxParentWait = time.Millisecond
	c := newTesterWithRules(t, rules, 1000)
	state0 := c.genesisState()

	b1 := c.buildOn(c.genesisHash, state0, 1, c.genesis.Time+1, nil, 1, nil)
	delta1, err := c.exec.Apply(state0, 1, b1.Header.Proposer, nil)
	require.NoError(t, err)
	b2 := c.buildOn(b1.Header.Hash(), delta1.State, 2, c.genesis.Time+2, nil, 1, nil)

	require.ErrorIs(t, c.en.Process(b2), ErrUnknownParent)
	time.Sleep(5 * time.Millisecond)

	require.NoError(t, c.en.Process(b1))
	// the buffered child expired and was discarded
	require.Equal(t, idx.Block(1), c.en.State().Height)
}

func TestDoubleSignSlashing(t *testing.T) {
	c := newTester(t, 1000)
	state0 := c.genesisState()

	blockA := c.buildOn(c.genesisHash, state0, 1, c.genesis.Time+1, nil, 1, nil)
	blockB := c.buildOn(c.genesisHash, state0, 1, c.genesis.Time+2, nil, 1, nil)
	require.NotEqual(t, blockA.Header.Hash(), blockB.Header.Hash())

	require.NoError(t, c.en.Process(blockA))
	require.NoError(t, c.en.Process(blockB))

	snapshot := c.en.CanonicalSnapshot()
	v := snapshot.ValidatorByAddress(blockA.Header.Proposer)
	require.NotNil(t, v)
	require.Equal(t, uint64(900), v.Stake) // 10% slashed
	require.Equal(t, uint64(100), v.SlashedTotal)
	require.False(t, v.Eligible(2, c.rules.Economy.MinStake))
	require.True(t, v.Eligible(1+c.rules.Economy.CooldownBlocks, c.rules.Economy.MinStake))

	// work and stake backing tie, so the lower hash wins
	want := blockA.Header.Hash()
	if bytes.Compare(blockB.Header.Hash().Bytes(), want.Bytes()) < 0 {
		want = blockB.Header.Hash()
	}
	require.Equal(t, want, c.en.State().LastHash)
}

func TestForkChoiceReorg(t *testing.T) {
	c := newTester(t, 700, 600)
	state0 := c.genesisState()

	blockA := c.buildOn(c.genesisHash, state0, 1, c.genesis.Time+1, nil, 1, nil)
	blockB := c.buildOn(c.genesisHash, state0, 1, c.genesis.Time+2, nil, 1, nil)
	require.NoError(t, c.en.Process(blockA))
	require.NoError(t, c.en.Process(blockB))

	winner := c.en.State().LastHash
	loser := blockA
	if winner == blockA.Header.Hash() {
		loser = blockB
	}

	// rebuild the loser branch's state the way the engine holds it:
	// executed, then slashed by the double-sign evidence
	deltaL, err := c.exec.Apply(state0, 1, loser.Header.Proposer, nil)
	require.NoError(t, err)
	stateL := deltaL.State
	slashedID := stateL.ValidatorIDs[loser.Header.Proposer]
	_, err = c.exec.Slash(stateL, slashedID, 1)
	require.NoError(t, err)

	// extending the lighter fork outweighs the current tip
	b2 := c.buildOn(loser.Header.Hash(), stateL, 2, c.genesis.Time+3, nil, 1, nil)
	require.NoError(t, c.en.Process(b2))

	tip := c.en.State()
	require.Equal(t, idx.Block(2), tip.Height)
	require.Equal(t, b2.Header.Hash(), tip.LastHash)
	require.Equal(t, uint256.NewInt(3), tip.CumulativeWork)

	// the reorg replaced the committed block at height 1
	stored, err := c.st.GetBlock(1)
	require.NoError(t, err)
	require.Equal(t, loser.Header.Hash(), stored.Header.Hash())
}

func TestHaltOnCorruption(t *testing.T) {
	c := newTester(t, 1000)
	state0 := c.genesisState()

	b1 := c.buildOn(c.genesisHash, state0, 1, c.genesis.Time+1, nil, 1, nil)
	require.NoError(t, c.en.Process(b1))

	// corrupt the committed block behind the engine's back
	require.NoError(t, c.st.PutBlock(1, c.genesis.Block(common.Hash{})))

	delta1, err := c.exec.Apply(state0, 1, b1.Header.Proposer, nil)
	require.NoError(t, err)
	b2 := c.buildOn(b1.Header.Hash(), delta1.State, 2, c.genesis.Time+2, nil, 1, nil)

	require.ErrorIs(t, c.en.Process(b2), ErrChainCorrupted)
	require.True(t, c.en.Halted())

	b2retry := c.buildOn(b1.Header.Hash(), delta1.State, 2, c.genesis.Time+3, nil, 1, nil)
	require.ErrorIs(t, c.en.Process(b2retry), ErrHalted)
}

func TestRetargetInChain(t *testing.T) {
	c := newTester(t, 1000)
	state := c.genesisState()
	parentHash := c.genesisHash

	// blocks arrive 10x faster than the 1s target, so the clamp caps the
	// retarget at x4
	step := inter.Timestamp(100 * time.Millisecond)
	for h := idx.Block(1); h <= c.rules.Blocks.RetargetEpoch; h++ {
		b := c.buildOn(parentHash, state, h, c.genesis.Time+inter.Timestamp(h)*step, nil, 1, nil)
		require.NoError(t, c.en.Process(b))

		delta, err := c.exec.Apply(state, h, b.Header.Proposer, nil)
		require.NoError(t, err)
		state = delta.State
		parentHash = b.Header.Hash()
	}

	require.Equal(t, uint64(4), c.en.State().Difficulty)

	// the next block must declare the retargeted difficulty
	h := c.rules.Blocks.RetargetEpoch + 1
	stale := c.buildOn(parentHash, state, h, c.genesis.Time+inter.Timestamp(h)*step, nil, 1, nil)
	require.ErrorIs(t, c.en.Process(stale), ErrWrongDifficulty)

	b := c.buildOn(parentHash, state, h, c.genesis.Time+inter.Timestamp(h)*step, nil, 4, nil)
	require.NoError(t, c.en.Process(b))
	require.Equal(t, h, c.en.State().Height)
}

func TestHeaderTimeBounds(t *testing.T) {
	c := newTester(t, 1000)
	state0 := c.genesisState()

	t.Run("not after parent", func(t *testing.T) {
		b := c.buildOn(c.genesisHash, state0, 1, c.genesis.Time, nil, 1, nil)
		require.ErrorIs(t, c.en.Process(b), ErrInvalidTimestamp)
	})

	t.Run("beyond clock drift", func(t *testing.T) {
		at := inter.FromTime(time.Now().Add(time.Hour))
		b := c.buildOn(c.genesisHash, state0, 1, at, nil, 1, nil)
		require.ErrorIs(t, c.en.Process(b), ErrInvalidTimestamp)
	})

	b := c.buildOn(c.genesisHash, state0, 1, c.genesis.Time+1, nil, 1, nil)
	require.NoError(t, c.en.Process(b))
	require.Equal(t, idx.Block(1), c.en.State().Height)
}

func TestReorgPrunesOrphanedHeights(t *testing.T) {
	c := newTester(t, 1000)
	state0 := c.genesisState()

	// canonical chain to height 3
	parentHash := c.genesisHash
	state := state0
	for h := idx.Block(1); h <= 3; h++ {
		b := c.buildOn(parentHash, state, h, c.genesis.Time+inter.Timestamp(h), nil, 1, nil)
		require.NoError(t, c.en.Process(b))

		delta, err := c.exec.Apply(state, h, b.Header.Proposer, nil)
		require.NoError(t, err)
		state = delta.State
		parentHash = b.Header.Hash()
	}

	// a competing height-1 entry carrying more work than the whole chain,
	// the shape a fast-timestamp retarget fork produces
	alt := c.buildOn(c.genesisHash, state0, 1, c.genesis.Time+10, nil, 1, nil)
	deltaAlt, err := c.exec.Apply(state0, 1, alt.Header.Proposer, nil)
	require.NoError(t, err)
	entry := &chainEntry{
		block:        alt,
		hash:         alt.Header.Hash(),
		parent:       c.en.entries[c.genesisHash],
		state:        deltaAlt.State,
		delta:        deltaAlt,
		work:         uint256.NewInt(100),
		stakeBacking: uint256.NewInt(0),
	}
	c.en.entries[entry.hash] = entry
	require.NoError(t, c.en.commit(entry))

	tip := c.en.State()
	require.Equal(t, idx.Block(1), tip.Height)
	require.Equal(t, alt.Header.Hash(), tip.LastHash)

	// the new tip replaced height 1, and the losing fork's blocks above it
	// are gone from both the canonical index and the store
	stored, err := c.st.GetBlock(1)
	require.NoError(t, err)
	require.Equal(t, alt.Header.Hash(), stored.Header.Hash())
	for h := idx.Block(2); h <= 3; h++ {
		require.NotContains(t, c.en.canonical, h)
		_, err := c.st.GetBlock(h)
		require.ErrorIs(t, err, store.ErrNotFound)
	}
}

func TestSealAbortsOnCompetingHead(t *testing.T) {
	c := newTester(t, 1000)
	state0 := c.genesisState()

	// a watch at the candidate height cancels once a block there commits;
	// a watch above it keeps running
	searchCtx, stop := c.en.watchHeads(context.Background(), 1)
	defer stop()
	aboveCtx, stopAbove := c.en.watchHeads(context.Background(), 2)
	defer stopAbove()

	b1 := c.buildOn(c.genesisHash, state0, 1, c.genesis.Time+1, nil, 1, nil)
	require.NoError(t, c.en.Process(b1))

	select {
	case <-searchCtx.Done():
	case <-time.After(time.Second):
		t.Fatal("nonce search not cancelled by competing head")
	}
	require.NoError(t, aboveCtx.Err())
}

func TestSealBlock(t *testing.T) {
	c := newTester(t, 1000)

	_, addr := c.proposerFor(c.genesisHash, c.genesisState(), 1)
	key := c.keys[addr]

	block, err := c.en.SealBlock(context.Background(), key, nil)
	require.NoError(t, err)
	require.NoError(t, c.en.Process(block))
	require.Equal(t, idx.Block(1), c.en.State().Height)

	t.Run("foreign key", func(t *testing.T) {
		_, err := c.en.SealBlock(context.Background(), fixedKey(t, 0x77), nil)
		require.ErrorIs(t, err, ErrIneligibleProposer)
	})

	t.Run("cancelled search", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, addr := c.proposerFor(c.en.State().LastHash, c.en.CanonicalSnapshot(), 2)
		_, err := c.en.SealBlock(ctx, c.keys[addr], nil)
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestOutboundEventsOnCommit(t *testing.T) {
	vk := []byte("peer-vk")
	registry := staticRegistry{"peer-1": {ChainID: "peer-1", VerificationKey: vk}}

	rules := dxid.FakeNetRules()
	provider := dxcrypto.NewDevProvider()
	exec := excore.NewEngine(provider, rules, registry)

	key := fixedKey(t, 0x11)
	addr := crypto.PubkeyToAddress(key.PublicKey)
	genesis := dxid.FakeGenesis([]dxid.GenesisValidator{{
		Address: addr, PubKey: pubkeyOf(key), Stake: 1000,
	}}, nil, 1000000, rules)

	st := store.NewMemoryStore()
	en, err := New(provider, exec, st, genesis)
	require.NoError(t, err)

	ch := make(chan *inter.CrossChainMessage, 1)
	sub := en.SubscribeOutbound(ch)
	defer sub.Unsubscribe()

	msg := &inter.CrossChainMessage{
		DestChain:   "peer-1",
		PayloadHash: inter.DoubleHash([]byte("payload")),
		Nonce:       1,
	}
	proof, err := dxcrypto.NewHashCommitBackend().ProveMessage(msg.PublicInputs(), vk)
	require.NoError(t, err)
	msg.Proof = proof

	tx := &inter.Transaction{
		Kind:    inter.CrossChainMessageTx,
		Sender:  addr,
		Seq:     1,
		Message: msg,
	}
	sig, err := crypto.Sign(tx.SigHash().Bytes(), key)
	require.NoError(t, err)
	tx.Sig = sig

	block, err := en.SealBlock(context.Background(), key, inter.Transactions{tx})
	require.NoError(t, err)
	require.NoError(t, en.Process(block))

	select {
	case got := <-ch:
		require.Equal(t, "peer-1", got.DestChain)
	case <-time.After(time.Second):
		t.Fatal("no outbound event delivered")
	}
}

type staticRegistry map[string]*inter.ChainMetadata

func (r staticRegistry) Chain(chainID string) (*inter.ChainMetadata, bool) {
	meta, ok := r[chainID]
	return meta, ok
}
