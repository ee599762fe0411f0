package consensus

import (
	"context"
	"crypto/ecdsa"
	"time"

	"github.com/Fantom-foundation/lachesis-base/inter/idx"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/dxid-chain/go-dxid/inter"
)

// nonceBatch is how many nonces are tried between cancellation checks.
const nonceBatch = 4096

// SearchNonce scans the nonce space from h.Nonce upwards until the header
// satisfies the PoW predicate for its own difficulty, or ctx is cancelled.
// Cancellation is how the node abandons the search once a competing block at
// the same or greater height is accepted.
func SearchNonce(ctx context.Context, h inter.BlockHeader) (*inter.BlockHeader, error) {
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		for i := 0; i < nonceBatch; i++ {
			if CheckPow(&h) {
				return &h, nil
			}
			h.Nonce++
		}
	}
}

// watchHeads derives a context cancelled once a canonical block at or above
// height is committed, so an in-flight nonce search stops instead of wasting
// the rest of the interval. The returned stop releases the subscription; the
// watcher keeps draining head events until then so a commit never blocks on
// the feed.
func (en *Engine) watchHeads(ctx context.Context, height idx.Block) (context.Context, func()) {
	ctx, cancel := context.WithCancel(ctx)
	heads := make(chan *inter.Block, 16)
	sub := en.blockFeed.Subscribe(heads)
	stopped := make(chan struct{})

	go func() {
		for {
			select {
			case <-stopped:
				return
			case b := <-heads:
				if b.Header.Height >= height {
					cancel()
				}
			}
		}
	}()

	stop := func() {
		sub.Unsubscribe()
		close(stopped)
		cancel()
	}
	return ctx, stop
}

// SealBlock assembles, mines and signs a candidate block on top of the
// canonical tip, with the given key as proposer. The key must belong to the
// validator the lottery selects for the next height, otherwise the candidate
// would be rejected anyway and SealBlock fails fast with
// ErrIneligibleProposer. The nonce search is abandoned with ErrSealAborted
// once a competing block at the same or greater height becomes canonical.
func (en *Engine) SealBlock(ctx context.Context, key *ecdsa.PrivateKey, txs inter.Transactions) (*inter.Block, error) {
	en.mu.Lock()
	if en.halted {
		en.mu.Unlock()
		return nil, ErrHalted
	}

	parent := en.best
	height := parent.block.Header.Height + 1
	proposer := crypto.PubkeyToAddress(key.PublicKey)

	validators := BuildValidators(parent.state, height, en.rules.Economy.MinStake)
	selected, err := SelectProposer(validators, LotterySeed(parent.hash, height))
	if err != nil {
		en.mu.Unlock()
		return nil, ErrIneligibleProposer
	}
	if v := parent.state.Validators[selected]; v == nil || v.Address != proposer {
		en.mu.Unlock()
		return nil, ErrIneligibleProposer
	}

	delta, err := en.exec.Apply(parent.state, height, proposer, txs)
	if err != nil {
		en.mu.Unlock()
		return nil, err
	}

	at := inter.FromTime(time.Now())
	if at <= parent.block.Header.Time {
		at = parent.block.Header.Time + 1
	}
	header := inter.BlockHeader{
		Height:     height,
		ParentHash: parent.hash,
		StateRoot:  delta.State.Root(),
		TxRoot:     inter.CalcTxRoot(txs),
		Time:       at,
		Difficulty: en.expectedDifficulty(parent),
		Proposer:   proposer,
	}

	// the PoW search runs outside the lock; the head watch is subscribed
	// under it so a commit racing the unlock is not missed
	searchCtx, stopWatch := en.watchHeads(ctx, height)
	en.mu.Unlock()
	defer stopWatch()

	mined, err := SearchNonce(searchCtx, header)
	if err != nil {
		if ctx.Err() == nil {
			return nil, ErrSealAborted
		}
		return nil, err
	}

	sig, err := crypto.Sign(mined.Hash().Bytes(), key)
	if err != nil {
		return nil, err
	}
	return &inter.Block{
		Header:      *mined,
		Txs:         txs,
		ProposerSig: sig,
	}, nil
}
