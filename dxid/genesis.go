package dxid

import (
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/dxid-chain/go-dxid/inter"
	"github.com/dxid-chain/go-dxid/inter/validatorpk"
)

// GenesisAlloc maps addresses to their pre-mined balances.
type GenesisAlloc map[common.Address]uint64

// GenesisValidator is a validator bonded at height 0. Without at least one,
// the proposer lottery has nobody to select and the chain cannot advance
// past genesis.
type GenesisValidator struct {
	Address common.Address
	PubKey  validatorpk.PubKey
	Stake   uint64
}

// Genesis describes the chain's height-0 state: initial balances, the
// bonded validator set, the genesis time and the rule set the chain starts
// under.
type Genesis struct {
	Alloc      GenesisAlloc
	Validators []GenesisValidator
	Time       inter.Timestamp
	// Nonce is the pre-mined nonce satisfying the PoW predicate at
	// GenesisDifficulty. It ships with the network definition.
	Nonce uint64
	Rules Rules
}

// Block builds the genesis block committing to the given state root. It has
// no parent, no transactions and no proposer; it is still subject to the PoW
// predicate at GenesisDifficulty, which seeds the chain's cumulative work.
func (g Genesis) Block(stateRoot common.Hash) *inter.Block {
	return &inter.Block{
		Header: inter.BlockHeader{
			Height:     0,
			ParentHash: common.Hash{},
			StateRoot:  stateRoot,
			TxRoot:     inter.CalcTxRoot(nil),
			Time:       g.Time,
			Difficulty: g.Rules.Blocks.GenesisDifficulty,
			Nonce:      g.Nonce,
			Proposer:   common.Address{},
		},
		Txs: nil,
	}
}

// FakeGenesis builds a deterministic dev-net genesis funding the given
// accounts and bonding the given validators. The fixed timestamp keeps
// genesis hashes reproducible across runs, which single-process test
// networks rely on.
func FakeGenesis(validators []GenesisValidator, accs []common.Address, balance uint64, rules Rules) Genesis {
	alloc := GenesisAlloc{}
	for _, acc := range accs {
		alloc[acc] = balance
	}
	for _, v := range validators {
		alloc[v.Address] = balance
	}
	return Genesis{
		Alloc:      alloc,
		Validators: validators,
		Time:       inter.FromTime(time.Unix(1700000000, 0)),
		Rules:      rules,
	}
}
