// Package dxid defines the network rule sets: identifiers, monetary policy,
// consensus parameters and interop limits. A Rules value is the single
// configuration record every engine component reads its constants from;
// nothing consensus-critical is hard-coded outside this package.
package dxid

import (
	"encoding/json"
	"time"

	"github.com/Fantom-foundation/lachesis-base/inter/idx"
	"github.com/ethereum/go-ethereum/common"
)

// Network identification constants.
const (
	// MainNetworkID is the chain id of the production network.
	MainNetworkID uint64 = 0xd1d
	// TestNetworkID is the chain id of the public test network.
	TestNetworkID uint64 = 0xd1d2
	// FakeNetworkID is the chain id of local single-process networks.
	FakeNetworkID uint64 = 0xd1d3
)

// TreasuryAddress receives the treasury share of every minted block reward.
var TreasuryAddress = common.HexToAddress("0x00000000000000000000000000000000d1d7ea50")

// EconomyRules govern the monetary schedule and validator economics.
type EconomyRules struct {
	// BaseReward is the pre-halving block reward.
	BaseReward uint64

	// HalvingInterval is the number of blocks between reward halvings.
	// reward(h) = BaseReward >> (h / HalvingInterval), flooring at zero.
	HalvingInterval idx.Block

	// SupplyThreshold forces an extra halving step for every multiple of
	// minted supply, independent of height. Zero disables the clamp.
	SupplyThreshold uint64

	// MaxSupply caps cumulative minting. The final block reward is
	// truncated so the cap is never exceeded.
	MaxSupply uint64

	// TreasuryBps is the treasury share of each minted reward in basis
	// points. The proposer receives the rest; any integer remainder of
	// the split lands in the treasury.
	TreasuryBps uint64

	// MinStake is the stake below which a validator is never eligible.
	MinStake uint64

	// SlashRateBps is the fraction of stake burned on double-sign
	// evidence, in basis points.
	SlashRateBps uint64

	// UnbondingBlocks is how long after stake activation an unstake is
	// honored, leaving a window for slashing evidence to surface.
	UnbondingBlocks idx.Block

	// CooldownBlocks is how long a slashed validator stays ineligible.
	CooldownBlocks idx.Block
}

// BlocksRules govern block production and the difficulty schedule.
type BlocksRules struct {
	// TargetBlockTime is the block spacing the retarget aims for.
	TargetBlockTime time.Duration

	// RetargetEpoch is the number of blocks between difficulty
	// adjustments.
	RetargetEpoch idx.Block

	// RetargetClamp bounds a single adjustment to
	// [difficulty/RetargetClamp, difficulty*RetargetClamp].
	RetargetClamp uint64

	// MinDifficulty is the difficulty floor.
	MinDifficulty uint64

	// GenesisDifficulty seeds the schedule at height 0.
	GenesisDifficulty uint64

	// MaxParentWait bounds how long an out-of-order block is buffered
	// while waiting for its parent before being discarded.
	MaxParentWait time.Duration
}

// InteropRules bound calls into proof backends at the gateway edge.
type InteropRules struct {
	// CallTimeout applies to a single prove/verify call.
	CallTimeout time.Duration

	// MaxRetries bounds outbound proving retries; each retry backs off
	// exponentially.
	MaxRetries uint64
}

// Rules describes the complete configuration of a network.
type Rules struct {
	Name      string
	NetworkID uint64

	Economy EconomyRules
	Blocks  BlocksRules
	Interop InteropRules
}

// DefaultEconomyRules returns the production monetary schedule.
func DefaultEconomyRules() EconomyRules {
	return EconomyRules{
		BaseReward:      500000,
		HalvingInterval: 100000,
		SupplyThreshold: 0,
		MaxSupply:       210000000000,
		TreasuryBps:     500,
		MinStake:        500,
		SlashRateBps:    1000,
		UnbondingBlocks: 64,
		CooldownBlocks:  128,
	}
}

// DefaultBlocksRules returns the production block schedule.
func DefaultBlocksRules() BlocksRules {
	return BlocksRules{
		TargetBlockTime:   30 * time.Second,
		RetargetEpoch:     10,
		RetargetClamp:     4,
		MinDifficulty:     1,
		GenesisDifficulty: 0x00ffffff,
		MaxParentWait:     30 * time.Second,
	}
}

// DefaultInteropRules returns the production gateway limits.
func DefaultInteropRules() InteropRules {
	return InteropRules{
		CallTimeout: 5 * time.Second,
		MaxRetries:  4,
	}
}

// MainNetRules returns the production network configuration.
func MainNetRules() Rules {
	return Rules{
		Name:      "main",
		NetworkID: MainNetworkID,
		Economy:   DefaultEconomyRules(),
		Blocks:    DefaultBlocksRules(),
		Interop:   DefaultInteropRules(),
	}
}

// TestNetRules returns the public test network configuration. It matches
// mainnet so behavior observed on testnet carries over.
func TestNetRules() Rules {
	return Rules{
		Name:      "test",
		NetworkID: TestNetworkID,
		Economy:   DefaultEconomyRules(),
		Blocks:    DefaultBlocksRules(),
		Interop:   DefaultInteropRules(),
	}
}

// FakeNetRules returns accelerated parameters for local development and
// tests: trivial difficulty, short windows, fast halvings.
func FakeNetRules() Rules {
	economy := DefaultEconomyRules()
	economy.HalvingInterval = 10
	economy.UnbondingBlocks = 4
	economy.CooldownBlocks = 8

	return Rules{
		Name:      "fake",
		NetworkID: FakeNetworkID,
		Economy:   economy,
		Blocks: BlocksRules{
			TargetBlockTime:   1 * time.Second,
			RetargetEpoch:     10,
			RetargetClamp:     4,
			MinDifficulty:     1,
			GenesisDifficulty: 1,
			MaxParentWait:     2 * time.Second,
		},
		Interop: DefaultInteropRules(),
	}
}

// Copy returns an independent copy of the rules.
func (r Rules) Copy() Rules {
	return r
}

// String dumps the rules as JSON for logs and config files.
func (r Rules) String() string {
	b, _ := json.Marshal(&r)
	return string(b)
}
