package excore

import (
	"github.com/Fantom-foundation/lachesis-base/inter/idx"

	"github.com/dxid-chain/go-dxid/dxid"
)

// bpsDenominator is the basis-point scale of the treasury split.
const bpsDenominator = 10000

// BlockReward computes the amount minted at the given height:
// baseReward >> (height / halvingInterval), with an extra halving step for
// every SupplyThreshold of already minted supply, truncated so TotalMinted
// never exceeds MaxSupply.
func BlockReward(height idx.Block, totalMinted uint64, e dxid.EconomyRules) uint64 {
	shift := uint64(height) / uint64(e.HalvingInterval)
	if e.SupplyThreshold > 0 {
		if supplyShift := totalMinted / e.SupplyThreshold; supplyShift > shift {
			shift = supplyShift
		}
	}
	if shift >= 64 {
		return 0
	}
	reward := e.BaseReward >> shift

	if totalMinted >= e.MaxSupply {
		return 0
	}
	if remaining := e.MaxSupply - totalMinted; reward > remaining {
		reward = remaining
	}
	return reward
}

// SplitReward divides a minted amount between the proposer and the treasury.
// Shares sum to minted exactly; the integer remainder of the proposer's
// share lands in the treasury.
func SplitReward(minted uint64, e dxid.EconomyRules) (proposer uint64, treasury uint64) {
	proposer = minted * (bpsDenominator - e.TreasuryBps) / bpsDenominator
	treasury = minted - proposer
	return proposer, treasury
}
