package consensus

import (
	"math"

	"github.com/Fantom-foundation/lachesis-base/common/bigendian"
	"github.com/Fantom-foundation/lachesis-base/inter/idx"
	"github.com/Fantom-foundation/lachesis-base/inter/pos"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/dxid-chain/go-dxid/excore"
	"github.com/dxid-chain/go-dxid/inter"
)

// BuildValidators assembles the weighted set of validators eligible to
// propose at the given height. Stakes are scaled down uniformly until the
// total fits the weight type, preserving relative weights.
func BuildValidators(state *excore.CanonicalState, height idx.Block, minStake uint64) *pos.Validators {
	total := uint64(0)
	for _, v := range state.Validators {
		if v.Eligible(height, minStake) {
			total += v.Stake
		}
	}
	shift := uint(0)
	for total>>shift > math.MaxUint32 {
		shift++
	}

	builder := pos.NewBuilder()
	for id, v := range state.Validators {
		if !v.Eligible(height, minStake) {
			continue
		}
		if weight := v.Stake >> shift; weight > 0 {
			builder.Set(id, pos.Weight(weight))
		}
	}
	return builder.Build()
}

// LotterySeed derives the proposer-selection seed for a height. It depends
// only on already-committed data, so proposers cannot grind it.
func LotterySeed(parentHash common.Hash, height idx.Block) common.Hash {
	material := append(parentHash.Bytes(), bigendian.Uint64ToBytes(uint64(height))...)
	return inter.DoubleHash(material)
}

// SelectProposer runs the stake-weighted lottery: the seed picks a point in
// [0, totalWeight) and the walk over the sorted stake table finds the
// validator whose weight interval contains it. Deterministic given the seed
// and the set.
func SelectProposer(validators *pos.Validators, seed common.Hash) (idx.ValidatorID, error) {
	if validators.Len() == 0 {
		return 0, ErrNoValidators
	}
	total := uint64(validators.TotalWeight())
	if total == 0 {
		return 0, ErrNoValidators
	}

	point := new(uint256.Int).SetBytes(seed.Bytes())
	point.Mod(point, uint256.NewInt(total))
	cursor := point.Uint64()

	ids := validators.SortedIDs()
	for _, id := range ids {
		weight := uint64(validators.Get(id))
		if cursor < weight {
			return id, nil
		}
		cursor -= weight
	}
	return ids[len(ids)-1], nil
}
