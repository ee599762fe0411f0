package consensus

import (
	"github.com/Fantom-foundation/lachesis-base/inter/idx"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/dxid-chain/go-dxid/inter"
)

// ConsensusState is the engine's view of the canonical chain tip. It is
// mutated only on block acceptance under the single writer; readers receive
// copies.
type ConsensusState struct {
	// Height and LastHash identify the canonical tip.
	Height   idx.Block
	LastHash common.Hash

	// Difficulty is the difficulty the next block must declare.
	Difficulty uint64

	// TimeSamples are the declared times of the current adjustment epoch's
	// blocks, oldest first. The retarget reads the epoch duration off them.
	TimeSamples []inter.Timestamp

	// CumulativeWork is the fork-choice weight of the canonical chain:
	// the sum of maxTarget/target over all its blocks.
	CumulativeWork *uint256.Int
}

// Copy returns an independent copy of the state.
func (s *ConsensusState) Copy() *ConsensusState {
	cp := *s
	cp.TimeSamples = append([]inter.Timestamp{}, s.TimeSamples...)
	cp.CumulativeWork = new(uint256.Int).Set(s.CumulativeWork)
	return &cp
}
