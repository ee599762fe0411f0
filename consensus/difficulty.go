package consensus

import (
	"time"

	"github.com/holiman/uint256"

	"github.com/dxid-chain/go-dxid/dxid"
	"github.com/dxid-chain/go-dxid/inter"
)

// maxTarget is the largest possible 256-bit target (difficulty 1).
var maxTarget = new(uint256.Int).Not(uint256.NewInt(0))

// PowTarget returns the maximum header hash value valid at the given
// difficulty: maxTarget / difficulty.
func PowTarget(difficulty uint64) *uint256.Int {
	if difficulty == 0 {
		difficulty = 1
	}
	return new(uint256.Int).Div(maxTarget, uint256.NewInt(difficulty))
}

// CheckPow reports whether the header hash, read as a big-endian integer,
// is below the target of the header's own difficulty.
func CheckPow(h *inter.BlockHeader) bool {
	hash := new(uint256.Int).SetBytes(h.Hash().Bytes())
	return hash.Lt(PowTarget(h.Difficulty))
}

// BlockWork returns the fork-choice weight a block contributes:
// maxTarget / target of its difficulty.
func BlockWork(difficulty uint64) *uint256.Int {
	return new(uint256.Int).Div(maxTarget, PowTarget(difficulty))
}

// Retarget computes the next difficulty from the actual duration of the
// last adjustment epoch: difficulty * epochTargetTime / actualEpochTime,
// clamped to [difficulty/RetargetClamp, difficulty*RetargetClamp] and
// floored at MinDifficulty.
func Retarget(difficulty uint64, actualEpoch time.Duration, r dxid.BlocksRules) uint64 {
	targetEpoch := r.TargetBlockTime * time.Duration(r.RetargetEpoch)
	if actualEpoch <= 0 {
		actualEpoch = time.Nanosecond
	}

	// 64x64-bit multiply may overflow, so the scaling runs in 256 bits
	scaled := new(uint256.Int).Mul(
		uint256.NewInt(difficulty),
		uint256.NewInt(uint64(targetEpoch)),
	)
	scaled.Div(scaled, uint256.NewInt(uint64(actualEpoch)))

	next := scaled.Uint64()
	if !scaled.IsUint64() {
		next = ^uint64(0)
	}

	if upper := difficulty * r.RetargetClamp; next > upper && upper > difficulty {
		next = upper
	}
	if lower := difficulty / r.RetargetClamp; next < lower {
		next = lower
	}
	if next < r.MinDifficulty {
		next = r.MinDifficulty
	}
	return next
}
