package consensus

import (
	"testing"
	"time"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/dxid-chain/go-dxid/dxid"
	"github.com/dxid-chain/go-dxid/inter"
)

func TestPowTarget(t *testing.T) {
	require.Equal(t, maxTarget, PowTarget(1))
	require.Equal(t, new(uint256.Int).Rsh(maxTarget, 1), PowTarget(2))
	// difficulty 0 is treated as the floor
	require.Equal(t, maxTarget, PowTarget(0))
}

func TestBlockWork(t *testing.T) {
	require.Equal(t, uint256.NewInt(1), BlockWork(1))
	// work grows with difficulty
	require.True(t, BlockWork(1000).Gt(BlockWork(10)))
}

func TestCheckPow(t *testing.T) {
	h := inter.BlockHeader{Height: 1, Difficulty: 1}
	require.True(t, CheckPow(&h))

	// a 2^62 difficulty leaves a ~2^194 target: a handful of nonces has
	// no realistic chance of landing under it
	hard := inter.BlockHeader{Height: 1, Difficulty: 1 << 62}
	found := false
	for nonce := uint64(0); nonce < 10; nonce++ {
		hard.Nonce = nonce
		if CheckPow(&hard) {
			found = true
		}
	}
	require.False(t, found)
}

func TestRetarget(t *testing.T) {
	r := dxid.DefaultBlocksRules() // 30s blocks, epoch 10, clamp x4, floor 1
	targetEpoch := r.TargetBlockTime * time.Duration(r.RetargetEpoch)

	t.Run("on schedule keeps difficulty", func(t *testing.T) {
		require.Equal(t, uint64(100), Retarget(100, targetEpoch, r))
	})

	t.Run("fast epoch raises", func(t *testing.T) {
		require.Equal(t, uint64(200), Retarget(100, targetEpoch/2, r))
	})

	t.Run("slow epoch lowers", func(t *testing.T) {
		require.Equal(t, uint64(50), Retarget(100, targetEpoch*2, r))
	})

	t.Run("clamped per epoch", func(t *testing.T) {
		require.Equal(t, uint64(400), Retarget(100, targetEpoch/10, r))
		require.Equal(t, uint64(25), Retarget(100, targetEpoch*10, r))
	})

	t.Run("never below the floor", func(t *testing.T) {
		require.Equal(t, r.MinDifficulty, Retarget(1, targetEpoch*100, r))
	})

	t.Run("zero epoch duration", func(t *testing.T) {
		require.Equal(t, uint64(400), Retarget(100, 0, r))
	})
}
