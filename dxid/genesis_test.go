package dxid

import (
	"testing"

	"github.com/Fantom-foundation/lachesis-base/inter/idx"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/dxid-chain/go-dxid/inter"
	"github.com/dxid-chain/go-dxid/inter/validatorpk"
)

func fakeValidator(b byte, stake uint64) GenesisValidator {
	return GenesisValidator{
		Address: common.BytesToAddress([]byte{b}),
		PubKey:  validatorpk.PubKey{Type: validatorpk.Types.Secp256k1, Raw: []byte{b}},
		Stake:   stake,
	}
}

func TestFakeGenesis(t *testing.T) {
	require := require.New(t)

	validators := []GenesisValidator{fakeValidator(1, 100), fakeValidator(2, 200)}
	accs := []common.Address{common.BytesToAddress([]byte{9})}
	g := FakeGenesis(validators, accs, 5000, FakeNetRules())

	require.Len(g.Alloc, 3)
	require.Equal(uint64(5000), g.Alloc[validators[0].Address])
	require.Equal(uint64(5000), g.Alloc[accs[0]])
	require.Equal(validators, g.Validators)

	t.Run("deterministic", func(t *testing.T) {
		again := FakeGenesis(validators, accs, 5000, FakeNetRules())
		require.Equal(g, again)

		root := common.HexToHash("0x01")
		require.Equal(g.Block(root).Header.Hash(), again.Block(root).Header.Hash())
	})
}

func TestGenesisBlock(t *testing.T) {
	require := require.New(t)

	g := FakeGenesis([]GenesisValidator{fakeValidator(1, 100)}, nil, 5000, FakeNetRules())
	root := common.HexToHash("0x02")
	block := g.Block(root)

	require.Equal(idx.Block(0), block.Header.Height)
	require.Equal(common.Hash{}, block.Header.ParentHash)
	require.Equal(root, block.Header.StateRoot)
	require.Equal(inter.CalcTxRoot(nil), block.Header.TxRoot)
	require.Equal(g.Rules.Blocks.GenesisDifficulty, block.Header.Difficulty)
	require.Equal(g.Nonce, block.Header.Nonce)
	require.Empty(block.Txs)

	t.Run("state root binds the hash", func(t *testing.T) {
		other := g.Block(common.HexToHash("0x03"))
		require.NotEqual(block.Header.Hash(), other.Header.Hash())
	})
}
