package store

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/dxid-chain/go-dxid/inter"
	"github.com/dxid-chain/go-dxid/inter/validatorpk"
)

func TestMemoryStoreBlocks(t *testing.T) {
	require := require.New(t)

	s := NewMemoryStore()

	_, err := s.GetBlock(1)
	require.ErrorIs(err, ErrNotFound)

	block := &inter.Block{
		Header: inter.BlockHeader{
			Height:     1,
			Difficulty: 1000,
		},
	}
	require.NoError(s.PutBlock(1, block))

	got, err := s.GetBlock(1)
	require.NoError(err)
	require.Equal(block, got)

	_, err = s.GetBlock(2)
	require.ErrorIs(err, ErrNotFound)

	t.Run("delete", func(t *testing.T) {
		require.NoError(s.DeleteBlock(1))
		_, err := s.GetBlock(1)
		require.ErrorIs(err, ErrNotFound)

		// deleting an absent height is a no-op
		require.NoError(s.DeleteBlock(1))
	})
}

func TestMemoryStoreBalances(t *testing.T) {
	require := require.New(t)

	s := NewMemoryStore()
	addr := common.HexToAddress("0x01")

	// missing addresses read as zero, not as an error
	got, err := s.GetBalance(addr)
	require.NoError(err)
	require.Equal(uint64(0), got)

	require.NoError(s.SetBalance(addr, 500))
	got, err = s.GetBalance(addr)
	require.NoError(err)
	require.Equal(uint64(500), got)
}

func TestMemoryStoreIdentities(t *testing.T) {
	require := require.New(t)

	s := NewMemoryStore()
	owner := common.HexToAddress("0xaa")
	id := inter.DerivedIdentityID(owner, 1)
	key := validatorpk.PubKey{Type: validatorpk.Types.Secp256k1, Raw: []byte{1}}

	_, err := s.GetIdentity(id)
	require.ErrorIs(err, ErrNotFound)

	iden := inter.NewIdentity(id, owner, key, 1)
	iden.Attributes["email"] = "a@b.c"
	require.NoError(s.PutIdentity(id, iden))

	t.Run("put copies", func(t *testing.T) {
		iden.Attributes["email"] = "mutated"
		got, err := s.GetIdentity(id)
		require.NoError(err)
		require.Equal("a@b.c", got.Attributes["email"])
	})

	t.Run("get copies", func(t *testing.T) {
		got, err := s.GetIdentity(id)
		require.NoError(err)
		got.Rotate(validatorpk.PubKey{Type: validatorpk.Types.Secp256k1, Raw: []byte{2}}, 2)

		again, err := s.GetIdentity(id)
		require.NoError(err)
		require.Equal(inter.IdentityActive, again.Status)
		require.Len(again.Keys, 1)
	})
}

func TestMemoryStoreEmbeddings(t *testing.T) {
	require := require.New(t)

	s := NewMemoryStore()
	id := inter.DerivedIdentityID(common.HexToAddress("0xaa"), 1)
	vector := []float32{0.1, 0.2, 0.3}

	require.NoError(s.PutEmbedding(id, "profile", vector, map[string]string{"v": "1"}))

	// the stored vector must not alias the caller's slice
	vector[0] = 99
	key := "profile/" + id.String()
	require.Equal(float32(0.1), s.embeddings[key][0])
}
