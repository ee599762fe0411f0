package inter

import (
	"testing"

	"github.com/Fantom-foundation/lachesis-base/inter/idx"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/dxid-chain/go-dxid/inter/validatorpk"
)

func testKey(b byte) validatorpk.PubKey {
	return validatorpk.PubKey{
		Type: validatorpk.Types.Secp256k1,
		Raw:  []byte{b},
	}
}

func TestDerivedIdentityID(t *testing.T) {
	sender := common.HexToAddress("0x01")

	require.Equal(t, DerivedIdentityID(sender, 1), DerivedIdentityID(sender, 1))
	require.NotEqual(t, DerivedIdentityID(sender, 1), DerivedIdentityID(sender, 2))
	require.NotEqual(t, DerivedIdentityID(sender, 1), DerivedIdentityID(common.HexToAddress("0x02"), 1))
}

func TestIdentityLifecycle(t *testing.T) {
	require := require.New(t)

	owner := common.HexToAddress("0xaa")
	id := DerivedIdentityID(owner, 1)
	iden := NewIdentity(id, owner, testKey(1), 5)

	require.Equal(IdentityActive, iden.Status)
	require.Len(iden.Keys, 1)
	require.Equal(testKey(1), iden.ActiveKey())
	require.False(iden.Keys[0].Superseded)

	iden.Rotate(testKey(2), 10)
	require.Equal(IdentityRotated, iden.Status)
	require.Len(iden.Keys, 2)
	require.Equal(testKey(2), iden.ActiveKey())
	require.True(iden.Keys[0].Superseded)
	require.False(iden.Keys[1].Superseded)

	iden.Rotate(testKey(3), 15)
	require.Equal(testKey(3), iden.ActiveKey())
	require.True(iden.Keys[1].Superseded)
	require.Equal(idx.Block(15), iden.Keys[2].AddedAt)
}

func TestIdentityCopy(t *testing.T) {
	require := require.New(t)

	owner := common.HexToAddress("0xaa")
	iden := NewIdentity(DerivedIdentityID(owner, 1), owner, testKey(1), 1)
	iden.Attributes["email"] = "a@b.c"

	cp := iden.Copy()
	cp.Rotate(testKey(2), 2)
	cp.Attributes["email"] = "x@y.z"
	cp.Keys[0].Key.Raw[0] = 0xFF

	require.Equal(IdentityActive, iden.Status)
	require.Len(iden.Keys, 1)
	require.Equal("a@b.c", iden.Attributes["email"])
	require.Equal(byte(1), iden.Keys[0].Key.Raw[0])
}

func TestIdentityStatusString(t *testing.T) {
	require.Equal(t, "Active", IdentityActive.String())
	require.Equal(t, "Rotated", IdentityRotated.String())
	require.Equal(t, "Revoked", IdentityRevoked.String())
	require.Equal(t, "Unknown", IdentityStatus(42).String())
}
