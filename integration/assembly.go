package integration

import (
	"crypto/ecdsa"
	"math/big"

	"github.com/Fantom-foundation/lachesis-base/inter/idx"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/dxid-chain/go-dxid/consensus"
	"github.com/dxid-chain/go-dxid/dxcrypto"
	"github.com/dxid-chain/go-dxid/dxid"
	"github.com/dxid-chain/go-dxid/excore"
	"github.com/dxid-chain/go-dxid/inter/validatorpk"
	"github.com/dxid-chain/go-dxid/interop"
	"github.com/dxid-chain/go-dxid/store"
)

// Core wires the engines of a running node around a shared store.
type Core struct {
	Crypto  dxcrypto.Provider
	Exec    *excore.Engine
	Gateway *interop.Gateway
	Engine  *consensus.Engine
	Store   store.Store
}

// MakeCore assembles a decision core for the given genesis. The gateway
// doubles as the execution engine's chain registry, so cross-chain proofs
// inside transactions are checked against the same metadata the gateway
// serves to peers.
func MakeCore(genesis dxid.Genesis, preset PresetConfig) (*Core, error) {
	var snark dxcrypto.SnarkBackend
	if preset.DevProofs {
		snark = dxcrypto.NewHashCommitBackend()
	} else {
		snark = dxcrypto.NewGroth16Backend()
	}
	stark := dxcrypto.NewHandshakeBackend()
	provider := dxcrypto.NewProvider(snark, stark)

	gateway := interop.NewGateway(provider, snark, stark, genesis.Rules.Interop)
	exec := excore.NewEngine(provider, genesis.Rules, gateway)
	st := store.NewMemoryStore()

	engine, err := consensus.New(provider, exec, st, genesis)
	if err != nil {
		return nil, err
	}

	return &Core{
		Crypto:  provider,
		Exec:    exec,
		Gateway: gateway,
		Engine:  engine,
		Store:   st,
	}, nil
}

// Fake network allocations. Every fake validator is bonded well above the
// default minimum stake and funded enough to never hit balance limits.
const (
	FakeStake   = uint64(1000000)
	FakeBalance = uint64(1000000000)
)

// FakeKey returns the deterministic private key of fake validator n.
// Validator ids start at 1; the scalar n itself is the key material, so
// every process derives the same identities without any key exchange.
func FakeKey(n idx.ValidatorID) *ecdsa.PrivateKey {
	if n == 0 {
		panic("fake validator ids start at 1")
	}
	buf := make([]byte, 32)
	big.NewInt(int64(n)).FillBytes(buf)
	key, err := crypto.ToECDSA(buf)
	if err != nil {
		panic(err)
	}
	return key
}

// FakeValidators derives the bonded validator set of a fake network of the
// given size.
func FakeValidators(num int, stake uint64) []dxid.GenesisValidator {
	vv := make([]dxid.GenesisValidator, 0, num)
	for i := 1; i <= num; i++ {
		key := FakeKey(idx.ValidatorID(i))
		vv = append(vv, dxid.GenesisValidator{
			Address: crypto.PubkeyToAddress(key.PublicKey),
			PubKey: validatorpk.PubKey{
				Type: validatorpk.Types.Secp256k1,
				Raw:  crypto.FromECDSAPub(&key.PublicKey),
			},
			Stake: stake,
		})
	}
	return vv
}

// MakeFakeGenesis builds the deterministic genesis of a local fake network
// with num bonded validators. The rules are expected to carry a trivial
// genesis difficulty; otherwise the genesis nonce would need pre-mining.
func MakeFakeGenesis(num int, rules dxid.Rules) dxid.Genesis {
	return dxid.FakeGenesis(FakeValidators(num, FakeStake), nil, FakeBalance, rules)
}
