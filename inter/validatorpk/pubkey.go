// Package validatorpk abstracts the public keys that validators register
// with their stake and that identities carry as key generations. The type
// byte in front of the raw key leaves room for additional signature schemes
// without changing any wire format.
package validatorpk

import (
	"errors"

	"github.com/ethereum/go-ethereum/common"
)

// PubKey is a typed public key.
type PubKey struct {
	// Type identifies the signature scheme of the raw bytes.
	Type uint8
	// Raw is the uncompressed public key.
	Raw []byte
}

// Types enumerates the supported key schemes.
var Types = struct {
	Secp256k1 uint8
}{
	Secp256k1: 0xc0,
}

// Empty reports whether the key is uninitialized.
func (pk PubKey) Empty() bool {
	return len(pk.Raw) == 0 && pk.Type == 0
}

// String returns the 0x-prefixed hex form including the type byte.
func (pk PubKey) String() string {
	return "0x" + common.Bytes2Hex(pk.Bytes())
}

// Bytes returns [type byte] + [raw bytes].
func (pk PubKey) Bytes() []byte {
	return append([]byte{pk.Type}, pk.Raw...)
}

// Copy returns a deep copy; Raw is a shared slice otherwise.
func (pk PubKey) Copy() PubKey {
	return PubKey{
		Type: pk.Type,
		Raw:  common.CopyBytes(pk.Raw),
	}
}

// FromString parses a hex string, with or without the 0x prefix.
func FromString(str string) (PubKey, error) {
	return FromBytes(common.FromHex(str))
}

// FromBytes reconstructs a PubKey from its flat encoding.
func FromBytes(b []byte) (PubKey, error) {
	if len(b) == 0 {
		return PubKey{}, errors.New("empty pubkey")
	}
	return PubKey{b[0], b[1:]}, nil
}

// MarshalText implements encoding.TextMarshaler.
func (pk *PubKey) MarshalText() ([]byte, error) {
	return []byte(pk.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (pk *PubKey) UnmarshalText(input []byte) error {
	res, err := FromString(string(input))
	if err != nil {
		return err
	}
	*pk = res
	return nil
}
