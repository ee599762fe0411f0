package inter

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// DoubleHash is the chain's fixed hashing scheme: two applications of
// keccak256. The outer application closes the sponge over a fixed-length
// digest, which defeats length-extension style constructions on the inner
// image.
func DoubleHash(data []byte) common.Hash {
	return common.BytesToHash(crypto.Keccak256(crypto.Keccak256(data)))
}

// CalcTxRoot computes the Merkle root over the hashes of the given
// transactions. An odd node at any level is paired with itself. An empty
// list yields the zero hash.
func CalcTxRoot(txs Transactions) common.Hash {
	if len(txs) == 0 {
		return common.Hash{}
	}
	layer := make([][]byte, len(txs))
	for i, tx := range txs {
		h := tx.Hash()
		layer[i] = h.Bytes()
	}
	for len(layer) > 1 {
		next := make([][]byte, 0, (len(layer)+1)/2)
		for i := 0; i < len(layer); i += 2 {
			left := layer[i]
			right := left
			if i+1 < len(layer) {
				right = layer[i+1]
			}
			h := DoubleHash(append(append([]byte{}, left...), right...))
			next = append(next, h.Bytes())
		}
		layer = next
	}
	return common.BytesToHash(layer[0])
}
