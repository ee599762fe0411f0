package dxcrypto

import (
	"bytes"
	"errors"

	"github.com/Fantom-foundation/lachesis-base/common/bigendian"
	"github.com/ethereum/go-ethereum/crypto"
)

// minHandshakeRounds keeps proofs non-trivial even for peers at height 0.
const minHandshakeRounds = 16

// maxHandshakeRounds bounds verification work on hostile proofs.
const maxHandshakeRounds = 1 << 20

// checkpointInterval is the spacing of intermediate digests embedded in a
// handshake proof. Verification recomputes the full transcript; the
// checkpoints let it fail fast on garbage proofs.
const checkpointInterval = 8

var errShortProof = errors.New("handshake proof too short")

// handshakeBackend implements liveness handshake proofs as an
// iterated-hash transcript over the public inputs. The prover demonstrates
// it performed `rounds` sequential hash evaluations bound to the peer
// chain's id and height; the verifier recomputes the transcript.
type handshakeBackend struct{}

// NewHandshakeBackend returns the default StarkBackend.
func NewHandshakeBackend() StarkBackend {
	return &handshakeBackend{}
}

// transcript computes the iterated accumulator and the checkpoint digests.
func (b *handshakeBackend) transcript(publicInputs []byte, rounds uint64) ([]byte, [][]byte) {
	acc := crypto.Keccak256(crypto.Keccak256(publicInputs))
	checkpoints := make([][]byte, 0, rounds/checkpointInterval+1)
	for i := uint64(1); i <= rounds; i++ {
		acc = crypto.Keccak256(acc, bigendian.Uint64ToBytes(i))
		if i%checkpointInterval == 0 {
			checkpoints = append(checkpoints, acc)
		}
	}
	return acc, checkpoints
}

// ProveHandshake builds a proof of the form
// [rounds u64] [final digest] [checkpoint digests...].
func (b *handshakeBackend) ProveHandshake(publicInputs []byte, rounds uint64) ([]byte, error) {
	if rounds < minHandshakeRounds {
		rounds = minHandshakeRounds
	}
	final, checkpoints := b.transcript(publicInputs, rounds)

	proof := make([]byte, 0, 8+32+32*len(checkpoints))
	proof = append(proof, bigendian.Uint64ToBytes(rounds)...)
	proof = append(proof, final...)
	for _, cp := range checkpoints {
		proof = append(proof, cp...)
	}
	return proof, nil
}

// VerifyHandshakeProof recomputes the transcript and compares the final
// digest and every checkpoint. Total: malformed proofs verify false.
func (b *handshakeBackend) VerifyHandshakeProof(proof []byte, publicInputs []byte) bool {
	rounds, final, checkpoints, err := splitHandshakeProof(proof)
	if err != nil {
		return false
	}
	if rounds < minHandshakeRounds || rounds > maxHandshakeRounds {
		return false
	}

	wantFinal, wantCheckpoints := b.transcript(publicInputs, rounds)
	if !bytes.Equal(final, wantFinal) {
		return false
	}
	if len(checkpoints) != len(wantCheckpoints) {
		return false
	}
	for i := range checkpoints {
		if !bytes.Equal(checkpoints[i], wantCheckpoints[i]) {
			return false
		}
	}
	return true
}

func splitHandshakeProof(proof []byte) (rounds uint64, final []byte, checkpoints [][]byte, err error) {
	if len(proof) < 8+32 {
		return 0, nil, nil, errShortProof
	}
	rounds = bigendian.BytesToUint64(proof[:8])
	final = proof[8 : 8+32]
	rest := proof[8+32:]
	if len(rest)%32 != 0 {
		return 0, nil, nil, errShortProof
	}
	for len(rest) > 0 {
		checkpoints = append(checkpoints, rest[:32])
		rest = rest[32:]
	}
	return rounds, final, checkpoints, nil
}
