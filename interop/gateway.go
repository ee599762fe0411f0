// Package interop is the core-facing half of the cross-chain gateway: it
// resolves peer-chain metadata, produces and verifies Groth16 message proofs
// and STARK-style handshake liveness proofs, and republishes proven outbound
// messages for the network collaborator. The gateway holds no chain state;
// it is a pure transform plus a lookup against registered ChainMetadata.
package interop

import (
	"context"
	"errors"

	"github.com/Fantom-foundation/lachesis-base/common/bigendian"
	"github.com/cenkalti/backoff/v4"
	"github.com/ethereum/go-ethereum/event"
	"github.com/sirupsen/logrus"

	"github.com/dxid-chain/go-dxid/dxcrypto"
	"github.com/dxid-chain/go-dxid/dxid"
	"github.com/dxid-chain/go-dxid/inter"
)

// ErrUnregisteredChain is returned for chain ids with no metadata.
var ErrUnregisteredChain = errors.New("chain isn't registered")

// maxHandshakeWork caps the rounds requested from the handshake prover, so
// a peer reporting an absurd height can't make handshakes arbitrarily slow.
const maxHandshakeWork = 4096

// Gateway mediates between the decision core and external proof services.
type Gateway struct {
	crypto dxcrypto.Provider
	snark  dxcrypto.SnarkBackend
	stark  dxcrypto.StarkBackend
	rules  dxid.InteropRules
	log    *logrus.Entry

	registry *registry

	provenFeed event.Feed
}

// NewGateway assembles a gateway over the given proof backends.
func NewGateway(provider dxcrypto.Provider, snark dxcrypto.SnarkBackend, stark dxcrypto.StarkBackend, rules dxid.InteropRules) *Gateway {
	return &Gateway{
		crypto:   provider,
		snark:    snark,
		stark:    stark,
		rules:    rules,
		log:      logrus.WithField("module", "interop"),
		registry: newRegistry(),
	}
}

// Register adds or replaces a peer chain's metadata.
func (g *Gateway) Register(meta *inter.ChainMetadata) {
	g.registry.put(meta)
	g.log.WithField("chain", meta.ChainID).Info("peer chain registered")
}

// Chain returns the metadata registered for chainID. It satisfies the
// execution engine's registry dependency.
func (g *Gateway) Chain(chainID string) (*inter.ChainMetadata, bool) {
	return g.registry.get(chainID)
}

// UpdateHeight records the latest observed height of a peer chain. The
// height feeds the handshake liveness proof's public inputs.
func (g *Gateway) UpdateHeight(chainID string, height uint64) error {
	if !g.registry.setHeight(chainID, height) {
		return ErrUnregisteredChain
	}
	return nil
}

// handshakeInputs binds a liveness proof to the peer's id and height.
func handshakeInputs(chainID string, height uint64) []byte {
	return append([]byte(chainID), bigendian.Uint64ToBytes(height)...)
}

// ProveOutbound produces the Groth16 proof for an outgoing message. Proving
// is an external call: each attempt runs under CallTimeout and failures are
// retried with exponential backoff up to MaxRetries. Failures here are never
// fatal to consensus; the caller retries the whole message later.
func (g *Gateway) ProveOutbound(ctx context.Context, msg *inter.CrossChainMessage, provingKey []byte) ([]byte, error) {
	var proof []byte
	attempt := 0
	operation := func() error {
		attempt++
		callCtx, cancel := context.WithTimeout(ctx, g.rules.CallTimeout)
		defer cancel()

		p, err := g.proveOnce(callCtx, msg.PublicInputs(), provingKey)
		if err != nil {
			g.log.WithFields(logrus.Fields{
				"chain":   msg.DestChain,
				"attempt": attempt,
			}).Debug("outbound proving attempt failed: ", err)
			return err
		}
		proof = p
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), g.rules.MaxRetries),
		ctx,
	)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, err
	}
	return proof, nil
}

// proveOnce runs a single proving call, abandoned when ctx expires.
func (g *Gateway) proveOnce(ctx context.Context, publicInputs []byte, provingKey []byte) ([]byte, error) {
	type result struct {
		proof []byte
		err   error
	}
	done := make(chan result, 1)
	go func() {
		proof, err := g.snark.ProveMessage(publicInputs, provingKey)
		done <- result{proof, err}
	}()
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-done:
		return r.proof, r.err
	}
}

// ForwardOutbound proves an outbound message emitted by a committed block
// and republishes it, proof attached, on the proven-message feed.
func (g *Gateway) ForwardOutbound(ctx context.Context, msg *inter.CrossChainMessage, provingKey []byte) error {
	proof, err := g.ProveOutbound(ctx, msg, provingKey)
	if err != nil {
		return err
	}
	proven := msg.Copy()
	proven.Proof = proof
	g.provenFeed.Send(proven)
	return nil
}

// SubscribeProven delivers outbound messages once their proof is ready.
// The network collaborator consumes this feed.
func (g *Gateway) SubscribeProven(ch chan<- *inter.CrossChainMessage) event.Subscription {
	return g.provenFeed.Subscribe(ch)
}

// VerifyInbound checks an incoming message's proof against the destination
// chain's registered verification key. Rejections carry a typed reason.
func (g *Gateway) VerifyInbound(msg *inter.CrossChainMessage) error {
	meta, ok := g.registry.get(msg.DestChain)
	if !ok {
		return ErrUnregisteredChain
	}
	if !g.crypto.VerifyMessageProof(msg.Proof, msg.PublicInputs(), meta.VerificationKey) {
		return dxcrypto.ErrSnarkVerificationFailed
	}
	return nil
}

// Handshake proves this node's liveness view of a peer chain: the proof
// binds the peer's id and its latest observed height.
func (g *Gateway) Handshake(ctx context.Context, chainID string) ([]byte, error) {
	meta, ok := g.registry.get(chainID)
	if !ok {
		return nil, ErrUnregisteredChain
	}

	rounds := meta.LatestHeight
	if rounds > maxHandshakeWork {
		rounds = maxHandshakeWork
	}

	type result struct {
		proof []byte
		err   error
	}
	done := make(chan result, 1)
	go func() {
		proof, err := g.stark.ProveHandshake(handshakeInputs(chainID, meta.LatestHeight), rounds)
		done <- result{proof, err}
	}()
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-done:
		return r.proof, r.err
	}
}

// VerifyHandshake checks a peer's liveness proof for the height it claims.
func (g *Gateway) VerifyHandshake(chainID string, claimedHeight uint64, proof []byte) error {
	if _, ok := g.registry.get(chainID); !ok {
		return ErrUnregisteredChain
	}
	if !g.crypto.VerifyHandshakeProof(proof, handshakeInputs(chainID, claimedHeight)) {
		return dxcrypto.ErrStarkVerificationFailed
	}
	return nil
}
