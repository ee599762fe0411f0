package excore

import (
	"fmt"

	"github.com/Fantom-foundation/lachesis-base/inter/idx"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/dxid-chain/go-dxid/dxcrypto"
	"github.com/dxid-chain/go-dxid/dxid"
	"github.com/dxid-chain/go-dxid/inter"
	"github.com/dxid-chain/go-dxid/inter/validatorpk"
)

// ChainRegistry resolves destination chain ids to their metadata. The interop
// gateway implements it from externally supplied configuration.
type ChainRegistry interface {
	Chain(chainID string) (*inter.ChainMetadata, bool)
}

// StateDelta is the outcome of applying a block's transactions: the resulting
// state, the outbound messages the block emitted, and the reward accounting.
type StateDelta struct {
	State    *CanonicalState
	Outbound []*inter.CrossChainMessage

	// Touched record which table entries the block changed, so the commit
	// path hands the storage collaborator exactly the delta.
	TouchedBalances   map[common.Address]struct{}
	TouchedIdentities map[inter.IdentityID]struct{}

	Minted         uint64
	ProposerReward uint64
	TreasuryReward uint64
}

func (d *StateDelta) touchBalance(addr common.Address) {
	d.TouchedBalances[addr] = struct{}{}
}

func (d *StateDelta) touchIdentity(id inter.IdentityID) {
	d.TouchedIdentities[id] = struct{}{}
}

// Engine applies transaction lists. It holds no chain state itself; every
// Apply works on the snapshot the caller hands in.
type Engine struct {
	crypto dxcrypto.Provider
	rules  dxid.Rules
	chains ChainRegistry
	log    *logrus.Entry
}

// NewEngine creates an execution engine under the given rules. chains may be
// nil on networks without interop, in which case every CrossChainMessage
// rejects with ErrUnknownChain.
func NewEngine(provider dxcrypto.Provider, rules dxid.Rules, chains ChainRegistry) *Engine {
	return &Engine{
		crypto: provider,
		rules:  rules,
		chains: chains,
		log:    logrus.WithField("module", "excore"),
	}
}

// Rules returns the engine's rule set.
func (e *Engine) Rules() dxid.Rules {
	return e.rules
}

// recoverSigners recovers the signing address of every transaction in
// parallel. Signature recovery is the CPU-heavy part of validation and is
// stateless, so it runs before the sequential apply loop.
func (e *Engine) recoverSigners(txs inter.Transactions) ([]common.Address, error) {
	signers := make([]common.Address, len(txs))
	var group errgroup.Group
	for i, tx := range txs {
		i, tx := i, tx
		group.Go(func() error {
			if len(tx.Sig) != inter.SigLen {
				return fmt.Errorf("tx %d (%s): %w", i, tx.Kind, ErrInvalidSignature)
			}
			signer, err := e.crypto.SignerAddress(tx.SigHash(), tx.Sig)
			if err != nil {
				return fmt.Errorf("tx %d (%s): %w", i, tx.Kind, ErrInvalidSignature)
			}
			signers[i] = signer
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return signers, nil
}

// KeyAddress derives the account address controlled by a registered key.
func KeyAddress(pk validatorpk.PubKey) (common.Address, error) {
	if pk.Type != validatorpk.Types.Secp256k1 {
		return common.Address{}, ErrInvalidSignature
	}
	pub, err := crypto.UnmarshalPubkey(pk.Raw)
	if err != nil {
		return common.Address{}, ErrInvalidSignature
	}
	return crypto.PubkeyToAddress(*pub), nil
}

// Apply validates and applies txs in list order against a copy of snapshot,
// then mints the block reward for proposer. Any invalid transaction aborts
// the whole apply with a typed reason and no delta: blocks are atomic.
func (e *Engine) Apply(snapshot *CanonicalState, height idx.Block, proposer common.Address, txs inter.Transactions) (*StateDelta, error) {
	signers, err := e.recoverSigners(txs)
	if err != nil {
		return nil, err
	}

	state := snapshot.Copy()
	delta := &StateDelta{
		State:             state,
		TouchedBalances:   map[common.Address]struct{}{},
		TouchedIdentities: map[inter.IdentityID]struct{}{},
	}

	for i, tx := range txs {
		if err := e.applyTx(state, height, tx, signers[i], delta); err != nil {
			e.log.WithFields(logrus.Fields{
				"height": height,
				"tx":     i,
				"kind":   tx.Kind.String(),
			}).Debug("transaction rejected: ", err)
			return nil, fmt.Errorf("tx %d (%s): %w", i, tx.Kind, err)
		}
	}

	e.mintReward(state, height, proposer, delta)
	state.Height = height
	return delta, nil
}

func (e *Engine) applyTx(state *CanonicalState, height idx.Block, tx *inter.Transaction, signer common.Address, delta *StateDelta) error {
	if !tx.Kind.Valid() {
		return ErrUnknownTxKind
	}
	if state.Seqs[tx.Sender]+1 != tx.Seq {
		return ErrBadSequenceNumber
	}

	// Identity mutations are authorized by the identity's active key
	// generation, not the sender account; everything else by the sender.
	switch tx.Kind {
	case inter.IdentityAddAttributeTx, inter.IdentityRotateTx:
		iden, ok := state.Identities[tx.IdentityID]
		if !ok {
			return ErrIdentityNotFound
		}
		if iden.Status == inter.IdentityRevoked {
			return ErrIdentityRevoked
		}
		if iden.Owner != tx.Sender {
			return ErrNotIdentityOwner
		}
		keyAddr, err := KeyAddress(iden.ActiveKey())
		if err != nil {
			return err
		}
		if signer != keyAddr {
			return ErrInvalidSignature
		}
	default:
		if signer != tx.Sender {
			return ErrInvalidSignature
		}
	}

	switch tx.Kind {
	case inter.TransferTx:
		if state.Balances[tx.Sender] < tx.Amount {
			return ErrInsufficientBalance
		}
		state.Balances[tx.Sender] -= tx.Amount
		state.Balances[tx.Recipient] += tx.Amount
		delta.touchBalance(tx.Sender)
		delta.touchBalance(tx.Recipient)

	case inter.StakeTx:
		if state.Balances[tx.Sender] < tx.Amount {
			return ErrInsufficientBalance
		}
		state.Balances[tx.Sender] -= tx.Amount
		delta.touchBalance(tx.Sender)
		v := state.ValidatorByAddress(tx.Sender)
		if v == nil {
			v = &ValidatorRecord{
				ID:      state.NextValidatorID,
				Address: tx.Sender,
			}
			state.Validators[v.ID] = v
			state.ValidatorIDs[tx.Sender] = v.ID
			state.NextValidatorID++
		}
		v.PubKey = tx.ValidatorKey.Copy()
		v.Stake += tx.Amount
		v.StakeActivatedAt = height

	case inter.UnstakeTx:
		v := state.ValidatorByAddress(tx.Sender)
		if v == nil {
			return ErrValidatorNotFound
		}
		if height < v.StakeActivatedAt+e.rules.Economy.UnbondingBlocks {
			return ErrUnstakeLocked
		}
		if v.Stake < tx.Amount {
			return ErrInsufficientBalance
		}
		v.Stake -= tx.Amount
		state.Balances[tx.Sender] += tx.Amount
		delta.touchBalance(tx.Sender)

	case inter.IdentityCreateTx:
		if tx.IdentityID != inter.DerivedIdentityID(tx.Sender, tx.Seq) {
			return ErrIdentityIDMismatch
		}
		if _, ok := state.Identities[tx.IdentityID]; ok {
			return ErrIdentityIDMismatch
		}
		state.Identities[tx.IdentityID] = inter.NewIdentity(tx.IdentityID, tx.Sender, tx.Key, height)
		delta.touchIdentity(tx.IdentityID)

	case inter.IdentityAddAttributeTx:
		// lifecycle and key checks already done above
		state.Identities[tx.IdentityID].Attributes[tx.AttrKey] = tx.AttrValue
		delta.touchIdentity(tx.IdentityID)

	case inter.IdentityRotateTx:
		state.Identities[tx.IdentityID].Rotate(tx.Key, height)
		delta.touchIdentity(tx.IdentityID)

	case inter.IdentityRevokeTx:
		iden, ok := state.Identities[tx.IdentityID]
		if !ok {
			return ErrIdentityNotFound
		}
		if iden.Status == inter.IdentityRevoked {
			return ErrIdentityRevoked
		}
		if iden.Owner != tx.Sender {
			return ErrNotIdentityOwner
		}
		iden.Status = inter.IdentityRevoked
		delta.touchIdentity(tx.IdentityID)

	case inter.CrossChainMessageTx:
		if tx.Message == nil {
			return ErrUnknownTxKind
		}
		if e.chains == nil {
			return ErrUnknownChain
		}
		meta, ok := e.chains.Chain(tx.Message.DestChain)
		if !ok {
			return ErrUnknownChain
		}
		if !e.crypto.VerifyMessageProof(tx.Message.Proof, tx.Message.PublicInputs(), meta.VerificationKey) {
			return dxcrypto.ErrSnarkVerificationFailed
		}
		delta.Outbound = append(delta.Outbound, tx.Message.Copy())

	default:
		return ErrUnknownTxKind
	}

	state.Seqs[tx.Sender] = tx.Seq
	return nil
}

// mintReward mints the block reward and splits it between proposer and
// treasury. The zero proposer (genesis) mints nothing.
func (e *Engine) mintReward(state *CanonicalState, height idx.Block, proposer common.Address, delta *StateDelta) {
	if proposer == (common.Address{}) {
		return
	}
	minted := BlockReward(height, state.TotalMinted, e.rules.Economy)
	proposerShare, treasuryShare := SplitReward(minted, e.rules.Economy)

	state.Balances[proposer] += proposerShare
	state.Balances[dxid.TreasuryAddress] += treasuryShare
	state.TotalMinted += minted
	delta.touchBalance(proposer)
	delta.touchBalance(dxid.TreasuryAddress)

	delta.Minted = minted
	delta.ProposerReward = proposerShare
	delta.TreasuryReward = treasuryShare
}

// Slash burns a fraction of the validator's stake on double-sign evidence
// and starts the cooldown window. It mutates state directly: slashing is
// applied by the consensus engine under the single writer, not via a
// transaction.
func (e *Engine) Slash(state *CanonicalState, id idx.ValidatorID, height idx.Block) (uint64, error) {
	v, ok := state.Validators[id]
	if !ok {
		return 0, ErrValidatorNotFound
	}
	penalty := v.Stake * e.rules.Economy.SlashRateBps / bpsDenominator
	v.Stake -= penalty
	v.SlashedTotal += penalty
	v.CooldownUntil = height + e.rules.Economy.CooldownBlocks

	e.log.WithFields(logrus.Fields{
		"validator": id,
		"penalty":   penalty,
		"cooldown":  v.CooldownUntil,
	}).Warn("validator slashed")
	return penalty, nil
}
