package excore

import "errors"

// Transaction rejection reasons. All are recoverable at the transaction
// level: the transaction is dropped, the enclosing block is rejected, and no
// state mutates.
var (
	ErrInvalidSignature    = errors.New("invalid signature")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrBadSequenceNumber   = errors.New("bad sequence number")
	ErrIdentityNotFound    = errors.New("identity not found")
	ErrIdentityRevoked     = errors.New("identity is revoked")
	ErrIdentityIDMismatch  = errors.New("identity id doesn't match its creating transaction")
	ErrNotIdentityOwner    = errors.New("sender doesn't own the identity")
	ErrUnknownTxKind       = errors.New("unknown transaction kind")
	ErrValidatorNotFound   = errors.New("validator not found")
	ErrUnstakeLocked       = errors.New("stake is still unbonding")
	ErrUnknownChain        = errors.New("destination chain isn't registered")
)
