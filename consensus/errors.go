package consensus

import "errors"

// Block rejection reasons.
var (
	// ErrPowTargetNotMet marks a header hash above the PoW target.
	ErrPowTargetNotMet = errors.New("pow target not met")
	// ErrIneligibleProposer marks a proposer outside the validator set, in
	// cooldown, below minimum stake, or not selected by the lottery.
	ErrIneligibleProposer = errors.New("ineligible proposer")
	// ErrBadProposerSignature marks a proposer signature that doesn't
	// recover to the proposer's registered key.
	ErrBadProposerSignature = errors.New("bad proposer signature")
	// ErrStaleOrFutureHeight marks a block at an already occupied position
	// or with a height not following its parent.
	ErrStaleOrFutureHeight = errors.New("stale or future height")
	// ErrUnknownParent is recoverable: the block is buffered until its
	// parent arrives or the wait times out.
	ErrUnknownParent = errors.New("unknown parent")
	// ErrWrongDifficulty marks a header declaring a difficulty other than
	// the schedule requires at its height.
	ErrWrongDifficulty = errors.New("wrong difficulty")
	// ErrInvalidTimestamp marks a header time not after its parent's, or
	// further ahead of the local clock than the allowed drift.
	ErrInvalidTimestamp = errors.New("invalid header timestamp")
	// ErrSealAborted is returned when an in-flight nonce search is
	// abandoned because a competing block at the candidate's height or
	// above became canonical first.
	ErrSealAborted = errors.New("seal aborted by competing block")
	// ErrStateRootMismatch marks a header whose state root doesn't match
	// the state produced by executing its transactions.
	ErrStateRootMismatch = errors.New("state root mismatch")
	// ErrChainCorrupted is fatal: a committed block no longer matches its
	// recorded hash. Block production halts; this is never silently
	// repaired.
	ErrChainCorrupted = errors.New("chain state corruption detected")
	// ErrHalted is returned for every operation after a fatal corruption.
	ErrHalted = errors.New("engine is halted")
	// ErrNoValidators is returned when the lottery has no eligible
	// validators to select from.
	ErrNoValidators = errors.New("no eligible validators")
)
