package apperrors

import "github.com/pkg/errors"

var (
	// ErrInvalidArgument is returned when the request parameters are invalid.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidAmount is returned when a strictly positive quantity is
	// required and the supplied one is zero or too small.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInsufficientShares is returned when an owner tries to burn or move
	// more shares than it holds.
	ErrInsufficientShares = errors.New("insufficient shares")

	// ErrInsufficientAllowance is returned when a spender moves more shares
	// than the owner approved.
	ErrInsufficientAllowance = errors.New("insufficient allowance")

	// ErrInsufficientLiquidity is returned when the pool does not have enough
	// reserves to satisfy the requested swap.
	ErrInsufficientLiquidity = errors.New("insufficient liquidity")

	// ErrSlippageExceeded is returned when the quoted output is below the
	// caller's minimum (or the quoted input above its maximum).
	ErrSlippageExceeded = errors.New("slippage exceeded")

	// ErrPoolNotFound is returned when no pool is registered for an asset.
	ErrPoolNotFound = errors.New("pool not found")

	// ErrAlreadyRegistered is returned when an asset already has a pool.
	ErrAlreadyRegistered = errors.New("pool already registered")

	// ErrDivisionByZero is returned for quotes against an empty reserve.
	ErrDivisionByZero = errors.New("division by zero")

	// ErrOverflow is returned when a result does not fit in 256 bits.
	ErrOverflow = errors.New("arithmetic overflow")

	// ErrTransferFailed is returned when the asset ledger declines a transfer.
	ErrTransferFailed = errors.New("transfer failed")

	// ErrPartialTransfer is reported by a ledger whose failed transfer could
	// not be fully undone, e.g. because the receiver spent the funds first.
	ErrPartialTransfer = errors.New("transfer partially reverted")

	// ErrReentrancy is returned when a call re-enters a pool that is already
	// executing an operation in the same call chain.
	ErrReentrancy = errors.New("reentrant call")

	// ErrRollbackFailed is attached to the original error when a
	// compensating transfer could not be applied.
	ErrRollbackFailed = errors.New("rollback failed")
)
