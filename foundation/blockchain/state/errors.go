package state

import "errors"

// Set of errors returned by ledger operations. Every rejection leaves the
// ledger records untouched.
var (
	ErrNotInitialized        = errors.New("ledger not initialized")
	ErrAlreadyInitialized    = errors.New("ledger already initialized")
	ErrNotRegistered         = errors.New("miner not registered")
	ErrAlreadyRegistered     = errors.New("miner already registered")
	ErrInvalidBus            = errors.New("invalid bus id")
	ErrBusInsufficient       = errors.New("bus has insufficient rewards")
	ErrNotAdmin              = errors.New("caller is not the admin")
	ErrInsufficientClaimable = errors.New("claim exceeds claimable rewards")
	ErrNoLedger              = errors.New("no token ledger configured")
)
