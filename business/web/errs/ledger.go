package errs

import (
	"errors"
	"net/http"

	"github.com/ardanlabs/powledger/business/web/auth"
	"github.com/ardanlabs/powledger/foundation/blockchain/hashchain"
	"github.com/ardanlabs/powledger/foundation/blockchain/signature"
	"github.com/ardanlabs/powledger/foundation/blockchain/state"
)

// Set of codes returned to clients so they can react to a rejection
// without parsing the message.
const (
	CodeInvalidHash           = "invalid_hash"
	CodeInvalidBus            = "invalid_bus"
	CodeBusInsufficient       = "bus_insufficient"
	CodeNotRegistered         = "not_registered"
	CodeAlreadyRegistered     = "already_registered"
	CodeAlreadyInitialized    = "already_initialized"
	CodeNotAdmin              = "not_admin"
	CodeInsufficientClaimable = "insufficient_claimable"
	CodeUnauthenticated       = "unauthenticated"
)

type mapping struct {
	err    error
	status int
	code   string
}

// ledgerErrors is checked in order, so more specific errors come first.
var ledgerErrors = []mapping{
	{hashchain.ErrInvalidHash, http.StatusBadRequest, CodeInvalidHash},
	{state.ErrInvalidBus, http.StatusBadRequest, CodeInvalidBus},
	{state.ErrInsufficientClaimable, http.StatusBadRequest, CodeInsufficientClaimable},
	{state.ErrBusInsufficient, http.StatusConflict, CodeBusInsufficient},
	{state.ErrAlreadyRegistered, http.StatusConflict, CodeAlreadyRegistered},
	{state.ErrAlreadyInitialized, http.StatusConflict, CodeAlreadyInitialized},
	{state.ErrNotRegistered, http.StatusNotFound, CodeNotRegistered},
	{state.ErrNotAdmin, http.StatusForbidden, CodeNotAdmin},
	{auth.ErrStale, http.StatusUnauthorized, CodeUnauthenticated},
	{auth.ErrReplayed, http.StatusUnauthorized, CodeUnauthenticated},
	{signature.ErrInvalidSignature, http.StatusUnauthorized, CodeUnauthenticated},
}

// FromLedger converts an expected ledger rejection into a trusted error
// with the matching status and code. Any other error is returned as is
// and will be treated as an internal failure.
func FromLedger(err error) error {
	for _, m := range ledgerErrors {
		if errors.Is(err, m.err) {
			return &Trusted{Err: err, Status: m.status, Code: m.code}
		}
	}
	return err
}

// ToLedger converts a code received from a node back into the matching
// ledger error so clients can use errors.Is.
func ToLedger(code string) error {
	for _, m := range ledgerErrors {
		if m.code == code && code != CodeUnauthenticated {
			return m.err
		}
	}
	if code == CodeUnauthenticated {
		return signature.ErrInvalidSignature
	}
	return nil
}
