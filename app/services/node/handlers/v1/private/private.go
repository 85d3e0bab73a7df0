// Package private maintains the group of handlers for operator access.
package private

import (
	"context"
	"errors"
	"net/http"

	"github.com/ardanlabs/powledger/business/web/auth"
	"github.com/ardanlabs/powledger/business/web/errs"
	"github.com/ardanlabs/powledger/foundation/blockchain/state"
	"github.com/ardanlabs/powledger/foundation/blockchain/tokens"
	"github.com/ardanlabs/powledger/foundation/events"
	"github.com/ardanlabs/powledger/foundation/nameservice"
	"github.com/ardanlabs/powledger/foundation/web"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// Handlers manages the set of operator endpoints.
type Handlers struct {
	Log    *zap.SugaredLogger
	State  *state.State
	Tokens *tokens.Ledger
	NS     *nameservice.NameService
	Evts   *events.Events
}

// UpdateAuthority hands the admin role to a new account.
func (h Handlers) UpdateAuthority(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	claims, err := auth.GetClaims(ctx)
	if err != nil {
		return web.NewShutdownError("claims missing from context")
	}

	var req authorityRequest
	if err := claims.Decode(&req); err != nil {
		return err
	}

	if req.Admin == (common.Address{}) {
		return errs.NewTrusted(errors.New("admin account is required"), http.StatusBadRequest)
	}

	h.Log.Infow("update authority", "traceid", v.TraceID, "caller", claims.Signer, "admin", req.Admin, "name", h.NS.Lookup(req.Admin))

	treasury, err := h.State.UpdateAdmin(claims.Signer, req.Admin)
	if err != nil {
		return errs.FromLedger(err)
	}

	return web.Respond(ctx, w, treasury, http.StatusOK)
}

// ResetProof restarts a miner's hash chain from its seed.
func (h Handlers) ResetProof(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	claims, err := auth.GetClaims(ctx)
	if err != nil {
		return web.NewShutdownError("claims missing from context")
	}

	var req resetRequest
	if err := claims.Decode(&req); err != nil {
		return err
	}

	h.Log.Infow("reset proof", "traceid", v.TraceID, "caller", claims.Signer, "owner", req.Owner, "name", h.NS.Lookup(req.Owner))

	prf, err := h.State.ResetProof(claims.Signer, req.Owner)
	if err != nil {
		return errs.FromLedger(err)
	}

	return web.Respond(ctx, w, prf, http.StatusOK)
}

// Status returns a summary of the ledger held by this node.
func (h Handlers) Status(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	initialized, err := h.State.IsInitialized()
	if err != nil {
		return err
	}

	st := status{
		Initialized: initialized,
		Custody:     h.Tokens.Custody(),
		Subscribers: h.Evts.Subscribers(),
	}

	if initialized {
		if st.Treasury, err = h.State.QueryTreasury(); err != nil {
			return err
		}

		if st.Buses, err = h.State.QueryBuses(); err != nil {
			return err
		}

		prfs, err := h.State.QueryProofs()
		if err != nil {
			return err
		}
		st.Proofs = len(prfs)

		if st.StateRoot, err = h.State.StateRoot(); err != nil {
			return err
		}
	}

	return web.Respond(ctx, w, st, http.StatusOK)
}
