// Package public maintains the group of handlers for public access.
package public

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/ardanlabs/powledger/business/web/auth"
	"github.com/ardanlabs/powledger/business/web/errs"
	"github.com/ardanlabs/powledger/foundation/blockchain/records"
	"github.com/ardanlabs/powledger/foundation/blockchain/state"
	"github.com/ardanlabs/powledger/foundation/blockchain/tokens"
	"github.com/ardanlabs/powledger/foundation/events"
	"github.com/ardanlabs/powledger/foundation/nameservice"
	"github.com/ardanlabs/powledger/foundation/web"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handlers manages the set of ledger endpoints.
type Handlers struct {
	Log    *zap.SugaredLogger
	State  *state.State
	Tokens *tokens.Ledger
	NS     *nameservice.NameService
	WS     websocket.Upgrader
	Evts   *events.Events
}

// Events handles a web socket to provide ledger events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	ch := h.Evts.Acquire(v.TraceID)
	defer h.Evts.Release(v.TraceID)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case e, wd := <-ch:
			if !wd {
				return nil
			}

			if err := c.WriteJSON(e); err != nil {
				return nil
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}

// Genesis returns the genesis information.
func (h Handlers) Genesis(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	gen := h.State.RetrieveGenesis()
	return web.Respond(ctx, w, gen, http.StatusOK)
}

// Treasury returns the treasury record.
func (h Handlers) Treasury(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	treasury, err := h.State.QueryTreasury()
	if err != nil {
		return err
	}

	return web.Respond(ctx, w, treasury, http.StatusOK)
}

// Buses returns every bus record in id order.
func (h Handlers) Buses(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	buses, err := h.State.QueryBuses()
	if err != nil {
		return err
	}

	return web.Respond(ctx, w, buses, http.StatusOK)
}

// Proof returns the proof record for the specified owner.
func (h Handlers) Proof(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	owner, err := toAddress(web.Param(r, "owner"))
	if err != nil {
		return err
	}

	prf, err := h.State.QueryProof(owner)
	if err != nil {
		return errs.FromLedger(err)
	}

	return web.Respond(ctx, w, h.toProof(prf), http.StatusOK)
}

// Inclusion returns the merkle proof tying an owner's proof record to the
// current state root.
func (h Handlers) Inclusion(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	owner, err := toAddress(web.Param(r, "owner"))
	if err != nil {
		return err
	}

	ip, err := h.State.RecordProof(owner)
	if err != nil {
		return errs.FromLedger(err)
	}

	return web.Respond(ctx, w, ip, http.StatusOK)
}

// Proofs returns every registered proof.
func (h Handlers) Proofs(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	prfs, err := h.State.QueryProofs()
	if err != nil {
		return err
	}

	if len(prfs) == 0 {
		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}

	resp := make([]proof, len(prfs))
	for i, prf := range prfs {
		resp[i] = h.toProof(prf)
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// TokenBalance returns the token balance paid out to the specified account.
func (h Handlers) TokenBalance(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	account, err := toAddress(web.Param(r, "account"))
	if err != nil {
		return err
	}

	tb := tokenBalance{
		Account: account,
		Name:    h.NS.Lookup(account),
		Balance: h.Tokens.Balance(account),
		Custody: h.Tokens.Custody(),
	}

	return web.Respond(ctx, w, tb, http.StatusOK)
}

// Register creates the proof record for the signer.
func (h Handlers) Register(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	claims, err := auth.GetClaims(ctx)
	if err != nil {
		return web.NewShutdownError("claims missing from context")
	}

	var req registerRequest
	if err := claims.Decode(&req); err != nil {
		return err
	}

	h.Log.Infow("register", "traceid", v.TraceID, "miner", claims.Signer, "name", h.NS.Lookup(claims.Signer))

	prf, err := h.State.Register(claims.Signer)
	if err != nil {
		return errs.FromLedger(err)
	}

	return web.Respond(ctx, w, h.toProof(prf), http.StatusCreated)
}

// Mine submits a proof for the signer against the requested bus.
func (h Handlers) Mine(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	claims, err := auth.GetClaims(ctx)
	if err != nil {
		return web.NewShutdownError("claims missing from context")
	}

	var req mineRequest
	if err := claims.Decode(&req); err != nil {
		return err
	}

	h.Log.Infow("mine", "traceid", v.TraceID, "miner", claims.Signer, "bus", req.Bus, "nonce", req.Nonce)

	res, err := h.State.Mine(claims.Signer, req.Bus, req.Hash, req.Nonce, v.Now.Unix())
	if err != nil {
		return errs.FromLedger(err)
	}

	resp := mineResult{
		Proof:      h.toProof(res.Proof),
		Bus:        res.Bus,
		Treasury:   res.Treasury,
		Reward:     res.Reward,
		Retargeted: res.Retargeted,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Claim pays out part of the signer's claimable rewards.
func (h Handlers) Claim(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	claims, err := auth.GetClaims(ctx)
	if err != nil {
		return web.NewShutdownError("claims missing from context")
	}

	var req claimRequest
	if err := claims.Decode(&req); err != nil {
		return err
	}

	h.Log.Infow("claim", "traceid", v.TraceID, "miner", claims.Signer, "amount", req.Amount)

	prf, err := h.State.Claim(claims.Signer, req.Amount)
	if err != nil {
		return errs.FromLedger(err)
	}

	return web.Respond(ctx, w, h.toProof(prf), http.StatusOK)
}

// =============================================================================

func (h Handlers) toProof(prf records.Proof) proof {
	return proof{
		Owner:            prf.Owner,
		Name:             h.NS.Lookup(prf.Owner),
		Hash:             prf.Hash,
		ClaimableRewards: prf.ClaimableRewards,
		TotalHashes:      prf.TotalHashes,
	}
}

func toAddress(hex string) (common.Address, error) {
	if !common.IsHexAddress(hex) {
		return common.Address{}, errs.NewTrusted(errors.New("invalid account format"), http.StatusBadRequest)
	}
	return common.HexToAddress(hex), nil
}
