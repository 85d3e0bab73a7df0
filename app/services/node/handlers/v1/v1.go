// Package v1 contains the full set of handler functions and routes
// supported by the v1 web api.
package v1

import (
	"net/http"

	"github.com/ardanlabs/powledger/app/services/node/handlers/v1/private"
	"github.com/ardanlabs/powledger/app/services/node/handlers/v1/public"
	"github.com/ardanlabs/powledger/business/web/auth"
	"github.com/ardanlabs/powledger/business/web/mid"
	"github.com/ardanlabs/powledger/foundation/blockchain/state"
	"github.com/ardanlabs/powledger/foundation/blockchain/tokens"
	"github.com/ardanlabs/powledger/foundation/events"
	"github.com/ardanlabs/powledger/foundation/nameservice"
	"github.com/ardanlabs/powledger/foundation/web"
	"go.uber.org/zap"
)

const version = "v1"

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Log       *zap.SugaredLogger
	State     *state.State
	Tokens    *tokens.Ledger
	NS        *nameservice.NameService
	Evts      *events.Events
	Auth      *auth.Auth
	MineRate  float64
	MineBurst int
}

// PublicRoutes binds all the version 1 public routes.
func PublicRoutes(app *web.App, cfg Config) {
	pbl := public.Handlers{
		Log:    cfg.Log,
		State:  cfg.State,
		Tokens: cfg.Tokens,
		NS:     cfg.NS,
		Evts:   cfg.Evts,
	}

	authen := mid.Authenticate(cfg.Auth)
	throttle := mid.RateLimit(cfg.MineRate, cfg.MineBurst)

	app.Handle(http.MethodGet, version, "/events", pbl.Events)
	app.Handle(http.MethodGet, version, "/genesis", pbl.Genesis)
	app.Handle(http.MethodGet, version, "/treasury", pbl.Treasury)
	app.Handle(http.MethodGet, version, "/buses", pbl.Buses)
	app.Handle(http.MethodGet, version, "/proofs", pbl.Proofs)
	app.Handle(http.MethodGet, version, "/proofs/:owner", pbl.Proof)
	app.Handle(http.MethodGet, version, "/proofs/:owner/inclusion", pbl.Inclusion)
	app.Handle(http.MethodGet, version, "/tokens/:account", pbl.TokenBalance)
	app.Handle(http.MethodPost, version, "/register", pbl.Register, authen)
	app.Handle(http.MethodPost, version, "/mine", pbl.Mine, throttle, authen)
	app.Handle(http.MethodPost, version, "/claim", pbl.Claim, authen)
}

// PrivateRoutes binds all the version 1 private routes.
func PrivateRoutes(app *web.App, cfg Config) {
	prv := private.Handlers{
		Log:    cfg.Log,
		State:  cfg.State,
		Tokens: cfg.Tokens,
		NS:     cfg.NS,
		Evts:   cfg.Evts,
	}

	authen := mid.Authenticate(cfg.Auth)

	app.Handle(http.MethodGet, version, "/node/status", prv.Status)
	app.Handle(http.MethodPost, version, "/admin/authority", prv.UpdateAuthority, authen)
	app.Handle(http.MethodPost, version, "/admin/reset", prv.ResetProof, authen)
}
