package mid

import (
	"context"
	"net/http"

	"github.com/ardanlabs/powledger/business/web/auth"
	"github.com/ardanlabs/powledger/business/web/errs"
	"github.com/ardanlabs/powledger/foundation/web"
)

// Authenticate decodes the signed envelope in the request body, verifies
// it and places the caller's claims in the context for the handler.
func Authenticate(a *auth.Auth) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			var env auth.Envelope
			if err := web.Decode(r, &env); err != nil {
				if web.IsFieldErrors(err) {
					return err
				}
				return errs.NewTrusted(err, http.StatusBadRequest)
			}

			claims, err := a.Verify(env)
			if err != nil {
				return errs.FromLedger(err)
			}

			ctx = auth.SetClaims(ctx, claims)

			return handler(ctx, w, r)
		}

		return h
	}

	return m
}
