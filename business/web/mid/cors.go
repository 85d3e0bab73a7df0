package mid

import (
	"context"
	"net/http"

	"github.com/ardanlabs/powledger/foundation/web"
)

// Cors lets browsers on the origin read ledger data and post signed
// envelopes. The api only serves GET and POST with JSON bodies.
func Cors(origin string) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			hdr := w.Header()
			hdr.Set("Access-Control-Allow-Origin", origin)
			hdr.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			hdr.Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length")
			if origin != "*" {
				hdr.Add("Vary", "Origin")
			}

			return handler(ctx, w, r)
		}

		return h
	}

	return m
}
