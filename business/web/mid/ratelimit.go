package mid

import (
	"context"
	"errors"
	"net/http"

	"github.com/ardanlabs/powledger/business/web/errs"
	"github.com/ardanlabs/powledger/foundation/web"
	"golang.org/x/time/rate"
)

// RateLimit throttles the wrapped routes to rps requests per second with
// the specified burst. Requests over the limit are rejected rather than
// queued so miners can back off.
func RateLimit(rps float64, burst int) web.Middleware {
	limiter := rate.NewLimiter(rate.Limit(rps), burst)

	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			if !limiter.Allow() {
				metrics.throttled.Add(1)
				return errs.NewTrusted(errors.New("too many requests"), http.StatusTooManyRequests)
			}

			return handler(ctx, w, r)
		}

		return h
	}

	return m
}
