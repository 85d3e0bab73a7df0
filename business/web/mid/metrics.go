package mid

import (
	"context"
	"expvar"
	"net/http"
	"runtime"

	"github.com/ardanlabs/powledger/foundation/web"
)

// metrics holds the counters published on the debug service under
// /debug/vars.
var metrics = struct {
	goroutines *expvar.Int
	requests   *expvar.Int
	errors     *expvar.Int
	panics     *expvar.Int
	throttled  *expvar.Int
}{
	goroutines: expvar.NewInt("goroutines"),
	requests:   expvar.NewInt("requests"),
	errors:     expvar.NewInt("errors"),
	panics:     expvar.NewInt("panics"),
	throttled:  expvar.NewInt("throttled"),
}

// Metrics updates program counters.
func Metrics() web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			err := handler(ctx, w, r)

			metrics.requests.Add(1)

			// Sampling the goroutine count is not free, so only every
			// hundredth request updates it.
			if metrics.requests.Value()%100 == 0 {
				metrics.goroutines.Set(int64(runtime.NumGoroutine()))
			}

			if err != nil {
				metrics.errors.Add(1)
			}

			return err
		}

		return h
	}

	return m
}
