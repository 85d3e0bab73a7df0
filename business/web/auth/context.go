package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ardanlabs/powledger/foundation/web"
)

// ctxKey represents the type of value for the context key.
type ctxKey int

// key is used to store/retrieve a Claims value from a context.Context.
const key ctxKey = 1

// SetClaims stores the claims in the context.
func SetClaims(ctx context.Context, claims Claims) context.Context {
	return context.WithValue(ctx, key, claims)
}

// GetClaims returns the claims from the context.
func GetClaims(ctx context.Context) (Claims, error) {
	v, ok := ctx.Value(key).(Claims)
	if !ok {
		return Claims{}, errors.New("claim value missing from context")
	}
	return v, nil
}

// Decode unmarshals the signed payload into the provided value and
// validates it.
func (c Claims) Decode(val any) error {
	if err := json.Unmarshal(c.Payload, val); err != nil {
		return fmt.Errorf("unable to decode payload: %w", err)
	}

	return web.Check(val)
}
