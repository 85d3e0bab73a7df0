// Package auth verifies the signed envelopes carried by write requests and
// provides the caller identity to the handlers.
package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ardanlabs/powledger/foundation/blockchain/signature"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/lru"
	"github.com/google/uuid"
)

// Set of error variables for envelope verification.
var (
	ErrStale    = errors.New("envelope timestamp outside the accepted window")
	ErrReplayed = errors.New("envelope already submitted")
)

// replayCapacity is the number of envelopes remembered for replay
// detection. Entries older than the window are rejected as stale anyway.
const replayCapacity = 100_000

// Envelope is the signed form of every write request. The signature covers
// the id, payload and timestamp. The id makes every envelope unique since
// signing the same content twice produces the same signature.
type Envelope struct {
	ID        string          `json:"id" validate:"required,uuid"`
	Payload   json.RawMessage `json:"payload" validate:"required"`
	Timestamp int64           `json:"timestamp" validate:"required"`
	Signature string          `json:"signature" validate:"required"`
}

// signed is the value that is signed to produce the envelope signature.
type signed struct {
	ID        string          `json:"id"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp int64           `json:"timestamp"`
}

// Claims represents the verified identity behind a request.
type Claims struct {
	Signer  common.Address
	Payload json.RawMessage
}

// =============================================================================

// Auth verifies envelopes against a timestamp window and a replay cache.
type Auth struct {
	window time.Duration
	now    func() time.Time

	mu   sync.Mutex
	seen *lru.Cache[string, int64]
}

// New constructs an Auth that accepts envelopes stamped within the window
// of the current time.
func New(window time.Duration) *Auth {
	return &Auth{
		window: window,
		now:    time.Now,
		seen:   lru.NewCache[string, int64](replayCapacity),
	}
}

// Verify checks the envelope signature, timestamp and uniqueness and
// returns the claims for the signer.
func (a *Auth) Verify(env Envelope) (Claims, error) {
	now := a.now().Unix()
	window := int64(a.window / time.Second)

	if env.Timestamp < now-window || env.Timestamp > now+window {
		return Claims{}, fmt.Errorf("%w: timestamp %d, now %d", ErrStale, env.Timestamp, now)
	}

	v, r, s, err := signature.ToVRSFromHexSignature(env.Signature)
	if err != nil {
		return Claims{}, err
	}

	signer, err := signature.FromAddress(signed{ID: env.ID, Payload: env.Payload, Timestamp: env.Timestamp}, v, r, s)
	if err != nil {
		return Claims{}, err
	}

	// The id is covered by the signature, so the signer and id name the
	// envelope whatever form the signature bytes take.
	key := signer.Hex() + "/" + env.ID

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.seen.Contains(key) {
		return Claims{}, ErrReplayed
	}
	a.seen.Add(key, env.Timestamp)

	return Claims{Signer: signer, Payload: env.Payload}, nil
}

// =============================================================================

// Seal signs the payload at the specified time and returns the envelope to
// submit. This is used by clients of the node.
func Seal(payload any, timestamp int64, sign func(value any) (string, error)) (Envelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("marshal payload: %w", err)
	}

	id := uuid.NewString()

	sig, err := sign(signed{ID: id, Payload: data, Timestamp: timestamp})
	if err != nil {
		return Envelope{}, fmt.Errorf("sign envelope: %w", err)
	}

	env := Envelope{
		ID:        id,
		Payload:   data,
		Timestamp: timestamp,
		Signature: sig,
	}

	return env, nil
}
