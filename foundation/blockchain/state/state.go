// Package state is the core API for the mining ledger and implements all the
// business rules for registering miners, accepting proofs, retargeting at
// epoch boundaries and claiming rewards.
package state

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ardanlabs/powledger/foundation/blockchain/difficulty"
	"github.com/ardanlabs/powledger/foundation/blockchain/genesis"
	"github.com/ardanlabs/powledger/foundation/blockchain/records"
	"github.com/ardanlabs/powledger/foundation/blockchain/store"
	"github.com/ethereum/go-ethereum/common"
)

// EventHandler defines a function that is called when events
// occur in the processing of ledger operations.
type EventHandler func(v string, args ...any)

// TokenLedger represents the behavior required to pay out claimed rewards.
// The ledger holds the real token balances, this package only tracks what
// each miner is owed.
type TokenLedger interface {
	Payout(to common.Address, amount uint64) error
}

// =============================================================================

// Config represents the configuration required to start
// the mining ledger.
type Config struct {
	Genesis   genesis.Genesis
	Store     store.Store
	Ledger    TokenLedger
	EvHandler EventHandler
}

// State manages the mining ledger records.
type State struct {
	genesis   genesis.Genesis
	policy    difficulty.RewardPolicy
	store     store.Store
	ledger    TokenLedger
	evHandler EventHandler

	locks *locks
}

// New constructs a new State for ledger management.
func New(cfg Config) (*State, error) {
	if cfg.Store == nil {
		return nil, errors.New("store is required")
	}

	if err := cfg.Genesis.Validate(); err != nil {
		return nil, fmt.Errorf("invalid genesis: %w", err)
	}

	policy, err := cfg.Genesis.Policy()
	if err != nil {
		return nil, err
	}

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	state := State{
		genesis:   cfg.Genesis,
		policy:    policy,
		store:     cfg.Store,
		ledger:    cfg.Ledger,
		evHandler: ev,
		locks:     newLocks(cfg.Genesis.BusCount),
	}

	return &state, nil
}

// Shutdown cleanly brings the ledger down.
func (s *State) Shutdown() error {
	return s.store.Close()
}

// =============================================================================

// locks provides mutual exclusion at the granularity of a single record.
// Locks are always acquired in the order treasury, buses by ascending id,
// then proofs, so operations touching overlapping records can't deadlock.
type locks struct {
	treasury sync.RWMutex
	buses    []sync.Mutex
	proofs   sync.Map
}

func newLocks(busCount uint64) *locks {
	return &locks{
		buses: make([]sync.Mutex, busCount),
	}
}

// proof returns the lock for the proof owned by the specified account.
func (l *locks) proof(owner common.Address) *sync.Mutex {
	mu, _ := l.proofs.LoadOrStore(owner, new(sync.Mutex))
	return mu.(*sync.Mutex)
}

func (l *locks) lockBuses() {
	for i := range l.buses {
		l.buses[i].Lock()
	}
}

func (l *locks) unlockBuses() {
	for i := len(l.buses) - 1; i >= 0; i-- {
		l.buses[i].Unlock()
	}
}

// =============================================================================

// readTreasury reads the treasury record. The caller must hold the
// treasury lock.
func (s *State) readTreasury() (records.Treasury, error) {
	data, err := s.store.Get(records.TreasuryAddress())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return records.Treasury{}, ErrNotInitialized
		}
		return records.Treasury{}, err
	}

	return records.Decode[records.Treasury](data)
}

// readBus reads the bus record with the specified id. The caller must hold
// the bus lock.
func (s *State) readBus(id uint64) (records.Bus, error) {
	data, err := s.store.Get(records.BusAddress(id))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return records.Bus{}, ErrNotInitialized
		}
		return records.Bus{}, err
	}

	bus, err := records.Decode[records.Bus](data)
	if err != nil {
		return records.Bus{}, err
	}

	if bus.ID != id {
		return records.Bus{}, fmt.Errorf("%w: bus at address %d holds id %d", records.ErrMalformed, id, bus.ID)
	}

	return bus, nil
}

// readBuses reads every bus record. The caller must hold all bus locks.
func (s *State) readBuses() ([]records.Bus, error) {
	buses := make([]records.Bus, s.genesis.BusCount)
	for i := range buses {
		bus, err := s.readBus(uint64(i))
		if err != nil {
			return nil, err
		}
		buses[i] = bus
	}

	return buses, nil
}

// readProof reads the proof owned by the account. The caller must hold the
// proof lock.
func (s *State) readProof(owner common.Address) (records.Proof, error) {
	data, err := s.store.Get(records.ProofAddress(owner))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return records.Proof{}, fmt.Errorf("%w: %s", ErrNotRegistered, owner)
		}
		return records.Proof{}, err
	}

	proof, err := records.Decode[records.Proof](data)
	if err != nil {
		return records.Proof{}, err
	}

	if proof.Owner != owner {
		return records.Proof{}, fmt.Errorf("%w: proof for %s owned by %s", records.ErrMalformed, owner, proof.Owner)
	}

	return proof, nil
}

// treasuryWrite, busWrite and proofWrite build the store writes for a record.

func treasuryWrite(t records.Treasury) store.Write {
	return store.Write{Address: records.TreasuryAddress(), Data: records.Encode(t)}
}

func busWrite(b records.Bus) store.Write {
	return store.Write{Address: records.BusAddress(b.ID), Data: records.Encode(b)}
}

func proofWrite(p records.Proof) store.Write {
	return store.Write{Address: records.ProofAddress(p.Owner), Data: records.Encode(p)}
}
