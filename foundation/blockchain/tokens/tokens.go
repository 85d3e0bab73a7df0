// Package tokens provides an in memory custodial token ledger. The treasury
// holds a fixed supply in custody and claims are paid out of it.
package tokens

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// ErrInsufficientCustody is returned when the treasury can't cover a payout.
var ErrInsufficientCustody = errors.New("insufficient treasury custody")

// Ledger maintains the custody balance and the balances paid out to accounts.
type Ledger struct {
	mu       sync.RWMutex
	custody  uint64
	balances map[common.Address]uint64
}

// New constructs a ledger with the specified amount held in custody.
func New(custody uint64) *Ledger {
	return &Ledger{
		custody:  custody,
		balances: make(map[common.Address]uint64),
	}
}

// Payout moves the amount from custody to the account.
func (l *Ledger) Payout(to common.Address, amount uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if amount > l.custody {
		return fmt.Errorf("%w: custody %d, needed %d", ErrInsufficientCustody, l.custody, amount)
	}

	l.custody -= amount
	l.balances[to] += amount

	return nil
}

// Settle removes tokens paid out before this ledger was constructed from
// custody. Their recipients are not tracked.
func (l *Ledger) Settle(paid uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.custody -= min(paid, l.custody)
}

// Balance returns the tokens paid out to the account.
func (l *Ledger) Balance(account common.Address) uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.balances[account]
}

// Custody returns the tokens still held by the treasury.
func (l *Ledger) Custody() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.custody
}
