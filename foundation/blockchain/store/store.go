// Package store defines the behavior required to persist ledger records.
// Records are opaque byte slices addressed by a derived 32 byte address.
package store

import (
	"errors"

	"github.com/ethereum/go-ethereum/common"
)

// ErrNotFound is returned when no record exists at an address.
var ErrNotFound = errors.New("record not found")

// Write represents a record to be stored at an address.
type Write struct {
	Address common.Hash
	Data    []byte
}

// Store interface represents the behavior required to be implemented by any
// package providing support for storing and reading ledger records.
type Store interface {

	// Get returns a copy of the record stored at the address or ErrNotFound.
	Get(addr common.Hash) ([]byte, error)

	// Commit stores all the writes or none of them.
	Commit(writes []Write) error

	// ForEach calls fn for every stored record in address order.
	ForEach(fn func(addr common.Hash, data []byte) error) error

	Close() error
}
