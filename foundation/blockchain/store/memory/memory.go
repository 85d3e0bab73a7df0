// Package memory implements the ability to read and write ledger records
// to memory using a map.
package memory

import (
	"bytes"
	"slices"
	"sync"

	"github.com/ardanlabs/powledger/foundation/blockchain/store"
	"github.com/ethereum/go-ethereum/common"
)

// Memory represents the storage implementation for reading and storing
// records in memory. This implements the store.Store interface.
type Memory struct {
	mu      sync.RWMutex
	records map[common.Hash][]byte
}

// New constructs an Memory value for use.
func New() *Memory {
	return &Memory{
		records: make(map[common.Hash][]byte),
	}
}

// Close in this implementation has nothing to do since everything
// is in memory.
func (m *Memory) Close() error {
	return nil
}

// Get returns a copy of the record stored at the address.
func (m *Memory) Get(addr common.Hash) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, exists := m.records[addr]
	if !exists {
		return nil, store.ErrNotFound
	}

	return bytes.Clone(data), nil
}

// Commit stores all the writes under a single lock so readers never see
// part of the set applied.
func (m *Memory) Commit(writes []store.Write) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, w := range writes {
		m.records[w.Address] = bytes.Clone(w.Data)
	}

	return nil
}

// ForEach walks a snapshot of the records in address order.
func (m *Memory) ForEach(fn func(addr common.Hash, data []byte) error) error {
	m.mu.RLock()
	addrs := make([]common.Hash, 0, len(m.records))
	snapshot := make(map[common.Hash][]byte, len(m.records))
	for addr, data := range m.records {
		addrs = append(addrs, addr)
		snapshot[addr] = bytes.Clone(data)
	}
	m.mu.RUnlock()

	slices.SortFunc(addrs, func(a, b common.Hash) int {
		return bytes.Compare(a[:], b[:])
	})

	for _, addr := range addrs {
		if err := fn(addr, snapshot[addr]); err != nil {
			return err
		}
	}

	return nil
}
