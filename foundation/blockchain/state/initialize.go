package state

import (
	"errors"

	"github.com/ardanlabs/powledger/foundation/blockchain/records"
	"github.com/ardanlabs/powledger/foundation/blockchain/store"
)

// Initialize creates the treasury and the buses from the genesis values.
// The first epoch starts at now with every bus holding its full allocation.
func (s *State) Initialize(now int64) (records.Treasury, error) {
	s.locks.treasury.Lock()
	defer s.locks.treasury.Unlock()

	s.locks.lockBuses()
	defer s.locks.unlockBuses()

	_, err := s.readTreasury()
	switch {
	case err == nil:
		return records.Treasury{}, ErrAlreadyInitialized
	case !errors.Is(err, ErrNotInitialized):
		return records.Treasury{}, err
	}

	treasury := records.Treasury{
		Admin:        s.genesis.Admin,
		Difficulty:   s.genesis.Difficulty,
		RewardRate:   s.genesis.RewardRate,
		EpochStartAt: now,
	}

	writes := make([]store.Write, 0, s.genesis.BusCount+1)
	writes = append(writes, treasuryWrite(treasury))
	for id := range s.genesis.BusCount {
		writes = append(writes, busWrite(records.Bus{ID: id, Rewards: s.genesis.BusAllocation()}))
	}

	if err := s.store.Commit(writes); err != nil {
		return records.Treasury{}, err
	}

	s.evHandler("state: Initialize: admin[%s] buses[%d] allocation[%d]", treasury.Admin, s.genesis.BusCount, s.genesis.BusAllocation())

	return treasury, nil
}

// IsInitialized reports whether the treasury exists.
func (s *State) IsInitialized() (bool, error) {
	s.locks.treasury.RLock()
	defer s.locks.treasury.RUnlock()

	_, err := s.readTreasury()
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrNotInitialized):
		return false, nil
	}

	return false, err
}
