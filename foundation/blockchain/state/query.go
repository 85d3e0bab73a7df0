package state

import (
	"errors"
	"fmt"

	"github.com/ardanlabs/powledger/foundation/blockchain/genesis"
	"github.com/ardanlabs/powledger/foundation/blockchain/merkle"
	"github.com/ardanlabs/powledger/foundation/blockchain/records"
	"github.com/ardanlabs/powledger/foundation/blockchain/store"
	"github.com/ethereum/go-ethereum/common"
)

// RetrieveGenesis returns a copy of the genesis information.
func (s *State) RetrieveGenesis() genesis.Genesis {
	return s.genesis
}

// QueryTreasury returns the current treasury.
func (s *State) QueryTreasury() (records.Treasury, error) {
	s.locks.treasury.RLock()
	defer s.locks.treasury.RUnlock()

	return s.readTreasury()
}

// QueryBus returns the bus with the specified id.
func (s *State) QueryBus(id uint64) (records.Bus, error) {
	if id >= s.genesis.BusCount {
		return records.Bus{}, fmt.Errorf("%w: %d, bus count %d", ErrInvalidBus, id, s.genesis.BusCount)
	}

	s.locks.buses[id].Lock()
	defer s.locks.buses[id].Unlock()

	return s.readBus(id)
}

// QueryBuses returns every bus as of one point in time.
func (s *State) QueryBuses() ([]records.Bus, error) {
	s.locks.lockBuses()
	defer s.locks.unlockBuses()

	return s.readBuses()
}

// QueryProof returns the proof owned by the account.
func (s *State) QueryProof(owner common.Address) (records.Proof, error) {
	mu := s.locks.proof(owner)
	mu.Lock()
	defer mu.Unlock()

	return s.readProof(owner)
}

// QueryProofs returns every registered proof for auditing. Proofs are read
// one at a time, so the set isn't a single point in time snapshot.
func (s *State) QueryProofs() ([]records.Proof, error) {
	var proofs []records.Proof

	fn := func(addr common.Hash, data []byte) error {
		kind, err := records.Kind(data)
		if err != nil {
			return fmt.Errorf("record %s: %w", addr, err)
		}

		if kind != records.ProofDiscriminator {
			return nil
		}

		proof, err := records.Decode[records.Proof](data)
		if err != nil {
			return fmt.Errorf("record %s: %w", addr, err)
		}

		proofs = append(proofs, proof)
		return nil
	}

	if err := s.store.ForEach(fn); err != nil {
		return nil, err
	}

	return proofs, nil
}

// StateRoot returns the merkle root over every record. The store walk is a
// single snapshot.
func (s *State) StateRoot() (common.Hash, error) {
	return store.Root(s.store)
}

// RecordProof returns the merkle proof that the owner's proof record is
// part of the current state root.
func (s *State) RecordProof(owner common.Address) (InclusionProof, error) {
	mu := s.locks.proof(owner)
	mu.Lock()
	defer mu.Unlock()

	data, err := s.store.Get(records.ProofAddress(owner))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return InclusionProof{}, fmt.Errorf("%w: %s", ErrNotRegistered, owner)
		}
		return InclusionProof{}, err
	}

	tree, err := store.Tree(s.store)
	if err != nil {
		return InclusionProof{}, err
	}

	entry := store.Entry{Address: records.ProofAddress(owner), Data: data}
	hashes, sides, err := tree.Proof(entry)
	if err != nil {
		return InclusionProof{}, err
	}

	leaf, _ := entry.Hash()

	ip := InclusionProof{
		Root:   tree.RootHash(),
		Leaf:   common.BytesToHash(leaf),
		Hashes: hashes,
		Sides:  sides,
	}

	return ip, nil
}

// InclusionProof carries what a client needs to check a record against a
// state root.
type InclusionProof struct {
	Root   common.Hash   `json:"root"`
	Leaf   common.Hash   `json:"leaf"`
	Hashes []common.Hash `json:"hashes"`
	Sides  []merkle.Side `json:"sides"`
}
