package state

import (
	"fmt"

	"github.com/ardanlabs/powledger/foundation/blockchain/hashchain"
	"github.com/ardanlabs/powledger/foundation/blockchain/records"
	"github.com/ardanlabs/powledger/foundation/blockchain/store"
	"github.com/ethereum/go-ethereum/common"
)

// UpdateAdmin hands the admin authority to a new account.
func (s *State) UpdateAdmin(caller common.Address, newAdmin common.Address) (records.Treasury, error) {
	s.locks.treasury.Lock()
	defer s.locks.treasury.Unlock()

	treasury, err := s.readTreasury()
	if err != nil {
		return records.Treasury{}, err
	}

	if caller != treasury.Admin {
		return records.Treasury{}, fmt.Errorf("%w: %s", ErrNotAdmin, caller)
	}

	treasury.Admin = newAdmin

	if err := s.store.Commit([]store.Write{treasuryWrite(treasury)}); err != nil {
		return records.Treasury{}, err
	}

	s.evHandler("state: UpdateAdmin: admin[%s -> %s]", caller, newAdmin)

	return treasury, nil
}

// ResetProof puts a miner's hash chain back to its seed. Counters and
// claimable rewards are kept.
func (s *State) ResetProof(caller common.Address, owner common.Address) (records.Proof, error) {
	s.locks.treasury.RLock()
	defer s.locks.treasury.RUnlock()

	mu := s.locks.proof(owner)
	mu.Lock()
	defer mu.Unlock()

	treasury, err := s.readTreasury()
	if err != nil {
		return records.Proof{}, err
	}

	if caller != treasury.Admin {
		return records.Proof{}, fmt.Errorf("%w: %s", ErrNotAdmin, caller)
	}

	proof, err := s.readProof(owner)
	if err != nil {
		return records.Proof{}, err
	}

	proof.Hash = hashchain.Seed(owner)

	if err := s.store.Commit([]store.Write{proofWrite(proof)}); err != nil {
		return records.Proof{}, err
	}

	s.evHandler("state: ResetProof: miner[%s] seed[%s]", owner, proof.Hash)

	return proof, nil
}
