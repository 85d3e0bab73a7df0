package state

import (
	"errors"
	"fmt"

	"github.com/ardanlabs/powledger/foundation/blockchain/hashchain"
	"github.com/ardanlabs/powledger/foundation/blockchain/records"
	"github.com/ardanlabs/powledger/foundation/blockchain/store"
	"github.com/ethereum/go-ethereum/common"
)

// Register creates the proof record for the calling account. The starting
// hash is derived from the account so it can't be chosen by the miner.
func (s *State) Register(caller common.Address) (records.Proof, error) {
	mu := s.locks.proof(caller)
	mu.Lock()
	defer mu.Unlock()

	_, err := s.readProof(caller)
	switch {
	case err == nil:
		return records.Proof{}, fmt.Errorf("%w: %s", ErrAlreadyRegistered, caller)
	case !errors.Is(err, ErrNotRegistered):
		return records.Proof{}, err
	}

	proof := records.Proof{
		Owner: caller,
		Hash:  hashchain.Seed(caller),
	}

	if err := s.store.Commit([]store.Write{proofWrite(proof)}); err != nil {
		return records.Proof{}, err
	}

	s.evHandler("state: Register: miner[%s] seed[%s]", caller, proof.Hash)

	return proof, nil
}
