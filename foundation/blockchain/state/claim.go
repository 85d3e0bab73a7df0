package state

import (
	"errors"
	"fmt"

	"github.com/ardanlabs/powledger/foundation/blockchain/records"
	"github.com/ardanlabs/powledger/foundation/blockchain/store"
	"github.com/ethereum/go-ethereum/common"
)

// Claim pays out the specified amount of the caller's claimable rewards
// through the token ledger and records the amount against the treasury.
func (s *State) Claim(caller common.Address, amount uint64) (records.Proof, error) {
	if s.ledger == nil {
		return records.Proof{}, ErrNoLedger
	}

	s.locks.treasury.Lock()
	defer s.locks.treasury.Unlock()

	mu := s.locks.proof(caller)
	mu.Lock()
	defer mu.Unlock()

	treasury, err := s.readTreasury()
	if err != nil {
		return records.Proof{}, err
	}

	proof, err := s.readProof(caller)
	if err != nil {
		return records.Proof{}, err
	}

	if amount > proof.ClaimableRewards {
		return records.Proof{}, fmt.Errorf("%w: claimable %d, requested %d", ErrInsufficientClaimable, proof.ClaimableRewards, amount)
	}

	origTreasury, origProof := treasury, proof

	proof.ClaimableRewards -= amount
	treasury.TotalClaimedRewards += amount

	if err := s.store.Commit([]store.Write{treasuryWrite(treasury), proofWrite(proof)}); err != nil {
		return records.Proof{}, err
	}

	// The records are still locked, so if the payout fails they can be put
	// back before anyone reads them.
	if err := s.ledger.Payout(caller, amount); err != nil {
		if rerr := s.store.Commit([]store.Write{treasuryWrite(origTreasury), proofWrite(origProof)}); rerr != nil {
			return records.Proof{}, errors.Join(fmt.Errorf("payout: %w", err), fmt.Errorf("restore: %w", rerr))
		}
		return records.Proof{}, fmt.Errorf("payout: %w", err)
	}

	s.evHandler("state: Claim: miner[%s] amount[%d] remaining[%d]", caller, amount, proof.ClaimableRewards)

	return proof, nil
}
