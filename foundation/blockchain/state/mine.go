package state

import (
	"fmt"

	"github.com/ardanlabs/powledger/foundation/blockchain/difficulty"
	"github.com/ardanlabs/powledger/foundation/blockchain/hashchain"
	"github.com/ardanlabs/powledger/foundation/blockchain/records"
	"github.com/ardanlabs/powledger/foundation/blockchain/store"
	"github.com/ethereum/go-ethereum/common"
)

// MineResult describes the records after an accepted proof.
type MineResult struct {
	Proof      records.Proof    `json:"proof"`
	Bus        records.Bus      `json:"bus"`
	Treasury   records.Treasury `json:"treasury"`
	Reward     uint64           `json:"reward"`
	Retargeted bool             `json:"retargeted"`
}

// Mine validates a proof submitted by the caller and, if it holds, pays the
// reward rate from the specified bus into the caller's claimable rewards and
// advances the caller's hash chain.
//
// When now is past the end of the current epoch the retarget is performed
// first, as part of the same commit, and the proof is judged against the
// new difficulty. If the proof is rejected nothing is written, including
// the retarget.
func (s *State) Mine(caller common.Address, busID uint64, nextHash common.Hash, nonce uint64, now int64) (MineResult, error) {
	if busID >= s.genesis.BusCount {
		return MineResult{}, fmt.Errorf("%w: %d, bus count %d", ErrInvalidBus, busID, s.genesis.BusCount)
	}

	// Most calls don't cross an epoch boundary and only need a shared hold on
	// the treasury plus the one bus being paid from.
	s.locks.treasury.RLock()
	treasury, err := s.readTreasury()
	if err != nil {
		s.locks.treasury.RUnlock()
		return MineResult{}, err
	}

	if !s.epochElapsed(treasury, now) {
		defer s.locks.treasury.RUnlock()

		s.locks.buses[busID].Lock()
		defer s.locks.buses[busID].Unlock()

		return s.mine(caller, busID, nextHash, nonce, now, false)
	}
	s.locks.treasury.RUnlock()

	// The epoch is over. Take every record the retarget touches. Another
	// caller may have retargeted in between, which mine checks again.
	s.locks.treasury.Lock()
	defer s.locks.treasury.Unlock()

	s.locks.lockBuses()
	defer s.locks.unlockBuses()

	return s.mine(caller, busID, nextHash, nonce, now, true)
}

// mine performs the proof validation and accounting. The caller must hold
// the treasury lock and the lock for busID, or all bus locks and the
// exclusive treasury lock when retarget is allowed.
func (s *State) mine(caller common.Address, busID uint64, nextHash common.Hash, nonce uint64, now int64, canRetarget bool) (MineResult, error) {
	mu := s.locks.proof(caller)
	mu.Lock()
	defer mu.Unlock()

	treasury, err := s.readTreasury()
	if err != nil {
		return MineResult{}, err
	}

	proof, err := s.readProof(caller)
	if err != nil {
		return MineResult{}, err
	}

	var buses []records.Bus
	var epoch difficulty.Epoch
	var retargeted bool
	prev := treasury

	if canRetarget && s.epochElapsed(treasury, now) {
		if buses, err = s.readBuses(); err != nil {
			return MineResult{}, err
		}
		treasury, epoch = s.retarget(treasury, buses, now)
		retargeted = true
	}

	var bus records.Bus
	switch {
	case retargeted:
		bus = buses[busID]
	default:
		if bus, err = s.readBus(busID); err != nil {
			return MineResult{}, err
		}
	}

	if err := hashchain.Check(proof.Hash, caller, nonce, nextHash, treasury.Difficulty); err != nil {
		return MineResult{}, err
	}

	if bus.Rewards < treasury.RewardRate {
		return MineResult{}, fmt.Errorf("%w: bus %d holds %d, reward rate %d", ErrBusInsufficient, busID, bus.Rewards, treasury.RewardRate)
	}

	bus.Rewards -= treasury.RewardRate
	if bus.Rewards < treasury.RewardRate && bus.DrainedAt == 0 {
		bus.DrainedAt = now
	}
	proof.ClaimableRewards += treasury.RewardRate
	proof.Hash = nextHash
	proof.TotalHashes++

	var writes []store.Write
	switch {
	case retargeted:
		buses[busID] = bus
		writes = append(writes, treasuryWrite(treasury))
		for _, b := range buses {
			writes = append(writes, busWrite(b))
		}
	default:
		writes = append(writes, busWrite(bus))
	}
	writes = append(writes, proofWrite(proof))

	if err := s.store.Commit(writes); err != nil {
		return MineResult{}, err
	}

	if retargeted {
		s.evHandler("state: Mine: retarget: elapsed[%d] emitted[%d] difficulty[%s -> %s] rate[%d -> %d]", epoch.Elapsed, epoch.Emitted, prev.Difficulty, treasury.Difficulty, prev.RewardRate, treasury.RewardRate)
	}

	s.evHandler("state: Mine: accepted: miner[%s] bus[%d] reward[%d] hashes[%d]", caller, busID, treasury.RewardRate, proof.TotalHashes)

	result := MineResult{
		Proof:      proof,
		Bus:        bus,
		Treasury:   treasury,
		Reward:     treasury.RewardRate,
		Retargeted: retargeted,
	}

	return result, nil
}

// epochElapsed reports whether now is at or beyond the end of the epoch.
// The boundary second itself belongs to the next epoch, so a call made
// exactly epoch duration seconds after the start retargets.
func (s *State) epochElapsed(treasury records.Treasury, now int64) bool {
	return now-treasury.EpochStartAt >= s.genesis.EpochDuration
}

// retarget computes the treasury for the next epoch and refills the buses
// in place. Unspent rewards from the prior epoch are forfeited.
//
// When every bus ran dry before the boundary the epoch is measured up to
// the moment the last one did, since no proof could be paid after that.
// That is what lets a fast epoch tighten the difficulty.
func (s *State) retarget(treasury records.Treasury, buses []records.Bus, now int64) (records.Treasury, difficulty.Epoch) {
	allocation := s.genesis.BusAllocation()

	var emitted uint64
	for _, bus := range buses {
		if allocation > bus.Rewards {
			emitted += allocation - bus.Rewards
		}
	}

	end := now
	if spent, ok := budgetSpentAt(buses); ok {
		end = spent
	}

	epoch := difficulty.Epoch{
		Elapsed:    max(end-treasury.EpochStartAt, 0),
		Target:     s.genesis.EpochDuration,
		Emitted:    emitted,
		Allocation: allocation,
	}

	treasury.Difficulty = difficulty.Retarget(treasury.Difficulty, epoch.Elapsed, epoch.Target, s.genesis.ClampFactor)
	treasury.RewardRate = s.policy.NextRate(treasury.RewardRate, epoch)
	treasury.EpochStartAt = now

	for i := range buses {
		buses[i].Rewards = allocation
		buses[i].DrainedAt = 0
	}

	return treasury, epoch
}

// budgetSpentAt returns the time the last bus ran dry, if they all did.
func budgetSpentAt(buses []records.Bus) (int64, bool) {
	var last int64
	for _, bus := range buses {
		if bus.DrainedAt == 0 {
			return 0, false
		}
		last = max(last, bus.DrainedAt)
	}

	return last, len(buses) > 0
}
