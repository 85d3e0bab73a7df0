package difficulty

import (
	"fmt"

	"github.com/holiman/uint256"
)

// Set of reward policy names accepted by NewRewardPolicy.
const (
	PolicyFixed    = "fixed"
	PolicyEmission = "emission"
)

// Epoch holds the statistics of the epoch that just ended. Only epoch-wide
// values are provided, nothing about individual miners.
type Epoch struct {
	Elapsed    int64  // Seconds the epoch actually lasted.
	Target     int64  // Seconds the epoch was meant to last.
	Emitted    uint64 // Rewards paid out across all buses.
	Allocation uint64 // Budget each bus is refilled to.
}

// RewardPolicy decides the reward rate for the next epoch.
type RewardPolicy interface {
	NextRate(rate uint64, epoch Epoch) uint64
}

// NewRewardPolicy constructs the named policy. The target and smoothing
// values are only used by the emission policy.
func NewRewardPolicy(name string, targetEmission uint64, smoothing uint64) (RewardPolicy, error) {
	switch name {
	case PolicyFixed, "":
		return Fixed{}, nil

	case PolicyEmission:
		if targetEmission == 0 {
			return nil, fmt.Errorf("emission policy requires a target emission")
		}
		if smoothing < 1 {
			smoothing = 1
		}
		return Emission{TargetEmission: targetEmission, Smoothing: smoothing}, nil
	}

	return nil, fmt.Errorf("unknown reward policy %q", name)
}

// =============================================================================

// Fixed keeps the reward rate constant.
type Fixed struct{}

// NextRate implements the RewardPolicy interface.
func (Fixed) NextRate(rate uint64, epoch Epoch) uint64 {
	return rate
}

// =============================================================================

// Emission steers the rate so the rewards paid out in an epoch move toward
// TargetEmission. The rate can't change by more than the Smoothing factor in
// one epoch and stays within [1, Allocation].
type Emission struct {
	TargetEmission uint64
	Smoothing      uint64
}

// NextRate implements the RewardPolicy interface.
func (e Emission) NextRate(rate uint64, epoch Epoch) uint64 {
	if epoch.Emitted == 0 {
		return rate
	}

	smoothing := e.Smoothing
	if smoothing < 1 {
		smoothing = 1
	}

	next, overflow := new(uint256.Int).MulDivOverflow(
		uint256.NewInt(rate),
		uint256.NewInt(e.TargetEmission),
		uint256.NewInt(epoch.Emitted),
	)

	// Anything beyond 64 bits is above the smoothing ceiling anyway.
	r := next.Uint64()
	if overflow || !next.IsUint64() {
		r = ^uint64(0)
	}

	low := rate / smoothing
	high := rate * smoothing
	if high/smoothing != rate {
		high = ^uint64(0)
	}

	r = max(r, low)
	r = min(r, high)
	r = max(r, 1)
	if epoch.Allocation > 0 {
		r = min(r, epoch.Allocation)
	}

	return r
}
