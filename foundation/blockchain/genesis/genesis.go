// Package genesis maintains access to the genesis file.
package genesis

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ardanlabs/powledger/foundation/blockchain/difficulty"
	"github.com/ethereum/go-ethereum/common"
)

// Genesis represents the genesis file.
type Genesis struct {
	Date           time.Time      `json:"date"`
	Admin          common.Address `json:"admin"`           // Account allowed to reconfigure the ledger.
	Difficulty     common.Hash    `json:"difficulty"`      // Initial threshold a proof hash must not exceed.
	RewardRate     uint64         `json:"reward_rate"`     // Initial reward paid per accepted proof.
	BusCount       uint64         `json:"bus_count"`       // Number of independent reward budgets.
	EpochDuration  int64          `json:"epoch_duration"`  // Seconds between retargets.
	EpochEmission  uint64         `json:"epoch_emission"`  // Budget spread across all buses each epoch.
	TargetEmission uint64         `json:"target_emission"` // Emission the reward policy steers toward.
	ClampFactor    uint64         `json:"clamp_factor"`    // Max multiplicative difficulty change per epoch.
	Smoothing      uint64         `json:"smoothing"`       // Max multiplicative reward rate change per epoch.
	RewardPolicy   string         `json:"reward_policy"`   // Name of the reward rate policy.
	TreasurySupply uint64         `json:"treasury_supply"` // Tokens held in custody to pay claims.
}

// Default returns a genesis with the values used by the original network.
func Default() Genesis {
	return Genesis{
		Difficulty:     difficulty.Max(),
		RewardRate:     1_000,
		BusCount:       8,
		EpochDuration:  60,
		EpochEmission:  2_000_000_000,
		TargetEmission: 1_000_000_000,
		ClampFactor:    4,
		Smoothing:      2,
		RewardPolicy:   difficulty.PolicyFixed,
		TreasurySupply: 2_000_000_000,
	}
}

// =============================================================================

// Load opens and consumes the genesis file.
func Load(path string) (Genesis, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Genesis{}, err
	}

	genesis := Default()
	if err := json.Unmarshal(content, &genesis); err != nil {
		return Genesis{}, err
	}

	if err := genesis.Validate(); err != nil {
		return Genesis{}, err
	}

	return genesis, nil
}

// Validate checks the genesis values are usable.
func (g Genesis) Validate() error {
	if g.BusCount == 0 {
		return errors.New("bus count must be greater than zero")
	}

	if g.EpochDuration <= 0 {
		return errors.New("epoch duration must be greater than zero")
	}

	if g.RewardRate == 0 {
		return errors.New("reward rate must be greater than zero")
	}

	if g.BusAllocation() < g.RewardRate {
		return fmt.Errorf("bus allocation %d is below the reward rate %d", g.BusAllocation(), g.RewardRate)
	}

	if _, err := g.Policy(); err != nil {
		return err
	}

	return nil
}

// BusAllocation returns the budget each bus is refilled to every epoch.
func (g Genesis) BusAllocation() uint64 {
	if g.BusCount == 0 {
		return 0
	}
	return g.EpochEmission / g.BusCount
}

// Policy constructs the configured reward policy.
func (g Genesis) Policy() (difficulty.RewardPolicy, error) {
	return difficulty.NewRewardPolicy(g.RewardPolicy, g.TargetEmission, g.Smoothing)
}
