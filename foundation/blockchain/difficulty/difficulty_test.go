package difficulty_test

import (
	"testing"

	"github.com/ardanlabs/powledger/foundation/blockchain/difficulty"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func hash(v uint64) common.Hash {
	return common.Hash(uint256.NewInt(v).Bytes32())
}

// =============================================================================

func Test_Retarget(t *testing.T) {
	type table struct {
		name      string
		threshold common.Hash
		elapsed   int64
		target    int64
		clamp     uint64
		exp       common.Hash
	}

	tt := []table{
		{"ontarget", hash(1_000_000), 100, 100, 4, hash(1_000_000)},
		{"twicefast", hash(1_000_000), 50, 100, 4, hash(500_000)},
		{"slower", hash(1_000_000), 150, 100, 4, hash(1_500_000)},
		{"clampfast", hash(1_000_000), 1, 100, 4, hash(250_000)},
		{"clampslow", hash(1_000_000), 10_000, 100, 4, hash(4_000_000)},
		{"instant", hash(1_000_000), 0, 100, 4, hash(250_000)},
		{"floor", hash(1), 1, 100, 4, hash(1)},
		{"saturate", difficulty.Max(), 200, 100, 4, difficulty.Max()},
		{"noclamp", hash(1_000), 10, 100, 0, hash(1_000)},
	}

	t.Log("Given the need to retarget the difficulty at an epoch boundary.")
	{
		for testID, tst := range tt {
			f := func(t *testing.T) {
				t.Logf("\tTest %d:\tWhen the epoch lasted %d of %d seconds.", testID, tst.elapsed, tst.target)
				{
					got := difficulty.Retarget(tst.threshold, tst.elapsed, tst.target, tst.clamp)
					if got != tst.exp {
						t.Logf("\t%s\tTest %d:\tgot: %s", failed, testID, got)
						t.Logf("\t%s\tTest %d:\texp: %s", failed, testID, tst.exp)
						t.Fatalf("\t%s\tTest %d:\tShould compute the next threshold.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould compute the next threshold.", success, testID)
				}
			}

			t.Run(tst.name, f)
		}
	}
}

func Test_RewardPolicy(t *testing.T) {
	emission, err := difficulty.NewRewardPolicy(difficulty.PolicyEmission, 1_000_000, 2)
	if err != nil {
		t.Fatalf("Should be able to construct the emission policy: %s", err)
	}

	fixed, err := difficulty.NewRewardPolicy(difficulty.PolicyFixed, 0, 0)
	if err != nil {
		t.Fatalf("Should be able to construct the fixed policy: %s", err)
	}

	type table struct {
		name   string
		policy difficulty.RewardPolicy
		rate   uint64
		epoch  difficulty.Epoch
		exp    uint64
	}

	tt := []table{
		{"fixed", fixed, 1_000, difficulty.Epoch{Emitted: 5}, 1_000},
		{"ontarget", emission, 1_000, difficulty.Epoch{Emitted: 1_000_000, Allocation: 250_000}, 1_000},
		{"overpaid", emission, 1_000, difficulty.Epoch{Emitted: 1_250_000, Allocation: 250_000}, 800},
		{"underpaid", emission, 1_000, difficulty.Epoch{Emitted: 800_000, Allocation: 250_000}, 1_250},
		{"smoothlow", emission, 1_000, difficulty.Epoch{Emitted: 100_000_000, Allocation: 250_000}, 500},
		{"smoothhigh", emission, 1_000, difficulty.Epoch{Emitted: 1_000, Allocation: 250_000}, 2_000},
		{"nothing", emission, 1_000, difficulty.Epoch{Emitted: 0, Allocation: 250_000}, 1_000},
		{"allocation", emission, 1_000, difficulty.Epoch{Emitted: 1_000, Allocation: 1_500}, 1_500},
		{"minimum", emission, 1, difficulty.Epoch{Emitted: 100_000_000, Allocation: 250_000}, 1},
	}

	t.Log("Given the need to adjust the reward rate at an epoch boundary.")
	{
		for testID, tst := range tt {
			f := func(t *testing.T) {
				t.Logf("\tTest %d:\tWhen %d rewards were emitted at rate %d.", testID, tst.epoch.Emitted, tst.rate)
				{
					got := tst.policy.NextRate(tst.rate, tst.epoch)
					if got != tst.exp {
						t.Fatalf("\t%s\tTest %d:\tShould compute a rate of %d : got %d", failed, testID, tst.exp, got)
					}
					t.Logf("\t%s\tTest %d:\tShould compute a rate of %d.", success, testID, tst.exp)
				}
			}

			t.Run(tst.name, f)
		}
	}

	t.Log("Given the need to reject unknown reward policies.")
	{
		if _, err := difficulty.NewRewardPolicy("halving", 0, 0); err == nil {
			t.Fatalf("\t%s\tShould fail on an unknown policy name.", failed)
		}
		t.Logf("\t%s\tShould fail on an unknown policy name.", success)
	}
}
