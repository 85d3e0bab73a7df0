package genesis_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ardanlabs/powledger/foundation/blockchain/difficulty"
	"github.com/ardanlabs/powledger/foundation/blockchain/genesis"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func Test_Load(t *testing.T) {
	type table struct {
		name    string
		content string
		valid   bool
	}

	tt := []table{
		{"defaults", `{"admin":"0xFef311483Cc040e1A89fb9bb469eeB8A70935EF8"}`, true},
		{"emission", `{"reward_policy":"emission","target_emission":1000}`, true},
		{"nobuses", `{"bus_count":0}`, false},
		{"underfunded", `{"epoch_emission":8,"reward_rate":2}`, false},
		{"badpolicy", `{"reward_policy":"halving"}`, false},
		{"badjson", `{"bus_count":`, false},
	}

	t.Log("Given the need to load the genesis file.")
	{
		for testID, tst := range tt {
			f := func(t *testing.T) {
				t.Logf("\tTest %d:\tWhen loading the %s genesis.", testID, tst.name)
				{
					path := filepath.Join(t.TempDir(), "genesis.json")
					if err := os.WriteFile(path, []byte(tst.content), 0600); err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould be able to write the file: %v", failed, testID, err)
					}

					gen, err := genesis.Load(path)
					if !tst.valid {
						if err == nil {
							t.Fatalf("\t%s\tTest %d:\tShould reject the genesis.", failed, testID)
						}
						t.Logf("\t%s\tTest %d:\tShould reject the genesis.", success, testID)
						return
					}

					if err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould be able to load the genesis: %v", failed, testID, err)
					}
					t.Logf("\t%s\tTest %d:\tShould be able to load the genesis.", success, testID)

					if gen.BusCount != 8 || gen.BusAllocation() != 250_000_000 {
						t.Fatalf("\t%s\tTest %d:\tShould keep the default bus layout : got %d buses, %d each", failed, testID, gen.BusCount, gen.BusAllocation())
					}
					t.Logf("\t%s\tTest %d:\tShould keep the default bus layout.", success, testID)

					if gen.Difficulty != difficulty.Max() {
						t.Fatalf("\t%s\tTest %d:\tShould default to the easiest difficulty.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould default to the easiest difficulty.", success, testID)
				}
			}

			t.Run(tst.name, f)
		}
	}
}
