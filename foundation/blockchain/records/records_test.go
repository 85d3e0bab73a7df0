package records_test

import (
	"errors"
	"testing"

	"github.com/ardanlabs/powledger/foundation/blockchain/records"
	"github.com/ethereum/go-ethereum/common"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

// =============================================================================

func Test_Encoding(t *testing.T) {
	treasury := records.Treasury{
		Admin:               common.HexToAddress("0xdd6B972ffcc631a62CAE1BB9d80b7ff429c8ebA4"),
		Difficulty:          common.HexToHash("0x00000fffffffffffffffffffffffffffffffffffffffffffffffffffffffffff"),
		RewardRate:          1_000,
		EpochStartAt:        1_700_000_000,
		TotalClaimedRewards: 55,
	}
	bus := records.Bus{ID: 7, Rewards: 250_000_000, DrainedAt: 1_700_000_060}
	proof := records.Proof{
		Owner:            common.HexToAddress("0xF01813E4B85e178A83e29B8E7bF26BD830a25f32"),
		Hash:             common.HexToHash("0x1234"),
		ClaimableRewards: 3_000,
		TotalHashes:      3,
	}

	t.Log("Given the need to store records in a fixed binary layout.")
	{
		t.Logf("\tTest 0:\tWhen handling a treasury record.")
		{
			data := records.Encode(treasury)
			if len(data) != 84 {
				t.Fatalf("\t%s\tTest 0:\tShould encode to 84 bytes : got %d", failed, len(data))
			}
			t.Logf("\t%s\tTest 0:\tShould encode to 84 bytes.", success)

			got, err := records.Decode[records.Treasury](data)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to decode the record: %v", failed, err)
			}
			if got != treasury {
				t.Logf("\t%s\tTest 0:\tgot: %+v", failed, got)
				t.Logf("\t%s\tTest 0:\texp: %+v", failed, treasury)
				t.Fatalf("\t%s\tTest 0:\tShould get back the same treasury.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould get back the same treasury.", success)
		}

		t.Logf("\tTest 1:\tWhen handling a bus record.")
		{
			data := records.Encode(bus)
			if len(data) != 32 {
				t.Fatalf("\t%s\tTest 1:\tShould encode to 32 bytes : got %d", failed, len(data))
			}

			got, err := records.Decode[records.Bus](data)
			if err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to decode the record: %v", failed, err)
			}
			if got != bus {
				t.Fatalf("\t%s\tTest 1:\tShould get back the same bus : got %+v", failed, got)
			}
			t.Logf("\t%s\tTest 1:\tShould get back the same bus.", success)
		}

		t.Logf("\tTest 2:\tWhen handling a proof record.")
		{
			data := records.Encode(proof)
			if len(data) != 76 {
				t.Fatalf("\t%s\tTest 2:\tShould encode to 76 bytes : got %d", failed, len(data))
			}

			kind, err := records.Kind(data)
			if err != nil || kind != records.ProofDiscriminator {
				t.Fatalf("\t%s\tTest 2:\tShould carry the proof discriminator : got %s, %v", failed, kind, err)
			}
			t.Logf("\t%s\tTest 2:\tShould carry the proof discriminator.", success)

			got, err := records.Decode[records.Proof](data)
			if err != nil {
				t.Fatalf("\t%s\tTest 2:\tShould be able to decode the record: %v", failed, err)
			}
			if got != proof {
				t.Fatalf("\t%s\tTest 2:\tShould get back the same proof : got %+v", failed, got)
			}
			t.Logf("\t%s\tTest 2:\tShould get back the same proof.", success)
		}
	}
}

func Test_Malformed(t *testing.T) {
	proof := records.Encode(records.Proof{TotalHashes: 1})

	// A treasury sized buffer carrying the proof discriminator.
	mistyped := make([]byte, len(records.Encode(records.Treasury{})))
	copy(mistyped, proof[:8])

	tt := []struct {
		name string
		fn   func() error
	}{
		{"empty", func() error { _, err := records.Decode[records.Bus](nil); return err }},
		{"short", func() error { _, err := records.Decode[records.Proof](proof[:40]); return err }},
		{"wrongkind", func() error { _, err := records.Decode[records.Treasury](mistyped); return err }},
		{"wrongsize", func() error { _, err := records.Decode[records.Bus](proof); return err }},
	}

	t.Log("Given the need to reject malformed or mistyped records.")
	{
		for testID, tst := range tt {
			f := func(t *testing.T) {
				t.Logf("\tTest %d:\tWhen decoding %s data.", testID, tst.name)
				{
					err := tst.fn()
					if !errors.Is(err, records.ErrMalformed) {
						t.Fatalf("\t%s\tTest %d:\tShould fail with ErrMalformed : got %v", failed, testID, err)
					}
					t.Logf("\t%s\tTest %d:\tShould fail with ErrMalformed.", success, testID)
				}
			}

			t.Run(tst.name, f)
		}
	}
}

func Test_Derive(t *testing.T) {
	a := common.HexToAddress("0xdd6B972ffcc631a62CAE1BB9d80b7ff429c8ebA4")
	b := common.HexToAddress("0xF01813E4B85e178A83e29B8E7bF26BD830a25f32")

	t.Log("Given the need to derive record addresses without a lookup table.")
	{
		t.Logf("\tTest 0:\tWhen deriving proof and bus addresses.")
		{
			if records.ProofAddress(a) != records.ProofAddress(a) {
				t.Fatalf("\t%s\tTest 0:\tShould derive the same address for the same owner.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould derive the same address for the same owner.", success)

			if records.ProofAddress(a) == records.ProofAddress(b) {
				t.Fatalf("\t%s\tTest 0:\tShould derive different addresses for different owners.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould derive different addresses for different owners.", success)

			if records.BusAddress(0) == records.BusAddress(1) || records.BusAddress(0) == records.TreasuryAddress() {
				t.Fatalf("\t%s\tTest 0:\tShould derive distinct bus and treasury addresses.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould derive distinct bus and treasury addresses.", success)

			if records.Derive(records.ProofNS, a.Bytes()) != records.ProofAddress(a) {
				t.Fatalf("\t%s\tTest 0:\tShould match the generic derivation.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould match the generic derivation.", success)
		}
	}
}
