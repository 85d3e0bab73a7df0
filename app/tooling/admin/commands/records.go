// Package commands contains the functionality for the set of commands
// currently supported by the admin tool.
package commands

import (
	"fmt"

	"github.com/ardanlabs/powledger/foundation/blockchain/records"
	"github.com/ardanlabs/powledger/foundation/blockchain/store"
	"github.com/ethereum/go-ethereum/common"
)

// Treasury prints the treasury record.
func Treasury(strg store.Store) error {
	data, err := strg.Get(records.TreasuryAddress())
	if err != nil {
		return err
	}

	t, err := records.Decode[records.Treasury](data)
	if err != nil {
		return err
	}

	fmt.Printf("Admin:          %s\n", t.Admin)
	fmt.Printf("Difficulty:     %s\n", t.Difficulty)
	fmt.Printf("RewardRate:     %d\n", t.RewardRate)
	fmt.Printf("EpochStartAt:   %d\n", t.EpochStartAt)
	fmt.Printf("TotalClaimed:   %d\n", t.TotalClaimedRewards)

	return nil
}

// Buses prints every bus record.
func Buses(strg store.Store) error {
	fn := func(addr common.Hash, data []byte) error {
		kind, err := records.Kind(data)
		if err != nil || kind != records.BusDiscriminator {
			return nil
		}

		b, err := records.Decode[records.Bus](data)
		if err != nil {
			return err
		}

		fmt.Printf("Bus: %d  Rewards: %d  DrainedAt: %d\n", b.ID, b.Rewards, b.DrainedAt)
		return nil
	}

	return strg.ForEach(fn)
}

// Proofs prints every proof record, or only the one for owner when it is
// provided.
func Proofs(owner string, strg store.Store) error {
	if owner != "" {
		if !common.IsHexAddress(owner) {
			return fmt.Errorf("invalid owner %q", owner)
		}

		data, err := strg.Get(records.ProofAddress(common.HexToAddress(owner)))
		if err != nil {
			return err
		}

		p, err := records.Decode[records.Proof](data)
		if err != nil {
			return err
		}

		printProof(p)
		return nil
	}

	fn := func(addr common.Hash, data []byte) error {
		kind, err := records.Kind(data)
		if err != nil || kind != records.ProofDiscriminator {
			return nil
		}

		p, err := records.Decode[records.Proof](data)
		if err != nil {
			return err
		}

		printProof(p)
		return nil
	}

	return strg.ForEach(fn)
}

func printProof(p records.Proof) {
	fmt.Printf("Owner: %s  Hashes: %d  Claimable: %d  Hash: %s\n", p.Owner, p.TotalHashes, p.ClaimableRewards, p.Hash)
}
