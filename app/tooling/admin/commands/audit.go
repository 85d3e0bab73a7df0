package commands

import (
	"fmt"

	"github.com/ardanlabs/powledger/foundation/blockchain/records"
	"github.com/ardanlabs/powledger/foundation/blockchain/store"
	"github.com/ethereum/go-ethereum/common"
)

// Audit checks that every record decodes and is stored at the address
// derived from its contents. It prints each problem found and returns an
// error when there was at least one.
func Audit(strg store.Store) error {
	counts := make(map[records.Discriminator]int)
	var problems int

	fn := func(addr common.Hash, data []byte) error {
		exp, err := derived(data)
		if err != nil {
			fmt.Printf("Record %s: %s\n", addr, err)
			problems++
			return nil
		}

		if exp != addr {
			fmt.Printf("Record %s: stored away from its derived address %s\n", addr, exp)
			problems++
			return nil
		}

		kind, _ := records.Kind(data)
		counts[kind]++
		return nil
	}

	if err := strg.ForEach(fn); err != nil {
		return err
	}

	fmt.Printf("Treasury: %d  Buses: %d  Proofs: %d  Problems: %d\n",
		counts[records.TreasuryDiscriminator], counts[records.BusDiscriminator], counts[records.ProofDiscriminator], problems)

	root, err := store.Root(strg)
	if err != nil {
		return err
	}
	fmt.Printf("State Root: %s\n", root)

	if problems > 0 {
		return fmt.Errorf("%d records failed the audit", problems)
	}

	return nil
}

// derived decodes the record and returns the address it belongs at.
func derived(data []byte) (common.Hash, error) {
	kind, err := records.Kind(data)
	if err != nil {
		return common.Hash{}, err
	}

	switch kind {
	case records.TreasuryDiscriminator:
		if _, err := records.Decode[records.Treasury](data); err != nil {
			return common.Hash{}, err
		}
		return records.TreasuryAddress(), nil

	case records.BusDiscriminator:
		b, err := records.Decode[records.Bus](data)
		if err != nil {
			return common.Hash{}, err
		}
		return records.BusAddress(b.ID), nil

	case records.ProofDiscriminator:
		p, err := records.Decode[records.Proof](data)
		if err != nil {
			return common.Hash{}, err
		}
		return records.ProofAddress(p.Owner), nil
	}

	return common.Hash{}, fmt.Errorf("%w: unknown kind %d", records.ErrMalformed, kind)
}
