package records

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Namespaces used to derive record addresses.
const (
	TreasuryNS = "treasury"
	BusNS      = "bus"
	ProofNS    = "proof"
)

// Derive computes the address of a record from a namespace tag and any
// number of seeds. The same inputs always produce the same address, so
// any caller can locate any record without a lookup table.
func Derive(ns string, seeds ...[]byte) common.Hash {
	data := make([][]byte, 0, len(seeds)+1)
	data = append(data, []byte(ns))
	data = append(data, seeds...)

	return crypto.Keccak256Hash(data...)
}

// TreasuryAddress returns the address of the treasury record.
func TreasuryAddress() common.Hash {
	return Derive(TreasuryNS)
}

// BusAddress returns the address of the bus record with the specified id.
func BusAddress(id uint64) common.Hash {
	var seed [8]byte
	binary.LittleEndian.PutUint64(seed[:], id)

	return Derive(BusNS, seed[:])
}

// ProofAddress returns the address of the proof record owned by the
// specified account.
func ProofAddress(owner common.Address) common.Hash {
	return Derive(ProofNS, owner.Bytes())
}
