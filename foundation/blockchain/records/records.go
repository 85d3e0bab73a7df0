// Package records defines the three kinds of state records maintained by the
// mining ledger along with their fixed width binary encodings. Every encoded
// record starts with a discriminator so a generic decode can reject bytes
// that belong to a different kind of record before reading any fields.
package records

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// ErrMalformed is returned when stored bytes do not match the layout of the
// record being decoded. This indicates corruption or a version mismatch.
var ErrMalformed = errors.New("malformed record")

// Discriminator identifies the kind of record held by a set of bytes.
type Discriminator uint64

// Set of known record kinds.
const (
	BusDiscriminator      Discriminator = 100
	ProofDiscriminator    Discriminator = 101
	TreasuryDiscriminator Discriminator = 102
)

// String implements the fmt.Stringer interface.
func (d Discriminator) String() string {
	switch d {
	case BusDiscriminator:
		return "bus"
	case ProofDiscriminator:
		return "proof"
	case TreasuryDiscriminator:
		return "treasury"
	}
	return fmt.Sprintf("unknown(%d)", uint64(d))
}

// discriminatorSize is the number of bytes used to store the discriminator.
const discriminatorSize = 8

// Record represents the behavior every kind of state record implements.
type Record interface {
	Discriminator() Discriminator
	size() int
	encode(b []byte)
}

// =============================================================================

// Treasury holds the global mining parameters. There is exactly one.
type Treasury struct {
	Admin               common.Address `json:"admin"`
	Difficulty          common.Hash    `json:"difficulty"`
	RewardRate          uint64         `json:"reward_rate"`
	EpochStartAt        int64          `json:"epoch_start_at"`
	TotalClaimedRewards uint64         `json:"total_claimed_rewards"`
}

// Discriminator implements the Record interface.
func (Treasury) Discriminator() Discriminator { return TreasuryDiscriminator }

func (Treasury) size() int { return discriminatorSize + 20 + 32 + 8 + 8 + 8 }

func (t Treasury) encode(b []byte) {
	copy(b[8:28], t.Admin.Bytes())
	copy(b[28:60], t.Difficulty.Bytes())
	binary.LittleEndian.PutUint64(b[60:68], t.RewardRate)
	binary.LittleEndian.PutUint64(b[68:76], uint64(t.EpochStartAt))
	binary.LittleEndian.PutUint64(b[76:84], t.TotalClaimedRewards)
}

func (t *Treasury) decode(b []byte) {
	t.Admin = common.BytesToAddress(b[8:28])
	t.Difficulty = common.BytesToHash(b[28:60])
	t.RewardRate = binary.LittleEndian.Uint64(b[60:68])
	t.EpochStartAt = int64(binary.LittleEndian.Uint64(b[68:76]))
	t.TotalClaimedRewards = binary.LittleEndian.Uint64(b[76:84])
}

// =============================================================================

// Bus is one of the independent reward budgets proofs are paid from.
// DrainedAt is the time the bus stopped being able to pay the reward rate
// in the current epoch, zero while it still can.
type Bus struct {
	ID        uint64 `json:"id"`
	Rewards   uint64 `json:"rewards"`
	DrainedAt int64  `json:"drained_at"`
}

// Discriminator implements the Record interface.
func (Bus) Discriminator() Discriminator { return BusDiscriminator }

func (Bus) size() int { return discriminatorSize + 8 + 8 + 8 }

func (bus Bus) encode(b []byte) {
	binary.LittleEndian.PutUint64(b[8:16], bus.ID)
	binary.LittleEndian.PutUint64(b[16:24], bus.Rewards)
	binary.LittleEndian.PutUint64(b[24:32], uint64(bus.DrainedAt))
}

func (bus *Bus) decode(b []byte) {
	bus.ID = binary.LittleEndian.Uint64(b[8:16])
	bus.Rewards = binary.LittleEndian.Uint64(b[16:24])
	bus.DrainedAt = int64(binary.LittleEndian.Uint64(b[24:32]))
}

// =============================================================================

// Proof tracks the hash chain commitment and earned rewards of one miner.
type Proof struct {
	Owner            common.Address `json:"owner"`
	Hash             common.Hash    `json:"hash"`
	ClaimableRewards uint64         `json:"claimable_rewards"`
	TotalHashes      uint64         `json:"total_hashes"`
}

// Discriminator implements the Record interface.
func (Proof) Discriminator() Discriminator { return ProofDiscriminator }

func (Proof) size() int { return discriminatorSize + 20 + 32 + 8 + 8 }

func (p Proof) encode(b []byte) {
	copy(b[8:28], p.Owner.Bytes())
	copy(b[28:60], p.Hash.Bytes())
	binary.LittleEndian.PutUint64(b[60:68], p.ClaimableRewards)
	binary.LittleEndian.PutUint64(b[68:76], p.TotalHashes)
}

func (p *Proof) decode(b []byte) {
	p.Owner = common.BytesToAddress(b[8:28])
	p.Hash = common.BytesToHash(b[28:60])
	p.ClaimableRewards = binary.LittleEndian.Uint64(b[60:68])
	p.TotalHashes = binary.LittleEndian.Uint64(b[68:76])
}

// =============================================================================

// Encode returns the binary form of the record prefixed with its discriminator.
func Encode(r Record) []byte {
	b := make([]byte, r.size())
	binary.LittleEndian.PutUint64(b[:discriminatorSize], uint64(r.Discriminator()))
	r.encode(b)

	return b
}

// Decode converts the specified bytes into a record of type T. The bytes
// must carry the discriminator for T and be exactly the size of T.
func Decode[T any, PT interface {
	*T
	Record
	decode(b []byte)
}](data []byte) (T, error) {
	var rec T
	p := PT(&rec)

	if len(data) != p.size() {
		return rec, fmt.Errorf("%w: %s: length %d, exp %d", ErrMalformed, p.Discriminator(), len(data), p.size())
	}

	kind, err := Kind(data)
	if err != nil {
		return rec, err
	}

	if kind != p.Discriminator() {
		return rec, fmt.Errorf("%w: got %s, exp %s", ErrMalformed, kind, p.Discriminator())
	}

	p.decode(data)

	return rec, nil
}

// Kind reads the discriminator from the specified bytes.
func Kind(data []byte) (Discriminator, error) {
	if len(data) < discriminatorSize {
		return 0, fmt.Errorf("%w: missing discriminator", ErrMalformed)
	}

	return Discriminator(binary.LittleEndian.Uint64(data[:discriminatorSize])), nil
}
