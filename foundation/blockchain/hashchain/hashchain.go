// Package hashchain implements the proof of work verification rule. Each
// accepted proof commits to the previous accepted hash and the miner's
// account, so a solution can't be computed ahead of time or replayed by
// a different account.
package hashchain

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Set of errors returned when a proof is rejected. Both specific errors
// wrap ErrInvalidHash.
var (
	ErrInvalidHash      = errors.New("invalid hash")
	ErrHashMismatch     = fmt.Errorf("%w: hash does not match the chain", ErrInvalidHash)
	ErrDifficultyNotMet = fmt.Errorf("%w: hash does not meet the difficulty", ErrInvalidHash)
)

// Next computes the hash that follows prev for the specified signer and nonce.
func Next(prev common.Hash, signer common.Address, nonce uint64) common.Hash {
	var n [8]byte
	binary.BigEndian.PutUint64(n[:], nonce)

	return crypto.Keccak256Hash(prev.Bytes(), signer.Bytes(), n[:])
}

// Seed returns the initial commitment for a new proof. Deriving it from the
// owner keeps a miner from choosing an advantageous starting point.
func Seed(owner common.Address) common.Hash {
	return crypto.Keccak256Hash(owner.Bytes())
}

// IsSolved reports whether the hash is at or below the difficulty threshold
// when both are read as big endian unsigned integers.
func IsSolved(hash common.Hash, difficulty common.Hash) bool {
	return bytes.Compare(hash.Bytes(), difficulty.Bytes()) <= 0
}

// Verify reports whether claimed is the correct next hash in the chain and
// satisfies the difficulty.
func Verify(prev common.Hash, signer common.Address, nonce uint64, claimed common.Hash, difficulty common.Hash) bool {
	return Check(prev, signer, nonce, claimed, difficulty) == nil
}

// Check performs the same validation as Verify but reports which rule
// rejected the proof.
func Check(prev common.Hash, signer common.Address, nonce uint64, claimed common.Hash, difficulty common.Hash) error {
	expected := Next(prev, signer, nonce)

	if claimed != expected {
		return fmt.Errorf("%w: got %s, exp %s", ErrHashMismatch, claimed, expected)
	}

	if !IsSolved(expected, difficulty) {
		return fmt.Errorf("%w: hash %s, difficulty %s", ErrDifficultyNotMet, expected, difficulty)
	}

	return nil
}
