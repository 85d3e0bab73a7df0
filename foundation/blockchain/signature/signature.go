// Package signature provides helper functions for signing and verifying the
// requests submitted to the mining ledger.
package signature

import (
	"crypto/ecdsa"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// ledgerID is an arbitrary number added to the recovery id so signatures
// produced for the ledger can't be mistaken for Ethereum signatures, which
// use 27.
const ledgerID = 29

// ErrInvalidSignature is returned when a signature can't be parsed or does
// not recover to a public key.
var ErrInvalidSignature = errors.New("invalid signature")

// =============================================================================

// Sign uses the specified private key to sign the value.
func Sign(value any, privateKey *ecdsa.PrivateKey) (v, r, s *big.Int, err error) {
	data, err := stamp(value)
	if err != nil {
		return nil, nil, nil, err
	}

	sig, err := crypto.Sign(data, privateKey)
	if err != nil {
		return nil, nil, nil, err
	}

	// Check the public key extracted from the data and signature.
	publicKey, err := crypto.SigToPub(data, sig)
	if err != nil {
		return nil, nil, nil, err
	}

	rs := sig[:crypto.RecoveryIDOffset]
	if !crypto.VerifySignature(crypto.FromECDSAPub(publicKey), data, rs) {
		return nil, nil, nil, ErrInvalidSignature
	}

	v, r, s = toSignatureValues(sig)

	return v, r, s, nil
}

// SignString signs the value and returns the signature in its hex form.
func SignString(value any, privateKey *ecdsa.PrivateKey) (string, error) {
	v, r, s, err := Sign(value, privateKey)
	if err != nil {
		return "", err
	}

	return SignatureString(v, r, s), nil
}

// VerifySignature verifies the signature values are in range. Only the
// lower half of the S range is accepted, so a signature has one valid form.
func VerifySignature(v, r, s *big.Int) error {
	if v == nil || r == nil || s == nil {
		return ErrInvalidSignature
	}

	uintV := v.Uint64() - ledgerID
	if uintV != 0 && uintV != 1 {
		return fmt.Errorf("%w: recovery id", ErrInvalidSignature)
	}

	if !crypto.ValidateSignatureValues(byte(uintV), r, s, true) {
		return fmt.Errorf("%w: signature values", ErrInvalidSignature)
	}

	return nil
}

// FromAddress extracts the address of the account that signed the value.
// If the value is not byte for byte what was signed, a different address
// is returned.
func FromAddress(value any, v, r, s *big.Int) (common.Address, error) {
	if err := VerifySignature(v, r, s); err != nil {
		return common.Address{}, err
	}

	data, err := stamp(value)
	if err != nil {
		return common.Address{}, err
	}

	publicKey, err := crypto.SigToPub(data, ToSignatureBytes(v, r, s))
	if err != nil {
		return common.Address{}, fmt.Errorf("%w: %w", ErrInvalidSignature, err)
	}

	return crypto.PubkeyToAddress(*publicKey), nil
}

// SignatureString returns the signature as a hex string.
func SignatureString(v, r, s *big.Int) string {
	return hexutil.Encode(ToSignatureBytesWithLedgerID(v, r, s))
}

// ToVRSFromHexSignature converts a hex representation of the signature into
// its R, S and V parts.
func ToVRSFromHexSignature(sigStr string) (v, r, s *big.Int, err error) {
	sig, err := hexutil.Decode(sigStr)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%w: %w", ErrInvalidSignature, err)
	}

	if len(sig) != crypto.SignatureLength {
		return nil, nil, nil, fmt.Errorf("%w: length %d", ErrInvalidSignature, len(sig))
	}

	r = new(big.Int).SetBytes(sig[:32])
	s = new(big.Int).SetBytes(sig[32:64])
	v = new(big.Int).SetBytes([]byte{sig[64]})

	return v, r, s, nil
}

// =============================================================================

// stamp returns a 32 byte hash of the value with the ledger stamp embedded
// so signatures produced here are unique to the mining ledger.
func stamp(value any) ([]byte, error) {
	v, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}

	stamp := []byte("\x19Ledger Signed Message:\n32")

	return crypto.Keccak256(stamp, crypto.Keccak256(v)), nil
}

// toSignatureValues converts the signature into the r, s, v values.
func toSignatureValues(sig []byte) (v, r, s *big.Int) {
	r = new(big.Int).SetBytes(sig[:32])
	s = new(big.Int).SetBytes(sig[32:64])
	v = new(big.Int).SetBytes([]byte{sig[64] + ledgerID})

	return v, r, s
}

// ToSignatureBytes converts the r, s, v values into a slice of bytes
// with the removal of the ledgerID.
func ToSignatureBytes(v, r, s *big.Int) []byte {
	sig := make([]byte, crypto.SignatureLength)

	r.FillBytes(sig[:32])
	s.FillBytes(sig[32:64])
	sig[64] = byte(v.Uint64() - ledgerID)

	return sig
}

// ToSignatureBytesWithLedgerID converts the r, s, v values into a slice of
// bytes keeping the ledger id.
func ToSignatureBytesWithLedgerID(v, r, s *big.Int) []byte {
	sig := ToSignatureBytes(v, r, s)
	sig[64] = byte(v.Uint64())

	return sig
}
