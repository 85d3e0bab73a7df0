package signature_test

import (
	"errors"
	"math/big"
	"testing"

	"github.com/ardanlabs/powledger/foundation/blockchain/signature"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

const (
	pkHexKey = "fae85851bdf5c9f49923722ce38f3c1defcfd3619ef5453230a58ad805499959"
	from     = "0xdd6B972ffcc631a62CAE1BB9d80b7ff429c8ebA4"
)

// =============================================================================

func Test_Signing(t *testing.T) {
	value := struct {
		Bus   uint64 `json:"bus"`
		Nonce uint64 `json:"nonce"`
	}{
		Bus:   3,
		Nonce: 42,
	}

	pk, err := crypto.HexToECDSA(pkHexKey)
	if err != nil {
		t.Fatalf("Should be able to generate a private key: %s", err)
	}

	v, r, s, err := signature.Sign(value, pk)
	if err != nil {
		t.Fatalf("Should be able to sign data: %s", err)
	}

	if err := signature.VerifySignature(v, r, s); err != nil {
		t.Fatalf("Should be able to verify the signature: %s", err)
	}

	addr, err := signature.FromAddress(value, v, r, s)
	if err != nil {
		t.Fatalf("Should be able to generate from address: %s", err)
	}

	if addr != common.HexToAddress(from) {
		t.Logf("got: %s", addr)
		t.Logf("exp: %s", from)
		t.Fatalf("Should get back the right address.")
	}

	str := signature.SignatureString(v, r, s)

	v2, r2, s2, err := signature.ToVRSFromHexSignature(str)
	if err != nil {
		t.Fatalf("Should be able to parse the signature string: %s", err)
	}

	addr, err = signature.FromAddress(value, v2, r2, s2)
	if err != nil {
		t.Fatalf("Should be able to generate from address after parsing: %s", err)
	}

	if addr != common.HexToAddress(from) {
		t.Logf("got: %s", addr)
		t.Logf("exp: %s", from)
		t.Fatalf("Should get back the right address after parsing.")
	}
}

func Test_Tampered(t *testing.T) {
	type mine struct {
		Bus   uint64 `json:"bus"`
		Nonce uint64 `json:"nonce"`
	}

	pk, err := crypto.HexToECDSA(pkHexKey)
	if err != nil {
		t.Fatalf("Should be able to generate a private key: %s", err)
	}

	v, r, s, err := signature.Sign(mine{Bus: 3, Nonce: 42}, pk)
	if err != nil {
		t.Fatalf("Should be able to sign data: %s", err)
	}

	addr, err := signature.FromAddress(mine{Bus: 4, Nonce: 42}, v, r, s)
	if err == nil && addr == common.HexToAddress(from) {
		t.Fatalf("Should not recover the signer for a modified value.")
	}

	if _, _, _, err := signature.ToVRSFromHexSignature("0x1234"); !errors.Is(err, signature.ErrInvalidSignature) {
		t.Fatalf("Should reject a short signature: %v", err)
	}
}

func Test_HighS(t *testing.T) {
	value := struct {
		Action string `json:"action"`
		Amount uint64 `json:"amount"`
	}{
		Action: "claim",
		Amount: 10,
	}

	pk, err := crypto.HexToECDSA(pkHexKey)
	if err != nil {
		t.Fatalf("Should be able to generate a private key: %s", err)
	}

	v, r, s, err := signature.Sign(value, pk)
	if err != nil {
		t.Fatalf("Should be able to sign data: %s", err)
	}

	// N-S with the flipped recovery id recovers the same key.
	highS := new(big.Int).Sub(crypto.S256().Params().N, s)
	flipped := new(big.Int).SetUint64(v.Uint64() ^ 0x03)

	if err := signature.VerifySignature(flipped, r, highS); !errors.Is(err, signature.ErrInvalidSignature) {
		t.Fatalf("Should reject a signature in the upper half of S: %v", err)
	}

	if _, err := signature.FromAddress(value, flipped, r, highS); !errors.Is(err, signature.ErrInvalidSignature) {
		t.Fatalf("Should not recover a signer from the upper half of S: %v", err)
	}
}
