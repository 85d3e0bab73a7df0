package auth_test

import (
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/ardanlabs/powledger/business/web/auth"
	"github.com/ardanlabs/powledger/foundation/blockchain/signature"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

const (
	pkHexKey = "fae85851bdf5c9f49923722ce38f3c1defcfd3619ef5453230a58ad805499959"
	from     = "0xdd6B972ffcc631a62CAE1BB9d80b7ff429c8ebA4"
)

type mine struct {
	Bus   uint64 `json:"bus"`
	Nonce uint64 `json:"nonce" validate:"required"`
}

func Test_Envelope(t *testing.T) {
	pk, err := crypto.HexToECDSA(pkHexKey)
	if err != nil {
		t.Fatalf("Should be able to generate a private key: %s", err)
	}

	sign := func(value any) (string, error) {
		return signature.SignString(value, pk)
	}

	a := auth.New(30 * time.Second)
	now := time.Now().Unix()

	t.Log("Given the need to verify signed envelopes.")
	{
		t.Logf("\tTest 0:\tWhen handling a fresh envelope.")
		{
			env, err := auth.Seal(mine{Bus: 2, Nonce: 7}, now, sign)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to seal the payload: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to seal the payload.", success)

			claims, err := a.Verify(env)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to verify the envelope: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to verify the envelope.", success)

			if claims.Signer != common.HexToAddress(from) {
				t.Fatalf("\t%s\tTest 0:\tShould recover the signer : got %s", failed, claims.Signer)
			}
			t.Logf("\t%s\tTest 0:\tShould recover the signer.", success)

			var m mine
			if err := claims.Decode(&m); err != nil || m.Bus != 2 || m.Nonce != 7 {
				t.Fatalf("\t%s\tTest 0:\tShould decode the payload : got %+v, %v", failed, m, err)
			}
			t.Logf("\t%s\tTest 0:\tShould decode the payload.", success)

			if _, err := a.Verify(env); !errors.Is(err, auth.ErrReplayed) {
				t.Fatalf("\t%s\tTest 0:\tShould reject the replayed envelope : got %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould reject the replayed envelope.", success)
		}

		t.Logf("\tTest 1:\tWhen handling a stale envelope.")
		{
			env, err := auth.Seal(mine{Bus: 2, Nonce: 8}, now-120, sign)
			if err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to seal the payload: %v", failed, err)
			}

			if _, err := a.Verify(env); !errors.Is(err, auth.ErrStale) {
				t.Fatalf("\t%s\tTest 1:\tShould reject the stale envelope : got %v", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould reject the stale envelope.", success)
		}

		t.Logf("\tTest 2:\tWhen the payload is modified after signing.")
		{
			env, err := auth.Seal(mine{Bus: 2, Nonce: 9}, now, sign)
			if err != nil {
				t.Fatalf("\t%s\tTest 2:\tShould be able to seal the payload: %v", failed, err)
			}
			env.Payload = []byte(`{"bus":5,"nonce":9}`)

			claims, err := a.Verify(env)
			if err == nil && claims.Signer == common.HexToAddress(from) {
				t.Fatalf("\t%s\tTest 2:\tShould not attribute the modified payload to the signer.", failed)
			}
			t.Logf("\t%s\tTest 2:\tShould not attribute the modified payload to the signer.", success)
		}

		t.Logf("\tTest 3:\tWhen an accepted envelope is resent with the other form of its signature.")
		{
			env, err := auth.Seal(mine{Bus: 4, Nonce: 10}, now, sign)
			if err != nil {
				t.Fatalf("\t%s\tTest 3:\tShould be able to seal the payload: %v", failed, err)
			}

			if _, err := a.Verify(env); err != nil {
				t.Fatalf("\t%s\tTest 3:\tShould be able to verify the envelope: %v", failed, err)
			}
			t.Logf("\t%s\tTest 3:\tShould be able to verify the envelope.", success)

			env.Signature = flipS(t, env.Signature)

			if _, err := a.Verify(env); err == nil {
				t.Fatalf("\t%s\tTest 3:\tShould reject the resent envelope.", failed)
			}
			t.Logf("\t%s\tTest 3:\tShould reject the resent envelope.", success)
		}
	}
}

// flipS returns the signature with S replaced by N-S and the recovery id
// flipped, which recovers the same public key.
func flipS(t *testing.T, sig string) string {
	b, err := hexutil.Decode(sig)
	if err != nil {
		t.Fatalf("Should be able to decode the signature: %v", err)
	}

	s := new(big.Int).SetBytes(b[32:64])
	s.Sub(crypto.S256().Params().N, s)
	s.FillBytes(b[32:64])
	b[64] ^= 0x03

	return hexutil.Encode(b)
}
