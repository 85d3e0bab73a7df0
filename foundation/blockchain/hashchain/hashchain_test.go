package hashchain_test

import (
	"errors"
	"testing"

	"github.com/ardanlabs/powledger/foundation/blockchain/hashchain"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

var (
	minerA        = common.HexToAddress("0xdd6B972ffcc631a62CAE1BB9d80b7ff429c8ebA4")
	minerB        = common.HexToAddress("0xF01813E4B85e178A83e29B8E7bF26BD830a25f32")
	maxDifficulty = common.HexToHash("0xffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff")
)

// =============================================================================

func Test_Next(t *testing.T) {
	prev := hashchain.Seed(minerA)

	t.Log("Given the need to compute the next hash in the chain.")
	{
		t.Logf("\tTest 0:\tWhen hashing the previous hash, signer and nonce.")
		{
			nonce := []byte{0, 0, 0, 0, 0, 0, 0, 9}
			exp := crypto.Keccak256Hash(prev.Bytes(), minerA.Bytes(), nonce)

			if got := hashchain.Next(prev, minerA, 9); got != exp {
				t.Logf("\t%s\tTest 0:\tgot: %s", failed, got)
				t.Logf("\t%s\tTest 0:\texp: %s", failed, exp)
				t.Fatalf("\t%s\tTest 0:\tShould hash the big endian nonce after the signer.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould hash the big endian nonce after the signer.", success)

			if hashchain.Seed(minerA) != crypto.Keccak256Hash(minerA.Bytes()) {
				t.Fatalf("\t%s\tTest 0:\tShould derive the seed from the owner.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould derive the seed from the owner.", success)
		}
	}
}

func Test_Verify(t *testing.T) {
	prev := hashchain.Seed(minerA)
	next := hashchain.Next(prev, minerA, 0)

	tt := []struct {
		name       string
		prev       common.Hash
		signer     common.Address
		nonce      uint64
		claimed    common.Hash
		difficulty common.Hash
		err        error
	}{
		{"accepted", prev, minerA, 0, next, maxDifficulty, nil},
		{"otherminer", prev, minerB, 0, next, maxDifficulty, hashchain.ErrHashMismatch},
		{"othernonce", prev, minerA, 1, next, maxDifficulty, hashchain.ErrHashMismatch},
		{"staleprev", next, minerA, 0, next, maxDifficulty, hashchain.ErrHashMismatch},
		{"toohard", prev, minerA, 0, next, common.Hash{}, hashchain.ErrDifficultyNotMet},
		{"exact", prev, minerA, 0, next, next, nil},
	}

	t.Log("Given the need to verify submitted proofs.")
	{
		for testID, tst := range tt {
			f := func(t *testing.T) {
				t.Logf("\tTest %d:\tWhen checking the %s case.", testID, tst.name)
				{
					err := hashchain.Check(tst.prev, tst.signer, tst.nonce, tst.claimed, tst.difficulty)
					if tst.err == nil {
						if err != nil {
							t.Fatalf("\t%s\tTest %d:\tShould accept the proof : %v", failed, testID, err)
						}
						t.Logf("\t%s\tTest %d:\tShould accept the proof.", success, testID)
						return
					}

					if !errors.Is(err, tst.err) || !errors.Is(err, hashchain.ErrInvalidHash) {
						t.Fatalf("\t%s\tTest %d:\tShould reject the proof with %v : got %v", failed, testID, tst.err, err)
					}
					t.Logf("\t%s\tTest %d:\tShould reject the proof with %v.", success, testID, tst.err)

					if hashchain.Verify(tst.prev, tst.signer, tst.nonce, tst.claimed, tst.difficulty) {
						t.Fatalf("\t%s\tTest %d:\tShould report false from Verify.", failed, testID)
					}
				}
			}

			t.Run(tst.name, f)
		}
	}
}
