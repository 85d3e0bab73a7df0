// Package pow implements the search a miner runs to find a nonce that
// extends its hash chain under the current difficulty.
package pow

import (
	"context"
	"crypto/rand"
	"math"
	"math/big"

	"github.com/ardanlabs/powledger/foundation/blockchain/hashchain"
	"github.com/ethereum/go-ethereum/common"
)

// Solution is a nonce and the hash it produces.
type Solution struct {
	Hash     common.Hash
	Nonce    uint64
	Attempts uint64
}

// RandomNonce chooses a random starting point for a search so miners
// sharing an account don't repeat each other's work.
func RandomNonce() (uint64, error) {
	nBig, err := rand.Int(rand.Reader, big.NewInt(math.MaxInt64))
	if err != nil {
		return 0, err
	}
	return nBig.Uint64(), nil
}

// Search increments the nonce from start until the next hash after prev
// satisfies the difficulty or the context is cancelled.
func Search(ctx context.Context, prev common.Hash, signer common.Address, difficulty common.Hash, start uint64, ev func(v string, args ...any)) (Solution, error) {
	if ev == nil {
		ev = func(string, ...any) {}
	}

	ev("pow: Search: MINING: started: prev[%s] nonce[%d]", prev, start)
	defer ev("pow: Search: MINING: completed")

	nonce := start
	var attempts uint64
	for {
		attempts++
		if attempts%1_000_000 == 0 {
			ev("pow: Search: MINING: attempts[%d]", attempts)
		}

		// Checking the context on every hash is measurable overhead.
		if attempts%1_024 == 1 && ctx.Err() != nil {
			ev("pow: Search: MINING: CANCELLED")
			return Solution{}, ctx.Err()
		}

		hash := hashchain.Next(prev, signer, nonce)
		if !hashchain.IsSolved(hash, difficulty) {
			nonce++
			continue
		}

		ev("pow: Search: MINING: SOLVED: prev[%s]: next[%s]: attempts[%d]", prev, hash, attempts)

		return Solution{Hash: hash, Nonce: nonce, Attempts: attempts}, nil
	}
}
