// Package difficulty computes the next difficulty threshold and reward rate
// at an epoch boundary. Everything here is a pure function of the values
// observed for the epoch that just ended.
package difficulty

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Max returns the easiest possible threshold, every hash is accepted.
func Max() common.Hash {
	all := new(uint256.Int).Not(new(uint256.Int))
	return common.Hash(all.Bytes32())
}

// Retarget scales the threshold by elapsed/target. When proofs arrived faster
// than the target the threshold is lowered, making the puzzle harder, and
// when they arrived slower it is raised. The ratio is clamped to
// [1/clamp, clamp] so a single anomalous epoch can't swing the difficulty
// by more than the clamp factor. The result saturates at Max and is never
// lower than 1.
func Retarget(threshold common.Hash, elapsed int64, target int64, clamp uint64) common.Hash {
	if target <= 0 {
		return threshold
	}
	if elapsed < 0 {
		elapsed = 0
	}
	if clamp < 1 {
		clamp = 1
	}

	cur := new(uint256.Int).SetBytes32(threshold.Bytes())
	el := uint256.NewInt(uint64(elapsed))
	tg := uint256.NewInt(uint64(target))
	cf := uint256.NewInt(clamp)

	var next *uint256.Int
	var overflow bool

	switch {

	// Faster than target by more than the clamp allows.
	case new(uint256.Int).Mul(el, cf).Lt(tg):
		next = new(uint256.Int).Div(cur, cf)

	// Slower than target by more than the clamp allows.
	case el.Gt(new(uint256.Int).Mul(tg, cf)):
		next, overflow = new(uint256.Int).MulOverflow(cur, cf)

	default:
		next, overflow = new(uint256.Int).MulDivOverflow(cur, el, tg)
	}

	if overflow {
		return Max()
	}

	if next.IsZero() {
		next.SetOne()
	}

	return common.Hash(next.Bytes32())
}
