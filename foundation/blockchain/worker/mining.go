package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ardanlabs/powledger/foundation/blockchain/hashchain"
	"github.com/ardanlabs/powledger/foundation/blockchain/pow"
	"github.com/ardanlabs/powledger/foundation/blockchain/state"
)

// miningOperations handles mining.
func (w *Worker) miningOperations() {
	w.evHandler("worker: miningOperations: G started")
	defer w.evHandler("worker: miningOperations: G completed")

	for {
		select {
		case <-w.startMining:
			if !w.isShutdown() {
				w.runMiningOperation()
			}
		case <-w.shut:
			w.evHandler("worker: miningOperations: received shut signal")
			return
		}
	}
}

// runMiningOperation mines proofs until the configured rounds are reached,
// the operation is cancelled or the node returns an unexpected error.
func (w *Worker) runMiningOperation() {
	w.evHandler("worker: runMiningOperation: MINING: started")
	defer w.evHandler("worker: runMiningOperation: MINING: completed")

	// Drain the cancel mining channel before starting.
	select {
	case <-w.cancelMining:
		w.evHandler("worker: runMiningOperation: MINING: drained cancel channel")
	default:
	}

	// Create a context so mining can be cancelled.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Can't return from this function until these G's are complete.
	var wg sync.WaitGroup
	wg.Add(2)

	// This G exists to cancel the mining operation.
	go func() {
		defer func() {
			cancel()
			wg.Done()
		}()

		select {
		case <-w.cancelMining:
			w.evHandler("worker: runMiningOperation: MINING: CANCEL: requested")
		case <-w.shut:
		case <-ctx.Done():
		}
	}()

	// This G is performing the mining.
	go func() {
		defer func() {
			cancel()
			wg.Done()
		}()

		for w.cfg.Rounds == 0 || w.Mined() < w.cfg.Rounds {
			if err := w.mineOne(ctx); err != nil {
				if ctx.Err() == nil {
					w.evHandler("worker: runMiningOperation: MINING: ERROR: %s", err)
				}
				return
			}
		}

		w.evHandler("worker: runMiningOperation: MINING: rounds complete: mined[%d]", w.Mined())
		w.finish()
	}()

	wg.Wait()
}

// mineOne finds and submits a single proof. Rejections the worker can
// recover from are absorbed here and another attempt is made.
func (w *Worker) mineOne(ctx context.Context) error {
	treasury, err := w.cfg.Node.Treasury(ctx)
	if err != nil {
		return err
	}

	proof, err := w.cfg.Node.Proof(ctx, w.cfg.Miner)
	if err != nil {
		return err
	}

	nonce, err := pow.RandomNonce()
	if err != nil {
		return err
	}

	sol, err := pow.Search(ctx, proof.Hash, w.cfg.Miner, treasury.Difficulty, nonce, w.cfg.EvHandler)
	if err != nil {
		return err
	}

	// Try every bus once before backing off. A proof that is valid for one
	// bus is valid for all of them.
	for range w.cfg.BusCount {
		bus := w.Bus()

		prf, err := w.cfg.Node.Mine(ctx, bus, sol.Hash, sol.Nonce)
		switch {
		case err == nil:
			w.mined.Add(1)
			w.evHandler("worker: mineOne: MINING: accepted: bus[%d] hashes[%d] claimable[%d]", bus, prf.TotalHashes, prf.ClaimableRewards)
			return nil

		case errors.Is(err, state.ErrBusInsufficient):
			next := (bus + 1) % w.cfg.BusCount
			w.bus.CompareAndSwap(bus, next)
			w.evHandler("worker: mineOne: MINING: bus[%d] exhausted: moving to bus[%d]", bus, next)

		case errors.Is(err, hashchain.ErrInvalidHash):

			// The difficulty tightened at an epoch boundary or the chain
			// was reset. Start over from the node's current records.
			w.evHandler("worker: mineOne: MINING: rejected: %s", err)
			return nil

		default:
			return err
		}
	}

	w.evHandler("worker: mineOne: MINING: every bus exhausted: backoff[%v]", w.cfg.Backoff)

	select {
	case <-time.After(w.cfg.Backoff):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
