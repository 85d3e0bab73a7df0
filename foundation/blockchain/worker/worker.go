// Package worker implements the mining workflow a miner runs against a
// ledger node: search for the next hash, submit it and move between buses
// when one runs dry.
package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ardanlabs/powledger/foundation/blockchain/records"
	"github.com/ethereum/go-ethereum/common"
)

// Node represents the behavior the worker needs from a ledger node.
type Node interface {
	Treasury(ctx context.Context) (records.Treasury, error)
	Proof(ctx context.Context, owner common.Address) (records.Proof, error)
	Mine(ctx context.Context, bus uint64, hash common.Hash, nonce uint64) (records.Proof, error)
}

// EventHandler defines a function that is called when events
// occur in the processing of the mining workflow.
type EventHandler func(v string, args ...any)

// Config represents the configuration required to start the worker.
type Config struct {
	Miner     common.Address
	Node      Node
	BusCount  uint64
	Bus       uint64
	Rounds    uint64
	Backoff   time.Duration
	Status    time.Duration
	EvHandler EventHandler
}

// =============================================================================

// Worker manages the mining workflow for one miner.
type Worker struct {
	cfg          Config
	wg           sync.WaitGroup
	ticker       *time.Ticker
	shut         chan struct{}
	startMining  chan bool
	cancelMining chan bool
	done         chan struct{}
	doneOnce     sync.Once
	evHandler    EventHandler

	bus   atomic.Uint64
	mined atomic.Uint64
}

// Run creates a worker and starts up all the background processes. Mining
// starts when SignalStartMining is called. A Rounds value of zero mines
// until the worker is shut down.
func Run(cfg Config) *Worker {
	if cfg.BusCount == 0 {
		cfg.BusCount = 1
	}
	if cfg.Backoff == 0 {
		cfg.Backoff = time.Second
	}
	if cfg.Status == 0 {
		cfg.Status = 10 * time.Second
	}

	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	w := Worker{
		cfg:          cfg,
		ticker:       time.NewTicker(cfg.Status),
		shut:         make(chan struct{}),
		startMining:  make(chan bool, 1),
		cancelMining: make(chan bool, 1),
		done:         make(chan struct{}),
		evHandler:    ev,
	}
	w.bus.Store(cfg.Bus % cfg.BusCount)

	// Load the set of operations we need to run.
	operations := []func(){
		w.miningOperations,
		w.statusOperations,
	}

	// Set waitgroup to match the number of G's we need for the set
	// of operations we have.
	g := len(operations)
	w.wg.Add(g)

	// We don't want to return until we know all the G's are up and running.
	hasStarted := make(chan bool)

	for _, op := range operations {
		go func(op func()) {
			defer w.wg.Done()
			hasStarted <- true
			op()
		}(op)
	}

	for range g {
		<-hasStarted
	}

	return &w
}

// Shutdown terminates the goroutines performing work.
func (w *Worker) Shutdown() {
	w.evHandler("worker: shutdown: started")
	defer w.evHandler("worker: shutdown: completed")

	w.evHandler("worker: shutdown: stop ticker")
	w.ticker.Stop()

	w.evHandler("worker: shutdown: signal cancel mining")
	w.SignalCancelMining()

	w.evHandler("worker: shutdown: terminate goroutines")
	close(w.shut)
	w.wg.Wait()

	w.finish()
}

// SignalStartMining starts a mining operation. If there is already a signal
// pending in the channel, just return since a mining operation will start.
func (w *Worker) SignalStartMining() {
	select {
	case w.startMining <- true:
	default:
	}
	w.evHandler("worker: SignalStartMining: mining signaled")
}

// SignalCancelMining signals the G executing the runMiningOperation function
// to stop immediately.
func (w *Worker) SignalCancelMining() {
	select {
	case w.cancelMining <- true:
	default:
	}
	w.evHandler("worker: SignalCancelMining: MINING: CANCEL: signaled")
}

// Done returns a channel that is closed once the configured number of
// rounds has been mined or the worker is shut down.
func (w *Worker) Done() <-chan struct{} {
	return w.done
}

// Mined returns the number of proofs accepted by the node.
func (w *Worker) Mined() uint64 {
	return w.mined.Load()
}

// Bus returns the bus the worker is currently submitting to.
func (w *Worker) Bus() uint64 {
	return w.bus.Load()
}

// =============================================================================

// statusOperations reports progress on every tick.
func (w *Worker) statusOperations() {
	w.evHandler("worker: statusOperations: G started")
	defer w.evHandler("worker: statusOperations: G completed")

	for {
		select {
		case <-w.ticker.C:
			if !w.isShutdown() {
				w.evHandler("worker: status: miner[%s] bus[%d] mined[%d]", w.cfg.Miner, w.Bus(), w.Mined())
			}
		case <-w.shut:
			w.evHandler("worker: statusOperations: received shut signal")
			return
		}
	}
}

// isShutdown is used to test if a shutdown has been signaled.
func (w *Worker) isShutdown() bool {
	select {
	case <-w.shut:
		return true
	default:
		return false
	}
}

func (w *Worker) finish() {
	w.doneOnce.Do(func() { close(w.done) })
}
