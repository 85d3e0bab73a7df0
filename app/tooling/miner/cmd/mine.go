package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ardanlabs/powledger/foundation/blockchain/worker"
	"github.com/ardanlabs/powledger/foundation/logger"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/cobra"
)

var (
	bus     uint64
	rounds  uint64
	backoff time.Duration
	status  time.Duration
)

var mineCmd = &cobra.Command{
	Use:   "mine",
	Short: "Search for proofs and submit them to the node",
	Run:   mineRun,
}

func init() {
	rootCmd.AddCommand(mineCmd)
	mineCmd.Flags().Uint64VarP(&bus, "bus", "b", 0, "Bus to start submitting to.")
	mineCmd.Flags().Uint64VarP(&rounds, "rounds", "r", 0, "Number of proofs to mine, 0 mines until interrupted.")
	mineCmd.Flags().DurationVar(&backoff, "backoff", 5*time.Second, "Wait when every bus is exhausted.")
	mineCmd.Flags().DurationVar(&status, "status", 10*time.Second, "Interval between status reports.")
}

func mineRun(cmd *cobra.Command, args []string) {
	zlog, err := logger.New("MINER")
	if err != nil {
		log.Fatal(err)
	}
	defer zlog.Sync()

	privateKey, err := loadPrivateKey()
	if err != nil {
		log.Fatal(err)
	}
	miner := crypto.PubkeyToAddress(privateKey.PublicKey)

	clt := newClient(nodeURL, privateKey)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	buses, err := clt.Buses(ctx)
	if err != nil {
		log.Fatal(err)
	}

	ev := func(v string, args ...any) {
		zlog.Infow(fmt.Sprintf(v, args...), "miner", miner)
	}

	w := worker.Run(worker.Config{
		Miner:     miner,
		Node:      clt,
		BusCount:  uint64(len(buses)),
		Bus:       bus,
		Rounds:    rounds,
		Backoff:   backoff,
		Status:    status,
		EvHandler: ev,
	})

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	w.SignalStartMining()

	select {
	case <-w.Done():
	case sig := <-shutdown:
		zlog.Infow("shutdown", "status", "shutdown started", "signal", sig)
	}

	w.Shutdown()
	zlog.Infow("shutdown", "status", "shutdown complete", "mined", w.Mined())
}
