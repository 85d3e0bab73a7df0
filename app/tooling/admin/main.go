// This program performs administrative tasks against a ledger store file.
// The node must be stopped since the store file is locked while open.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/ardanlabs/conf/v3"
	"github.com/ardanlabs/powledger/app/tooling/admin/commands"
	"github.com/ardanlabs/powledger/foundation/blockchain/store"
	"github.com/ardanlabs/powledger/foundation/blockchain/store/bolt"
	"github.com/ardanlabs/powledger/foundation/logger"
	"go.uber.org/zap"
)

// build is the git version of this program. It is set using build flags in the makefile.
var build = "develop"

func main() {

	// Construct the application logger.
	log, err := logger.New("ADMIN")
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(log); err != nil {
		log.Errorw("startup", "ERROR", err)
		log.Sync()
		os.Exit(1)
	}
}

func run(log *zap.SugaredLogger) error {
	cfg := struct {
		conf.Version
		Args   conf.Args
		DBPath string `conf:"default:zblock/ledger.db"`
	}{
		Version: conf.Version{
			Build: build,
			Desc:  "ledger store inspector",
		},
	}

	const prefix = "ADMIN"
	help, err := conf.Parse(prefix, &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	strg, err := bolt.New(cfg.DBPath)
	if err != nil {
		return err
	}
	defer strg.Close()

	log.Infow("startup", "status", "store opened", "path", cfg.DBPath, "command", cfg.Args.Num(0))

	return processCommands(cfg.Args, strg)
}

// processCommands handles the execution of the commands specified on
// the command line.
func processCommands(args conf.Args, strg store.Store) error {
	switch args.Num(0) {
	case "treasury":
		if err := commands.Treasury(strg); err != nil {
			return fmt.Errorf("getting treasury: %w", err)
		}
	case "buses":
		if err := commands.Buses(strg); err != nil {
			return fmt.Errorf("getting buses: %w", err)
		}
	case "proofs":
		if err := commands.Proofs(args.Num(1), strg); err != nil {
			return fmt.Errorf("getting proofs: %w", err)
		}
	case "audit":
		if err := commands.Audit(strg); err != nil {
			return fmt.Errorf("auditing records: %w", err)
		}
	default:
		fmt.Println("treasury:  show the treasury record")
		fmt.Println("buses:     show every bus record")
		fmt.Println("proofs:    show every proof record, or one with proofs <owner>")
		fmt.Println("audit:     check every record decodes and sits at its derived address")
	}

	return nil
}
