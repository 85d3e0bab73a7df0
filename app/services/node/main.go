package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ardanlabs/conf/v3"
	"github.com/ardanlabs/powledger/app/services/node/handlers"
	"github.com/ardanlabs/powledger/business/web/auth"
	"github.com/ardanlabs/powledger/foundation/blockchain/genesis"
	"github.com/ardanlabs/powledger/foundation/blockchain/state"
	"github.com/ardanlabs/powledger/foundation/blockchain/store"
	"github.com/ardanlabs/powledger/foundation/blockchain/store/bolt"
	"github.com/ardanlabs/powledger/foundation/blockchain/store/memory"
	"github.com/ardanlabs/powledger/foundation/blockchain/tokens"
	"github.com/ardanlabs/powledger/foundation/events"
	"github.com/ardanlabs/powledger/foundation/logger"
	"github.com/ardanlabs/powledger/foundation/nameservice"
	"go.uber.org/zap"
)

// build is the git version of this program. It is set using build flags in the makefile.
var build = "develop"

func main() {

	// Construct the application logger.
	log, err := logger.New("NODE")
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer log.Sync()

	// Perform the startup and shutdown sequence.
	if err := run(log); err != nil {
		log.Errorw("startup", "ERROR", err)
		log.Sync()
		os.Exit(1)
	}
}

func run(log *zap.SugaredLogger) error {

	// =========================================================================
	// Configuration

	cfg := struct {
		conf.Version
		Web struct {
			ReadTimeout     time.Duration `conf:"default:5s"`
			WriteTimeout    time.Duration `conf:"default:10s"`
			IdleTimeout     time.Duration `conf:"default:120s"`
			ShutdownTimeout time.Duration `conf:"default:20s"`
			DebugHost       string        `conf:"default:0.0.0.0:7080"`
			PublicHost      string        `conf:"default:0.0.0.0:8080"`
			PrivateHost     string        `conf:"default:0.0.0.0:9080"`
			CORSOrigin      string        `conf:"default:*"`
		}
		Ledger struct {
			GenesisPath string `conf:"default:zblock/genesis.json"`
			Store       string `conf:"default:bolt,help:bolt or memory"`
			DBPath      string `conf:"default:zblock/ledger.db"`
		}
		Auth struct {
			Window time.Duration `conf:"default:30s"`
		}
		Mine struct {
			Rate  float64 `conf:"default:200"`
			Burst int     `conf:"default:400"`
		}
		NameService struct {
			Folder string `conf:"default:zblock/accounts/"`
		}
	}{
		Version: conf.Version{
			Build: build,
			Desc:  "proof of work mining ledger node",
		},
	}

	const prefix = "NODE"
	help, err := conf.Parse(prefix, &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	// =========================================================================
	// App Starting

	log.Infow("starting service", "version", build)
	defer log.Infow("shutdown complete")

	out, err := conf.String(&cfg)
	if err != nil {
		return fmt.Errorf("generating config for output: %w", err)
	}
	log.Infow("startup", "config", out)

	// =========================================================================
	// Name Service Support

	// The names come from the key file names in the zblock/accounts folder.
	ns, err := nameservice.New(cfg.NameService.Folder)
	if err != nil {
		return fmt.Errorf("unable to load account name service: %w", err)
	}

	for account, name := range ns.Copy() {
		log.Infow("startup", "status", "nameservice", "name", name, "account", account)
	}

	// =========================================================================
	// Ledger Support

	gen, err := genesis.Load(cfg.Ledger.GenesisPath)
	if err != nil {
		return fmt.Errorf("unable to load genesis: %w", err)
	}

	var strg store.Store
	switch cfg.Ledger.Store {
	case "bolt":
		if strg, err = bolt.New(cfg.Ledger.DBPath); err != nil {
			return fmt.Errorf("unable to open store: %w", err)
		}
	case "memory":
		strg = memory.New()
	default:
		return fmt.Errorf("unknown store %q", cfg.Ledger.Store)
	}

	// The ledger packages accept a function of this signature to allow the
	// application to log. These raw messages are also sent to any websocket
	// client that is connected into the system through the events package.
	evts := events.New()
	ev := func(v string, args ...any) {
		s := fmt.Sprintf(v, args...)
		log.Infow(s, "traceid", "00000000-0000-0000-0000-000000000000")
		evts.Send(s)
	}

	// Claimed rewards are paid from custody, which starts as the genesis
	// supply. Claims made before this process started are settled below.
	tks := tokens.New(gen.TreasurySupply)

	st, err := state.New(state.Config{
		Genesis:   gen,
		Store:     strg,
		Ledger:    tks,
		EvHandler: ev,
	})
	if err != nil {
		strg.Close()
		return err
	}
	defer st.Shutdown()

	treasury, err := st.Initialize(time.Now().Unix())
	switch {
	case err == nil:
		log.Infow("startup", "status", "ledger initialized", "admin", treasury.Admin, "buses", gen.BusCount)

	case errors.Is(err, state.ErrAlreadyInitialized):
		if treasury, err = st.QueryTreasury(); err != nil {
			return fmt.Errorf("unable to read treasury: %w", err)
		}
		tks.Settle(treasury.TotalClaimedRewards)
		log.Infow("startup", "status", "ledger loaded", "admin", treasury.Admin, "epoch_start_at", treasury.EpochStartAt, "claimed", treasury.TotalClaimedRewards)

	default:
		return fmt.Errorf("unable to initialize ledger: %w", err)
	}

	// =========================================================================
	// Start Debug Service

	log.Infow("startup", "status", "debug v1 router started", "host", cfg.Web.DebugHost)

	debugMux := handlers.DebugMux(build, log, st)

	// Not concerned with shutting this down with load shedding.
	go func() {
		if err := http.ListenAndServe(cfg.Web.DebugHost, debugMux); err != nil {
			log.Errorw("shutdown", "status", "debug v1 router closed", "host", cfg.Web.DebugHost, "ERROR", err)
		}
	}()

	// =========================================================================
	// Service Start/Stop Support

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	muxCfg := handlers.MuxConfig{
		Shutdown:  shutdown,
		Log:       log,
		State:     st,
		Tokens:    tks,
		NS:        ns,
		Evts:      evts,
		Auth:      auth.New(cfg.Auth.Window),
		Origin:    cfg.Web.CORSOrigin,
		MineRate:  cfg.Mine.Rate,
		MineBurst: cfg.Mine.Burst,
	}

	// =========================================================================
	// Start Public Service

	log.Infow("startup", "status", "initializing V1 public API support")

	public := http.Server{
		Addr:         cfg.Web.PublicHost,
		Handler:      handlers.PublicMux(muxCfg),
		ReadTimeout:  cfg.Web.ReadTimeout,
		WriteTimeout: cfg.Web.WriteTimeout,
		IdleTimeout:  cfg.Web.IdleTimeout,
		ErrorLog:     zap.NewStdLog(log.Desugar()),
	}

	go func() {
		log.Infow("startup", "status", "public api router started", "host", public.Addr)
		serverErrors <- public.ListenAndServe()
	}()

	// =========================================================================
	// Start Private Service

	log.Infow("startup", "status", "initializing V1 private API support")

	private := http.Server{
		Addr:         cfg.Web.PrivateHost,
		Handler:      handlers.PrivateMux(muxCfg),
		ReadTimeout:  cfg.Web.ReadTimeout,
		WriteTimeout: cfg.Web.WriteTimeout,
		IdleTimeout:  cfg.Web.IdleTimeout,
		ErrorLog:     zap.NewStdLog(log.Desugar()),
	}

	go func() {
		log.Infow("startup", "status", "private api router started", "host", private.Addr)
		serverErrors <- private.ListenAndServe()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		log.Infow("shutdown", "status", "shutdown started", "signal", sig)
		defer log.Infow("shutdown", "status", "shutdown complete", "signal", sig)

		// Release any web sockets that are currently active.
		log.Infow("shutdown", "status", "shutdown web socket channels")
		evts.Shutdown()

		ctx, cancelPri := context.WithTimeout(context.Background(), cfg.Web.ShutdownTimeout)
		defer cancelPri()

		log.Infow("shutdown", "status", "shutdown private API started")
		if err := private.Shutdown(ctx); err != nil {
			private.Close()
			return fmt.Errorf("could not stop private service gracefully: %w", err)
		}

		ctx, cancelPub := context.WithTimeout(context.Background(), cfg.Web.ShutdownTimeout)
		defer cancelPub()

		log.Infow("shutdown", "status", "shutdown public API started")
		if err := public.Shutdown(ctx); err != nil {
			public.Close()
			return fmt.Errorf("could not stop public service gracefully: %w", err)
		}
	}

	return nil
}
