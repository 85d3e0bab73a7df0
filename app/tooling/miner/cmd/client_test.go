package cmd

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/ardanlabs/powledger/app/services/node/handlers"
	"github.com/ardanlabs/powledger/business/web/auth"
	"github.com/ardanlabs/powledger/foundation/blockchain/genesis"
	"github.com/ardanlabs/powledger/foundation/blockchain/hashchain"
	"github.com/ardanlabs/powledger/foundation/blockchain/state"
	"github.com/ardanlabs/powledger/foundation/blockchain/store/memory"
	"github.com/ardanlabs/powledger/foundation/blockchain/tokens"
	"github.com/ardanlabs/powledger/foundation/events"
	"github.com/ardanlabs/powledger/foundation/nameservice"
	"github.com/ethereum/go-ethereum/crypto"
	"go.uber.org/zap"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

const pkHexKey = "fae85851bdf5c9f49923722ce38f3c1defcfd3619ef5453230a58ad805499959"

func newNode(t *testing.T) *httptest.Server {
	gen := genesis.Default()
	gen.Admin = crypto.PubkeyToAddress(mustKey(t).PublicKey)

	tks := tokens.New(gen.TreasurySupply)

	st, err := state.New(state.Config{Genesis: gen, Store: memory.New(), Ledger: tks})
	if err != nil {
		t.Fatalf("Should be able to construct the state: %v", err)
	}

	if _, err := st.Initialize(time.Now().Unix()); err != nil {
		t.Fatalf("Should be able to initialize the ledger: %v", err)
	}

	ns, err := nameservice.New(t.TempDir())
	if err != nil {
		t.Fatalf("Should be able to construct the name service: %v", err)
	}

	mux := handlers.PublicMux(handlers.MuxConfig{
		Shutdown:  make(chan os.Signal, 1),
		Log:       zap.NewNop().Sugar(),
		State:     st,
		Tokens:    tks,
		NS:        ns,
		Evts:      events.New(),
		Auth:      auth.New(30 * time.Second),
		Origin:    "*",
		MineRate:  1_000,
		MineBurst: 1_000,
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return srv
}

func mustKey(t *testing.T) *ecdsa.PrivateKey {
	pk, err := crypto.HexToECDSA(pkHexKey)
	if err != nil {
		t.Fatalf("Should be able to load the private key: %v", err)
	}
	return pk
}

func Test_Client(t *testing.T) {
	srv := newNode(t)
	pk := mustKey(t)
	miner := crypto.PubkeyToAddress(pk.PublicKey)

	timeout = 5 * time.Second
	clt := newClient(srv.URL, pk)
	ctx := context.Background()

	t.Log("Given the need to mine through the node api.")
	{
		t.Logf("\tTest 0:\tWhen registering the miner.")
		{
			proof, err := clt.Register(ctx)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to register: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to register.", success)

			if proof.Owner != miner || proof.Hash != hashchain.Seed(miner) {
				t.Fatalf("\t%s\tTest 0:\tShould start from the seed : got %+v", failed, proof)
			}
			t.Logf("\t%s\tTest 0:\tShould start from the seed.", success)

			if _, err := clt.Register(ctx); !errors.Is(err, state.ErrAlreadyRegistered) {
				t.Fatalf("\t%s\tTest 0:\tShould map a second registration to ErrAlreadyRegistered : got %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould map a second registration to ErrAlreadyRegistered.", success)
		}

		t.Logf("\tTest 1:\tWhen submitting proofs.")
		{
			next := hashchain.Next(hashchain.Seed(miner), miner, 7)

			proof, err := clt.Mine(ctx, 2, next, 7)
			if err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould accept the proof: %v", failed, err)
			}
			if proof.Hash != next || proof.TotalHashes != 1 {
				t.Fatalf("\t%s\tTest 1:\tShould advance the chain : got %+v", failed, proof)
			}
			t.Logf("\t%s\tTest 1:\tShould accept the proof and advance the chain.", success)

			if _, err := clt.Mine(ctx, 2, next, 7); !errors.Is(err, hashchain.ErrInvalidHash) {
				t.Fatalf("\t%s\tTest 1:\tShould map a stale proof to ErrInvalidHash : got %v", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould map a stale proof to ErrInvalidHash.", success)

			if _, err := clt.Mine(ctx, 99, hashchain.Next(next, miner, 1), 1); !errors.Is(err, state.ErrInvalidBus) {
				t.Fatalf("\t%s\tTest 1:\tShould map an unknown bus to ErrInvalidBus : got %v", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould map an unknown bus to ErrInvalidBus.", success)
		}

		t.Logf("\tTest 2:\tWhen claiming the reward.")
		{
			treasury, err := clt.Treasury(ctx)
			if err != nil {
				t.Fatalf("\t%s\tTest 2:\tShould be able to read the treasury: %v", failed, err)
			}

			if _, err := clt.Claim(ctx, treasury.RewardRate); err != nil {
				t.Fatalf("\t%s\tTest 2:\tShould be able to claim: %v", failed, err)
			}

			balance, err := clt.Tokens(ctx, miner)
			if err != nil || balance != treasury.RewardRate {
				t.Fatalf("\t%s\tTest 2:\tShould pay out the reward : got %d, %v", failed, balance, err)
			}
			t.Logf("\t%s\tTest 2:\tShould pay out the reward.", success)

			if _, err := clt.Claim(ctx, 1); !errors.Is(err, state.ErrInsufficientClaimable) {
				t.Fatalf("\t%s\tTest 2:\tShould map an over claim to ErrInsufficientClaimable : got %v", failed, err)
			}
			t.Logf("\t%s\tTest 2:\tShould map an over claim to ErrInsufficientClaimable.", success)
		}

		t.Logf("\tTest 3:\tWhen checking the miner's record against the state root.")
		{
			proof, err := clt.Proof(ctx, miner)
			if err != nil {
				t.Fatalf("\t%s\tTest 3:\tShould be able to read the proof: %v", failed, err)
			}

			if _, err := clt.Inclusion(ctx, miner, proof); err != nil {
				t.Fatalf("\t%s\tTest 3:\tShould verify the inclusion proof: %v", failed, err)
			}
			t.Logf("\t%s\tTest 3:\tShould verify the inclusion proof.", success)

			proof.ClaimableRewards++
			if _, err := clt.Inclusion(ctx, miner, proof); err == nil {
				t.Fatalf("\t%s\tTest 3:\tShould reject a record the node doesn't hold.", failed)
			}
			t.Logf("\t%s\tTest 3:\tShould reject a record the node doesn't hold.", success)
		}
	}
}
