package cmd

import (
	"bytes"
	"context"
	"crypto/ecdsa"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ardanlabs/powledger/business/web/auth"
	"github.com/ardanlabs/powledger/business/web/errs"
	"github.com/ardanlabs/powledger/foundation/blockchain/merkle"
	"github.com/ardanlabs/powledger/foundation/blockchain/records"
	"github.com/ardanlabs/powledger/foundation/blockchain/signature"
	"github.com/ardanlabs/powledger/foundation/blockchain/state"
	"github.com/ardanlabs/powledger/foundation/blockchain/store"
	"github.com/ethereum/go-ethereum/common"
)

// client talks to the node on behalf of one miner. It satisfies the
// worker.Node interface.
type client struct {
	url        string
	privateKey *ecdsa.PrivateKey
	http       *http.Client
}

func newClient(url string, privateKey *ecdsa.PrivateKey) client {
	return client{
		url:        url,
		privateKey: privateKey,
		http:       &http.Client{Timeout: timeout},
	}
}

// Treasury returns the node's treasury record.
func (c client) Treasury(ctx context.Context) (records.Treasury, error) {
	var treasury records.Treasury
	if err := c.send(ctx, http.MethodGet, "/v1/treasury", nil, &treasury); err != nil {
		return records.Treasury{}, err
	}
	return treasury, nil
}

// Buses returns the node's bus records.
func (c client) Buses(ctx context.Context) ([]records.Bus, error) {
	var buses []records.Bus
	if err := c.send(ctx, http.MethodGet, "/v1/buses", nil, &buses); err != nil {
		return nil, err
	}
	return buses, nil
}

// Proof returns the proof record for the owner.
func (c client) Proof(ctx context.Context, owner common.Address) (records.Proof, error) {
	var proof records.Proof
	if err := c.send(ctx, http.MethodGet, "/v1/proofs/"+owner.Hex(), nil, &proof); err != nil {
		return records.Proof{}, err
	}
	return proof, nil
}

// Inclusion returns the merkle proof that the owner's proof record is part
// of the node's state root, after checking it against that root.
func (c client) Inclusion(ctx context.Context, owner common.Address, proof records.Proof) (state.InclusionProof, error) {
	var ip state.InclusionProof
	if err := c.send(ctx, http.MethodGet, "/v1/proofs/"+owner.Hex()+"/inclusion", nil, &ip); err != nil {
		return state.InclusionProof{}, err
	}

	leaf, _ := store.Entry{Address: records.ProofAddress(owner), Data: records.Encode(proof)}.Hash()
	if !bytes.Equal(leaf, ip.Leaf.Bytes()) {
		return state.InclusionProof{}, fmt.Errorf("inclusion: leaf %s does not match the proof record", ip.Leaf)
	}

	if !merkle.VerifyProof(ip.Root, leaf, ip.Hashes, ip.Sides) {
		return state.InclusionProof{}, fmt.Errorf("inclusion: proof does not lead to root %s", ip.Root)
	}

	return ip, nil
}

// Tokens returns the tokens paid out to the account.
func (c client) Tokens(ctx context.Context, account common.Address) (uint64, error) {
	var resp struct {
		Balance uint64 `json:"balance"`
	}
	if err := c.send(ctx, http.MethodGet, "/v1/tokens/"+account.Hex(), nil, &resp); err != nil {
		return 0, err
	}
	return resp.Balance, nil
}

// Register creates the proof record for the miner.
func (c client) Register(ctx context.Context) (records.Proof, error) {
	payload := struct {
		Action string `json:"action"`
	}{
		Action: "register",
	}

	var proof records.Proof
	if err := c.signed(ctx, "/v1/register", payload, &proof); err != nil {
		return records.Proof{}, err
	}
	return proof, nil
}

// Mine submits a proof against the bus.
func (c client) Mine(ctx context.Context, bus uint64, hash common.Hash, nonce uint64) (records.Proof, error) {
	payload := struct {
		Action string      `json:"action"`
		Bus    uint64      `json:"bus"`
		Hash   common.Hash `json:"hash"`
		Nonce  uint64      `json:"nonce"`
	}{
		Action: "mine",
		Bus:    bus,
		Hash:   hash,
		Nonce:  nonce,
	}

	var resp struct {
		Proof records.Proof `json:"proof"`
	}
	if err := c.signed(ctx, "/v1/mine", payload, &resp); err != nil {
		return records.Proof{}, err
	}
	return resp.Proof, nil
}

// Claim pays out the amount of the miner's claimable rewards.
func (c client) Claim(ctx context.Context, amount uint64) (records.Proof, error) {
	payload := struct {
		Action string `json:"action"`
		Amount uint64 `json:"amount"`
	}{
		Action: "claim",
		Amount: amount,
	}

	var proof records.Proof
	if err := c.signed(ctx, "/v1/claim", payload, &proof); err != nil {
		return records.Proof{}, err
	}
	return proof, nil
}

// =============================================================================

// signed seals the payload in an envelope signed by the miner and posts it.
func (c client) signed(ctx context.Context, path string, payload any, out any) error {
	sign := func(value any) (string, error) {
		return signature.SignString(value, c.privateKey)
	}

	env, err := auth.Seal(payload, time.Now().Unix(), sign)
	if err != nil {
		return err
	}

	return c.send(ctx, http.MethodPost, path, env, out)
}

func (c client) send(ctx context.Context, method string, path string, body any, out any) error {
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		r = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url+path, r)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var er errs.Response
		if err := json.NewDecoder(resp.Body).Decode(&er); err != nil {
			return fmt.Errorf("node: status %d", resp.StatusCode)
		}

		if ledgerErr := errs.ToLedger(er.Code); ledgerErr != nil {
			return fmt.Errorf("node: %w: %s", ledgerErr, er.Error)
		}
		return fmt.Errorf("node: status %d: %s", resp.StatusCode, er.Error)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}
