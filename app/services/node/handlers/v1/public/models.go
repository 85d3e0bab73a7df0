package public

import (
	"github.com/ardanlabs/powledger/foundation/blockchain/records"
	"github.com/ethereum/go-ethereum/common"
)

// Every signed payload names its action so a payload signed for one
// endpoint can't be submitted to another.

type registerRequest struct {
	Action string `json:"action" validate:"required,eq=register"`
}

type mineRequest struct {
	Action string      `json:"action" validate:"required,eq=mine"`
	Bus    uint64      `json:"bus"`
	Hash   common.Hash `json:"hash"`
	Nonce  uint64      `json:"nonce"`
}

type claimRequest struct {
	Action string `json:"action" validate:"required,eq=claim"`
	Amount uint64 `json:"amount" validate:"required,gt=0"`
}

type proof struct {
	Owner            common.Address `json:"owner"`
	Name             string         `json:"name"`
	Hash             common.Hash    `json:"hash"`
	ClaimableRewards uint64         `json:"claimable_rewards"`
	TotalHashes      uint64         `json:"total_hashes"`
}

type mineResult struct {
	Proof      proof            `json:"proof"`
	Bus        records.Bus      `json:"bus"`
	Treasury   records.Treasury `json:"treasury"`
	Reward     uint64           `json:"reward"`
	Retargeted bool             `json:"retargeted"`
}

type tokenBalance struct {
	Account common.Address `json:"account"`
	Name    string         `json:"name"`
	Balance uint64         `json:"balance"`
	Custody uint64         `json:"custody"`
}
