package private

import (
	"github.com/ardanlabs/powledger/foundation/blockchain/records"
	"github.com/ethereum/go-ethereum/common"
)

type authorityRequest struct {
	Action string         `json:"action" validate:"required,eq=authority"`
	Admin  common.Address `json:"admin"`
}

type resetRequest struct {
	Action string         `json:"action" validate:"required,eq=reset"`
	Owner  common.Address `json:"owner"`
}

type status struct {
	Initialized bool             `json:"initialized"`
	Treasury    records.Treasury `json:"treasury"`
	Buses       []records.Bus    `json:"buses"`
	Proofs      int              `json:"proofs"`
	StateRoot   common.Hash      `json:"state_root"`
	Custody     uint64           `json:"custody"`
	Subscribers int              `json:"subscribers"`
}
