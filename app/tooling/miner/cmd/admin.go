package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Administrative operations, signed with the admin key",
}

var authorityCmd = &cobra.Command{
	Use:   "authority <account>",
	Short: "Hand the admin role to another account",
	Args:  cobra.ExactArgs(1),
	Run:   authorityRun,
}

var resetCmd = &cobra.Command{
	Use:   "reset <owner>",
	Short: "Restart a miner's hash chain from its seed",
	Args:  cobra.ExactArgs(1),
	Run:   resetRun,
}

func init() {
	rootCmd.AddCommand(adminCmd)
	adminCmd.AddCommand(authorityCmd)
	adminCmd.AddCommand(resetCmd)
}

func authorityRun(cmd *cobra.Command, args []string) {
	account := toAddress(args[0])

	payload := struct {
		Action string         `json:"action"`
		Admin  common.Address `json:"admin"`
	}{
		Action: "authority",
		Admin:  account,
	}

	var treasury struct {
		Admin common.Address `json:"admin"`
	}
	adminPost("/v1/admin/authority", payload, &treasury)

	fmt.Printf("admin: %s\n", treasury.Admin)
}

func resetRun(cmd *cobra.Command, args []string) {
	owner := toAddress(args[0])

	payload := struct {
		Action string         `json:"action"`
		Owner  common.Address `json:"owner"`
	}{
		Action: "reset",
		Owner:  owner,
	}

	var proof struct {
		Hash common.Hash `json:"hash"`
	}
	adminPost("/v1/admin/reset", payload, &proof)

	fmt.Printf("reset: owner[%s] hash[%s]\n", owner, proof.Hash)
}

func adminPost(path string, payload any, out any) {
	privateKey, err := loadPrivateKey()
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := newClient(adminURL, privateKey).signed(ctx, path, payload, out); err != nil {
		log.Fatal(err)
	}
}

func toAddress(hex string) common.Address {
	if !common.IsHexAddress(hex) {
		log.Fatalf("invalid account %q", hex)
	}
	return common.HexToAddress(hex)
}
