package cmd

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"log"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the miner's proof and the ledger treasury",
	Run:   statusRun,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func statusRun(cmd *cobra.Command, args []string) {
	privateKey, err := loadPrivateKey()
	if err != nil {
		log.Fatal(err)
	}
	miner := minerAddress(privateKey)

	clt := newClient(nodeURL, privateKey)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	treasury, err := clt.Treasury(ctx)
	if err != nil {
		log.Fatal(err)
	}

	proof, err := clt.Proof(ctx, miner)
	if err != nil {
		log.Fatal(err)
	}

	balance, err := clt.Tokens(ctx, miner)
	if err != nil {
		log.Fatal(err)
	}

	ip, err := clt.Inclusion(ctx, miner, proof)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("miner:       %s\n", miner)
	fmt.Printf("hash:        %s\n", proof.Hash)
	fmt.Printf("hashes:      %d\n", proof.TotalHashes)
	fmt.Printf("claimable:   %d\n", proof.ClaimableRewards)
	fmt.Printf("tokens:      %d\n", balance)
	fmt.Printf("difficulty:  %s\n", treasury.Difficulty)
	fmt.Printf("reward rate: %d\n", treasury.RewardRate)
	fmt.Printf("epoch start: %d\n", treasury.EpochStartAt)
	fmt.Printf("state root:  %s (proof verified)\n", ip.Root)
}

func minerAddress(privateKey *ecdsa.PrivateKey) common.Address {
	return crypto.PubkeyToAddress(privateKey.PublicKey)
}
