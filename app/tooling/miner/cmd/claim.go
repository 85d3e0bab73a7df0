package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"
)

var amount uint64

var claimCmd = &cobra.Command{
	Use:   "claim",
	Short: "Claim mined rewards",
	Run:   claimRun,
}

func init() {
	rootCmd.AddCommand(claimCmd)
	claimCmd.Flags().Uint64VarP(&amount, "amount", "m", 0, "Amount to claim, 0 claims everything claimable.")
}

func claimRun(cmd *cobra.Command, args []string) {
	privateKey, err := loadPrivateKey()
	if err != nil {
		log.Fatal(err)
	}

	clt := newClient(nodeURL, privateKey)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if amount == 0 {
		proof, err := clt.Proof(ctx, minerAddress(privateKey))
		if err != nil {
			log.Fatal(err)
		}
		amount = proof.ClaimableRewards
	}

	proof, err := clt.Claim(ctx, amount)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("claimed: amount[%d] remaining[%d]\n", amount, proof.ClaimableRewards)
}
