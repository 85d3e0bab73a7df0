package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Register the miner with the node",
	Run:   registerRun,
}

func init() {
	rootCmd.AddCommand(registerCmd)
}

func registerRun(cmd *cobra.Command, args []string) {
	privateKey, err := loadPrivateKey()
	if err != nil {
		log.Fatal(err)
	}

	proof, err := newClient(nodeURL, privateKey).Register(context.Background())
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("registered: owner[%s] seed[%s]\n", proof.Owner, proof.Hash)
}
