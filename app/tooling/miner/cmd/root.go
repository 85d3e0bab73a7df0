// Package cmd contains the miner commands.
package cmd

import (
	"crypto/ecdsa"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/cobra"
)

var (
	accountName string
	accountPath string
	nodeURL     string
	adminURL    string
	timeout     time.Duration
)

const keyExtension = ".ecdsa"

func init() {
	rootCmd.PersistentFlags().StringVarP(&accountName, "account", "a", "miner1", "Name of the private key file.")
	rootCmd.PersistentFlags().StringVarP(&accountPath, "account-path", "p", "zblock/accounts/", "Path to the directory with private keys.")
	rootCmd.PersistentFlags().StringVarP(&nodeURL, "url", "u", "http://localhost:8080", "Url of the node public api.")
	rootCmd.PersistentFlags().StringVar(&adminURL, "admin-url", "http://localhost:9080", "Url of the node private api.")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Timeout for each node request.")
}

var rootCmd = &cobra.Command{
	Use:   "miner",
	Short: "Mine proofs against a ledger node",
}

// Execute runs the command selected on the command line.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func getPrivateKeyPath() string {
	name := accountName
	if !strings.HasSuffix(name, keyExtension) {
		name += keyExtension
	}

	return filepath.Join(accountPath, name)
}

func loadPrivateKey() (*ecdsa.PrivateKey, error) {
	privateKey, err := crypto.LoadECDSA(getPrivateKeyPath())
	if err != nil {
		return nil, fmt.Errorf("load key %s: %w", getPrivateKeyPath(), err)
	}

	return privateKey, nil
}
