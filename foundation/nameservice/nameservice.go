// Package nameservice reads the zblock/accounts folder and creates a name
// service lookup for the known ledger accounts.
package nameservice

import (
	"fmt"
	"io/fs"
	"maps"
	"path"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// NameService maintains a map of accounts for name lookup.
type NameService struct {
	accounts map[common.Address]string
}

// New constructs a name service with accounts from the key files found
// under root.
func New(root string) (*NameService, error) {
	ns := NameService{
		accounts: make(map[common.Address]string),
	}

	fn := func(fileName string, info fs.FileInfo, err error) error {
		if err != nil {
			return fmt.Errorf("walkdir failure: %w", err)
		}

		if path.Ext(fileName) != ".ecdsa" {
			return nil
		}

		privateKey, err := crypto.LoadECDSA(fileName)
		if err != nil {
			return fmt.Errorf("%s: %w", fileName, err)
		}

		account := crypto.PubkeyToAddress(privateKey.PublicKey)
		ns.accounts[account] = strings.TrimSuffix(path.Base(fileName), ".ecdsa")

		return nil
	}

	if err := filepath.Walk(root, fn); err != nil {
		return nil, fmt.Errorf("walking directory: %w", err)
	}

	return &ns, nil
}

// Lookup returns the name for the specified account, or the account's hex
// form when it is unknown.
func (ns *NameService) Lookup(account common.Address) string {
	name, exists := ns.accounts[account]
	if !exists {
		return account.Hex()
	}
	return name
}

// Copy returns a copy of the map of names and accounts.
func (ns *NameService) Copy() map[common.Address]string {
	return maps.Clone(ns.accounts)
}
