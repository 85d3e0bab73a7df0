package store

import (
	"bytes"
	"errors"

	"github.com/ardanlabs/powledger/foundation/blockchain/merkle"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Entry is a stored record as a merkle leaf.
type Entry struct {
	Address common.Hash
	Data    []byte
}

// Hash implements the merkle Hashable interface.
func (e Entry) Hash() ([]byte, error) {
	return crypto.Keccak256(e.Address.Bytes(), e.Data), nil
}

// Equals implements the merkle Hashable interface.
func (e Entry) Equals(other Entry) bool {
	return e.Address == other.Address && bytes.Equal(e.Data, other.Data)
}

// Tree builds a merkle tree over every stored record in address order.
// An empty store has no tree and returns merkle.ErrNotFound.
func Tree(s Store) (*merkle.Tree[Entry], error) {
	var entries []Entry

	fn := func(addr common.Hash, data []byte) error {
		entries = append(entries, Entry{Address: addr, Data: bytes.Clone(data)})
		return nil
	}

	if err := s.ForEach(fn); err != nil {
		return nil, err
	}

	if len(entries) == 0 {
		return nil, merkle.ErrNotFound
	}

	return merkle.NewTree(entries)
}

// Root returns the merkle root over every stored record. An empty store
// has the zero root.
func Root(s Store) (common.Hash, error) {
	tree, err := Tree(s)
	if err != nil {
		if errors.Is(err, merkle.ErrNotFound) {
			return common.Hash{}, nil
		}
		return common.Hash{}, err
	}

	return tree.RootHash(), nil
}
