// Package bolt implements the ability to read and write ledger records
// to disk using a bbolt database. Every commit runs in a single bbolt
// transaction so a set of records is either fully written or not at all.
package bolt

import (
	"bytes"
	"fmt"
	"time"

	"github.com/ardanlabs/powledger/foundation/blockchain/store"
	"github.com/ethereum/go-ethereum/common"
	"go.etcd.io/bbolt"
)

var bucketRecords = []byte("records")

// Bolt represents the storage implementation for reading and storing
// records on disk. This implements the store.Store interface.
type Bolt struct {
	db *bbolt.DB
}

// New opens (or creates) the database at the specified path.
func New(path string) (*Bolt, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt db: %w", err)
	}

	// Ensure the bucket exists.
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketRecords)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create bucket: %w", err)
	}

	return &Bolt{db: db}, nil
}

// Close releases the database file.
func (b *Bolt) Close() error {
	return b.db.Close()
}

// Get returns a copy of the record stored at the address.
func (b *Bolt) Get(addr common.Hash) ([]byte, error) {
	var data []byte

	err := b.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(bucketRecords).Get(addr.Bytes())
		if v == nil {
			return store.ErrNotFound
		}

		// Values are only valid for the life of the transaction.
		data = bytes.Clone(v)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return data, nil
}

// Commit writes all the records in one transaction.
func (b *Bolt) Commit(writes []store.Write) error {
	err := b.db.Update(func(tx *bbolt.Tx) error {
		bkt := tx.Bucket(bucketRecords)
		for _, w := range writes {
			if err := bkt.Put(w.Address.Bytes(), w.Data); err != nil {
				return fmt.Errorf("put %s: %w", w.Address, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	return nil
}

// ForEach walks the records in key order inside a read transaction.
func (b *Bolt) ForEach(fn func(addr common.Hash, data []byte) error) error {
	return b.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketRecords).ForEach(func(k, v []byte) error {
			return fn(common.BytesToHash(k), bytes.Clone(v))
		})
	})
}
