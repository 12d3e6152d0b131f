package oracle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v3"
)

// BadgerCache persists oracle answers on local disk between CLI runs.
type BadgerCache struct {
	db *badger.DB
}

// OpenBadgerCache opens dir, or an in-memory store when dir is empty.
func OpenBadgerCache(dir string) (*BadgerCache, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger cache: %w", err)
	}
	return &BadgerCache{db: db}, nil
}

func (c *BadgerCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	var out []byte
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		out, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("badger get %s: %w", key, err)
	}
	return out, true, nil
}

func (c *BadgerCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	return c.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry([]byte(key), value)
		if ttl > 0 {
			e = e.WithTTL(ttl)
		}
		return txn.SetEntry(e)
	})
}

func (c *BadgerCache) Close() error { return c.db.Close() }
