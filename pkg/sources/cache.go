package sources

import (
	"errors"
	"sync"

	"github.com/dgraph-io/badger/v4"
)

// Cache keeps downloaded dataset bodies on disk, keyed by URL.
type Cache struct {
	db  *badger.DB
	mem sync.Map
}

func OpenCache(path string) (*Cache, error) {
	opts := badger.DefaultOptions(path)
	// Decrease logging verbosity
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Cache{db: db}, nil
}

func (c *Cache) Close() error {
	return c.db.Close()
}

// Get returns the cached body for key, or nil when there is none.
func (c *Cache) Get(key string) ([]byte, error) {
	if v, ok := c.mem.Load(key); ok {
		return v.([]byte), nil
	}
	var val []byte
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		val, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err == nil {
		c.mem.Store(key, val)
	}
	return val, err
}

func (c *Cache) Put(key string, body []byte) error {
	err := c.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), body)
	})
	if err == nil {
		c.mem.Store(key, body)
	}
	return err
}

// Delete evicts key.
func (c *Cache) Delete(key string) error {
	c.mem.Delete(key)
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
}
