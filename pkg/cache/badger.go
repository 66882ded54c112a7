package cache

import (
	"context"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v2"
)

var _ Store = (*BadgerStore)(nil)

// BadgerStore is a Store backed by BadgerDB.
// Entries are written with a BadgerDB TTL, so they're also removed by BadgerDB's compaction.
type BadgerStore struct {
	db  *badger.DB
	now func() time.Time
}

// NewBadgerStore creates a new BadgerStore.
// The caller owns the DB and must close it.
func NewBadgerStore(db *badger.DB) *BadgerStore {
	return &BadgerStore{
		db:  db,
		now: time.Now,
	}
}

// Get implements the Store interface.
func (s *BadgerStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	} else if err != nil {
		return nil, false, err
	}
	item, err := decodeItem(data)
	if err != nil {
		return nil, false, err
	}
	if item.Expired(s.now()) {
		return nil, false, nil
	}
	return item.Value, true, nil
}

// Set implements the Store interface.
func (s *BadgerStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	data, err := encodeItem(newItem(value, s.now(), ttl))
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(badger.NewEntry([]byte(key), data).WithTTL(ttl))
	})
}

// Purge implements the Store interface.
func (s *BadgerStore) Purge(_ context.Context, prefix string) error {
	return s.db.DropPrefix([]byte(prefix))
}
