package cache

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/gob"
	"encoding/hex"
	"fmt"
	"time"
)

// KeyPrefix is the prefix of all keys derived with Key.
// Purging it removes every cached catalog response.
const KeyPrefix = "tmdb_"

// Key derives the cache key for a fully resolved request URL.
// The URL must already be canonical (query parameters in their final order),
// so that logically identical requests collapse into the same entry.
func Key(requestURL string) string {
	sum := md5.Sum([]byte(requestURL))
	return KeyPrefix + hex.EncodeToString(sum[:])
}

// Item combines a cached payload with its creation time and TTL.
// All Store implementations in this package persist values as Item.
type Item struct {
	Value   []byte
	Created time.Time
	TTL     time.Duration
}

// Expired reports whether the item's age reached its TTL at the given time.
func (i Item) Expired(now time.Time) bool {
	return now.Sub(i.Created) >= i.TTL
}

// Store is the interface that the TMDb client uses for caching responses.
// A package user must pass an implementation of this interface.
// Implementations must treat expired entries as a miss, independent of whether the underlying engine already removed them.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Purge(ctx context.Context, prefix string) error
}

// RegisterTypes registers the types that are stored as interface{} values, for example in the go-cache based MemoryStore.
// It must be called before persisting or loading a MemoryStore.
func RegisterTypes() {
	gob.Register(Item{})
}

func newItem(value []byte, created time.Time, ttl time.Duration) Item {
	// Copy so that later modifications of the caller's slice don't leak into the cache
	v := make([]byte, len(value))
	copy(v, value)
	return Item{
		Value:   v,
		Created: created,
		TTL:     ttl,
	}
}

func encodeItem(item Item) ([]byte, error) {
	writer := bytes.Buffer{}
	encoder := gob.NewEncoder(&writer)
	if err := encoder.Encode(item); err != nil {
		return nil, fmt.Errorf("Couldn't encode item: %v", err)
	}
	return writer.Bytes(), nil
}

func decodeItem(data []byte) (Item, error) {
	var item Item
	reader := bytes.NewReader(data)
	decoder := gob.NewDecoder(reader)
	if err := decoder.Decode(&item); err != nil {
		return Item{}, fmt.Errorf("Couldn't decode item: %v", err)
	}
	return item, nil
}

func copyValue(value []byte) []byte {
	v := make([]byte, len(value))
	copy(v, value)
	return v
}
