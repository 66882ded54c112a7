package cache

import (
	"context"
	"encoding/gob"
	"fmt"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/spf13/afero"
)

var _ Store = (*MemoryStore)(nil)

// MemoryStore is a Store backed by github.com/patrickmn/go-cache.
// go-cache's janitor removes expired entries in the background, Get additionally checks the TTL itself.
type MemoryStore struct {
	cache *gocache.Cache
	now   func() time.Time
}

// NewMemoryStore creates a new MemoryStore.
// cleanupInterval is the interval for go-cache's janitor. A value <= 0 disables it.
func NewMemoryStore(cleanupInterval time.Duration) *MemoryStore {
	return &MemoryStore{
		cache: gocache.New(gocache.NoExpiration, cleanupInterval),
		now:   time.Now,
	}
}

// NewMemoryStoreFrom creates a new MemoryStore with the given items, for example the ones loaded via LoadGoCache.
func NewMemoryStoreFrom(items map[string]gocache.Item, cleanupInterval time.Duration) *MemoryStore {
	return &MemoryStore{
		cache: gocache.NewFrom(gocache.NoExpiration, cleanupInterval, items),
		now:   time.Now,
	}
}

// Get implements the Store interface.
func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	itemIface, found := s.cache.Get(key)
	if !found {
		return nil, false, nil
	}
	item, ok := itemIface.(Item)
	if !ok {
		return nil, false, fmt.Errorf("Couldn't cast cached value to cache.Item: type was: %T", itemIface)
	}
	if item.Expired(s.now()) {
		return nil, false, nil
	}
	return copyValue(item.Value), true, nil
}

// Set implements the Store interface.
func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	s.cache.Set(key, newItem(value, s.now(), ttl), ttl)
	return nil
}

// Purge implements the Store interface.
func (s *MemoryStore) Purge(_ context.Context, prefix string) error {
	for key := range s.cache.Items() {
		if strings.HasPrefix(key, prefix) {
			s.cache.Delete(key)
		}
	}
	return nil
}

// ItemCount returns the number of items in the cache, including expired ones that weren't cleaned up yet.
func (s *MemoryStore) ItemCount() int {
	return s.cache.ItemCount()
}

// Items returns a copy of all unexpired go-cache items, for persisting them via SaveGoCache.
func (s *MemoryStore) Items() map[string]gocache.Item {
	return s.cache.Items()
}

// SaveGoCache writes the items to the given file as gob.
// RegisterTypes must have been called before.
func SaveGoCache(fs afero.Fs, items map[string]gocache.Item, filePath string) error {
	file, err := fs.Create(filePath)
	if err != nil {
		return fmt.Errorf("Couldn't create go-cache file: %v", err)
	}
	defer file.Close()
	encoder := gob.NewEncoder(file)
	if err = encoder.Encode(items); err != nil {
		return fmt.Errorf("Couldn't encode items for go-cache file: %v", err)
	}
	return nil
}

// LoadGoCache reads items that were written with SaveGoCache.
// RegisterTypes must have been called before.
func LoadGoCache(fs afero.Fs, filePath string) (map[string]gocache.Item, error) {
	file, err := fs.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("Couldn't open go-cache file: %v", err)
	}
	defer file.Close()
	decoder := gob.NewDecoder(file)
	result := map[string]gocache.Item{}
	if err = decoder.Decode(&result); err != nil {
		return nil, fmt.Errorf("Couldn't decode items from go-cache file: %v", err)
	}
	return result, nil
}
