package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
)

var _ Store = (*RedisStore)(nil)

// scanCount is the COUNT hint for SCAN when purging.
const scanCount = 100

// RedisStore is a Store backed by Redis.
// Entries are written with an expiration, so Redis removes them on its own.
type RedisStore struct {
	rdb *redis.Client
	now func() time.Time
}

// NewRedisStore creates a new RedisStore.
// The caller owns the client and must close it.
func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{
		rdb: rdb,
		now: time.Now,
	}
}

// Get implements the Store interface.
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := s.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	} else if err != nil {
		return nil, false, fmt.Errorf("Couldn't get value from Redis: %w", err)
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
func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	data, err := encodeItem(newItem(value, s.now(), ttl))
	if err != nil {
		return err
	}
	if err = s.rdb.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("Couldn't set value in Redis: %w", err)
	}
	return nil
}

// Purge implements the Store interface.
func (s *RedisStore) Purge(ctx context.Context, prefix string) error {
	var keys []string
	iter := s.rdb.Scan(ctx, 0, escapePattern(prefix)+"*", scanCount).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("Couldn't scan Redis keys: %w", err)
	}
	for len(keys) > 0 {
		n := scanCount
		if len(keys) < n {
			n = len(keys)
		}
		if err := s.rdb.Del(ctx, keys[:n]...).Err(); err != nil {
			return fmt.Errorf("Couldn't delete Redis keys: %w", err)
		}
		keys = keys[n:]
	}
	return nil
}

// escapePattern escapes the glob characters that Redis interprets in a MATCH pattern.
func escapePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`)
	return r.Replace(s)
}
