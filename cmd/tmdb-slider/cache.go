package main

import (
	"context"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v2"
	"github.com/go-redis/redis/v8"
	gocache "github.com/patrickmn/go-cache"
	"github.com/spf13/afero"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Saber4Dev/tmdb-slider/pkg/cache"
	"github.com/Saber4Dev/tmdb-slider/pkg/logadapter"
)

const goCacheFile = "tmdb.gob"

// cacheBackend is the set up cache store, plus what's needed to persist, inspect and close it.
type cacheBackend struct {
	store  cache.Store
	memory *cache.MemoryStore
	db     *badger.DB
	rdb    *redis.Client
}

func newCacheBackend(ctx context.Context, config config, fs afero.Fs, logger *zap.Logger) (*cacheBackend, error) {
	switch config.CacheBackend {
	case "badger":
		logger.Info("Opening BadgerDB...", zap.String("storagePath", config.StoragePath))
		options := badger.DefaultOptions(config.StoragePath).
			WithLogger(logadapter.NewBadger2Zap(logger))
		db, err := badger.Open(options)
		if err != nil {
			return nil, err
		}
		return &cacheBackend{store: cache.NewBadgerStore(db), db: db}, nil
	case "redis":
		redisOpts := &redis.Options{
			Addr: config.RedisAddr,
		}
		if config.RedisCreds != "" {
			if strings.Contains(config.RedisCreds, ":") {
				creds := strings.SplitN(config.RedisCreds, ":", 2)
				redisOpts.Username = creds[0]
				redisOpts.Password = creds[1]
			} else {
				redisOpts.Password = config.RedisCreds
			}
		}
		rdb := redis.NewClient(redisOpts)
		if err := rdb.Ping(ctx).Err(); err != nil {
			return nil, multierr.Append(err, rdb.Close())
		}
		logger.Info("Connected to Redis", zap.String("redisAddr", config.RedisAddr))
		return &cacheBackend{store: cache.NewRedisStore(rdb), rdb: rdb}, nil
	}

	// go-cache
	filePath := filepath.Join(config.CachePath, goCacheFile)
	var items map[string]gocache.Item
	if exists, err := afero.Exists(fs, filePath); err != nil {
		return nil, err
	} else if !exists {
		logger.Info("No persisted cache found, starting with an empty one", zap.String("cacheFile", filePath))
	} else if items, err = cache.LoadGoCache(fs, filePath); err != nil {
		// A corrupt file shouldn't prevent the service from starting
		logger.Warn("Couldn't load persisted cache, starting with an empty one", zap.Error(err), zap.String("cacheFile", filePath))
		items = nil
	} else {
		logger.Info("Loaded persisted cache", zap.String("cacheFile", filePath), zap.Int("itemCount", len(items)))
	}
	var memory *cache.MemoryStore
	if items != nil {
		memory = cache.NewMemoryStoreFrom(items, 10*time.Minute)
	} else {
		memory = cache.NewMemoryStore(10 * time.Minute)
	}
	return &cacheBackend{store: memory, memory: memory}, nil
}

// persist saves the in-memory cache. It's a no-op for the other backends, which persist on their own.
func (b *cacheBackend) persist(fs afero.Fs, cachePath string, logger *zap.Logger) {
	if b.memory == nil {
		return
	}
	filePath := filepath.Join(cachePath, goCacheFile)
	logger.Info("Persisting cache...", zap.String("cacheFile", filePath))
	start := time.Now()
	if err := fs.MkdirAll(cachePath, 0755); err != nil {
		logger.Error("Couldn't create cache directory", zap.Error(err))
		return
	}
	if err := cache.SaveGoCache(fs, b.memory.Items(), filePath); err != nil {
		logger.Error("Couldn't save cache to file", zap.Error(err))
		return
	}
	duration := time.Since(start).Milliseconds()
	durationString := strconv.FormatInt(duration, 10) + "ms"
	logger.Info("Persisted cache", zap.String("duration", durationString))
}

// itemCount returns the number of cached items, or -1 if the backend can't tell.
func (b *cacheBackend) itemCount(ctx context.Context) int {
	switch {
	case b.memory != nil:
		return b.memory.ItemCount()
	case b.rdb != nil:
		count, err := b.rdb.DBSize(ctx).Result()
		if err != nil {
			return -1
		}
		return int(count)
	case b.db != nil:
		count := 0
		_ = b.db.View(func(txn *badger.Txn) error {
			it := txn.NewIterator(badger.IteratorOptions{Prefix: []byte(cache.KeyPrefix)})
			defer it.Close()
			for it.Rewind(); it.Valid(); it.Next() {
				count++
			}
			return nil
		})
		return count
	}
	return -1
}

func (b *cacheBackend) logStats(ctx context.Context, name string, logger *zap.Logger) {
	logger.Info("Cache stats", zap.String("cache", name), zap.Int("itemCount", b.itemCount(ctx)))
}

func (b *cacheBackend) close() error {
	var err error
	if b.db != nil {
		err = multierr.Append(err, b.db.Close())
	}
	if b.rdb != nil {
		err = multierr.Append(err, b.rdb.Close())
	}
	return err
}
