package cache

import (
	"context"
	"net/url"
	"os"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v2"
	"github.com/go-redis/redis/v8"
	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Saber4Dev/tmdb-slider/pkg/logadapter"
)

type clock struct {
	t time.Time
}

func (c *clock) now() time.Time {
	return c.t
}

func TestKey(t *testing.T) {
	base := "https://api.themoviedb.org/3/movie/popular?"

	q1 := url.Values{}
	q1.Set("language", "en-US")
	q1.Set("api_key", "123")
	q1.Set("page", "1")
	q2 := url.Values{}
	q2.Set("page", "1")
	q2.Set("api_key", "123")
	q2.Set("language", "en-US")
	// Canonicalized parameters lead to the same key, no matter the insertion order
	require.Equal(t, Key(base+q1.Encode()), Key(base+q2.Encode()))

	q2.Set("page", "2")
	require.NotEqual(t, Key(base+q1.Encode()), Key(base+q2.Encode()))

	k := Key(base + q1.Encode())
	require.Len(t, k, len(KeyPrefix)+32)
	require.Equal(t, KeyPrefix, k[:len(KeyPrefix)])
}

func TestItemExpired(t *testing.T) {
	created := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	item := Item{Created: created, TTL: time.Minute}
	require.False(t, item.Expired(created))
	require.False(t, item.Expired(created.Add(59*time.Second)))
	// Age equal to the TTL is already a miss
	require.True(t, item.Expired(created.Add(time.Minute)))
	require.True(t, item.Expired(created.Add(time.Hour)))
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore(0)
	c := &clock{t: time.Now()}
	s.now = c.now
	testStore(t, s, c)
}

func TestBadgerStore(t *testing.T) {
	opts := badger.DefaultOptions(t.TempDir()).
		WithLogger(logadapter.NewBadger2Zap(zap.NewNop()))
	db, err := badger.Open(opts)
	require.NoError(t, err)
	defer db.Close()

	s := NewBadgerStore(db)
	c := &clock{t: time.Now()}
	s.now = c.now
	testStore(t, s, c)
}

func TestRedisStore(t *testing.T) {
	addr, ok := os.LookupEnv("REDIS_ADDR")
	if !ok {
		t.Skip("REDIS_ADDR not set")
	}
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	defer rdb.Close()

	s := NewRedisStore(rdb)
	c := &clock{t: time.Now()}
	s.now = c.now
	testStore(t, s, c)
}

func testStore(t *testing.T, s Store, c *clock) {
	ctx := context.Background()

	// Purging an empty store is fine
	require.NoError(t, s.Purge(ctx, KeyPrefix))

	k1 := Key("https://example.com/1")
	k2 := Key("https://example.com/2")
	other := "other_" + k1

	// Empty Get
	_, found, err := s.Get(ctx, k1)
	require.NoError(t, err)
	require.False(t, found)

	// Set, then immediate Get
	v1 := []byte(`{"results":[{"id":1}]}`)
	require.NoError(t, s.Set(ctx, k1, v1, time.Minute))
	res, found, err := s.Get(ctx, k1)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, v1, res)

	// Modifying the returned value doesn't modify the cached one
	res[0] = 'x'
	res, _, err = s.Get(ctx, k1)
	require.NoError(t, err)
	require.Equal(t, v1, res)

	// Overwrite
	v2 := []byte(`{"results":[]}`)
	require.NoError(t, s.Set(ctx, k1, v2, time.Minute))
	res, found, err = s.Get(ctx, k1)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, v2, res)

	// Expiry
	c.t = c.t.Add(time.Minute)
	_, found, err = s.Get(ctx, k1)
	require.NoError(t, err)
	require.False(t, found)

	// Zero TTL doesn't store anything
	require.NoError(t, s.Set(ctx, k2, v1, 0))
	_, found, err = s.Get(ctx, k2)
	require.NoError(t, err)
	require.False(t, found)

	// Purge only removes keys with the prefix
	require.NoError(t, s.Set(ctx, k1, v1, time.Hour))
	require.NoError(t, s.Set(ctx, k2, v2, time.Hour))
	require.NoError(t, s.Set(ctx, other, v1, time.Hour))
	require.NoError(t, s.Purge(ctx, KeyPrefix))
	_, found, err = s.Get(ctx, k1)
	require.NoError(t, err)
	require.False(t, found)
	_, found, err = s.Get(ctx, k2)
	require.NoError(t, err)
	require.False(t, found)
	res, found, err = s.Get(ctx, other)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, v1, res)
	require.NoError(t, s.Purge(ctx, "other_"))
}

func TestGoCachePersistence(t *testing.T) {
	RegisterTypes()
	ctx := context.Background()
	fs := afero.NewMemMapFs()

	s := NewMemoryStore(0)
	exp1 := []byte(`{"results":[{"id":1}]}`)
	exp2 := []byte(`{"results":[{"id":2}]}`)
	require.NoError(t, s.Set(ctx, "tmdb_1", exp1, time.Hour))
	require.NoError(t, s.Set(ctx, "tmdb_2", exp2, time.Hour))
	require.NoError(t, fs.MkdirAll("/cache", 0700))
	err := SaveGoCache(fs, s.Items(), "/cache/tmdb.gob")
	require.NoError(t, err)

	items, err := LoadGoCache(fs, "/cache/tmdb.gob")
	require.NoError(t, err)
	require.Len(t, items, 2)
	s = NewMemoryStoreFrom(items, 0)
	require.Equal(t, 2, s.ItemCount())

	actual1, found, err := s.Get(ctx, "tmdb_1")
	require.NoError(t, err)
	require.True(t, found)
	require.True(t, cmp.Equal(exp1, actual1))
	actual2, found, err := s.Get(ctx, "tmdb_2")
	require.NoError(t, err)
	require.True(t, found)
	require.True(t, cmp.Equal(exp2, actual2))

	_, err = LoadGoCache(fs, "/cache/missing.gob")
	require.Error(t, err)
}
