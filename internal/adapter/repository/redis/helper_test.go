package redis

import (
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	redislib "github.com/redis/go-redis/v9"
)

// redisFixture bundles an in-process redis server with a client pointed at
// it. miniredis.RunT ties the server lifetime to the test; the client is
// closed through t.Cleanup.
type redisFixture struct {
	client *redislib.Client
	mr     *miniredis.Miniredis
}

func newRedisFixture(t *testing.T) *redisFixture {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redislib.NewClient(&redislib.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return &redisFixture{client: client, mr: mr}
}

func (f *redisFixture) cache() *Cache {
	return NewCache(f.client)
}

func (f *redisFixture) idempotency() *IdempotencyStore {
	return NewIdempotencyStore(f.client)
}
