package cache

import (
	"context"
	"testing"
	"time"

	"github.com/raywall/operadoras-api/pkg/config"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_SelectsImplementation(t *testing.T) {
	assert.IsType(t, NoopCache{}, New(config.CacheConf{}))

	c := New(config.CacheConf{Addr: "localhost:6379"})
	require.IsType(t, &RedisCache{}, c)
	assert.NoError(t, c.Close())
}

func TestNoopCache(t *testing.T) {
	c := NoopCache{}
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "operadoras:dashboard", []byte(`[]`), time.Minute))

	_, err := c.Get(ctx, "operadoras:dashboard")
	assert.ErrorIs(t, err, ErrMiss)
	assert.NoError(t, c.Close())
}

func TestRedisCache_UnreachableServer(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	c := NewRedisCache(client)
	defer c.Close()

	ctx := context.Background()

	_, err := c.Get(ctx, "operadoras:dashboard")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrMiss)

	assert.Error(t, c.Set(ctx, "operadoras:dashboard", []byte(`[]`), time.Minute))
}
