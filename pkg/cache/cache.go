// Package cache oferece um cache de respostas opcional sobre Redis.
package cache

import (
	"context"
	"errors"
	"time"

	"github.com/raywall/operadoras-api/pkg/config"
	"github.com/redis/go-redis/v9"
)

// ErrMiss indica que a chave não está no cache.
var ErrMiss = errors.New("cache miss")

// Cache é o contrato usado pelo serviço de operadoras.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Close() error
}

// New devolve um RedisCache quando há endereço configurado, senão um NoopCache.
func New(cfg config.CacheConf) Cache {
	if !cfg.Enabled() {
		return NoopCache{}
	}
	return NewRedisCache(redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}))
}

// RedisCache guarda valores serializados no Redis.
type RedisCache struct {
	client redis.Cmdable
	closer func() error
}

// NewRedisCache envolve um cliente go-redis já configurado.
func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client, closer: client.Close}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, err
	}
	return val, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

func (c *RedisCache) Close() error {
	if c.closer == nil {
		return nil
	}
	return c.closer()
}

// NoopCache nunca armazena nada: todo Get é um miss.
type NoopCache struct{}

func (NoopCache) Get(ctx context.Context, key string) ([]byte, error) { return nil, ErrMiss }
func (NoopCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return nil
}
func (NoopCache) Close() error { return nil }
