package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// RedisKeyPrefix prefixes every token key.
const RedisKeyPrefix = "esi:auth:token:"

var tokenStoreOps = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "esi_token_store_operations_total",
	Help: "Token store operations by operation and result",
}, []string{"operation", "result"})

// RedisStore keeps the token in Redis under RedisKeyPrefix + name.
type RedisStore struct {
	redis  *redis.Client
	key    string
	logger zerolog.Logger
}

// NewRedisStore creates a store for the named token.
func NewRedisStore(redisClient *redis.Client, name string, logger zerolog.Logger) *RedisStore {
	if redisClient == nil {
		panic("redis client cannot be nil")
	}
	return &RedisStore{
		redis:  redisClient,
		key:    RedisKeyPrefix + name,
		logger: logger,
	}
}

// Key returns the Redis key holding the token.
func (s *RedisStore) Key() string {
	return s.key
}

// Save implements Store. Redis expires the key after ttl.
func (s *RedisStore) Save(ctx context.Context, token string, ttl time.Duration) error {
	if token == "" {
		return ErrEmptyToken
	}

	if err := s.redis.Set(ctx, s.key, token, ttl).Err(); err != nil {
		tokenStoreOps.WithLabelValues("save", "error").Inc()
		return fmt.Errorf("redis set: %w", err)
	}

	tokenStoreOps.WithLabelValues("save", "ok").Inc()
	s.logger.Debug().
		Str("key", s.key).
		Dur("ttl", ttl).
		Msg("Stored bearer token")
	return nil
}

// Token implements Store.
func (s *RedisStore) Token(ctx context.Context) (string, error) {
	token, err := s.redis.Get(ctx, s.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			tokenStoreOps.WithLabelValues("load", "miss").Inc()
			return "", ErrTokenNotFound
		}
		tokenStoreOps.WithLabelValues("load", "error").Inc()
		return "", fmt.Errorf("redis get: %w", err)
	}

	tokenStoreOps.WithLabelValues("load", "ok").Inc()
	return token, nil
}

// TTL returns the remaining lifetime of the stored token, 0 when it never expires.
func (s *RedisStore) TTL(ctx context.Context) (time.Duration, error) {
	ttl, err := s.redis.TTL(ctx, s.key).Result()
	if err != nil {
		return 0, fmt.Errorf("redis ttl: %w", err)
	}
	switch ttl {
	case -2: // key missing
		return 0, ErrTokenNotFound
	case -1: // no expiry
		return 0, nil
	}
	return ttl, nil
}

// Clear implements Store.
func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.redis.Del(ctx, s.key).Err(); err != nil {
		tokenStoreOps.WithLabelValues("clear", "error").Inc()
		return fmt.Errorf("redis del: %w", err)
	}
	tokenStoreOps.WithLabelValues("clear", "ok").Inc()
	return nil
}
