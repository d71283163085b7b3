package cache

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"focusdock/internal/config"
	"focusdock/pkg/logger"
)

var (
	client *redis.Client
	once   sync.Once
)

// Client returns the global Redis client (initialized on first use). Returns
// nil when Redis is unreachable; every call path treats that as a cache miss.
func Client(ctx context.Context) *redis.Client {
	once.Do(func() {
		cfg := config.Get()
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Error(ctx, "Invalid REDIS_URL", "error", err, "url", cfg.RedisURL)
			return
		}
		opts.PoolSize = cfg.RedisPoolSize
		c := redis.NewClient(opts)
		if err := c.Ping(ctx).Err(); err != nil {
			logger.Warn(ctx, "Redis ping failed; running without cache", "error", err)
			return
		}
		client = c
		logger.Info(ctx, "Redis client initialized", "pool_size", cfg.RedisPoolSize)
	})
	return client
}

func todosKey(ownerID string) string {
	return "todos:" + ownerID
}

// GetRawTodos reads an owner's todo list from Redis as raw JSON bytes.
// Returns (nil, false) on miss or error.
func GetRawTodos(ctx context.Context, ownerID string) ([]byte, bool) {
	c := Client(ctx)
	if c == nil {
		return nil, false
	}
	b, err := c.Get(ctx, todosKey(ownerID)).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		logger.Debug(ctx, "Redis get todos failed", "error", err)
		return nil, false
	}
	return b, true
}

// SetRawTodosAsync writes an owner's serialized todo list with the configured
// TTL without blocking the request path.
func SetRawTodosAsync(ownerID string, b []byte) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		c := Client(ctx)
		if c == nil {
			return
		}
		ttl := time.Duration(config.Get().CacheTTL) * time.Second
		if err := c.Set(ctx, todosKey(ownerID), b, ttl).Err(); err != nil {
			logger.Debug(ctx, "Redis set todos failed", "error", err)
		}
	}()
}

// InvalidateTodos deletes the owner's cache key so the next read goes to the
// store. Called after every todo write.
func InvalidateTodos(ctx context.Context, ownerID string) {
	c := Client(ctx)
	if c == nil {
		return
	}
	if err := c.Del(ctx, todosKey(ownerID)).Err(); err != nil {
		logger.Debug(ctx, "Redis invalidate todos failed", "error", err)
	}
}
