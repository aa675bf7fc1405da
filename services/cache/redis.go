package cache

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisValuePrefix = "reelist:cache:"
	redisTagPrefix   = "reelist:tag:"
)

// Redis is a Store backed by a shared Redis instance, for deployments
// running more than one server process. Tag membership is kept in Redis
// sets; set entries for expired keys are cleaned up during invalidation.
type Redis struct {
	client *redis.Client
}

// NewRedis connects to addr and verifies the connection.
func NewRedis(ctx context.Context, addr, password string) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("connect redis at %s: %w", addr, err)
	}
	return &Redis{client: client}, nil
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := r.client.Get(ctx, redisValuePrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		// Degrade to a miss; the fetch layer goes upstream.
		log.Printf("[cache] redis get failed key=%s err=%v", key, err)
		return nil, false
	}
	return val, true
}

func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration, tags []string) error {
	pipe := r.client.TxPipeline()
	pipe.Set(ctx, redisValuePrefix+key, value, ttl)
	for _, tag := range tags {
		tagKey := redisTagPrefix + tag
		pipe.SAdd(ctx, tagKey, key)
		// Keep tag sets from outliving their longest member forever.
		pipe.Expire(ctx, tagKey, ttl+24*time.Hour)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (r *Redis) InvalidateTag(ctx context.Context, tag string) error {
	tagKey := redisTagPrefix + tag
	keys, err := r.client.SMembers(ctx, tagKey).Result()
	if err != nil && err != redis.Nil {
		return fmt.Errorf("redis tag members %s: %w", tag, err)
	}
	if len(keys) > 0 {
		prefixed := make([]string, len(keys))
		for i, k := range keys {
			prefixed[i] = redisValuePrefix + k
		}
		if err := r.client.Del(ctx, prefixed...).Err(); err != nil {
			return fmt.Errorf("redis invalidate %s: %w", tag, err)
		}
	}
	return r.client.Del(ctx, tagKey).Err()
}

// Close releases the underlying connection pool.
func (r *Redis) Close() error {
	return r.client.Close()
}
