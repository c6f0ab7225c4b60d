package config

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

// RedisHandles bundles the shared client with its lock client.
// Locks taken through it live OUTSIDE any database transaction; releasing
// them on failure is a compensating action, not part of the tx rollback.
type RedisHandles struct {
	Client *redis.Client
	Locker *redislock.Client
}

// OpenRedis connects to redis using REDIS_ADDRESS / REDIS_PASSWORD.
func OpenRedis(ctx context.Context) (*RedisHandles, error) {
	address := os.Getenv("REDIS_ADDRESS")
	if address == "" {
		address = "127.0.0.1:6379"
	}
	client := redis.NewClient(&redis.Options{
		Addr:     address,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping %s: %w", address, err)
	}
	return &RedisHandles{
		Client: client,
		Locker: redislock.New(client),
	}, nil
}

// OpenRedisWithRetry keeps retrying until redis accepts connections.
func OpenRedisWithRetry(ctx context.Context, maxWait time.Duration) (*RedisHandles, error) {
	deadline := time.Now().Add(maxWait)
	var lastErr error
	for time.Now().Before(deadline) {
		handles, err := OpenRedis(ctx)
		if err == nil {
			return handles, nil
		}
		lastErr = err
		time.Sleep(time.Second)
	}
	return nil, fmt.Errorf("redis not reachable after %s: %w", maxWait, lastErr)
}
