// Package cache keeps a short-lived copy of each owner's task list. The
// store stays the source of truth.
//
// Every owner has a version counter. Lists are stored under the version read
// before the store query, and every write bumps the counter, so a list read
// before a concurrent write can never be served after it.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
)

// TaskListCache caches task lists keyed by owner id and list version.
type TaskListCache interface {
	// Version returns the owner's current list version.
	Version(ctx context.Context, ownerID string) (int64, error)
	Get(ctx context.Context, ownerID string, version int64) ([]*models.Task, bool, error)
	Set(ctx context.Context, ownerID string, version int64, tasks []*models.Task) error
	// Invalidate moves the owner to a new version.
	Invalidate(ctx context.Context, ownerID string) error
}

func versionKey(ownerID string) string {
	return "tasks:owner:" + ownerID + ":v"
}

func listKey(ownerID string, version int64) string {
	return "tasks:owner:" + ownerID + ":" + strconv.FormatInt(version, 10)
}

// redisClient is the part of *redis.Client the cache uses.
type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Incr(ctx context.Context, key string) *redis.IntCmd
}

type RedisCache struct {
	client redisClient
	ttl    time.Duration
}

func NewRedisCache(client redisClient, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

// NewRedisClient connects to addr and pings it.
func NewRedisClient(ctx context.Context, addr string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return rdb, nil
}

func (c *RedisCache) Version(ctx context.Context, ownerID string) (int64, error) {
	v, err := c.client.Get(ctx, versionKey(ownerID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}

func (c *RedisCache) Get(ctx context.Context, ownerID string, version int64) ([]*models.Task, bool, error) {
	val, err := c.client.Get(ctx, listKey(ownerID, version)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var tasks []*models.Task
	if err := json.Unmarshal([]byte(val), &tasks); err != nil {
		return nil, false, fmt.Errorf("decode cached tasks: %w", err)
	}
	return tasks, true, nil
}

func (c *RedisCache) Set(ctx context.Context, ownerID string, version int64, tasks []*models.Task) error {
	data, err := json.Marshal(tasks)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, listKey(ownerID, version), data, c.ttl).Err()
}

func (c *RedisCache) Invalidate(ctx context.Context, ownerID string) error {
	return c.client.Incr(ctx, versionKey(ownerID)).Err()
}

// Nop never stores anything. Used when no Redis address is configured.
type Nop struct{}

func (Nop) Version(context.Context, string) (int64, error) { return 0, nil }
func (Nop) Get(context.Context, string, int64) ([]*models.Task, bool, error) {
	return nil, false, nil
}
func (Nop) Set(context.Context, string, int64, []*models.Task) error { return nil }
func (Nop) Invalidate(context.Context, string) error                 { return nil }
