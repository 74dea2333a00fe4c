package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	selahsdk "github.com/selah-labs/selah-sdk-go"
)

// RedisStateStore implements selahsdk.StateStore using Redis. Works with
// go-redis Client, ClusterClient, and Ring via UniversalClient.
//
// Keys are namespaced as "{prefix}:{userID}:{key}" for KV
// and "{prefix}:{userID}:list:{key}" for lists.
type RedisStateStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
	ctx    context.Context
}

// RedisStoreConfig configures the Redis stores.
type RedisStoreConfig struct {
	Prefix string        // key prefix, default "selah"
	TTL    time.Duration // TTL for KV entries, 0 = no expiry
}

// NewRedisStateStore creates a StateStore backed by Redis.
func NewRedisStateStore(client redis.UniversalClient, config ...RedisStoreConfig) *RedisStateStore {
	cfg := RedisStoreConfig{Prefix: "selah"}
	if len(config) > 0 {
		cfg = config[0]
	}
	if cfg.Prefix == "" {
		cfg.Prefix = "selah"
	}
	return &RedisStateStore{
		client: client,
		prefix: cfg.Prefix,
		ttl:    cfg.TTL,
		ctx:    context.Background(),
	}
}

func (r *RedisStateStore) kvKey(userID, key string) string {
	return fmt.Sprintf("%s:%s:%s", r.prefix, userID, key)
}

func (r *RedisStateStore) listKey(userID, key string) string {
	return fmt.Sprintf("%s:%s:list:%s", r.prefix, userID, key)
}

func (r *RedisStateStore) Get(userID, key string) (string, error) {
	val, err := r.client.Get(r.ctx, r.kvKey(userID, key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", err
	}
	return val, nil
}

func (r *RedisStateStore) Set(userID, key, value string) error {
	return r.client.Set(r.ctx, r.kvKey(userID, key), value, r.ttl).Err()
}

func (r *RedisStateStore) Delete(userID, key string) error {
	return r.client.Del(r.ctx, r.kvKey(userID, key)).Err()
}

func (r *RedisStateStore) ListKeys(userID string) ([]string, error) {
	pattern := fmt.Sprintf("%s:%s:*", r.prefix, userID)
	keys, err := r.client.Keys(r.ctx, pattern).Result()
	if err != nil {
		return nil, err
	}
	prefixLen := len(fmt.Sprintf("%s:%s:", r.prefix, userID))
	result := make([]string, 0, len(keys))
	for _, k := range keys {
		if len(k) > prefixLen {
			result = append(result, k[prefixLen:])
		}
	}
	return result, nil
}

func (r *RedisStateStore) Append(userID, key, value string) error {
	return r.client.RPush(r.ctx, r.listKey(userID, key), value).Err()
}

func (r *RedisStateStore) GetList(userID, key string, limit, offset int) ([]string, error) {
	start := int64(offset)
	var stop int64
	if limit > 0 {
		stop = start + int64(limit) - 1
	} else {
		stop = -1
	}
	return r.client.LRange(r.ctx, r.listKey(userID, key), start, stop).Result()
}

func (r *RedisStateStore) TrimList(userID, key string, maxSize int) error {
	return r.client.LTrim(r.ctx, r.listKey(userID, key), int64(-maxSize), -1).Err()
}

func (r *RedisStateStore) ClearList(userID, key string) error {
	return r.client.Del(r.ctx, r.listKey(userID, key)).Err()
}

func (r *RedisStateStore) ListLength(userID, key string) (int, error) {
	n, err := r.client.LLen(r.ctx, r.listKey(userID, key)).Result()
	return int(n), err
}

func (r *RedisStateStore) Close() error {
	return r.client.Close()
}

// RedisUsageStore implements selahsdk.UsageStore using Redis day-bucket
// counters. Buckets expire on their own so stale days never accumulate.
//
// Keys are "{prefix}:usage:{userID}:{feature}:{day}".
type RedisUsageStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
	ctx    context.Context
}

// RedisUsageConfig configures the usage store.
type RedisUsageConfig struct {
	Prefix string        // key prefix, default "selah"
	TTL    time.Duration // bucket TTL, default 48h (yesterday stays readable)
}

// NewRedisUsageStore creates a UsageStore backed by Redis.
func NewRedisUsageStore(client redis.UniversalClient, config ...RedisUsageConfig) *RedisUsageStore {
	cfg := RedisUsageConfig{Prefix: "selah", TTL: 48 * time.Hour}
	if len(config) > 0 {
		cfg = config[0]
	}
	if cfg.Prefix == "" {
		cfg.Prefix = "selah"
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 48 * time.Hour
	}
	return &RedisUsageStore{
		client: client,
		prefix: cfg.Prefix,
		ttl:    cfg.TTL,
		ctx:    context.Background(),
	}
}

func (r *RedisUsageStore) usageKey(userID string, feature selahsdk.Feature, day string) string {
	return fmt.Sprintf("%s:usage:%s:%s:%s", r.prefix, userID, feature, day)
}

func (r *RedisUsageStore) IncrDay(userID string, feature selahsdk.Feature, day string) (int, error) {
	key := r.usageKey(userID, feature, day)
	n, err := r.client.Incr(r.ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if n == 1 {
		r.client.Expire(r.ctx, key, r.ttl)
	}
	return int(n), nil
}

func (r *RedisUsageStore) CountDay(userID string, feature selahsdk.Feature, day string) (int, error) {
	val, err := r.client.Get(r.ctx, r.usageKey(userID, feature, day)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, err
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("corrupt usage counter: %w", err)
	}
	return n, nil
}

// Compile-time interface checks.
var (
	_ selahsdk.StateStore = (*RedisStateStore)(nil)
	_ selahsdk.UsageStore = (*RedisUsageStore)(nil)
)
