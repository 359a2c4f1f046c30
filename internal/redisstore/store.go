// Package redisstore provides a networked KV store backed by Redis.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/rpggio/pmdash/internal/repository"
)

const scanBatch = 100

// KVStore implements repository.KVStore on Redis strings.
// Keys are namespaced so the store can share a database.
type KVStore struct {
	rdb       *redis.Client
	namespace string
}

// NewKVStore creates a store. An empty namespace stores keys as-is.
func NewKVStore(rdb *redis.Client, namespace string) *KVStore {
	return &KVStore{rdb: rdb, namespace: namespace}
}

// Open connects to addr and verifies the connection with PING.
func Open(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

func (s *KVStore) key(k string) string {
	return s.namespace + k
}

func (s *KVStore) Get(ctx context.Context, key string) (json.RawMessage, error) {
	val, err := s.rdb.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return json.RawMessage(val), nil
}

func (s *KVStore) Set(ctx context.Context, key string, value json.RawMessage) error {
	if err := s.rdb.Set(ctx, s.key(key), []byte(value), 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (s *KVStore) Delete(ctx context.Context, key string) error {
	if err := s.rdb.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

// GetByPrefix scans matching keys and fetches them with MGET, in key order.
// Keys deleted between SCAN and MGET are skipped.
func (s *KVStore) GetByPrefix(ctx context.Context, prefix string) ([]json.RawMessage, error) {
	pattern := escapeGlob(s.key(prefix)) + "*"

	var keys []string
	iter := s.rdb.Scan(ctx, 0, pattern, scanBatch).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("redis scan %s: %w", prefix, err)
	}
	if len(keys) == 0 {
		return nil, nil
	}
	sort.Strings(keys)

	vals, err := s.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("redis mget %s: %w", prefix, err)
	}
	out := make([]json.RawMessage, 0, len(vals))
	for _, v := range vals {
		str, ok := v.(string)
		if !ok {
			continue
		}
		out = append(out, json.RawMessage(str))
	}
	return out, nil
}

func escapeGlob(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`)
	return r.Replace(s)
}
