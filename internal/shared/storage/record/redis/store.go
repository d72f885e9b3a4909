// Package redis implements the record store on Redis, with prefix listing
// via SCAN.
package redis

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	goredis "github.com/redis/go-redis/v9"

	"design-insight-backend/internal/shared/storage/record"
)

// Store keeps records as string values under a namespace prefix.
type Store struct {
	client    *goredis.Client
	namespace string
}

// New creates a Redis-backed record store. addr is host:port.
func New(addr, password, namespace string) *Store {
	return &Store{
		client: goredis.NewClient(&goredis.Options{
			Addr:     addr,
			Password: password,
		}),
		namespace: strings.Trim(namespace, ":"),
	}
}

// Put stores the payload at the key. Records have no TTL; deletion is
// explicit.
func (s *Store) Put(ctx context.Context, key string, payload []byte) error {
	if err := s.client.Set(ctx, s.redisKey(key), payload, 0).Err(); err != nil {
		return fmt.Errorf("redis set %q: %w", key, err)
	}
	return nil
}

// Get reads the payload stored at the key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	payload, err := s.client.Get(ctx, s.redisKey(key)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, record.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %q: %w", key, err)
	}
	return payload, nil
}

// Delete removes the key. Deleting a missing key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.redisKey(key)).Err(); err != nil {
		return fmt.Errorf("redis del %q: %w", key, err)
	}
	return nil
}

// ListKeys SCANs for keys under the prefix and returns them sorted, with
// the namespace stripped.
func (s *Store) ListKeys(ctx context.Context, prefix string) ([]string, error) {
	pattern := s.redisKey(prefix) + "*"
	keys := []string{}
	iter := s.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, s.stripNamespace(iter.Val()))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("redis scan %q: %w", prefix, err)
	}
	sort.Strings(keys)
	return keys, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) redisKey(key string) string {
	if s.namespace == "" {
		return key
	}
	return s.namespace + ":" + key
}

func (s *Store) stripNamespace(redisKey string) string {
	if s.namespace == "" {
		return redisKey
	}
	return strings.TrimPrefix(strings.TrimPrefix(redisKey, s.namespace), ":")
}
