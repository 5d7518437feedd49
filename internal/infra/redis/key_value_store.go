package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// KeyValueStore persists values as plain Redis strings under a namespaced key.
// Keys are written without expiry: the leaderboard is durable.
//
//	SET calquiz:kv:{key} {value}
type KeyValueStore struct {
	client *redis.Client
	prefix string
}

func NewKeyValueStore(client *redis.Client) *KeyValueStore {
	return &KeyValueStore{client: client, prefix: "calquiz:kv:"}
}

func (s *KeyValueStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := s.client.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return value, true, nil
}

func (s *KeyValueStore) Put(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, s.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (s *KeyValueStore) key(key string) string {
	return s.prefix + key
}
