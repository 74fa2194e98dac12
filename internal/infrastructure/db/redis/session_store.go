package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/staybook/portal/internal/core/ports"
)

const keyPrefix = "portal:client:"

// StoreProvider keeps each client's session namespace in one Redis hash.
// Key format: portal:client:<client_id>, fields are the storage keys.
// Entries never expire.
type StoreProvider struct {
	client *redis.Client
}

// NewStoreProvider creates a StoreProvider wrapping the given Redis client.
func NewStoreProvider(client *redis.Client) *StoreProvider {
	return &StoreProvider{client: client}
}

func (p *StoreProvider) ForClient(clientID string) ports.SessionStore {
	return &SessionStore{client: p.client, hash: keyPrefix + clientID}
}

func (p *StoreProvider) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

// SessionStore is one client's hash.
type SessionStore struct {
	client *redis.Client
	hash   string
}

func (s *SessionStore) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.client.HGet(ctx, s.hash, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis hget %s: %w", key, err)
	}
	return v, true, nil
}

func (s *SessionStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.HSet(ctx, s.hash, key, value).Err(); err != nil {
		return fmt.Errorf("redis hset %s: %w", key, err)
	}
	return nil
}

func (s *SessionStore) Remove(ctx context.Context, key string) error {
	if err := s.client.HDel(ctx, s.hash, key).Err(); err != nil {
		return fmt.Errorf("redis hdel %s: %w", key, err)
	}
	return nil
}
