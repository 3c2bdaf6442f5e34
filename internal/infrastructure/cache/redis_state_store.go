package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	appconnection "github.com/pulse/backend/internal/application/connection"
	"github.com/pulse/backend/internal/domain/shared"
)

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// RedisStateStore implements the OAuth state store using Redis.
// States are single use: Take retrieves and deletes atomically via GETDEL, so
// a replayed callback with the same state token is rejected.
type RedisStateStore struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisStateStore creates a new Redis-backed OAuth state store
func NewRedisStateStore(cfg RedisConfig) (*RedisStateStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisStateStore{
		client:    client,
		keyPrefix: "oauth:state:",
	}, nil
}

// NewRedisStateStoreWithClient creates a store with an existing Redis client
func NewRedisStateStoreWithClient(client *redis.Client, keyPrefix string) *RedisStateStore {
	if keyPrefix == "" {
		keyPrefix = "oauth:state:"
	}
	return &RedisStateStore{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// Put stores the state payload under the state token with a TTL
func (s *RedisStateStore) Put(ctx context.Context, state string, payload appconnection.StatePayload, ttl time.Duration) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode state payload: %w", err)
	}
	if err := s.client.Set(ctx, s.keyPrefix+state, raw, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store oauth state: %w", err)
	}
	return nil
}

// Take retrieves and deletes the payload; a state can be consumed once
func (s *RedisStateStore) Take(ctx context.Context, state string) (*appconnection.StatePayload, error) {
	raw, err := s.client.GetDel(ctx, s.keyPrefix+state).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to take oauth state: %w", err)
	}

	var payload appconnection.StatePayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("failed to decode state payload: %w", err)
	}
	return &payload, nil
}

// Close closes the Redis client
func (s *RedisStateStore) Close() error {
	return s.client.Close()
}

// Ensure RedisStateStore implements StateStore
var _ appconnection.StateStore = (*RedisStateStore)(nil)
