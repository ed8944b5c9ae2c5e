package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/reservoir-app/reservoir/internal/domain"
)

const redisKeyPrefix = "reservoir:session:"

// RedisStore implements Store using Redis with native key expiry. Suitable
// for multi-instance deployments where session state must be shared.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a Redis-backed session store. Keys expire after ttl;
// reads refresh the expiry so active sessions stay alive.
func NewRedisStore(client *redis.Client, ttl time.Duration) (*RedisStore, error) {
	if client == nil {
		return nil, ErrInvalidConfig
	}
	if ttl <= 0 {
		return nil, ErrInvalidConfig
	}
	return &RedisStore{client: client, ttl: ttl}, nil
}

// Get retrieves an entry by session ID.
func (s *RedisStore) Get(ctx context.Context, id string) (*domain.SessionEntry, error) {
	val, err := s.client.Get(ctx, redisKeyPrefix+id).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session %s: %w", id, err)
	}

	var entry domain.SessionEntry
	if err := json.Unmarshal([]byte(val), &entry); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}

	// Refresh TTL on read so active sessions do not expire mid-conversation.
	_ = s.client.Expire(ctx, redisKeyPrefix+id, s.ttl).Err()

	return &entry, nil
}

// Put stores an entry under its session ID.
func (s *RedisStore) Put(ctx context.Context, entry *domain.SessionEntry) error {
	val, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", entry.ID, err)
	}
	if err := s.client.Set(ctx, redisKeyPrefix+entry.ID, val, s.ttl).Err(); err != nil {
		return fmt.Errorf("put session %s: %w", entry.ID, err)
	}
	return nil
}

// Delete removes a single entry.
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, redisKeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("delete session %s: %w", id, err)
	}
	return nil
}

// DeleteAll clears all session keys under the store's prefix.
func (s *RedisStore) DeleteAll(ctx context.Context) error {
	iter := s.client.Scan(ctx, 0, redisKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("delete session key %s: %w", iter.Val(), err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scan session keys: %w", err)
	}
	return nil
}

// Sweep is a no-op: Redis expires keys natively.
func (s *RedisStore) Sweep(ctx context.Context, ttl time.Duration) (int, error) {
	return 0, nil
}

// Close releases the Redis client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

var _ Store = (*RedisStore)(nil)
