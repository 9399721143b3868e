package credstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const (
	// KeyToken holds the opaque bearer token issued after Telegram login.
	KeyToken = "findmylink:credentials:token"
	// KeyUserID holds the backend user id associated with the token.
	KeyUserID = "findmylink:credentials:user_id"
)

// RedisStore persists credentials in Redis. No TTL: a token lives until it
// is explicitly removed or replaced.
type RedisStore struct {
	client *redis.Client
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore creates a Redis-backed credential store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Token(ctx context.Context) (string, error) {
	return s.get(ctx, KeyToken)
}

func (s *RedisStore) SetToken(ctx context.Context, token string) error {
	return s.set(ctx, KeyToken, token)
}

func (s *RedisStore) RemoveToken(ctx context.Context) error {
	return s.remove(ctx, KeyToken)
}

func (s *RedisStore) UserID(ctx context.Context) (string, error) {
	return s.get(ctx, KeyUserID)
}

func (s *RedisStore) SetUserID(ctx context.Context, id string) error {
	return s.set(ctx, KeyUserID, id)
}

func (s *RedisStore) RemoveUserID(ctx context.Context) error {
	return s.remove(ctx, KeyUserID)
}

func (s *RedisStore) get(ctx context.Context, key string) (string, error) {
	value, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to get %s: %w", key, err)
	}
	return value, nil
}

func (s *RedisStore) set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) remove(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}
