package mirror

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "schoolgate:mirror:selection:"

// RedisInterface is the minimal client surface the store needs; the full
// *redis.Client satisfies it.
type RedisInterface interface {
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisStore is the durable backend shared by all surfaces. Entries carry
// a Redis expiration as a backstop; the Mirror still enforces the logical
// TTL from the creation timestamp.
type RedisStore struct {
	client     RedisInterface
	expiration time.Duration
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore wraps a Redis client. The expiration should be at least
// the mirror TTL; zero disables the backstop.
func NewRedisStore(client RedisInterface, expiration time.Duration) (*RedisStore, error) {
	if client == nil {
		return nil, errors.New("mirror: redis client is required")
	}
	return &RedisStore{client: client, expiration: expiration}, nil
}

func (s *RedisStore) Set(ctx context.Context, userID string, sel Selection) error {
	payload, err := json.Marshal(sel)
	if err != nil {
		return fmt.Errorf("encode selection: %w", err)
	}
	return s.client.Set(ctx, redisKeyPrefix+userID, payload, s.expiration).Err()
}

func (s *RedisStore) Get(ctx context.Context, userID string) (Selection, bool, error) {
	raw, err := s.client.Get(ctx, redisKeyPrefix+userID).Result()
	if errors.Is(err, redis.Nil) {
		return Selection{}, false, nil
	}
	if err != nil {
		return Selection{}, false, err
	}
	var sel Selection
	if err := json.Unmarshal([]byte(raw), &sel); err != nil {
		return Selection{}, false, fmt.Errorf("decode selection: %w", err)
	}
	return sel, true, nil
}

func (s *RedisStore) Delete(ctx context.Context, userID string) error {
	return s.client.Del(ctx, redisKeyPrefix+userID).Err()
}
