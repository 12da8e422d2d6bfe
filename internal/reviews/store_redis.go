package reviews

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps one redis list per product. RPUSH appends, so LRANGE
// returns reviews in insertion order.
// The client must have ContextTimeoutEnabled set for the per-call timeout to
// bound socket reads.
type RedisStore struct {
	client  *redis.Client
	prefix  string
	timeout time.Duration
}

func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix, timeout: queryTimeout}
}

// ConnectRedis builds a client for addr and verifies it answers.
func ConnectRedis(ctx context.Context, addr, password string, db int, prefix string) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:                  addr,
		Password:              password,
		DB:                    db,
		ContextTimeoutEnabled: true,
	})

	s := NewRedisStore(client, prefix)
	if err := s.Ping(ctx); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return s, nil
}

func (s *RedisStore) key(productID string) string {
	return s.prefix + productID
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return withTimeout(ctx, pingTimeout, func(ctx context.Context) error {
		return s.client.Ping(ctx).Err()
	})
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) Append(ctx context.Context, productID string, rv Review) error {
	data, err := json.Marshal(rv)
	if err != nil {
		return fmt.Errorf("marshal review: %w", err)
	}

	err = withTimeout(ctx, s.timeout, func(ctx context.Context) error {
		return s.client.RPush(ctx, s.key(productID), data).Err()
	})
	if err != nil {
		return fmt.Errorf("redis rpush review: %w", err)
	}
	return nil
}

func (s *RedisStore) List(ctx context.Context, productID string) ([]Review, error) {
	var raw []string
	err := withTimeout(ctx, s.timeout, func(ctx context.Context) error {
		var err error
		raw, err = s.client.LRange(ctx, s.key(productID), 0, -1).Result()
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("redis lrange reviews: %w", err)
	}

	out := make([]Review, 0, len(raw))
	for _, item := range raw {
		var rv Review
		if err := json.Unmarshal([]byte(item), &rv); err != nil {
			return nil, fmt.Errorf("unmarshal review: %w", err)
		}
		out = append(out, rv)
	}
	return out, nil
}
