package store

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"donorhub/internal/identifier/models"
)

const keyPrefix = "donorhub:identifiers:"

// RedisStore keeps one SET per kind. SADD reports whether the member was new,
// which makes Reserve a single atomic round trip.
type RedisStore struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Reserve(ctx context.Context, ident models.Identifier) (bool, error) {
	added, err := s.client.SAdd(ctx, setKey(ident.Kind), ident.Value).Result()
	if err != nil {
		return false, fmt.Errorf("reserve identifier: %w", err)
	}
	return added == 1, nil
}

func (s *RedisStore) Count(ctx context.Context, kind models.Kind) (int, error) {
	n, err := s.client.SCard(ctx, setKey(kind)).Result()
	if err != nil {
		return 0, fmt.Errorf("count identifiers: %w", err)
	}
	return int(n), nil
}

func setKey(kind models.Kind) string {
	return keyPrefix + string(kind)
}
