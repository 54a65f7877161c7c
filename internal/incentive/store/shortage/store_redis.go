package shortage

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/redis/go-redis/v9"

	"donorhub/internal/incentive/models"
	id "donorhub/pkg/domain"
	"donorhub/pkg/platform/sentinel"
)

const boardKey = "donorhub:shortages"

// RedisStore keeps the board in one hash: blood type -> JSON flag.
// Replicas read flags written by any instance.
type RedisStore struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Flag(ctx context.Context, flag models.ShortageFlag) error {
	payload, err := json.Marshal(flag)
	if err != nil {
		return fmt.Errorf("marshal shortage: %w", err)
	}
	if err := s.client.HSet(ctx, boardKey, string(flag.BloodType), payload).Err(); err != nil {
		return fmt.Errorf("flag shortage: %w", err)
	}
	return nil
}

func (s *RedisStore) Unflag(ctx context.Context, bloodType id.BloodType) error {
	removed, err := s.client.HDel(ctx, boardKey, string(bloodType)).Result()
	if err != nil {
		return fmt.Errorf("unflag shortage: %w", err)
	}
	if removed == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *RedisStore) IsFlagged(ctx context.Context, bloodType id.BloodType) (bool, error) {
	ok, err := s.client.HExists(ctx, boardKey, string(bloodType)).Result()
	if err != nil {
		return false, fmt.Errorf("check shortage: %w", err)
	}
	return ok, nil
}

func (s *RedisStore) List(ctx context.Context) ([]models.ShortageFlag, error) {
	raw, err := s.client.HGetAll(ctx, boardKey).Result()
	if err != nil {
		return nil, fmt.Errorf("list shortages: %w", err)
	}
	flags := make([]models.ShortageFlag, 0, len(raw))
	for _, v := range raw {
		var f models.ShortageFlag
		if err := json.Unmarshal([]byte(v), &f); err != nil {
			return nil, fmt.Errorf("decode shortage: %w", err)
		}
		flags = append(flags, f)
	}
	slices.SortFunc(flags, func(a, b models.ShortageFlag) int {
		return strings.Compare(string(a.BloodType), string(b.BloodType))
	})
	return flags, nil
}
