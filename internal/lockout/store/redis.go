package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"donorhub/internal/lockout/models"
)

const keyPrefix = "donorhub:lockout:"

// recordFailure resets the hash when the window has elapsed, then counts the
// failure. Times are unix milliseconds. The key expires once it can no longer
// matter.
var recordFailure = redis.NewScript(`
local first = redis.call('HGET', KEYS[1], 'first')
if (not first) or (tonumber(ARGV[1]) - tonumber(first) > tonumber(ARGV[2])) then
	redis.call('DEL', KEYS[1])
	redis.call('HSET', KEYS[1], 'first', ARGV[1])
end
local n = redis.call('HINCRBY', KEYS[1], 'failures', 1)
redis.call('HSET', KEYS[1], 'last', ARGV[1])
redis.call('PEXPIRE', KEYS[1], ARGV[2])
return n
`)

// RedisStore keeps one hash per key so lockouts are shared across replicas.
type RedisStore struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, key string) (*models.Record, error) {
	fields, err := s.client.HGetAll(ctx, keyPrefix+key).Result()
	if err != nil {
		return nil, fmt.Errorf("get lockout: %w", err)
	}
	if len(fields) == 0 {
		return nil, nil
	}
	rec := &models.Record{Key: key}
	if rec.FailureCount, err = intField(fields, "failures"); err != nil {
		return nil, err
	}
	if rec.FirstFailureAt, err = timeField(fields, "first"); err != nil {
		return nil, err
	}
	if rec.LastFailureAt, err = timeField(fields, "last"); err != nil {
		return nil, err
	}
	if _, ok := fields["locked_until"]; ok {
		until, err := timeField(fields, "locked_until")
		if err != nil {
			return nil, err
		}
		rec.LockedUntil = &until
	}
	return rec, nil
}

func (s *RedisStore) RecordFailure(ctx context.Context, key string, now time.Time, window time.Duration) (int, error) {
	n, err := recordFailure.Run(ctx, s.client, []string{keyPrefix + key}, now.UnixMilli(), window.Milliseconds()).Int()
	if err != nil {
		return 0, fmt.Errorf("record login failure: %w", err)
	}
	return n, nil
}

func (s *RedisStore) Lock(ctx context.Context, key string, until time.Time) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, keyPrefix+key, "locked_until", until.UnixMilli())
		pipe.PExpireAt(ctx, keyPrefix+key, until)
		return nil
	})
	if err != nil {
		return fmt.Errorf("lock login: %w", err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, keyPrefix+key).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("clear lockout: %w", err)
	}
	return nil
}

func intField(fields map[string]string, name string) (int, error) {
	raw, ok := fields[name]
	if !ok {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("lockout field %s: %w", name, err)
	}
	return n, nil
}

func timeField(fields map[string]string, name string) (time.Time, error) {
	raw, ok := fields[name]
	if !ok {
		return time.Time{}, nil
	}
	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("lockout field %s: %w", name, err)
	}
	return time.UnixMilli(ms).UTC(), nil
}
