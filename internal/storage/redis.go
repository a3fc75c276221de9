package storage

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// RedisKV keeps entries as plain redis strings under a common prefix.
type RedisKV struct {
	Redis  *redis.Client
	Prefix string
}

func NewRedisKV(rdb *redis.Client, prefix string) *RedisKV {
	return &RedisKV{Redis: rdb, Prefix: prefix}
}

func (s *RedisKV) Load(ctx context.Context, key string) (string, bool, error) {
	val, err := s.Redis.Get(ctx, s.Prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (s *RedisKV) Save(ctx context.Context, key, value string) error {
	return s.Redis.Set(ctx, s.Prefix+key, value, 0).Err()
}

func (s *RedisKV) Remove(ctx context.Context, key string) error {
	return s.Redis.Del(ctx, s.Prefix+key).Err()
}

func (s *RedisKV) Close() error {
	return s.Redis.Close()
}
