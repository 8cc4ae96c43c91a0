package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// All records live in one hash so DeleteAll is a single DEL.
const redisCredentialsKey = "coach:credentials"

type redisRepository struct {
	rdb *redis.Client
	key string
}

func NewRedisRepository(rdb *redis.Client) SecretRepository {
	return &redisRepository{rdb: rdb, key: redisCredentialsKey}
}

func (r *redisRepository) Get(ctx context.Context, name string) ([]byte, error) {
	value, err := r.rdb.HGet(ctx, r.key, name).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("could not read credential: %w", err)
	}
	return value, nil
}

func (r *redisRepository) Put(ctx context.Context, name string, value []byte) error {
	if err := r.rdb.HSet(ctx, r.key, name, value).Err(); err != nil {
		return fmt.Errorf("could not write credential: %w", err)
	}
	return nil
}

func (r *redisRepository) Delete(ctx context.Context, name string) error {
	if err := r.rdb.HDel(ctx, r.key, name).Err(); err != nil {
		return fmt.Errorf("could not delete credential: %w", err)
	}
	return nil
}

func (r *redisRepository) DeleteAll(ctx context.Context) error {
	if err := r.rdb.Del(ctx, r.key).Err(); err != nil {
		return fmt.Errorf("could not delete credentials: %w", err)
	}
	return nil
}
