// Copyright (c) 2026 Revuo. All rights reserved.

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/revuo/revuo/internal/platform/apperr"
	"github.com/revuo/revuo/internal/platform/constants"
)

// RedisCodeRepository implements [CodeRepository] using Redis.
//
// Keys are user IDs, values are bcrypt hashes of the code, and the TTL is
// the expiry. Overwriting on re-signup invalidates any previous code.
type RedisCodeRepository struct {
	client *redis.Client
}

// NewCodeRepository creates a Redis-backed confirmation code store.
func NewCodeRepository(client *redis.Client) *RedisCodeRepository {
	return &RedisCodeRepository{client: client}
}

func codeKey(userID string) string {
	return fmt.Sprintf("%s%s", constants.RedisPrefixConfirmationCode, userID)
}

func (repository *RedisCodeRepository) Set(context context.Context, userID, codeHash string, ttl time.Duration) error {
	if err := repository.client.Set(context, codeKey(userID), codeHash, ttl).Err(); err != nil {
		return fmt.Errorf("redis_confirmation_code_set_failed: %w", err)
	}
	return nil
}

func (repository *RedisCodeRepository) Get(context context.Context, userID string) (string, error) {
	codeHash, err := repository.client.Get(context, codeKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", apperr.NotFound("Confirmation code")
		}
		return "", fmt.Errorf("redis_confirmation_code_get_failed: %w", err)
	}
	return codeHash, nil
}

func (repository *RedisCodeRepository) Delete(context context.Context, userID string) error {
	if err := repository.client.Del(context, codeKey(userID)).Err(); err != nil {
		return fmt.Errorf("redis_confirmation_code_delete_failed: %w", err)
	}
	return nil
}
