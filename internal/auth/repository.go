// AngelaMos | 2026
// repository.go

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/angelamos/artvia-backend/internal/core"
)

// Repository tracks revoked token ids until they would have expired anyway.
type Repository interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type repository struct {
	redis *redis.Client
}

func NewRepository(client *redis.Client) Repository {
	return &repository{redis: client}
}

func (r *repository) Revoke(
	ctx context.Context,
	tokenID string,
	expiresAt time.Time,
) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}

	key := core.RedisKey("blacklist", tokenID)
	if err := r.redis.Set(ctx, key, "1", ttl).Err(); err != nil {
		return fmt.Errorf("blacklist token: %w", err)
	}

	return nil
}

func (r *repository) IsRevoked(
	ctx context.Context,
	tokenID string,
) (bool, error) {
	key := core.RedisKey("blacklist", tokenID)

	exists, err := r.redis.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("check blacklist: %w", err)
	}

	return exists > 0, nil
}
