package redis

import (
	"context"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
	"github.com/xela07ax/intellibridge-console/internal/domain"
	"github.com/xela07ax/intellibridge-console/internal/infra"
)

// PreferenceRepo хранит тему в hash intellibridge:preferences:theme.
type PreferenceRepo struct {
	rdb *goredis.Client
}

func NewPreferenceRepo(rdb *goredis.Client) *PreferenceRepo {
	return &PreferenceRepo{rdb: rdb}
}

func (r *PreferenceRepo) Ping(ctx context.Context) error {
	if err := r.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis: ping: %w", err)
	}
	return nil
}

func (r *PreferenceRepo) GetTheme(ctx context.Context, sessionID string) (domain.Theme, bool, error) {
	val, err := r.rdb.HGet(ctx, infra.RedisKeyPreferences, sessionID).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("redis: get theme: %w", err)
	}
	return domain.Theme(val), true, nil
}

func (r *PreferenceRepo) SaveTheme(ctx context.Context, sessionID string, theme domain.Theme) error {
	if err := r.rdb.HSet(ctx, infra.RedisKeyPreferences, sessionID, string(theme)).Err(); err != nil {
		return fmt.Errorf("redis: save theme: %w", err)
	}
	return nil
}

func (r *PreferenceRepo) Close() error {
	return r.rdb.Close()
}
