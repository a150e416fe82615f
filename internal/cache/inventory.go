package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	UserKeyPrefix          = "user:%d"
	AnalyticsKeyPrefix     = "analytics:g%d:%s:%s"
	AnalyticsGenerationKey = "analytics:generation"
	BlacklistKeyPrefix     = "blacklist:%s"
)

const (
	UserTTL = 5 * time.Minute
	// AnalyticsTTL is the fallback when ANALYTICS_CACHE_TTL_SECONDS is unset.
	AnalyticsTTL = 5 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func BlacklistKey(jti string) string {
	return fmt.Sprintf(BlacklistKeyPrefix, jti)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

// AnalyticsGeneration returns the current analytics generation (0 when unset or unavailable).
func AnalyticsGeneration(ctx context.Context) int64 {
	if client == nil {
		return 0
	}
	v, err := client.Get(ctx, AnalyticsGenerationKey).Result()
	if err != nil {
		return 0
	}
	gen, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0
	}
	return gen
}

// AnalyticsKey builds a cache key scoped to the current generation, so bumping
// the generation orphans every cached report at once.
func AnalyticsKey(ctx context.Context, report, params string) string {
	return fmt.Sprintf(AnalyticsKeyPrefix, AnalyticsGeneration(ctx), report, params)
}

// BumpAnalyticsGeneration invalidates every cached analytics report.
func BumpAnalyticsGeneration(ctx context.Context) error {
	if client == nil {
		return nil
	}
	return client.Incr(ctx, AnalyticsGenerationKey).Err()
}

// ErrNoRedis is returned by operations that cannot degrade without Redis.
var ErrNoRedis = errors.New("redis not configured")

// RevokeToken blacklists a token id until it would have expired anyway.
func RevokeToken(ctx context.Context, jti string, ttl time.Duration) error {
	if client == nil {
		return fmt.Errorf("token revocation unavailable: %w", ErrNoRedis)
	}
	if ttl <= 0 {
		return nil
	}
	return client.Set(ctx, BlacklistKey(jti), "1", ttl).Err()
}

// IsTokenRevoked reports whether the token id has been blacklisted.
func IsTokenRevoked(ctx context.Context, jti string) (bool, error) {
	if client == nil || jti == "" {
		return false, nil
	}
	n, err := client.Exists(ctx, BlacklistKey(jti)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return false, err
	}
	return n > 0, nil
}
