package revocation

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
)

var isRevokedDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Name:    "antygravity_token_revocation_check_duration_ms",
	Help:    "Latency of refresh token revocation checks in milliseconds",
	Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25},
})

// Redis key prefix for revoked refresh token JTIs.
const revokedKeyPrefix = "trl:jti:"

// RedisList is the shared revocation list for multi-instance deployments.
// Entries carry the remaining refresh token lifetime as TTL so Redis
// garbage-collects them when the token would have expired anyway.
type RedisList struct {
	client *redis.Client
}

func NewRedisList(client *redis.Client) *RedisList {
	return &RedisList{client: client}
}

func (l *RedisList) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if jti == "" {
		return nil
	}
	if err := validateTTL(ttl); err != nil {
		return err
	}
	// Key existence is the marker; the value is irrelevant.
	return l.client.Set(ctx, revokedKeyPrefix+jti, "1", ttl).Err()
}

// RevokeOnce revokes the JTI with SET NX and reports whether this call won:
// false means another instance already revoked it.
func (l *RedisList) RevokeOnce(ctx context.Context, jti string, ttl time.Duration) (bool, error) {
	if jti == "" {
		return true, nil
	}
	if err := validateTTL(ttl); err != nil {
		return false, err
	}
	return l.client.SetNX(ctx, revokedKeyPrefix+jti, "1", ttl).Result()
}

func (l *RedisList) IsRevoked(ctx context.Context, jti string) (bool, error) {
	start := time.Now()
	defer func() {
		isRevokedDuration.Observe(float64(time.Since(start).Microseconds()) / 1000.0)
	}()

	if jti == "" {
		return false, nil
	}
	_, err := l.client.Get(ctx, revokedKeyPrefix+jti).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
