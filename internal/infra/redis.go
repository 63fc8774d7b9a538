package infra

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"farmledger/internal/calc"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// NewRedis creates and validates a go-redis client connection.
func NewRedis(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(opts)

	// Validate connectivity at startup
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}

	return rdb, nil
}

// ── Ration cost cache ────────────────────────────────────────────────────────

// RationCostCache stores computed ration-table totals under
// "ration:cost:<table id>".
type RationCostCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRationCostCache(rdb *redis.Client, ttl time.Duration) *RationCostCache {
	return &RationCostCache{rdb: rdb, ttl: ttl}
}

func rationCostKey(id uuid.UUID) string { return "ration:cost:" + id.String() }

// Get returns the cached totals; ok is false on a miss or any Redis error.
func (c *RationCostCache) Get(ctx context.Context, tableID uuid.UUID) (calc.RationTotals, bool) {
	raw, err := c.rdb.Get(ctx, rationCostKey(tableID)).Bytes()
	if err != nil {
		return calc.RationTotals{}, false
	}
	var t calc.RationTotals
	if json.Unmarshal(raw, &t) != nil {
		return calc.RationTotals{}, false
	}
	return t, true
}

func (c *RationCostCache) Set(ctx context.Context, tableID uuid.UUID, t calc.RationTotals) error {
	raw, err := json.Marshal(t)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, rationCostKey(tableID), raw, c.ttl).Err()
}

func (c *RationCostCache) Invalidate(ctx context.Context, tableIDs ...uuid.UUID) error {
	if len(tableIDs) == 0 {
		return nil
	}
	keys := make([]string, len(tableIDs))
	for i, id := range tableIDs {
		keys[i] = rationCostKey(id)
	}
	return c.rdb.Del(ctx, keys...).Err()
}

// ── Password reset tokens ────────────────────────────────────────────────────

// ErrTokenNotFound is returned for unknown or expired reset tokens.
var ErrTokenNotFound = errors.New("reset token not found or expired")

// ResetTokenStore keeps single-use password reset tokens in Redis.
type ResetTokenStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewResetTokenStore(rdb *redis.Client, ttl time.Duration) *ResetTokenStore {
	return &ResetTokenStore{rdb: rdb, ttl: ttl}
}

func resetKey(token string) string { return "pwreset:" + token }

func (s *ResetTokenStore) Save(ctx context.Context, token string, userID uuid.UUID) error {
	return s.rdb.Set(ctx, resetKey(token), userID.String(), s.ttl).Err()
}

func (s *ResetTokenStore) Lookup(ctx context.Context, token string) (uuid.UUID, error) {
	v, err := s.rdb.Get(ctx, resetKey(token)).Result()
	if errors.Is(err, redis.Nil) {
		return uuid.Nil, ErrTokenNotFound
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("reset token lookup: %w", err)
	}
	return uuid.Parse(v)
}

func (s *ResetTokenStore) Delete(ctx context.Context, token string) error {
	return s.rdb.Del(ctx, resetKey(token)).Err()
}
