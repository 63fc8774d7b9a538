package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"farmledger/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// RateLimiter allows limit requests per client IP per window. Counters live in
// Redis under "ratelimit:<name>:<ip>" so every instance shares them; with a
// nil client a process-local window is used instead.
func RateLimiter(rdb *redis.Client, name string, limit int, window time.Duration) gin.HandlerFunc {
	if rdb == nil {
		return localLimiter(limit, window)
	}
	return func(c *gin.Context) {
		key := fmt.Sprintf("ratelimit:%s:%s", name, c.ClientIP())
		ctx, cancel := context.WithTimeout(c.Request.Context(), 500*time.Millisecond)
		defer cancel()

		n, ttl, err := incrWindow(ctx, rdb, key, window)
		if err != nil {
			// Fail open.
			log.Warn().Err(err).Str("key", key).Msg("rate limiter unavailable")
			c.Next()
			return
		}
		if n > int64(limit) {
			c.Header("Retry-After", strconv.Itoa(int(ttl.Seconds())+1))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("too many requests, try again shortly"))
			return
		}
		c.Next()
	}
}

// incrWindow bumps the counter and starts its window on the first hit.
func incrWindow(ctx context.Context, rdb *redis.Client, key string, window time.Duration) (int64, time.Duration, error) {
	pipe := rdb.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, window)
	ttl := pipe.TTL(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, 0, err
	}
	return incr.Val(), ttl.Val(), nil
}

// ── Process-local fallback ───────────────────────────────────────────────────

const purgeThreshold = 1024

type windowEntry struct {
	count     int
	windowEnd time.Time
}

type localWindow struct {
	mu      sync.Mutex
	entries map[string]*windowEntry
	limit   int
	window  time.Duration
}

func localLimiter(limit int, window time.Duration) gin.HandlerFunc {
	lw := &localWindow{entries: map[string]*windowEntry{}, limit: limit, window: window}
	return func(c *gin.Context) {
		ok, retry := lw.allow(c.ClientIP(), time.Now())
		if !ok {
			c.Header("Retry-After", strconv.Itoa(int(retry.Seconds())+1))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("too many requests, try again shortly"))
			return
		}
		c.Next()
	}
}

func (lw *localWindow) allow(ip string, now time.Time) (bool, time.Duration) {
	lw.mu.Lock()
	defer lw.mu.Unlock()

	if len(lw.entries) > purgeThreshold {
		for k, e := range lw.entries {
			if now.After(e.windowEnd) {
				delete(lw.entries, k)
			}
		}
	}

	e, ok := lw.entries[ip]
	if !ok || now.After(e.windowEnd) {
		e = &windowEntry{windowEnd: now.Add(lw.window)}
		lw.entries[ip] = e
	}
	e.count++
	if e.count > lw.limit {
		return false, e.windowEnd.Sub(now)
	}
	return true, 0
}
