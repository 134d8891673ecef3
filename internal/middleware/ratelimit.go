package middleware

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/iliyamo/film-dashboard/internal/config"
)

// takeToken refills the bucket stored at KEYS[1] and tries to take one
// token from it.  It returns {allowed, remaining, retry_after_ms}.
var takeToken = redis.NewScript(`
local key = KEYS[1]
local now, capacity = tonumber(ARGV[1]), tonumber(ARGV[2])
local refill, interval, ttl = tonumber(ARGV[3]), tonumber(ARGV[4]), tonumber(ARGV[5])

local st = redis.call('HMGET', key, 'tokens', 'ts')
local tokens, ts = tonumber(st[1]), tonumber(st[2])
if tokens == nil or ts == nil then
  tokens, ts = capacity, now
end

if interval > 0 and refill > 0 then
  local n = math.floor(math.max(0, now - ts) / interval)
  if n > 0 then
    tokens = math.min(capacity, tokens + n * refill)
    ts = ts + n * interval
  end
end

local allowed, wait = 0, 0
if tokens > 0 then
  allowed, tokens = 1, tokens - 1
else
  wait = math.max(0, interval - (now - ts))
end

redis.call('HSET', key, 'tokens', tokens, 'ts', ts)
redis.call('EXPIRE', key, ttl)
return {allowed, tokens, wait}
`)

type bucketDecision struct {
	allowed   bool
	remaining int64
	retry     time.Duration
}

// TokenBucket limits requests per key with a bucket kept in Redis, so all
// replicas share the same budget.
type TokenBucket struct {
	cfg config.RateLimitConfig
	rdb *redis.Client
	log *zap.Logger
	now func() time.Time
}

// NewTokenBucket returns the limiter as echo middleware.  A disabled limiter
// or a nil client yields a pass-through, and Redis errors let the request
// through.
func NewTokenBucket(cfg config.RateLimitConfig, rdb *redis.Client, log *zap.Logger) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	if log == nil {
		log = zap.NewNop()
	}
	b := &TokenBucket{cfg: cfg, rdb: rdb, log: log, now: time.Now}
	return b.middleware
}

func (b *TokenBucket) middleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		key := buildRateKey(b.cfg, c)
		d, err := b.take(c.Request().Context(), key)
		if err != nil {
			b.log.Warn("rate limit check failed", zap.String("key", key), zap.Error(err))
			return next(c)
		}

		h := c.Response().Header()
		h.Set("X-RateLimit-Limit", strconv.Itoa(b.cfg.Capacity))
		h.Set("X-RateLimit-Remaining", strconv.FormatInt(d.remaining, 10))
		if b.cfg.Debug {
			h.Set("X-RateLimit-Key", key)
		}
		if d.allowed {
			return next(c)
		}

		secs := int(math.Ceil(d.retry.Seconds()))
		h.Set("Retry-After", strconv.Itoa(secs))
		b.log.Info("rate limited", zap.String("key", key), zap.Duration("retry", d.retry))
		return c.JSON(http.StatusTooManyRequests, echo.Map{
			"error":       "too_many_requests",
			"notices":     []echo.Map{{"level": "warning", "text": "Too many requests, try again shortly."}},
			"retry_after": secs,
		})
	}
}

func (b *TokenBucket) take(ctx context.Context, key string) (bucketDecision, error) {
	vals, err := takeToken.Run(ctx, b.rdb, []string{key},
		b.now().UnixMilli(),
		b.cfg.Capacity,
		b.cfg.RefillTokens,
		b.cfg.RefillInterval.Milliseconds(),
		int64(b.cfg.TTL/time.Second),
	).Int64Slice()
	if err != nil {
		return bucketDecision{}, err
	}
	if len(vals) != 3 {
		return bucketDecision{}, fmt.Errorf("unexpected limiter reply %v", vals)
	}
	return bucketDecision{
		allowed:   vals[0] == 1,
		remaining: vals[1],
		retry:     time.Duration(vals[2]) * time.Millisecond,
	}, nil
}

// buildRateKey composes the bucket key from the client address, the
// dashboard session and the matched route, as selected by KeyStrategy.
func buildRateKey(cfg config.RateLimitConfig, c echo.Context) string {
	ip := c.RealIP()
	if ip == "" {
		ip = "unknown"
	}
	sid := SessionID(c)
	if sid == "" {
		sid = "anon"
	}
	route := c.Request().Method + " " + c.Path()

	parts := []string{cfg.Prefix}
	strategy := strings.ToLower(cfg.KeyStrategy)
	if strategy == "" {
		strategy = "ip_session_route"
	}
	for _, p := range strings.Split(strategy, "_") {
		switch p {
		case "ip":
			parts = append(parts, "ip", ip)
		case "session":
			parts = append(parts, "session", sid)
		case "route":
			parts = append(parts, "route", route)
		}
	}
	if len(parts) == 1 {
		parts = append(parts, "ip", ip, "session", sid, "route", route)
	}
	return strings.Join(parts, ":")
}
