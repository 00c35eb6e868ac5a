package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Rate limiting key pattern:
// - ratelimit:{ip}:ingress - window TTL, per-window publish requests

// RateLimitConfig contains configuration for rate limiting
type RateLimitConfig struct {
	IngressLimit  int           // Max ingress requests per window
	IngressWindow time.Duration // Ingress rate limit window
}

// DefaultRateLimitConfig returns a per-minute window with the given limit
func DefaultRateLimitConfig(perMinute int) RateLimitConfig {
	return RateLimitConfig{
		IngressLimit:  perMinute,
		IngressWindow: 60 * time.Second,
	}
}

// RateLimiter handles rate limiting using Redis
type RateLimiter struct {
	client *goredis.Client
	config RateLimitConfig
}

// RateLimitResult contains the result of a rate limit check
type RateLimitResult struct {
	Allowed   bool          // Whether the action is allowed
	Remaining int           // Remaining actions in the window
	ResetIn   time.Duration // Time until the window resets
	Limit     int           // The limit for this action
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(client *goredis.Client, config RateLimitConfig) *RateLimiter {
	return &RateLimiter{
		client: client,
		config: config,
	}
}

// fixed window counter; the window starts at the first request
var rateLimitScript = goredis.NewScript(`
	local key = KEYS[1]
	local limit = tonumber(ARGV[1])
	local window = tonumber(ARGV[2])

	local current = redis.call('GET', key)
	if current == false then
		current = 0
	else
		current = tonumber(current)
	end

	local ttl = redis.call('TTL', key)
	if ttl < 0 then
		ttl = window
	end

	if current < limit then
		redis.call('INCR', key)
		if ttl == window then
			redis.call('EXPIRE', key, window)
		end
		return {1, limit - current - 1, ttl}
	else
		return {0, 0, ttl}
	end
`)

// AllowIngress checks if a client can publish another event
func (r *RateLimiter) AllowIngress(ctx context.Context, clientIP string) (*RateLimitResult, error) {
	return r.checkLimit(ctx, ingressKey(clientIP), r.config.IngressLimit, r.config.IngressWindow)
}

// ResetIngress resets the ingress rate limit for a client
func (r *RateLimiter) ResetIngress(ctx context.Context, clientIP string) error {
	return r.client.Del(ctx, ingressKey(clientIP)).Err()
}

func ingressKey(clientIP string) string {
	return fmt.Sprintf("ratelimit:%s:ingress", clientIP)
}

func (r *RateLimiter) checkLimit(ctx context.Context, key string, limit int, window time.Duration) (*RateLimitResult, error) {
	result, err := rateLimitScript.Run(ctx, r.client, []string{key}, limit, int(window.Seconds())).Result()
	if err != nil {
		return nil, fmt.Errorf("rate limit check failed: %w", err)
	}

	resultSlice, ok := result.([]interface{})
	if !ok || len(resultSlice) < 3 {
		return nil, fmt.Errorf("unexpected rate limit result format")
	}

	allowed, _ := resultSlice[0].(int64)
	remaining, _ := resultSlice[1].(int64)
	resetIn, _ := resultSlice[2].(int64)

	return &RateLimitResult{
		Allowed:   allowed == 1,
		Remaining: int(remaining),
		ResetIn:   time.Duration(resetIn) * time.Second,
		Limit:     limit,
	}, nil
}
