package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/groupchat/chat-backend/internal/common"
	"github.com/groupchat/chat-backend/internal/metrics"
	"github.com/groupchat/chat-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const (
	rateLimitPrefix = "chat:ratelimit:"
	rateLimitWindow = time.Minute
)

// RateLimitConfig holds the per-minute budgets
type RateLimitConfig struct {
	RequestsPerMinute int // every route, per client IP
	SendsPerMinute    int // send_message, per sender
}

// DefaultRateLimitConfig returns the budgets used when config leaves them unset
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{RequestsPerMinute: 120, SendsPerMinute: 30}
}

// slidingWindowScript returns {allowed, remaining, reset_at_ms}
var slidingWindowScript = redis.NewScript(`
local key = KEYS[1]
local limit = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local now = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)
local count = redis.call('ZCARD', key)

if count < limit then
    redis.call('ZADD', key, now, now .. ':' .. math.random(1000000))
    redis.call('PEXPIRE', key, window + 1000)
    return {1, limit - count - 1, now + window}
end

local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
local reset_at = now + window
if #oldest >= 2 then
    reset_at = tonumber(oldest[2]) + window
end
return {0, 0, reset_at}
`)

// KeyFunc names the bucket a request counts against
type KeyFunc func(c *gin.Context) string

// ByClientIP buckets requests by remote address
func ByClientIP(c *gin.Context) string {
	return "ip:" + c.ClientIP()
}

// BySender buckets send requests by the user_id in the JSON body, falling
// back to the client IP. The body stays cached on the context so the
// handler can bind it again with ShouldBindBodyWith.
func BySender(c *gin.Context) string {
	var body struct {
		UserID uint64 `json:"user_id"`
	}
	if err := c.ShouldBindBodyWith(&body, binding.JSON); err != nil || body.UserID == 0 {
		return ByClientIP(c)
	}
	return "sender:" + strconv.FormatUint(body.UserID, 10)
}

// RateLimiter enforces sliding-window budgets stored in Redis.
// A nil *RateLimiter lets every request through.
type RateLimiter struct {
	scripter redis.Scripter
	now      func() time.Time
}

// NewRateLimiter creates a limiter backed by scripter
func NewRateLimiter(scripter redis.Scripter) *RateLimiter {
	return &RateLimiter{scripter: scripter, now: time.Now}
}

// Limit allows limit requests per minute for each key. Redis failures
// fail open.
func (l *RateLimiter) Limit(scope string, limit int, key KeyFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if l == nil || limit <= 0 {
			c.Next()
			return
		}

		now := l.now().UnixMilli()
		bucket := rateLimitPrefix + scope + ":" + key(c)
		result, err := slidingWindowScript.Run(c.Request.Context(), l.scripter, []string{bucket},
			limit, rateLimitWindow.Milliseconds(), now,
		).Int64Slice()
		if err != nil || len(result) != 3 {
			logger.FromContext(c.Request.Context()).Warn().Err(err).Str("scope", scope).Msg("rate limit check failed")
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(result[1], 10))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(result[2]/1000, 10))

		if result[0] != 1 {
			retryAfter := (result[2] - now) / 1000
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.FormatInt(retryAfter, 10))
			metrics.RateLimited(scope)
			common.ErrorResponse(c, http.StatusTooManyRequests, "Too many requests, please retry later", nil)
			c.Abort()
			return
		}

		c.Next()
	}
}
