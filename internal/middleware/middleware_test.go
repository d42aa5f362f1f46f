package middleware

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/groupchat/chat-backend/pkg/jwt"
	"github.com/groupchat/chat-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newJWTRouter(mgr *jwt.Manager) *gin.Engine {
	r := gin.New()
	r.GET("/me", JWTAuth(mgr), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": GetUserID(c)})
	})
	return r
}

func TestJWTAuth(t *testing.T) {
	mgr := jwt.NewManager("middleware-test-secret-0123456789", 60, 1440)
	r := newJWTRouter(mgr)

	access, err := mgr.GenerateAccessToken(42, "Alice")
	require.NoError(t, err)
	refresh, err := mgr.GenerateRefreshToken(42)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"valid token", "Bearer " + access, http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + access, http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-jwt", http.StatusUnauthorized},
		{"refresh token rejected", "Bearer " + refresh, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				assert.JSONEq(t, `{"id":42}`, w.Body.String())
			} else {
				assert.Contains(t, w.Body.String(), `"success":false`)
			}
		})
	}
}

func TestJWTAuth_Expired(t *testing.T) {
	mgr := jwt.NewManager("middleware-test-secret-0123456789", 1, 1440)
	token, err := mgr.GenerateAccessToken(1, "Alice")
	require.NoError(t, err)

	later := jwt.NewManager("middleware-test-secret-0123456789", 1, 1440)
	later.SetClock(func() time.Time { return time.Now().Add(2 * time.Minute) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	newJWTRouter(later).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Token expired")
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger.SetOutput(&buf)

	r := gin.New()
	r.Use(RequestLogger())
	r.GET("/ping", func(c *gin.Context) {
		logger.FromContext(c.Request.Context()).Info().Msg("handling ping")
		c.String(http.StatusOK, "pong")
	})

	t.Run("propagates incoming id to access and handler logs", func(t *testing.T) {
		buf.Reset()
		req := httptest.NewRequest(http.MethodGet, "/ping?x=1", nil)
		req.Header.Set("X-Request-ID", "abc123")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, "abc123", w.Header().Get("X-Request-ID"))
		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		require.Len(t, lines, 2)
		assert.Contains(t, lines[0], `"message":"handling ping"`)
		assert.Contains(t, lines[0], `"request_id":"abc123"`)
		assert.Contains(t, lines[1], `"request_id":"abc123"`)
		assert.Contains(t, lines[1], `"route":"/ping"`)
		assert.Contains(t, lines[1], `"status":200`)
	})

	t.Run("generates id when absent", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		assert.Len(t, w.Header().Get("X-Request-ID"), 8)
	})
}

func TestFromContextFallsBackToGlobal(t *testing.T) {
	assert.Same(t, logger.GetLogger(), logger.FromContext(context.Background()))
}

func TestSecurityHeaders(t *testing.T) {
	r := gin.New()
	r.Use(SecurityHeaders())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
	assert.Empty(t, w.Header().Get("Strict-Transport-Security"))
}

func TestMaxBodySize(t *testing.T) {
	r := gin.New()
	r.Use(MaxBodySize(16))
	r.POST("/echo", func(c *gin.Context) {
		var body map[string]string
		if err := c.ShouldBindJSON(&body); err != nil {
			c.Status(http.StatusBadRequest)
			return
		}
		c.JSON(http.StatusOK, body)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(`{"a":"b"}`)))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(`{"a":"0123456789abcdef"}`)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Contains(t, w.Body.String(), "PAYLOAD_TOO_LARGE")

	// undeclared length is cut off while reading
	req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(`{"a":"0123456789abcdef"}`))
	req.ContentLength = -1
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// memoryScripter answers the sliding window script from an in-memory counter
type memoryScripter struct {
	counts map[string]int64
	keys   []string
	err    error
}

func newMemoryScripter() *memoryScripter {
	return &memoryScripter{counts: make(map[string]int64)}
}

func (m *memoryScripter) run(keys []string, args []interface{}) *redis.Cmd {
	if m.err != nil {
		return redis.NewCmdResult(nil, m.err)
	}
	limit := int64(args[0].(int))
	window := args[1].(int64)
	now := args[2].(int64)

	key := keys[0]
	m.keys = append(m.keys, key)
	if m.counts[key] >= limit {
		return redis.NewCmdResult([]interface{}{int64(0), int64(0), now + window}, nil)
	}
	m.counts[key]++
	return redis.NewCmdResult([]interface{}{int64(1), limit - m.counts[key], now + window}, nil)
}

func (m *memoryScripter) Eval(_ context.Context, _ string, keys []string, args ...interface{}) *redis.Cmd {
	return m.run(keys, args)
}

func (m *memoryScripter) EvalSha(_ context.Context, _ string, keys []string, args ...interface{}) *redis.Cmd {
	return m.run(keys, args)
}

func (m *memoryScripter) EvalRO(_ context.Context, _ string, keys []string, args ...interface{}) *redis.Cmd {
	return m.run(keys, args)
}

func (m *memoryScripter) EvalShaRO(_ context.Context, _ string, keys []string, args ...interface{}) *redis.Cmd {
	return m.run(keys, args)
}

func (m *memoryScripter) ScriptExists(_ context.Context, hashes ...string) *redis.BoolSliceCmd {
	return redis.NewBoolSliceResult(make([]bool, len(hashes)), nil)
}

func (m *memoryScripter) ScriptLoad(_ context.Context, _ string) *redis.StringCmd {
	return redis.NewStringResult("", nil)
}

func newFixedLimiter(s redis.Scripter) *RateLimiter {
	l := NewRateLimiter(s)
	fixed := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return fixed }
	return l
}

func TestRateLimit_ByClientIP(t *testing.T) {
	scripter := newMemoryScripter()
	r := gin.New()
	r.Use(newFixedLimiter(scripter).Limit("ip", 2, ByClientIP))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 3)
	var last *httptest.ResponseRecorder
	for i := range codes {
		last = httptest.NewRecorder()
		r.ServeHTTP(last, httptest.NewRequest(http.MethodGet, "/", nil))
		codes[i] = last.Code
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
	assert.Equal(t, "2", last.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "60", last.Header().Get("Retry-After"))
	assert.Contains(t, last.Body.String(), "RATE_LIMITED")
	assert.Equal(t, "chat:ratelimit:ip:192.0.2.1", scripter.keys[0])
}

func TestRateLimit_BySender(t *testing.T) {
	scripter := newMemoryScripter()
	r := gin.New()
	r.POST("/send", newFixedLimiter(scripter).Limit("send", 2, BySender), func(c *gin.Context) {
		var req struct {
			UserID  uint64 `json:"user_id"`
			Message string `json:"message"`
		}
		require.NoError(t, c.ShouldBindBodyWith(&req, binding.JSON))
		c.JSON(http.StatusOK, gin.H{"from": req.UserID, "message": req.Message})
	})

	send := func(userID uint64) *httptest.ResponseRecorder {
		body := fmt.Sprintf(`{"user_id":%d,"member_id":2,"message":"hi"}`, userID)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/send", strings.NewReader(body)))
		return w
	}

	first := send(7)
	assert.Equal(t, http.StatusOK, first.Code)
	assert.JSONEq(t, `{"from":7,"message":"hi"}`, first.Body.String())
	assert.Equal(t, http.StatusOK, send(7).Code)
	assert.Equal(t, http.StatusTooManyRequests, send(7).Code)

	// another sender from the same address has its own budget
	assert.Equal(t, http.StatusOK, send(8).Code)
	assert.Contains(t, scripter.keys, "chat:ratelimit:send:sender:7")
	assert.Contains(t, scripter.keys, "chat:ratelimit:send:sender:8")
}

func TestRateLimit_SenderFallsBackToIP(t *testing.T) {
	scripter := newMemoryScripter()
	r := gin.New()
	r.POST("/send", newFixedLimiter(scripter).Limit("send", 5, BySender), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/send", strings.NewReader(`not json`)))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"chat:ratelimit:send:ip:192.0.2.1"}, scripter.keys)
}

func TestRateLimit_FailsOpen(t *testing.T) {
	scripter := newMemoryScripter()
	scripter.err = errors.New("connection refused")

	r := gin.New()
	r.Use(newFixedLimiter(scripter).Limit("ip", 1, ByClientIP))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("X-RateLimit-Limit"))
	}
}

func TestRateLimit_NilLimiterPassesThrough(t *testing.T) {
	var limiter *RateLimiter
	r := gin.New()
	r.Use(limiter.Limit("ip", 1, ByClientIP))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestMetrics_RouteLabel(t *testing.T) {
	r := gin.New()
	r.Use(Metrics())
	r.GET("/metrics", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/api/things/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/metrics", "/api/things/1", "/missing"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	}
	assert.Equal(t, "/api/things/:id", routeLabel("/api/things/:id"))
	assert.Equal(t, "unmatched", routeLabel(""))
}
