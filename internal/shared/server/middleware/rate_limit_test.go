package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestRateLimitAllowsWithinBurst(t *testing.T) {
	gin.SetMode(gin.TestMode)
	now := time.Now()
	limiter := NewRateLimiter(func() time.Time { return now })

	router := gin.New()
	router.Use(Identity(), RateLimit(RateLimitConfig{
		Rules: map[string]RateLimitRule{
			"ANALYZE": {Rate: 1, Burst: 2},
		},
		DefaultGroup: "ANALYZE",
		Limiter:      limiter,
	}))
	router.POST("/api/v1/analyses", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/analyses", nil)
		req.Header.Set("X-Guest-Id", "g1")
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, resp.Code)
		}
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyses", nil)
	req.Header.Set("X-Guest-Id", "g1")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after burst, got %d", resp.Code)
	}
	if resp.Header().Get("Retry-After") == "" {
		t.Fatalf("expected Retry-After header")
	}
}

func TestRateLimitIsolatesCallers(t *testing.T) {
	gin.SetMode(gin.TestMode)
	now := time.Now()
	limiter := NewRateLimiter(func() time.Time { return now })

	rule := RateLimitRule{Rate: 1, Burst: 1}

	if ok, _ := limiter.Allow("guest:a|ANALYZE", rule); !ok {
		t.Fatalf("first caller should be allowed")
	}
	if ok, _ := limiter.Allow("guest:a|ANALYZE", rule); ok {
		t.Fatalf("first caller should be exhausted")
	}
	if ok, _ := limiter.Allow("guest:b|ANALYZE", rule); !ok {
		t.Fatalf("second caller should have its own bucket")
	}
}

func TestRateLimiterRefillsOverTime(t *testing.T) {
	current := time.Now()
	limiter := NewRateLimiter(func() time.Time { return current })
	rule := RateLimitRule{Rate: 2, Burst: 1}

	if ok, _ := limiter.Allow("k", rule); !ok {
		t.Fatalf("initial token should be available")
	}
	ok, retryAfter := limiter.Allow("k", rule)
	if ok {
		t.Fatalf("bucket should be empty")
	}
	if retryAfter <= 0 {
		t.Fatalf("expected positive retry-after, got %v", retryAfter)
	}

	current = current.Add(time.Second)
	if ok, _ := limiter.Allow("k", rule); !ok {
		t.Fatalf("token should refill after waiting")
	}
}
