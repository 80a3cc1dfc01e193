package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"dyno/internal/auth"
	"dyno/internal/observability"

	"github.com/gin-gonic/gin"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func testSigner(t *testing.T) *auth.Signer {
	t.Helper()
	signer, err := auth.NewSigner("test-secret-key-for-testing-only")
	if err != nil {
		t.Fatalf("NewSigner: %v", err)
	}
	return signer
}

func protectedRouter(signer *auth.Signer, roles ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(AuthMiddleware(signer, discardLogger))
	if len(roles) > 0 {
		router.Use(RequireRole(roles...))
	}
	router.GET("/test", func(c *gin.Context) {
		userID, _ := c.Get("userID")
		c.JSON(http.StatusOK, gin.H{"userID": userID})
	})
	return router
}

// TestAuthMiddleware_MissingAuthHeader tests the middleware with missing Authorization header
func TestAuthMiddleware_MissingAuthHeader(t *testing.T) {
	router := protectedRouter(testSigner(t))

	req := httptest.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}
}

// TestAuthMiddleware_InvalidAuthFormat tests the middleware with invalid Bearer format
func TestAuthMiddleware_InvalidAuthFormat(t *testing.T) {
	router := protectedRouter(testSigner(t))

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "InvalidFormat")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}
}

// TestAuthMiddleware_InvalidToken tests the middleware with an invalid token
func TestAuthMiddleware_InvalidToken(t *testing.T) {
	router := protectedRouter(testSigner(t))

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer invalid_token_xyz")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}
}

// TestAuthMiddleware_ValidToken tests the middleware with a valid token
func TestAuthMiddleware_ValidToken(t *testing.T) {
	signer := testSigner(t)
	token, err := signer.GenerateToken("test-user-id", "test@example.com", auth.RoleUser)
	if err != nil {
		t.Fatalf("failed to generate test token: %v", err)
	}

	router := protectedRouter(signer)

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}
}

func TestRequireRole(t *testing.T) {
	signer := testSigner(t)
	router := protectedRouter(signer, auth.RoleStaff)

	tests := []struct {
		role string
		want int
	}{
		{auth.RoleStaff, http.StatusOK},
		{auth.RoleUser, http.StatusForbidden},
	}

	for _, tt := range tests {
		token, err := signer.GenerateToken("u-1", "u@example.com", tt.role)
		if err != nil {
			t.Fatal(err)
		}

		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != tt.want {
			t.Errorf("role %s: expected status %d, got %d", tt.role, tt.want, w.Code)
		}
	}
}

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID())

	var seen string
	router.GET("/test", func(c *gin.Context) {
		seen = observability.GetRequestID(c.Request.Context())
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if seen != "abc-123" || w.Header().Get(RequestIDHeader) != "abc-123" {
		t.Errorf("expected propagated request id, got ctx=%q header=%q", seen, w.Header().Get(RequestIDHeader))
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/test", nil))
	if seen == "" || seen == "abc-123" {
		t.Errorf("expected a generated request id, got %q", seen)
	}
}

func TestRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Logger(discardLogger), RateLimit(NewRateLimiter(2), discardLogger))
	router.POST("/train", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	codes := make([]int, 0, 3)
	for n := 0; n < 3; n++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("POST", "/train", nil))
		codes = append(codes, w.Code)
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Errorf("expected [200 200 429], got %v", codes)
	}
}

func TestRateLimiter_EvictsIdleCallers(t *testing.T) {
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(1)
	rl.now = func() time.Time { return now }

	if !rl.Allow("user:a") || !rl.Allow("user:b") {
		t.Fatal("expected first request of each caller to pass")
	}
	if rl.Allow("user:a") {
		t.Fatal("expected second request within the minute to be limited")
	}
	if rl.Len() != 2 {
		t.Fatalf("expected 2 tracked callers, got %d", rl.Len())
	}

	now = now.Add(limiterIdleTTL + time.Second)
	if !rl.Allow("user:c") {
		t.Fatal("expected new caller to pass")
	}
	if rl.Len() != 1 {
		t.Errorf("expected idle callers to be evicted, %d still tracked", rl.Len())
	}
}
