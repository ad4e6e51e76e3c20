package middleware

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.RegisteredClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func newAuthRouter(issuer string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(StructuredLoggingMiddleware(slog.Default()))
	r.GET("/me", AuthMiddleware(testSecret, issuer), func(c *gin.Context) {
		userID, ok := GetUserIDFromContext(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, userID)
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	valid := signToken(t, testSecret, jwt.RegisteredClaims{
		Subject:   "user-1",
		Issuer:    "ledger",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	expired := signToken(t, testSecret, jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	})
	wrongKey := signToken(t, "other", jwt.RegisteredClaims{Subject: "user-1"})
	noSubject := signToken(t, testSecret, jwt.RegisteredClaims{Issuer: "ledger"})

	tests := []struct {
		name       string
		issuer     string
		header     string
		wantStatus int
		wantBody   string
	}{
		{name: "valid token", issuer: "ledger", header: "Bearer " + valid, wantStatus: http.StatusOK, wantBody: "user-1"},
		{name: "missing header", header: "", wantStatus: http.StatusUnauthorized, wantBody: "Authorization header required"},
		{name: "bad format", header: "Token " + valid, wantStatus: http.StatusUnauthorized, wantBody: "Bearer {token}"},
		{name: "expired", header: "Bearer " + expired, wantStatus: http.StatusUnauthorized, wantBody: "Token has expired"},
		{name: "wrong key", header: "Bearer " + wrongKey, wantStatus: http.StatusUnauthorized, wantBody: "Invalid token"},
		{name: "issuer mismatch", issuer: "someone-else", header: "Bearer " + valid, wantStatus: http.StatusUnauthorized, wantBody: "Invalid token"},
		{name: "missing subject", header: "Bearer " + noSubject, wantStatus: http.StatusUnauthorized, wantBody: "Invalid token claims"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newAuthRouter(tt.issuer)
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
			assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
		})
	}
}

func TestStructuredLoggingMiddleware_PropagatesRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(StructuredLoggingMiddleware(slog.Default()))
	r.GET("/ping", func(c *gin.Context) {
		assert.NotSame(t, slog.Default(), GetLoggerFromCtx(c.Request.Context()))
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-ID", "req-123")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "req-123", w.Header().Get("X-Request-ID"))
}

func TestRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	lim, err := NewRateLimiter("2-M")
	require.NoError(t, err)

	r := gin.New()
	r.Use(RateLimit(lim))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for range 3 {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	_, err = NewRateLimiter("lots")
	assert.Error(t, err)
}
