package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLimitedEcho(t *testing.T, rps int, now func() time.Time) (*echo.Echo, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	e := echo.New()
	e.Use(RateLimitMiddleware(RateLimitConfig{
		Redis:          rdb,
		RPS:            rps,
		Window:         time.Second,
		RetryAfterHint: true,
		Now:            now,
	}))
	e.GET("/ping", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })
	return e, mr
}

func hit(e *echo.Echo, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = ip + ":12345"
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRateLimitPerClient(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 250*int(time.Millisecond), time.UTC)
	e, _ := newLimitedEcho(t, 2, func() time.Time { return now })

	assert.Equal(t, http.StatusNoContent, hit(e, "10.0.0.1").Code)
	assert.Equal(t, http.StatusNoContent, hit(e, "10.0.0.1").Code)

	rec := hit(e, "10.0.0.1")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))

	// another client has its own window
	assert.Equal(t, http.StatusNoContent, hit(e, "10.0.0.2").Code)

	// next window resets the count
	now = now.Add(time.Second)
	assert.Equal(t, http.StatusNoContent, hit(e, "10.0.0.1").Code)
}

func TestRateLimitFailsOpen(t *testing.T) {
	e, mr := newLimitedEcho(t, 1, nil)
	mr.Close()

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusNoContent, hit(e, "10.0.0.1").Code)
	}
}

func TestRateLimitDisabled(t *testing.T) {
	e := echo.New()
	e.Use(RateLimitMiddleware(RateLimitConfig{RPS: 0}))
	e.GET("/ping", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusNoContent, hit(e, "10.0.0.1").Code)
	}
}
