package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func doRequest(e *echo.Echo, mw echo.MiddlewareFunc) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Real-IP", "203.0.113.7")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	_ = handler(c)

	return rec
}

func TestIPRateLimiterAllowsWithinBudget(t *testing.T) {
	e := echo.New()
	rl := NewIPRateLimiter(5, time.Minute)
	mw := rl.Middleware()

	for i := 0; i < 5; i++ {
		rec := doRequest(e, mw)
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestIPRateLimiterBlocksWhenExhausted(t *testing.T) {
	e := echo.New()
	rl := NewIPRateLimiter(2, time.Minute)
	mw := rl.Middleware()

	doRequest(e, mw)
	doRequest(e, mw)

	rec := doRequest(e, mw)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), "retry_after")
}

func TestIPRateLimiterTracksIPsIndependently(t *testing.T) {
	e := echo.New()
	rl := NewIPRateLimiter(1, time.Minute)
	mw := rl.Middleware()

	doRequest(e, mw)
	blocked := doRequest(e, mw)
	assert.Equal(t, http.StatusTooManyRequests, blocked.Code)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Real-IP", "198.51.100.9")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	_ = handler(c)

	assert.Equal(t, http.StatusOK, rec.Code)
}
