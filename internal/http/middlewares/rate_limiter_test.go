package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

func TestRateLimiterFixedWindow(t *testing.T) {
	e := echo.New()
	current := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	mw := rateLimiter(2, time.Minute, func() time.Time { return current })
	h := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	call := func(ip string) error {
		req := httptest.NewRequest(http.MethodGet, "/board", nil)
		req.RemoteAddr = ip + ":1234"
		return h(e.NewContext(req, httptest.NewRecorder()))
	}

	for i := 0; i < 2; i++ {
		if err := call("10.0.0.1"); err != nil {
			t.Fatalf("request %d: expected success, got %v", i, err)
		}
	}

	var httpErr *echo.HTTPError
	if err := call("10.0.0.1"); !errors.As(err, &httpErr) || httpErr.Code != http.StatusTooManyRequests {
		t.Fatalf("Expected 429, got %v", err)
	}
	if err := call("10.0.0.2"); err != nil {
		t.Errorf("Expected other clients to be unaffected, got %v", err)
	}

	current = current.Add(61 * time.Second)
	if err := call("10.0.0.1"); err != nil {
		t.Errorf("Expected a new window to reset the limit, got %v", err)
	}
}
