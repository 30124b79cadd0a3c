package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/chooseyourcart/storefront/internal/logging"
)

func TestRequestLogger_ScopesAndCompletes(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, nil))

	e := echo.New()
	e.Use(RequestLogger(base))
	e.GET("/products", func(c echo.Context) error {
		logging.FromContext(c.Request().Context()).Info("listing products")
		return c.JSON(http.StatusOK, map[string]string{"ok": "1"})
	})

	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	req.Header.Set(echo.HeaderXRequestID, "req-123")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	// The handler's own log line carries the request-scoped fields.
	require.Contains(t, lines[0], `"msg":"listing products"`)
	require.Contains(t, lines[0], `"request_id":"req-123"`)
	require.Contains(t, lines[0], `"path":"/products"`)

	require.Contains(t, lines[1], `"msg":"request completed"`)
	require.Contains(t, lines[1], `"status":200`)
	require.Contains(t, lines[1], `"level":"INFO"`)
}

func TestRequestLogger_ErrorsLogAtErrorLevel(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, nil))

	e := echo.New()
	e.Use(RequestLogger(base))
	e.GET("/boom", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusInternalServerError, "broken")
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	out := buf.String()
	require.Contains(t, out, `"level":"ERROR"`)
	require.Contains(t, out, `"status":500`)
	require.Contains(t, out, `"error":`)
}
