// AngelaMos | 2026
// serve_test.go

package main

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelamos/artvia-backend/internal/config"
	"github.com/angelamos/artvia-backend/internal/core"
	"github.com/angelamos/artvia-backend/internal/middleware"
)

const testOrigin = "https://artvia.uz"

func newTestRouter(t *testing.T) *chi.Mux {
	t.Helper()

	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := &config.Config{
		CORS: config.CORSConfig{
			AllowedOrigins: []string{testOrigin},
			AllowedMethods: []string{"GET", "POST"},
			AllowedHeaders: []string{"Authorization", "Content-Type"},
			MaxAge:         600,
		},
	}
	limiter := middleware.NewRateLimiter(rdb, middleware.RateLimitConfig{
		Name:  "serve-test",
		Limit: middleware.PerMinute(1, 1),
	}).Handler

	router := chi.NewRouter()
	useGlobalMiddleware(
		router,
		cfg,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		limiter,
	)
	router.Get("/api/ping", func(w http.ResponseWriter, _ *http.Request) {
		core.OK(w, map[string]string{"status": "ok"})
	})
	return router
}

func send(h http.Handler, method string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/api/ping", nil)
	req.Header.Set("Origin", testOrigin)
	if method == http.MethodOptions {
		req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestGlobalMiddlewareRateLimitedResponsesKeepCORS(t *testing.T) {
	router := newTestRouter(t)

	require.Equal(t, http.StatusOK, send(router, http.MethodGet).Code)

	rec := send(router, http.MethodGet)

	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, testOrigin, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestGlobalMiddlewarePreflightSkipsLimiter(t *testing.T) {
	router := newTestRouter(t)

	for range 3 {
		rec := send(router, http.MethodOptions)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, testOrigin, rec.Header().Get("Access-Control-Allow-Origin"))
	}

	assert.Equal(t, http.StatusOK, send(router, http.MethodGet).Code)
}
