// AngelaMos | 2026
// handler_test.go

package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func get(t *testing.T, h *Handler, path string) (*httptest.ResponseRecorder, ReadinessResponse) {
	t.Helper()
	r := chi.NewRouter()
	h.RegisterRoutes(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	var body ReadinessResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return rec, body
}

func healthy(context.Context) error { return nil }

func TestLiveness(t *testing.T) {
	h := NewHandler()

	rec, body := get(t, h, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "no-cache, no-store, must-revalidate", rec.Header().Get("Cache-Control"))

	h.SetShutdown(true)
	rec, body = get(t, h, "/livez")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "shutting_down", body.Status)
}

func TestReadiness(t *testing.T) {
	t.Run("all dependencies up", func(t *testing.T) {
		h := NewHandler(
			Dependency{Name: "database", Checker: CheckerFunc(healthy)},
			Dependency{Name: "redis", Checker: CheckerFunc(healthy)},
		)

		rec, body := get(t, h, "/readyz")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ok", body.Status)
		require.Len(t, body.Checks, 2)
		assert.Equal(t, "database", body.Checks[0].Name)
		assert.True(t, body.Checks[1].Healthy)
		assert.NotEmpty(t, body.Checks[0].Latency)
	})

	t.Run("failing dependency degrades without leaking the error", func(t *testing.T) {
		h := NewHandler(
			Dependency{Name: "database", Checker: CheckerFunc(healthy)},
			Dependency{Name: "redis", Checker: CheckerFunc(func(context.Context) error {
				return errors.New("dial tcp 10.0.0.5:6379: connection refused")
			})},
			Dependency{Name: "mongo"},
		)

		rec, body := get(t, h, "/readyz")

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, "degraded", body.Status)
		assert.Equal(t, "ping failed", body.Checks[1].Message)
		assert.Equal(t, "mongo checker not configured", body.Checks[2].Message)
		assert.NotContains(t, rec.Body.String(), "10.0.0.5")
	})

	t.Run("not ready and shutting down", func(t *testing.T) {
		h := NewHandler()
		h.SetReady(false)

		rec, body := get(t, h, "/readyz")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, "not_ready", body.Status)

		h.SetShutdown(true)
		_, body = get(t, h, "/readyz")
		assert.Equal(t, "shutting_down", body.Status)
	})
}
