// AngelaMos | 2026
// handler.go

package admin

import (
	"context"
	"database/sql"
	"net/http"
	"runtime"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/angelamos/artvia-backend/internal/core"
	"github.com/angelamos/artvia-backend/internal/order"
)

type OrderStats interface {
	Stats(ctx context.Context) (*order.Stats, error)
}

type HandlerConfig struct {
	DBStats    func() sql.DBStats
	DBPing     func(ctx context.Context) error
	RedisStats func() *redis.PoolStats
	RedisPing  func(ctx context.Context) error
	Orders     OrderStats
	StartedAt  time.Time
}

type Handler struct {
	cfg HandlerConfig
}

func NewHandler(cfg HandlerConfig) *Handler {
	if cfg.StartedAt.IsZero() {
		cfg.StartedAt = time.Now()
	}
	return &Handler{cfg: cfg}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/admin/stats", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(adminOnly)

		r.Get("/", h.GetStats)
		r.Get("/orders", h.GetOrderStats)
		r.Get("/runtime", h.GetRuntimeStats)
	})
}

// GetStats is the dashboard summary. Backend probes are reported as unhealthy
// instead of failing the whole response.
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	stats, err := h.cfg.Orders.Stats(ctx)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, StatsResponse{
		Orders: order.ToStatsResponse(stats),
		Database: BackendStatus{
			Healthy: probe(ctx, h.cfg.DBPing),
			Pool:    h.dbPool(),
		},
		Redis: BackendStatus{
			Healthy: probe(ctx, h.cfg.RedisPing),
			Pool:    h.redisPool(),
		},
		Runtime: h.runtimeStats(),
	})
}

func (h *Handler) GetOrderStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.cfg.Orders.Stats(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, order.ToStatsResponse(stats))
}

func (h *Handler) GetRuntimeStats(w http.ResponseWriter, _ *http.Request) {
	core.OK(w, h.runtimeStats())
}

func probe(ctx context.Context, ping func(context.Context) error) bool {
	if ping == nil {
		return false
	}
	return ping(ctx) == nil
}

func (h *Handler) runtimeStats() RuntimeStats {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	return RuntimeStats{
		GoVersion:     runtime.Version(),
		Goroutines:    runtime.NumGoroutine(),
		CPUs:          runtime.NumCPU(),
		MemAllocBytes: mem.Alloc,
		MemSysBytes:   mem.Sys,
		NumGC:         mem.NumGC,
		Uptime:        time.Since(h.cfg.StartedAt).Round(time.Second).String(),
	}
}

func (h *Handler) dbPool() map[string]any {
	if h.cfg.DBStats == nil {
		return nil
	}

	s := h.cfg.DBStats()
	return map[string]any{
		"maxOpen":      s.MaxOpenConnections,
		"open":         s.OpenConnections,
		"inUse":        s.InUse,
		"idle":         s.Idle,
		"waitCount":    s.WaitCount,
		"waitDuration": s.WaitDuration.String(),
	}
}

func (h *Handler) redisPool() map[string]any {
	if h.cfg.RedisStats == nil {
		return nil
	}

	s := h.cfg.RedisStats()
	return map[string]any{
		"hits":       s.Hits,
		"misses":     s.Misses,
		"timeouts":   s.Timeouts,
		"totalConns": s.TotalConns,
		"idleConns":  s.IdleConns,
		"staleConns": s.StaleConns,
	}
}
