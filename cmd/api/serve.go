// AngelaMos | 2026
// serve.go

package main

import (
	"context"
	"log/slog"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"

	"github.com/angelamos/artvia-backend/internal/admin"
	"github.com/angelamos/artvia-backend/internal/assistant"
	"github.com/angelamos/artvia-backend/internal/auth"
	"github.com/angelamos/artvia-backend/internal/category"
	"github.com/angelamos/artvia-backend/internal/config"
	"github.com/angelamos/artvia-backend/internal/core"
	"github.com/angelamos/artvia-backend/internal/favorite"
	"github.com/angelamos/artvia-backend/internal/health"
	"github.com/angelamos/artvia-backend/internal/metrics"
	"github.com/angelamos/artvia-backend/internal/middleware"
	"github.com/angelamos/artvia-backend/internal/order"
	"github.com/angelamos/artvia-backend/internal/product"
	"github.com/angelamos/artvia-backend/internal/server"
	"github.com/angelamos/artvia-backend/internal/storage"
	"github.com/angelamos/artvia-backend/internal/user"
	"github.com/angelamos/artvia-backend/internal/work"
	"github.com/angelamos/artvia-backend/migrations"
)

const (
	drainDelay = 5 * time.Second
)

var autoMigrate bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().BoolVar(
		&autoMigrate,
		"migrate",
		false,
		"apply pending migrations before serving",
	)
}

//nolint:funlen // bootstrap code is inherently verbose
func serve(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	e, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	cfg, logger := e.cfg, e.logger.Logger
	startedAt := time.Now()

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	core.ExposeErrorDetails(!cfg.IsProduction())

	var telemetry *core.Telemetry
	if cfg.Otel.Enabled {
		tel, telErr := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
		if telErr != nil {
			logger.Warn("failed to initialize telemetry", "error", telErr)
		} else {
			telemetry = tel
			logger.Info("OpenTelemetry tracer initialized",
				"endpoint", cfg.Otel.Endpoint,
			)
		}
	}

	db := e.db
	logger.Info("database connected",
		"max_open_conns", cfg.Database.MaxOpenConns,
		"max_idle_conns", cfg.Database.MaxIdleConns,
	)

	if autoMigrate {
		applied, migErr := migrations.NewRunner(db.DB, logger).Up(ctx)
		if migErr != nil {
			e.close(context.Background())
			return migErr
		}
		logger.Info("migrations applied", "count", len(applied))
	}

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		e.close(context.Background())
		return err
	}
	logger.Info("redis connected",
		"pool_size", cfg.Redis.PoolSize,
	)

	jwtManager, err := auth.NewJWTManager(cfg.JWT)
	if err != nil {
		_ = redis.Close() //nolint:errcheck // already failing
		e.close(context.Background())
		return err
	}
	logger.Info("JWT manager initialized",
		"algorithm", "HS256",
		"expiry", cfg.JWT.Expire,
	)

	disk, err := storage.NewDisk(ctx, cfg.Upload)
	if err != nil {
		_ = redis.Close() //nolint:errcheck // already failing
		e.close(context.Background())
		return err
	}
	uploader := storage.NewUploader(disk, cfg.Upload.MaxSize, logger)
	logger.Info("upload storage ready",
		"disk", cfg.Upload.Disk,
		"max_size", cfg.Upload.MaxSize,
	)

	userRepo := user.NewRepository(db.DB)
	userSvc := user.NewService(userRepo)
	userHandler := user.NewHandler(userSvc)

	authRepo := auth.NewRepository(redis.Client)
	authSvc := auth.NewService(authRepo, jwtManager, userSvc, logger)
	authHandler := auth.NewHandler(authSvc)

	categoryRepo := category.NewRepository(db.DB)
	categorySvc := category.NewService(categoryRepo)
	categoryHandler := category.NewHandler(categorySvc)

	productSvc := product.NewService(
		product.NewRepository(db.DB),
		categoryRepo,
		uploader,
		logger,
	)
	productHandler := product.NewHandler(productSvc, uploader)

	orderSvc := order.NewService(
		order.NewRepository(db.DB),
		productSvc,
		uploader,
		logger,
	)
	orderHandler := order.NewHandler(orderSvc, uploader)

	favoriteSvc := favorite.NewService(favorite.NewRepository(db.DB), productSvc)
	favoriteHandler := favorite.NewHandler(favoriteSvc)

	workSvc := work.NewService(work.NewRepository(db.DB), uploader, logger)
	workHandler := work.NewHandler(workSvc, uploader)

	assistantSvc := assistant.NewService(
		assistant.NewClient(cfg.Gemini),
		productSvc,
		logger,
	)
	assistantHandler := assistant.NewHandler(assistantSvc)

	healthHandler := health.NewHandler(
		health.Dependency{Name: "database", Checker: health.CheckerFunc(db.Ping)},
		health.Dependency{Name: "redis", Checker: health.CheckerFunc(redis.Ping)},
	)

	adminHandler := admin.NewHandler(admin.HandlerConfig{
		DBStats:    db.Stats,
		RedisStats: redis.PoolStats,
		DBPing:     db.Ping,
		RedisPing:  redis.Ping,
		Orders:     orderSvc,
		StartedAt:  startedAt,
	})

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	useGlobalMiddleware(router, cfg, logger,
		middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
			Name: "global",
			Limit: middleware.PerWindow(
				cfg.RateLimit.Requests,
				cfg.RateLimit.Burst,
				cfg.RateLimit.Window,
			),
			BypassFunc: isProbe(cfg.Metrics.Path),
			FailOpen:   true,
		}).Handler,
	)

	healthHandler.RegisterRoutes(router)

	if cfg.Metrics.Enabled {
		router.Method(http.MethodGet, cfg.Metrics.Path, metrics.Handler())
	}

	if local, ok := disk.(*storage.LocalDisk); ok {
		router.Handle(local.PublicPath()+"/*", local.Handler())
	}

	authenticator := middleware.Authenticator(authSvc)
	adminOnly := middleware.RequireAdmin

	authLimiter := middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
		Name: "auth",
		Limit: middleware.PerMinute(
			cfg.RateLimit.AuthRequests,
			cfg.RateLimit.AuthRequests,
		),
		FailOpen: true,
	}).Handler

	aiLimiter := middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
		Name: "ai",
		Limit: middleware.PerMinute(
			cfg.RateLimit.AIRequests,
			cfg.RateLimit.AIRequests,
		),
		KeyFunc:  middleware.KeyByUser,
		FailOpen: true,
	}).Handler
	optionalAuth := middleware.OptionalAuth(authSvc)
	aiGuard := func(next http.Handler) http.Handler {
		return optionalAuth(aiLimiter(next))
	}

	router.Route("/api", func(r chi.Router) {
		authHandler.RegisterRoutes(r, authenticator, authLimiter)

		userHandler.RegisterRoutes(r, authenticator)
		userHandler.RegisterAdminRoutes(r, authenticator, adminOnly)

		categoryHandler.RegisterRoutes(r, authenticator, adminOnly)
		productHandler.RegisterRoutes(r, authenticator, adminOnly)
		orderHandler.RegisterRoutes(r, authenticator, adminOnly)
		favoriteHandler.RegisterRoutes(r, authenticator)
		workHandler.RegisterRoutes(r, authenticator, adminOnly)
		assistantHandler.RegisterRoutes(r, aiGuard)

		adminHandler.RegisterRoutes(r, authenticator, adminOnly)
	})

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	var runErr error
	select {
	case runErr = <-errChan:
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if runErr == nil {
		if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
			logger.Error("server shutdown error", "error", err)
		}
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}

	if err := redis.Close(); err != nil {
		logger.Error("redis close error", "error", err)
	}

	logger.Info("application stopped")
	e.close(shutdownCtx)

	return runErr
}

// useGlobalMiddleware installs the router-wide chain. CORS sits in front of
// the limiter so preflights skip it and 429 responses carry CORS headers.
func useGlobalMiddleware(
	router chi.Router,
	cfg *config.Config,
	logger *slog.Logger,
	limiter func(http.Handler) http.Handler,
) {
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer(logger))
	router.Use(middleware.Logger(logger))
	if cfg.Metrics.Enabled {
		router.Use(metrics.Middleware)
	}
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORS))
	router.Use(limiter)
}

func isProbe(metricsPath string) func(*http.Request) bool {
	return func(r *http.Request) bool {
		p := r.URL.Path
		return p == metricsPath ||
			p == "/healthz" ||
			p == "/livez" ||
			strings.HasPrefix(p, "/readyz")
	}
}
