// AngelaMos | 2026
// logger.go

package logging

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/angelamos/artvia-backend/internal/config"
)

// Logger bundles the process logger with the resources behind it.
type Logger struct {
	*slog.Logger

	mongo *MongoHandler
}

// New builds the process logger. When a Mongo URI is configured records are
// also shipped to Mongo; a Mongo connection failure degrades to stdout only.
func New(ctx context.Context, cfg config.LogConfig) *Logger {
	return newLogger(ctx, cfg, os.Stdout)
}

func newLogger(ctx context.Context, cfg config.LogConfig, out io.Writer) *Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}

	l := &Logger{}

	if cfg.MongoURI != "" {
		mh, err := NewMongoHandler(
			ctx,
			cfg.MongoURI,
			cfg.MongoDatabase,
			cfg.MongoCollection,
			opts.Level.Level(),
		)
		if err != nil {
			slog.New(handler).Warn("mongo log sink disabled", "error", err)
		} else {
			l.mongo = mh
			handler = NewMultiHandler(handler, mh)
		}
	}

	l.Logger = slog.New(handler)
	return l
}

// Close flushes the Mongo sink, if any.
func (l *Logger) Close(ctx context.Context) error {
	if l.mongo == nil {
		return nil
	}
	return l.mongo.Close(ctx)
}

func ParseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
