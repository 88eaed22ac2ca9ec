// AngelaMos | 2026
// logging_test.go

package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/angelamos/artvia-backend/internal/config"
)

type memCollection struct {
	mu   sync.Mutex
	docs []LogDocument
}

func (c *memCollection) InsertMany(
	_ context.Context,
	documents []any,
	_ ...*options.InsertManyOptions,
) (*mongo.InsertManyResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, d := range documents {
		c.docs = append(c.docs, d.(LogDocument))
	}
	return &mongo.InsertManyResult{}, nil
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warn"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("info"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestNewLoggerFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(context.Background(), config.LogConfig{Level: "warn", Format: "json"}, &buf)

	l.Info("quiet")
	l.Warn("loud", "order_id", "o1")

	assert.NotContains(t, buf.String(), "quiet")
	assert.Contains(t, buf.String(), `"msg":"loud"`)
	assert.Contains(t, buf.String(), `"order_id":"o1"`)
	assert.NoError(t, l.Close(context.Background()))
}

func TestNewLoggerDegradesWithoutMongo(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(context.Background(), config.LogConfig{
		Level:    "info",
		Format:   "text",
		MongoURI: "not-a-mongo-uri",
	}, &buf)

	assert.Nil(t, l.mongo)
	assert.Contains(t, buf.String(), "mongo log sink disabled")

	l.Info("still logging")
	assert.Contains(t, buf.String(), "still logging")
}

func TestMongoHandlerShipsRecords(t *testing.T) {
	col := &memCollection{}
	h := newMongoHandler(col, slog.LevelInfo)
	logger := slog.New(h).With("request_id", "req-1")

	logger.Debug("dropped")
	logger.WithGroup("http").Info("request finished",
		"status", 201,
		"error", errors.New("boom"),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, h.Close(ctx))
	require.NoError(t, h.Close(ctx))

	col.mu.Lock()
	defer col.mu.Unlock()
	require.Len(t, col.docs, 1)

	doc := col.docs[0]
	assert.Equal(t, "request finished", doc.Msg)
	assert.Equal(t, "INFO", doc.Level)
	assert.Equal(t, "req-1", doc.RequestID)
	assert.Equal(t, int64(201), doc.Attrs["http.status"])
	assert.Equal(t, "boom", doc.Attrs["http.error"])
}

func TestMultiHandler(t *testing.T) {
	var infoBuf, errBuf bytes.Buffer
	h := NewMultiHandler(
		slog.NewTextHandler(&infoBuf, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewTextHandler(&errBuf, &slog.HandlerOptions{Level: slog.LevelError}),
	)
	logger := slog.New(h).With("component", "orders")

	logger.Info("placed")
	logger.Error("failed")

	assert.Contains(t, infoBuf.String(), "placed")
	assert.Contains(t, infoBuf.String(), "failed")
	assert.NotContains(t, errBuf.String(), "placed")
	assert.Contains(t, errBuf.String(), "component=orders")
	assert.False(t, h.Enabled(context.Background(), slog.LevelDebug))
}
