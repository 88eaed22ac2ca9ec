// AngelaMos | 2026
// testdb.go

// Package testdb starts a throwaway PostgreSQL container with the schema
// applied, for repository tests.
package testdb

import (
	"context"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/angelamos/artvia-backend/internal/config"
	"github.com/angelamos/artvia-backend/internal/core"
	"github.com/angelamos/artvia-backend/migrations"
)

// Start skips under -short. The container is terminated when t finishes.
func Start(t testing.TB) *core.Database {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping postgres container test in short mode")
	}

	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("artvia"),
		postgres.WithUsername("artvia"),
		postgres.WithPassword("artvia"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("start postgres container: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("terminate postgres container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("postgres connection string: %v", err)
	}

	db, err := core.NewDatabase(ctx, config.DatabaseConfig{
		URL:          dsn,
		MaxOpenConns: 5,
		MaxIdleConns: 2,
	})
	if err != nil {
		t.Fatalf("connect postgres: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if _, err := migrations.NewRunner(db.DB, nil).Up(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	return db
}

// Truncate empties the given tables between tests.
func Truncate(t testing.TB, db *core.Database, tables ...string) {
	t.Helper()
	for _, table := range tables {
		if _, err := db.DB.Exec("TRUNCATE TABLE " + table + " CASCADE"); err != nil {
			t.Fatalf("truncate %s: %v", table, err)
		}
	}
}

// InsertUser adds a bare account row and returns its id.
func InsertUser(t testing.TB, db *core.Database, email, name string) string {
	t.Helper()
	id := core.NewID()
	_, err := db.DB.Exec(
		`INSERT INTO users (id, email, password_hash, name) VALUES ($1, $2, $3, $4)`,
		id, email, "$argon2id$placeholder", name,
	)
	if err != nil {
		t.Fatalf("insert user: %v", err)
	}
	return id
}
