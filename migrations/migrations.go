// AngelaMos | 2026
// migrations.go

package migrations

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/angelamos/artvia-backend/internal/core"
)

//go:embed *.sql
var files embed.FS

type Record struct {
	Name  string    `db:"name"`
	Batch int       `db:"batch"`
	RunAt time.Time `db:"run_at"`
}

type Migration struct {
	Name string
	SQL  string
}

// Runner applies embedded SQL files in name order and tracks them in
// schema_migrations. Every file runs in its own transaction.
type Runner struct {
	db     *sqlx.DB
	source fs.FS
	logger *slog.Logger
}

func NewRunner(db *sqlx.DB, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{db: db, source: files, logger: logger}
}

func (r *Runner) ensureTable(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			name    TEXT PRIMARY KEY,
			batch   INTEGER NOT NULL,
			run_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`)
	if err != nil {
		return fmt.Errorf("ensure schema_migrations: %w", err)
	}
	return nil
}

func (r *Runner) all() ([]Migration, error) {
	names, err := fs.Glob(r.source, "*.sql")
	if err != nil {
		return nil, fmt.Errorf("list migrations: %w", err)
	}
	sort.Strings(names)

	out := make([]Migration, 0, len(names))
	for _, name := range names {
		body, err := fs.ReadFile(r.source, name)
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", name, err)
		}
		out = append(out, Migration{
			Name: strings.TrimSuffix(name, ".sql"),
			SQL:  string(body),
		})
	}

	return out, nil
}

func (r *Runner) Applied(ctx context.Context) ([]Record, error) {
	if err := r.ensureTable(ctx); err != nil {
		return nil, err
	}

	records := []Record{}
	err := r.db.SelectContext(ctx, &records,
		`SELECT name, batch, run_at FROM schema_migrations ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list applied migrations: %w", err)
	}

	return records, nil
}

func (r *Runner) Pending(ctx context.Context) ([]Migration, error) {
	applied, err := r.Applied(ctx)
	if err != nil {
		return nil, err
	}

	done := make(map[string]struct{}, len(applied))
	for _, rec := range applied {
		done[rec.Name] = struct{}{}
	}

	all, err := r.all()
	if err != nil {
		return nil, err
	}

	var pending []Migration
	for _, m := range all {
		if _, ok := done[m.Name]; !ok {
			pending = append(pending, m)
		}
	}

	return pending, nil
}

// Up applies every pending migration as one batch and returns their names.
func (r *Runner) Up(ctx context.Context) ([]string, error) {
	pending, err := r.Pending(ctx)
	if err != nil {
		return nil, err
	}
	if len(pending) == 0 {
		r.logger.InfoContext(ctx, "migrations up to date")
		return nil, nil
	}

	var batch int
	err = r.db.GetContext(ctx, &batch,
		`SELECT COALESCE(MAX(batch), 0) + 1 FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("next migration batch: %w", err)
	}

	applied := make([]string, 0, len(pending))
	for _, m := range pending {
		err := core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
			if _, err := tx.ExecContext(ctx, m.SQL); err != nil {
				return err
			}
			_, err := tx.ExecContext(ctx,
				`INSERT INTO schema_migrations (name, batch) VALUES ($1, $2)`,
				m.Name, batch,
			)
			return err
		})
		if err != nil {
			return applied, fmt.Errorf("apply migration %s: %w", m.Name, err)
		}

		r.logger.InfoContext(ctx, "migration applied", "name", m.Name, "batch", batch)
		applied = append(applied, m.Name)
	}

	return applied, nil
}
