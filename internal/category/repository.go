// AngelaMos | 2026
// repository.go

package category

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/angelamos/artvia-backend/internal/core"
)

type Repository interface {
	Create(ctx context.Context, category *Category) error
	GetByID(ctx context.Context, id string) (*Category, error)
	List(ctx context.Context) ([]Category, error)
	Update(ctx context.Context, category *Category) error
	Delete(ctx context.Context, id string) error
	Upsert(ctx context.Context, categories []Category, reset bool) error
}

type database interface {
	core.DBTX
	core.TxBeginner
}

type repository struct {
	db database
}

func NewRepository(db database) Repository {
	return &repository{db: db}
}

const categoryColumns = `id, name, name_uz, name_ru, slug, created_at, updated_at`

func (r *repository) Create(ctx context.Context, category *Category) error {
	query := `
		INSERT INTO categories (id, name, name_uz, name_ru, slug)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`

	row := r.db.QueryRowxContext(ctx, query,
		category.ID,
		category.Name,
		category.NameUz,
		category.NameRu,
		category.Slug,
	)
	if err := row.Scan(&category.CreatedAt, &category.UpdatedAt); err != nil {
		if core.IsDuplicateKeyError(err) {
			return fmt.Errorf("create category: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create category: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Category, error) {
	if !core.ValidID(id) {
		return nil, fmt.Errorf("get category: %w", core.ErrNotFound)
	}

	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1`

	var category Category
	err := r.db.GetContext(ctx, &category, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get category: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}

	return &category, nil
}

func (r *repository) List(ctx context.Context) ([]Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories ORDER BY name`

	categories := []Category{}
	if err := r.db.SelectContext(ctx, &categories, query); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	return categories, nil
}

func (r *repository) Update(ctx context.Context, category *Category) error {
	query := `
		UPDATE categories
		SET name = $2, name_uz = $3, name_ru = $4, slug = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &category.UpdatedAt, query,
		category.ID,
		category.Name,
		category.NameUz,
		category.NameRu,
		category.Slug,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update category: %w", core.ErrNotFound)
	}
	if err != nil {
		if core.IsDuplicateKeyError(err) {
			return fmt.Errorf("update category: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("update category: %w", err)
	}

	return nil
}

// Delete leaves products of the category in place with no category.
func (r *repository) Delete(ctx context.Context, id string) error {
	if !core.ValidID(id) {
		return fmt.Errorf("delete category: %w", core.ErrNotFound)
	}

	result, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("delete category: %w", core.ErrNotFound)
	}

	return nil
}

// Upsert inserts categories keyed by slug, updating names of existing rows.
// With reset every other category is removed first.
func (r *repository) Upsert(
	ctx context.Context,
	categories []Category,
	reset bool,
) error {
	return core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if reset {
			if _, err := tx.ExecContext(ctx, `DELETE FROM categories`); err != nil {
				return fmt.Errorf("reset categories: %w", err)
			}
		}

		query := `
			INSERT INTO categories (id, name, name_uz, name_ru, slug)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (slug) DO UPDATE
			SET name = EXCLUDED.name,
			    name_uz = EXCLUDED.name_uz,
			    name_ru = EXCLUDED.name_ru,
			    updated_at = NOW()`

		for _, c := range categories {
			_, err := tx.ExecContext(ctx, query,
				c.ID,
				c.Name,
				c.NameUz,
				c.NameRu,
				c.Slug,
			)
			if err != nil {
				return fmt.Errorf("upsert category %s: %w", c.Slug, err)
			}
		}

		return nil
	})
}
