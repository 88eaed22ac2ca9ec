// AngelaMos | 2026
// repository.go

package work

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/angelamos/artvia-backend/internal/core"
)

type Repository interface {
	Create(ctx context.Context, work *Work) error
	GetByID(ctx context.Context, id string) (*Work, error)
	List(ctx context.Context) ([]Work, error)
	Update(ctx context.Context, work *Work) error
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const workColumns = `id, title, description_uz, description_ru, description_en,
		       category, image, video, video_url, featured, created_at, updated_at`

func (r *repository) Create(ctx context.Context, work *Work) error {
	query := `
		INSERT INTO works (
			id, title, description_uz, description_ru, description_en,
			category, image, video, video_url, featured
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at`

	row := r.db.QueryRowxContext(ctx, query,
		work.ID,
		work.Title,
		work.DescriptionUz,
		work.DescriptionRu,
		work.DescriptionEn,
		work.Category,
		work.Image,
		work.Video,
		work.VideoURL,
		work.Featured,
	)
	if err := row.Scan(&work.CreatedAt, &work.UpdatedAt); err != nil {
		return fmt.Errorf("create work: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Work, error) {
	if !core.ValidID(id) {
		return nil, fmt.Errorf("get work: %w", core.ErrNotFound)
	}

	query := `SELECT ` + workColumns + ` FROM works WHERE id = $1`

	var work Work
	err := r.db.GetContext(ctx, &work, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get work: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get work: %w", err)
	}

	return &work, nil
}

func (r *repository) List(ctx context.Context) ([]Work, error) {
	query := `SELECT ` + workColumns + ` FROM works ORDER BY created_at DESC, id DESC`

	works := []Work{}
	if err := r.db.SelectContext(ctx, &works, query); err != nil {
		return nil, fmt.Errorf("list works: %w", err)
	}

	return works, nil
}

func (r *repository) Update(ctx context.Context, work *Work) error {
	query := `
		UPDATE works
		SET title = $2, description_uz = $3, description_ru = $4,
		    description_en = $5, category = $6, image = $7, video = $8,
		    video_url = $9, featured = $10, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &work.UpdatedAt, query,
		work.ID,
		work.Title,
		work.DescriptionUz,
		work.DescriptionRu,
		work.DescriptionEn,
		work.Category,
		work.Image,
		work.Video,
		work.VideoURL,
		work.Featured,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update work: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update work: %w", err)
	}

	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	if !core.ValidID(id) {
		return fmt.Errorf("delete work: %w", core.ErrNotFound)
	}

	result, err := r.db.ExecContext(ctx, `DELETE FROM works WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete work: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete work: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("delete work: %w", core.ErrNotFound)
	}

	return nil
}
