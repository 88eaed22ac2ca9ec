// AngelaMos | 2026
// repository.go

package favorite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/angelamos/artvia-backend/internal/core"
)

type Repository interface {
	Create(ctx context.Context, favorite *Favorite) error
	ListByUser(ctx context.Context, userID string) ([]Favorite, error)
	Delete(ctx context.Context, userID, productID string) error
	Exists(ctx context.Context, userID, productID string) (bool, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, favorite *Favorite) error {
	query := `
		INSERT INTO favorites (id, user_id, product_id)
		VALUES ($1, $2, $3)
		RETURNING created_at`

	row := r.db.QueryRowxContext(ctx, query,
		favorite.ID,
		favorite.UserID,
		favorite.ProductID,
	)
	if err := row.Scan(&favorite.CreatedAt); err != nil {
		switch {
		case core.IsDuplicateKeyError(err):
			return fmt.Errorf("create favorite: %w", core.ErrDuplicateKey)
		case core.IsForeignKeyError(err):
			return fmt.Errorf("create favorite: %w", core.ErrNotFound)
		}
		return fmt.Errorf("create favorite: %w", err)
	}

	return nil
}

func (r *repository) ListByUser(ctx context.Context, userID string) ([]Favorite, error) {
	query := `
		SELECT id, user_id, product_id, created_at
		FROM favorites
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC`

	favorites := []Favorite{}
	if err := r.db.SelectContext(ctx, &favorites, query, userID); err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}

	return favorites, nil
}

func (r *repository) Delete(ctx context.Context, userID, productID string) error {
	if !core.ValidID(productID) {
		return fmt.Errorf("delete favorite: %w", core.ErrNotFound)
	}

	result, err := r.db.ExecContext(ctx,
		`DELETE FROM favorites WHERE user_id = $1 AND product_id = $2`,
		userID, productID,
	)
	if err != nil {
		return fmt.Errorf("delete favorite: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete favorite: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("delete favorite: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) Exists(ctx context.Context, userID, productID string) (bool, error) {
	if !core.ValidID(productID) {
		return false, nil
	}

	var exists bool
	err := r.db.GetContext(ctx, &exists, `
		SELECT EXISTS (
			SELECT 1 FROM favorites WHERE user_id = $1 AND product_id = $2
		)`, userID, productID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return false, fmt.Errorf("check favorite: %w", err)
	}

	return exists, nil
}
