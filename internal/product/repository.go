// AngelaMos | 2026
// repository.go

package product

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/angelamos/artvia-backend/internal/core"
)

type ListParams struct {
	CategoryID string
	Limit      int
}

type Repository interface {
	Create(ctx context.Context, product *Product) error
	GetByID(ctx context.Context, id string) (*Product, error)
	GetByIDs(ctx context.Context, ids []string) ([]Product, error)
	List(ctx context.Context, params ListParams) ([]Product, error)
	Update(ctx context.Context, product *Product) error
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const productSelect = `
	SELECT p.id, p.title, p.title_uz, p.title_ru, p.description,
	       p.description_uz, p.description_ru, p.price, p.image,
	       p.category_id, p.category_name, p.created_at, p.updated_at,
	       c.id AS "category.id", c.name AS "category.name",
	       c.name_uz AS "category.name_uz", c.name_ru AS "category.name_ru",
	       c.slug AS "category.slug"
	FROM products p
	LEFT JOIN categories c ON c.id = p.category_id`

func (r *repository) Create(ctx context.Context, product *Product) error {
	query := `
		INSERT INTO products (
			id, title, title_uz, title_ru, description, description_uz,
			description_ru, price, image, category_id, category_name
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at`

	row := r.db.QueryRowxContext(ctx, query,
		product.ID,
		product.Title,
		product.TitleUz,
		product.TitleRu,
		product.Description,
		product.DescriptionUz,
		product.DescriptionRu,
		product.Price,
		product.Image,
		product.CategoryID,
		product.CategoryName,
	)
	if err := row.Scan(&product.CreatedAt, &product.UpdatedAt); err != nil {
		if core.IsForeignKeyError(err) {
			return fmt.Errorf("create product: %w", ErrCategoryNotFound)
		}
		return fmt.Errorf("create product: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Product, error) {
	if !core.ValidID(id) {
		return nil, fmt.Errorf("get product: %w", core.ErrNotFound)
	}

	var product Product
	err := r.db.GetContext(ctx, &product, productSelect+` WHERE p.id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get product: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}

	return &product, nil
}

// GetByIDs skips ids that are malformed or unknown.
func (r *repository) GetByIDs(ctx context.Context, ids []string) ([]Product, error) {
	valid := make([]string, 0, len(ids))
	for _, id := range ids {
		if core.ValidID(id) {
			valid = append(valid, id)
		}
	}
	if len(valid) == 0 {
		return []Product{}, nil
	}

	query, args, err := sqlx.In(productSelect+` WHERE p.id IN (?)`, valid)
	if err != nil {
		return nil, fmt.Errorf("get products: %w", err)
	}

	products := []Product{}
	if err := r.db.SelectContext(ctx, &products, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("get products: %w", err)
	}

	return products, nil
}

func (r *repository) List(ctx context.Context, params ListParams) ([]Product, error) {
	query := productSelect
	var args []any

	if params.CategoryID != "" {
		if !core.ValidID(params.CategoryID) {
			return []Product{}, nil
		}
		args = append(args, params.CategoryID)
		query += fmt.Sprintf(` WHERE p.category_id = $%d`, len(args))
	}

	query += ` ORDER BY p.created_at DESC, p.id DESC`

	if params.Limit > 0 {
		args = append(args, params.Limit)
		query += fmt.Sprintf(` LIMIT $%d`, len(args))
	}

	products := []Product{}
	if err := r.db.SelectContext(ctx, &products, query, args...); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	return products, nil
}

func (r *repository) Update(ctx context.Context, product *Product) error {
	query := `
		UPDATE products
		SET title = $2, title_uz = $3, title_ru = $4, description = $5,
		    description_uz = $6, description_ru = $7, price = $8, image = $9,
		    category_id = $10, category_name = $11, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &product.UpdatedAt, query,
		product.ID,
		product.Title,
		product.TitleUz,
		product.TitleRu,
		product.Description,
		product.DescriptionUz,
		product.DescriptionRu,
		product.Price,
		product.Image,
		product.CategoryID,
		product.CategoryName,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update product: %w", core.ErrNotFound)
	}
	if err != nil {
		if core.IsForeignKeyError(err) {
			return fmt.Errorf("update product: %w", ErrCategoryNotFound)
		}
		return fmt.Errorf("update product: %w", err)
	}

	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	if !core.ValidID(id) {
		return fmt.Errorf("delete product: %w", core.ErrNotFound)
	}

	result, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("delete product: %w", core.ErrNotFound)
	}

	return nil
}
