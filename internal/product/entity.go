// AngelaMos | 2026
// entity.go

package product

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// CategoryRef is the joined category row. All fields are null once the
// category has been deleted.
type CategoryRef struct {
	ID     sql.NullString `db:"id"`
	Name   sql.NullString `db:"name"`
	NameUz sql.NullString `db:"name_uz"`
	NameRu sql.NullString `db:"name_ru"`
	Slug   sql.NullString `db:"slug"`
}

type Product struct {
	ID            string          `db:"id"`
	Title         string          `db:"title"`
	TitleUz       string          `db:"title_uz"`
	TitleRu       string          `db:"title_ru"`
	Description   string          `db:"description"`
	DescriptionUz string          `db:"description_uz"`
	DescriptionRu string          `db:"description_ru"`
	Price         decimal.Decimal `db:"price"`
	Image         string          `db:"image"`
	CategoryID    *string         `db:"category_id"`
	CategoryName  string          `db:"category_name"`
	Category      CategoryRef     `db:"category"`
	CreatedAt     time.Time       `db:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at"`
}
