// AngelaMos | 2026
// dto.go

package product

import (
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelamos/artvia-backend/internal/core"
)

// Input carries create and update fields. Nil means the field was not sent.
type Input struct {
	Title         *string          `json:"title"`
	TitleUz       *string          `json:"titleUz"`
	TitleRu       *string          `json:"titleRu"`
	Description   *string          `json:"description"`
	DescriptionUz *string          `json:"descriptionUz"`
	DescriptionRu *string          `json:"descriptionRu"`
	Price         *decimal.Decimal `json:"price"`
	Image         *string          `json:"image"`
	Category      *string          `json:"category"`
	CategoryName  *string          `json:"categoryName"`
}

// InputFromForm reads Input from parsed multipart values.
func InputFromForm(r *http.Request) (Input, error) {
	var in Input
	if r.MultipartForm == nil {
		return in, nil
	}

	values := r.MultipartForm.Value
	field := func(name string) *string {
		v, ok := values[name]
		if !ok || len(v) == 0 {
			return nil
		}
		return &v[0]
	}

	in.Title = field("title")
	in.TitleUz = field("titleUz")
	in.TitleRu = field("titleRu")
	in.Description = field("description")
	in.DescriptionUz = field("descriptionUz")
	in.DescriptionRu = field("descriptionRu")
	in.Image = field("image")
	in.Category = field("category")
	in.CategoryName = field("categoryName")

	if raw := field("price"); raw != nil {
		price, err := decimal.NewFromString(strings.TrimSpace(*raw))
		if err != nil {
			return in, core.ValidationError("Invalid price")
		}
		in.Price = &price
	}

	return in, nil
}

type CategorySummary struct {
	ID     string `json:"_id"`
	Name   string `json:"name"`
	NameUz string `json:"nameUz"`
	NameRu string `json:"nameRu"`
	Slug   string `json:"slug"`
}

type ProductResponse struct {
	ID            string           `json:"_id"`
	Title         string           `json:"title"`
	TitleUz       string           `json:"titleUz"`
	TitleRu       string           `json:"titleRu"`
	Description   string           `json:"description"`
	DescriptionUz string           `json:"descriptionUz"`
	DescriptionRu string           `json:"descriptionRu"`
	Price         decimal.Decimal  `json:"price"`
	Image         string           `json:"image"`
	Category      *CategorySummary `json:"category"`
	CategoryName  string           `json:"categoryName"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
}

func ToProductResponse(p *Product) ProductResponse {
	resp := ProductResponse{
		ID:            p.ID,
		Title:         p.Title,
		TitleUz:       p.TitleUz,
		TitleRu:       p.TitleRu,
		Description:   p.Description,
		DescriptionUz: p.DescriptionUz,
		DescriptionRu: p.DescriptionRu,
		Price:         p.Price,
		Image:         p.Image,
		CategoryName:  p.CategoryName,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}

	if p.Category.ID.Valid {
		resp.Category = &CategorySummary{
			ID:     p.Category.ID.String,
			Name:   p.Category.Name.String,
			NameUz: p.Category.NameUz.String,
			NameRu: p.Category.NameRu.String,
			Slug:   p.Category.Slug.String,
		}
	}

	return resp
}

func ToProductResponseList(products []Product) []ProductResponse {
	out := make([]ProductResponse, len(products))
	for i := range products {
		out[i] = ToProductResponse(&products[i])
	}
	return out
}
