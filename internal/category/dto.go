// AngelaMos | 2026
// dto.go

package category

import "time"

type CreateCategoryRequest struct {
	Name   string `json:"name"   validate:"required,max=100"`
	NameUz string `json:"nameUz" validate:"required,max=100"`
	NameRu string `json:"nameRu" validate:"required,max=100"`
	Slug   string `json:"slug"   validate:"required,max=100,slug"`
}

type UpdateCategoryRequest struct {
	Name   *string `json:"name,omitempty"   validate:"omitempty,min=1,max=100"`
	NameUz *string `json:"nameUz,omitempty" validate:"omitempty,min=1,max=100"`
	NameRu *string `json:"nameRu,omitempty" validate:"omitempty,min=1,max=100"`
	Slug   *string `json:"slug,omitempty"   validate:"omitempty,max=100,slug"`
}

type CategoryResponse struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	NameUz    string    `json:"nameUz"`
	NameRu    string    `json:"nameRu"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func ToCategoryResponse(c *Category) CategoryResponse {
	return CategoryResponse{
		ID:        c.ID,
		Name:      c.Name,
		NameUz:    c.NameUz,
		NameRu:    c.NameRu,
		Slug:      c.Slug,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func ToCategoryResponseList(categories []Category) []CategoryResponse {
	out := make([]CategoryResponse, len(categories))
	for i := range categories {
		out[i] = ToCategoryResponse(&categories[i])
	}
	return out
}
