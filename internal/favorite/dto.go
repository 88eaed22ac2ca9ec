// AngelaMos | 2026
// dto.go

package favorite

import (
	"time"

	"github.com/angelamos/artvia-backend/internal/product"
)

type FavoriteResponse struct {
	ID        string                   `json:"_id"`
	User      string                   `json:"user"`
	Product   *product.ProductResponse `json:"product"`
	CreatedAt time.Time                `json:"createdAt"`
}

type CheckResponse struct {
	IsFavorite bool `json:"isFavorite"`
}

// Entry is a favorite with its product resolved. Product is nil only if the
// row raced with a product delete.
type Entry struct {
	Favorite
	Product *product.Product
}

func ToFavoriteResponse(e *Entry) FavoriteResponse {
	resp := FavoriteResponse{
		ID:        e.ID,
		User:      e.UserID,
		CreatedAt: e.CreatedAt,
	}
	if e.Product != nil {
		p := product.ToProductResponse(e.Product)
		resp.Product = &p
	}
	return resp
}

func ToFavoriteResponseList(entries []Entry) []FavoriteResponse {
	out := make([]FavoriteResponse, len(entries))
	for i := range entries {
		out[i] = ToFavoriteResponse(&entries[i])
	}
	return out
}
