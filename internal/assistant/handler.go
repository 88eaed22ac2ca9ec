// AngelaMos | 2026
// handler.go

package assistant

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelamos/artvia-backend/internal/core"
)

type ProductHelperRequest struct {
	ProductID string `json:"productId"`
	Question  string `json:"question"`
}

type ProductHelperResponse struct {
	Answer string `json:"answer"`
}

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	limiter func(http.Handler) http.Handler,
) {
	r.Route("/ai", func(r chi.Router) {
		r.Use(limiter)

		r.Post("/product-helper", h.ProductHelper)
	})
}

func (h *Handler) ProductHelper(w http.ResponseWriter, r *http.Request) {
	var req ProductHelperRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "Invalid request body")
		return
	}

	answer, err := h.service.Answer(r.Context(), req.ProductID, req.Question)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, ProductHelperResponse{Answer: answer})
}
