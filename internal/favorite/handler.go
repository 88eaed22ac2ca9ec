// AngelaMos | 2026
// handler.go

package favorite

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelamos/artvia-backend/internal/core"
	"github.com/angelamos/artvia-backend/internal/middleware"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/favorites", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.List)
		r.Get("/check/{productID}", h.Check)
		r.Post("/{productID}", h.Add)
		r.Delete("/{productID}", h.Remove)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.List(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, ToFavoriteResponseList(entries))
}

func (h *Handler) Add(w http.ResponseWriter, r *http.Request) {
	entry, err := h.service.Add(
		r.Context(),
		middleware.GetUserID(r.Context()),
		chi.URLParam(r, "productID"),
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Created(w, ToFavoriteResponse(entry))
}

func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	err := h.service.Remove(
		r.Context(),
		middleware.GetUserID(r.Context()),
		chi.URLParam(r, "productID"),
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Message(w, http.StatusOK, "Removed from favorites")
}

func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	ok, err := h.service.IsFavorite(
		r.Context(),
		middleware.GetUserID(r.Context()),
		chi.URLParam(r, "productID"),
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, CheckResponse{IsFavorite: ok})
}
