// AngelaMos | 2026
// handler.go

package product

import (
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/angelamos/artvia-backend/internal/core"
)

const imageField = "image"

type FormParser interface {
	ParseForm(w http.ResponseWriter, r *http.Request) error
}

type Handler struct {
	service *Service
	forms   FormParser
}

func NewHandler(service *Service, forms FormParser) *Handler {
	return &Handler{
		service: service,
		forms:   forms,
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/category/{categoryID}", h.ListByCategory)
		r.Get("/{id}", h.Get)

		r.Group(func(r chi.Router) {
			r.Use(authenticator)
			r.Use(adminOnly)

			r.Post("/", h.Create)
			r.Put("/{id}", h.Update)
			r.Delete("/{id}", h.Delete)
		})
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	params := ListParams{
		CategoryID: r.URL.Query().Get("category"),
	}
	if limit, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && limit > 0 {
		params.Limit = limit
	}

	products, err := h.service.List(r.Context(), params)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToProductResponseList(products))
}

func (h *Handler) ListByCategory(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.List(r.Context(), ListParams{
		CategoryID: chi.URLParam(r, "categoryID"),
	})
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToProductResponseList(products))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	product, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, ToProductResponse(product))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	in, image, err := h.readInput(w, r)
	if err != nil {
		writeError(w, err)
		return
	}

	product, err := h.service.Create(r.Context(), in, image)
	if err != nil {
		writeError(w, err)
		return
	}

	core.Created(w, ToProductResponse(product))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	in, image, err := h.readInput(w, r)
	if err != nil {
		writeError(w, err)
		return
	}

	product, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), in, image)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, ToProductResponse(product))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}

	core.Message(w, http.StatusOK, "Product deleted")
}

// readInput accepts multipart forms with an optional image file as well as
// plain JSON bodies.
func (h *Handler) readInput(
	w http.ResponseWriter,
	r *http.Request,
) (Input, *multipart.FileHeader, error) {
	if err := h.forms.ParseForm(w, r); err != nil {
		return Input{}, nil, err
	}

	if r.MultipartForm != nil {
		in, err := InputFromForm(r)
		if err != nil {
			return Input{}, nil, err
		}

		var image *multipart.FileHeader
		if files := r.MultipartForm.File[imageField]; len(files) > 0 {
			image = files[0]
		}
		return in, image, nil
	}

	var in Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		return Input{}, nil, core.ValidationError("Invalid request body")
	}
	return in, nil, nil
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case core.IsAppError(err):
		core.JSONError(w, err)
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "Product")
	default:
		core.InternalServerError(w, err)
	}
}
