// AngelaMos | 2026
// handler.go

package work

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelamos/artvia-backend/internal/core"
)

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
	r.Route("/works", func(r chi.Router) {
		r.Get("/", h.List)
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
	works, err := h.service.List(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToWorkResponseList(works))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	work, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, ToWorkResponse(work))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	in, media, err := h.readInput(w, r)
	if err != nil {
		writeError(w, err)
		return
	}

	work, err := h.service.Create(r.Context(), in, media)
	if err != nil {
		writeError(w, err)
		return
	}

	core.Created(w, ToWorkResponse(work))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	in, media, err := h.readInput(w, r)
	if err != nil {
		writeError(w, err)
		return
	}

	work, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), in, media)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, ToWorkResponse(work))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}

	core.Message(w, http.StatusOK, "Work deleted successfully")
}

func (h *Handler) readInput(w http.ResponseWriter, r *http.Request) (Input, Media, error) {
	if err := h.forms.ParseForm(w, r); err != nil {
		return Input{}, Media{}, err
	}

	if r.MultipartForm != nil {
		var media Media
		if files := r.MultipartForm.File["image"]; len(files) > 0 {
			media.Image = files[0]
		}
		if files := r.MultipartForm.File["video"]; len(files) > 0 {
			media.Video = files[0]
		}
		return InputFromForm(r), media, nil
	}

	var in Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		return Input{}, Media{}, core.ValidationError("Invalid request body")
	}
	return in, Media{}, nil
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case core.IsAppError(err):
		core.JSONError(w, err)
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "Work")
	default:
		core.InternalServerError(w, err)
	}
}
