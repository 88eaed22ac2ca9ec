// AngelaMos | 2026
// handler.go

package order

import (
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelamos/artvia-backend/internal/core"
	"github.com/angelamos/artvia-backend/internal/middleware"
)

const screenshotField = "screenshot"

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
	r.Route("/orders", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/my", h.ListMine)
		r.Get("/{id}", h.Get)
		r.Post("/{id}/payment-screenshot", h.UploadScreenshot)

		r.Group(func(r chi.Router) {
			r.Use(adminOnly)

			r.Post("/{id}/confirm-payment", h.ConfirmPayment)
			r.Post("/{id}/reject-payment", h.RejectPayment)
			r.Put("/{id}/status", h.SetStatus)
			r.Put("/{id}/deliver", h.MarkDelivered)
		})
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.List(r.Context(), middleware.GetPrincipal(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, ToOrderResponseList(orders))
}

func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.ListMine(
		r.Context(),
		middleware.GetPrincipal(r.Context()),
	)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, ToOrderResponseList(orders))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	order, err := h.service.Get(
		r.Context(),
		middleware.GetPrincipal(r.Context()),
		chi.URLParam(r, "id"),
	)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, ToOrderResponse(order))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "Invalid request body")
		return
	}

	order, err := h.service.Create(
		r.Context(),
		middleware.GetPrincipal(r.Context()),
		&req,
	)
	if err != nil {
		writeError(w, err)
		return
	}

	core.Created(w, ToOrderResponse(order))
}

func (h *Handler) UploadScreenshot(w http.ResponseWriter, r *http.Request) {
	if err := h.forms.ParseForm(w, r); err != nil {
		writeError(w, err)
		return
	}

	var fh *multipart.FileHeader
	if r.MultipartForm != nil && len(r.MultipartForm.File[screenshotField]) > 0 {
		fh = r.MultipartForm.File[screenshotField][0]
	}

	order, err := h.service.UploadScreenshot(
		r.Context(),
		middleware.GetPrincipal(r.Context()),
		chi.URLParam(r, "id"),
		fh,
	)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, TransitionResponse{
		Message:        "Payment screenshot uploaded successfully. Waiting for admin confirmation.",
		Order:          ToOrderResponse(order),
		ScreenshotPath: order.PaymentScreenshot,
	})
}

func (h *Handler) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	order, err := h.service.ConfirmPayment(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, TransitionResponse{
		Message: "Payment confirmed successfully",
		Order:   ToOrderResponse(order),
	})
}

func (h *Handler) RejectPayment(w http.ResponseWriter, r *http.Request) {
	order, err := h.service.RejectPayment(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, TransitionResponse{
		Message: "Payment rejected. User needs to upload a new screenshot.",
		Order:   ToOrderResponse(order),
	})
}

func (h *Handler) SetStatus(w http.ResponseWriter, r *http.Request) {
	var req SetStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "Invalid request body")
		return
	}

	order, err := h.service.SetStatus(
		r.Context(),
		chi.URLParam(r, "id"),
		Status(req.Status),
	)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, ToOrderResponse(order))
}

func (h *Handler) MarkDelivered(w http.ResponseWriter, r *http.Request) {
	order, err := h.service.MarkDelivered(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, TransitionResponse{
		Message: "Order marked as delivered",
		Order:   ToOrderResponse(order),
	})
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case core.IsAppError(err):
		core.JSONError(w, err)
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "Order")
	default:
		core.InternalServerError(w, err)
	}
}
