// AngelaMos | 2026
// service.go

package order

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"time"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel/attribute"

	"github.com/angelamos/artvia-backend/internal/core"
	"github.com/angelamos/artvia-backend/internal/metrics"
	"github.com/angelamos/artvia-backend/internal/middleware"
	"github.com/angelamos/artvia-backend/internal/product"
	"github.com/angelamos/artvia-backend/internal/storage"
)

const (
	placeholderName  = "Product"
	placeholderImage = ""
)

type ProductReader interface {
	GetByIDs(ctx context.Context, ids []string) ([]product.Product, error)
}

type FileStore interface {
	SaveFile(ctx context.Context, fh *multipart.FileHeader) (*storage.StoredFile, error)
	Remove(ctx context.Context, ref string)
}

type Service struct {
	repo      Repository
	products  ProductReader
	files     FileStore
	validator *validator.Validate
	logger    *slog.Logger
	now       func() time.Time
}

func NewService(
	repo Repository,
	products ProductReader,
	files FileStore,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:      repo,
		products:  products,
		files:     files,
		validator: core.NewValidator(),
		logger:    logger,
		now:       time.Now,
	}
}

func (s *Service) Create(
	ctx context.Context,
	p *middleware.Principal,
	req *CreateOrderRequest,
) (*Order, error) {
	order, err := ValidateCreate(s.validator, req)
	if err != nil {
		return nil, err
	}

	if err := s.snapshotItems(ctx, order.Items); err != nil {
		return nil, err
	}

	order.ID = core.NewID()
	order.UserID = p.UserID
	order.UserName = p.Name
	order.UserEmail = p.Email

	if err := s.repo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	metrics.OrdersCreated.WithLabelValues(string(order.PaymentMethod)).Inc()
	s.logger.InfoContext(ctx, "order created",
		"order_id", order.ID,
		"user_id", order.UserID,
		"payment_method", order.PaymentMethod,
		"status", order.Status,
		"items", len(order.Items),
	)

	return order, nil
}

// snapshotItems copies the current product title and image onto each item.
// Products that no longer exist get a placeholder instead of failing the
// order.
func (s *Service) snapshotItems(ctx context.Context, items []Item) error {
	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ProductID)
	}

	found, err := s.products.GetByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("load order products: %w", err)
	}

	byID := make(map[string]product.Product, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}

	for i := range items {
		p, ok := byID[items[i].ProductID]
		if !ok {
			items[i].Name = placeholderName
			items[i].Image = placeholderImage
			continue
		}
		items[i].Name = p.Title
		items[i].Image = p.Image
	}

	return nil
}

// List returns every order for admins and the caller's own orders otherwise.
func (s *Service) List(
	ctx context.Context,
	p *middleware.Principal,
) ([]Order, error) {
	if p.IsAdmin {
		return s.repo.List(ctx, "")
	}
	return s.repo.List(ctx, p.UserID)
}

func (s *Service) ListMine(
	ctx context.Context,
	p *middleware.Principal,
) ([]Order, error) {
	return s.repo.List(ctx, p.UserID)
}

func (s *Service) Get(
	ctx context.Context,
	p *middleware.Principal,
	id string,
) (*Order, error) {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !order.OwnedBy(p.UserID) && !p.IsAdmin {
		return nil, ErrNotOwner
	}

	return order, nil
}

// UploadScreenshot stores the file only after the order has been checked,
// so rejected requests leave nothing behind on disk.
func (s *Service) UploadScreenshot(
	ctx context.Context,
	p *middleware.Principal,
	id string,
	fh *multipart.FileHeader,
) (*Order, error) {
	ctx, span := core.StartSpan(ctx, "order.upload_screenshot",
		attribute.String("order.id", id),
	)
	defer span.End()

	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.fail(ctx, "upload_screenshot", err)
	}

	if !order.OwnedBy(p.UserID) {
		return nil, s.fail(ctx, "upload_screenshot", ErrNotOwner)
	}
	if err := order.canAttachScreenshot(); err != nil {
		return nil, s.fail(ctx, "upload_screenshot", err)
	}
	if fh == nil {
		return nil, s.fail(ctx, "upload_screenshot", ErrScreenshotRequired)
	}

	stored, err := s.files.SaveFile(ctx, fh)
	if err != nil {
		return nil, s.fail(ctx, "upload_screenshot", err)
	}

	previous := order.PaymentScreenshot

	expected, err := order.AttachScreenshot(stored.Ref)
	if err != nil {
		s.files.Remove(ctx, stored.Ref)
		return nil, s.fail(ctx, "upload_screenshot", err)
	}

	if err := s.repo.UpdateWorkflow(ctx, order, expected); err != nil {
		s.files.Remove(ctx, stored.Ref)
		return nil, s.fail(ctx, "upload_screenshot", err)
	}

	if previous != "" && previous != stored.Ref {
		s.files.Remove(ctx, previous)
	}

	s.succeed(ctx, "upload_screenshot", order, expected)
	return order, nil
}

func (s *Service) ConfirmPayment(ctx context.Context, id string) (*Order, error) {
	return s.transition(ctx, "confirm_payment", id, func(o *Order) (Status, error) {
		return o.ConfirmPayment(s.now())
	})
}

func (s *Service) RejectPayment(ctx context.Context, id string) (*Order, error) {
	return s.transition(ctx, "reject_payment", id, func(o *Order) (Status, error) {
		return o.RejectPayment()
	})
}

func (s *Service) MarkDelivered(ctx context.Context, id string) (*Order, error) {
	return s.transition(ctx, "deliver", id, func(o *Order) (Status, error) {
		return o.MarkDelivered(s.now())
	})
}

// SetStatus is last write wins.
func (s *Service) SetStatus(
	ctx context.Context,
	id string,
	status Status,
) (*Order, error) {
	return s.transition(ctx, "set_status", id, func(o *Order) (Status, error) {
		return "", o.SetStatus(status)
	})
}

func (s *Service) transition(
	ctx context.Context,
	action, id string,
	apply func(o *Order) (Status, error),
) (*Order, error) {
	ctx, span := core.StartSpan(ctx, "order."+action,
		attribute.String("order.id", id),
	)
	defer span.End()

	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.fail(ctx, action, err)
	}

	expected, err := apply(order)
	if err != nil {
		return nil, s.fail(ctx, action, err)
	}

	if err := s.repo.UpdateWorkflow(ctx, order, expected); err != nil {
		return nil, s.fail(ctx, action, err)
	}

	s.succeed(ctx, action, order, expected)
	return order, nil
}

func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	return s.repo.Stats(ctx)
}

func (s *Service) succeed(
	ctx context.Context,
	action string,
	order *Order,
	from Status,
) {
	metrics.OrderTransitions.WithLabelValues(action, "ok").Inc()
	s.logger.InfoContext(ctx, "order transition",
		"action", action,
		"order_id", order.ID,
		"from", from,
		"to", order.Status,
	)
}

func (s *Service) fail(ctx context.Context, action string, err error) error {
	outcome := "error"
	switch {
	case errors.Is(err, core.ErrConflict):
		outcome = "conflict"
	case errors.Is(err, core.ErrNotFound):
		outcome = "not_found"
	case errors.Is(err, core.ErrForbidden):
		outcome = "forbidden"
	case errors.Is(err, core.ErrInvalidInput):
		outcome = "rejected"
	default:
		core.SetSpanError(ctx, err)
	}

	metrics.OrderTransitions.WithLabelValues(action, outcome).Inc()
	return err
}
