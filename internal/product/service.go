// AngelaMos | 2026
// service.go

package product

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"strings"

	"github.com/angelamos/artvia-backend/internal/category"
	"github.com/angelamos/artvia-backend/internal/core"
	"github.com/angelamos/artvia-backend/internal/storage"
)

var (
	ErrCategoryNotFound = core.ValidationError("Category not found")
	ErrImageRequired    = core.ValidationError("Product image is required")
	ErrPriceRequired    = core.ValidationError("Price is required")
	ErrNegativePrice    = core.ValidationError("Price must not be negative")
)

type CategoryReader interface {
	GetByID(ctx context.Context, id string) (*category.Category, error)
}

type FileStore interface {
	SaveFile(ctx context.Context, fh *multipart.FileHeader) (*storage.StoredFile, error)
	Remove(ctx context.Context, ref string)
}

type Service struct {
	repo       Repository
	categories CategoryReader
	files      FileStore
	logger     *slog.Logger
}

func NewService(
	repo Repository,
	categories CategoryReader,
	files FileStore,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:       repo,
		categories: categories,
		files:      files,
		logger:     logger,
	}
}

func (s *Service) List(ctx context.Context, params ListParams) ([]Product, error) {
	return s.repo.List(ctx, params)
}

func (s *Service) Get(ctx context.Context, id string) (*Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByIDs(ctx context.Context, ids []string) ([]Product, error) {
	return s.repo.GetByIDs(ctx, ids)
}

// required trims v and reports message when nothing is left.
func required(v *string, message string) (string, error) {
	if v == nil {
		return "", core.ValidationError(message)
	}
	out := strings.TrimSpace(*v)
	if out == "" {
		return "", core.ValidationError(message)
	}
	return out, nil
}

type textField struct {
	dst     *string
	src     *string
	message string
}

// textFields lists the translated text fields in the order they are checked.
func textFields(p *Product, in Input) []textField {
	return []textField{
		{&p.DescriptionUz, in.DescriptionUz, "Description (UZ) is required"},
		{&p.DescriptionRu, in.DescriptionRu, "Description (RU) is required"},
		{&p.Title, in.Title, "Title is required"},
		{&p.TitleUz, in.TitleUz, "Title (UZ) is required"},
		{&p.TitleRu, in.TitleRu, "Title (RU) is required"},
		{&p.Description, in.Description, "Description is required"},
	}
}

func (s *Service) Create(
	ctx context.Context,
	in Input,
	image *multipart.FileHeader,
) (*Product, error) {
	p := &Product{ID: core.NewID()}

	for _, f := range textFields(p, in) {
		v, err := required(f.src, f.message)
		if err != nil {
			return nil, err
		}
		*f.dst = v
	}

	if in.Price == nil {
		return nil, ErrPriceRequired
	}
	if in.Price.IsNegative() {
		return nil, ErrNegativePrice
	}
	p.Price = *in.Price

	if in.Category == nil {
		return nil, core.ValidationError("Category is required")
	}
	if err := s.assignCategory(ctx, p, *in.Category, in.CategoryName); err != nil {
		return nil, err
	}

	if image == nil && (in.Image == nil || strings.TrimSpace(*in.Image) == "") {
		return nil, ErrImageRequired
	}

	var saved string
	if image != nil {
		stored, err := s.files.SaveFile(ctx, image)
		if err != nil {
			return nil, err
		}
		saved = stored.Ref
		p.Image = saved
	} else {
		p.Image = strings.TrimSpace(*in.Image)
	}

	if err := s.repo.Create(ctx, p); err != nil {
		s.files.Remove(ctx, saved)
		return nil, err
	}

	s.logger.InfoContext(ctx, "product created", "product_id", p.ID)

	// reload to pick up the joined category
	return s.repo.GetByID(ctx, p.ID)
}

func (s *Service) Update(
	ctx context.Context,
	id string,
	in Input,
	image *multipart.FileHeader,
) (*Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	for _, f := range textFields(p, in) {
		if f.src == nil {
			continue
		}
		v, err := required(f.src, f.message)
		if err != nil {
			return nil, err
		}
		*f.dst = v
	}

	if in.Price != nil {
		if in.Price.IsNegative() {
			return nil, ErrNegativePrice
		}
		p.Price = *in.Price
	}

	if in.Category != nil {
		if err := s.assignCategory(ctx, p, *in.Category, in.CategoryName); err != nil {
			return nil, err
		}
	} else if in.CategoryName != nil {
		p.CategoryName = strings.TrimSpace(*in.CategoryName)
	}

	if in.Image != nil && strings.TrimSpace(*in.Image) != "" {
		p.Image = strings.TrimSpace(*in.Image)
	}

	var saved string
	if image != nil {
		stored, err := s.files.SaveFile(ctx, image)
		if err != nil {
			return nil, err
		}
		saved = stored.Ref
		p.Image = saved
	}

	if err := s.repo.Update(ctx, p); err != nil {
		s.files.Remove(ctx, saved)
		return nil, err
	}

	return s.repo.GetByID(ctx, p.ID)
}

// Delete keeps the image file. Order items snapshot the same reference.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "product deleted", "product_id", id)
	return nil
}

func (s *Service) assignCategory(
	ctx context.Context,
	p *Product,
	categoryID string,
	name *string,
) error {
	categoryID = strings.TrimSpace(categoryID)
	if categoryID == "" {
		return core.ValidationError("Category is required")
	}

	c, err := s.categories.GetByID(ctx, categoryID)
	if errors.Is(err, core.ErrNotFound) {
		return ErrCategoryNotFound
	}
	if err != nil {
		return fmt.Errorf("load category: %w", err)
	}

	p.CategoryID = &c.ID
	p.CategoryName = c.Name
	if name != nil && strings.TrimSpace(*name) != "" {
		p.CategoryName = strings.TrimSpace(*name)
	}

	return nil
}
