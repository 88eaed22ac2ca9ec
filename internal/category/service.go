// AngelaMos | 2026
// service.go

package category

import (
	"context"
	"errors"
	"strings"

	"github.com/angelamos/artvia-backend/internal/core"
)

var ErrCategoryExists = core.DuplicateError(
	"Category with this name or slug already exists",
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]Category, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*Category, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(
	ctx context.Context,
	req CreateCategoryRequest,
) (*Category, error) {
	category := &Category{
		ID:     core.NewID(),
		Name:   strings.TrimSpace(req.Name),
		NameUz: strings.TrimSpace(req.NameUz),
		NameRu: strings.TrimSpace(req.NameRu),
		Slug:   req.Slug,
	}

	if err := s.repo.Create(ctx, category); err != nil {
		return nil, duplicate(err)
	}

	return category, nil
}

func (s *Service) Update(
	ctx context.Context,
	id string,
	req UpdateCategoryRequest,
) (*Category, error) {
	category, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		category.Name = strings.TrimSpace(*req.Name)
	}
	if req.NameUz != nil {
		category.NameUz = strings.TrimSpace(*req.NameUz)
	}
	if req.NameRu != nil {
		category.NameRu = strings.TrimSpace(*req.NameRu)
	}
	if req.Slug != nil {
		category.Slug = *req.Slug
	}

	if err := s.repo.Update(ctx, category); err != nil {
		return nil, duplicate(err)
	}

	return category, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// Seed loads Defaults and returns how many categories were written.
func (s *Service) Seed(ctx context.Context, reset bool) (int, error) {
	categories := Defaults()
	for i := range categories {
		categories[i].ID = core.NewID()
	}

	if err := s.repo.Upsert(ctx, categories, reset); err != nil {
		return 0, err
	}

	return len(categories), nil
}

func duplicate(err error) error {
	if errors.Is(err, core.ErrDuplicateKey) {
		return ErrCategoryExists
	}
	return err
}
