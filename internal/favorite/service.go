// AngelaMos | 2026
// service.go

package favorite

import (
	"context"
	"errors"
	"fmt"

	"github.com/angelamos/artvia-backend/internal/core"
	"github.com/angelamos/artvia-backend/internal/product"
)

var (
	ErrAlreadyFavorite = core.DuplicateError("Product already in favorites")
	ErrNotFavorite     = core.NotFoundError("Favorite")
	ErrUnknownProduct  = core.NotFoundError("Product")
)

type ProductReader interface {
	GetByIDs(ctx context.Context, ids []string) ([]product.Product, error)
}

type Service struct {
	repo     Repository
	products ProductReader
}

func NewService(repo Repository, products ProductReader) *Service {
	return &Service{
		repo:     repo,
		products: products,
	}
}

func (s *Service) List(ctx context.Context, userID string) ([]Entry, error) {
	favorites, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return s.resolve(ctx, favorites)
}

func (s *Service) Add(ctx context.Context, userID, productID string) (*Entry, error) {
	if !core.ValidID(productID) {
		return nil, ErrUnknownProduct
	}

	favorite := &Favorite{
		ID:        core.NewID(),
		UserID:    userID,
		ProductID: productID,
	}

	err := s.repo.Create(ctx, favorite)
	switch {
	case errors.Is(err, core.ErrDuplicateKey):
		return nil, ErrAlreadyFavorite
	case errors.Is(err, core.ErrNotFound):
		return nil, ErrUnknownProduct
	case err != nil:
		return nil, err
	}

	entries, err := s.resolve(ctx, []Favorite{*favorite})
	if err != nil {
		return nil, err
	}

	return &entries[0], nil
}

func (s *Service) Remove(ctx context.Context, userID, productID string) error {
	err := s.repo.Delete(ctx, userID, productID)
	if errors.Is(err, core.ErrNotFound) {
		return ErrNotFavorite
	}
	return err
}

func (s *Service) IsFavorite(ctx context.Context, userID, productID string) (bool, error) {
	return s.repo.Exists(ctx, userID, productID)
}

func (s *Service) resolve(ctx context.Context, favorites []Favorite) ([]Entry, error) {
	ids := make([]string, len(favorites))
	for i, f := range favorites {
		ids[i] = f.ProductID
	}

	products, err := s.products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load favorite products: %w", err)
	}

	byID := make(map[string]*product.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	entries := make([]Entry, len(favorites))
	for i, f := range favorites {
		entries[i] = Entry{Favorite: f, Product: byID[f.ProductID]}
	}

	return entries, nil
}
