// AngelaMos | 2026
// favorite_test.go

package favorite_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/angelamos/artvia-backend/internal/category"
	"github.com/angelamos/artvia-backend/internal/core"
	"github.com/angelamos/artvia-backend/internal/favorite"
	"github.com/angelamos/artvia-backend/internal/product"
	"github.com/angelamos/artvia-backend/internal/testdb"
)

type FavoriteSuite struct {
	suite.Suite
	db       *core.Database
	products product.Repository
	svc      *favorite.Service
	userID   string
	bowlID   string
	plateID  string
}

func TestFavoriteSuite(t *testing.T) {
	suite.Run(t, new(FavoriteSuite))
}

func (s *FavoriteSuite) SetupSuite() {
	s.db = testdb.Start(s.T())
	s.products = product.NewRepository(s.db.DB)
	s.svc = favorite.NewService(favorite.NewRepository(s.db.DB), s.products)
}

func (s *FavoriteSuite) SetupTest() {
	ctx := context.Background()
	testdb.Truncate(s.T(), s.db, "favorites", "products", "categories", "users")
	s.userID = testdb.InsertUser(s.T(), s.db, "fan@example.com", "Fan")

	pottery := &category.Category{
		ID:     core.NewID(),
		Name:   "Kulolchilik",
		NameUz: "Kulolchilik",
		NameRu: "Гончарное дело",
		Slug:   "kulolchilik",
	}
	s.Require().NoError(category.NewRepository(s.db.DB).Create(ctx, pottery))

	s.bowlID = s.insertProduct("Bowl", &pottery.ID)
	s.plateID = s.insertProduct("Plate", nil)
}

func (s *FavoriteSuite) insertProduct(title string, categoryID *string) string {
	p := &product.Product{
		ID:            core.NewID(),
		Title:         title,
		TitleUz:       title,
		TitleRu:       title,
		Description:   title,
		DescriptionUz: title,
		DescriptionRu: title,
		Price:         decimal.NewFromInt(50000),
		Image:         "/uploads/" + title + ".png",
		CategoryID:    categoryID,
	}
	if categoryID != nil {
		p.CategoryName = "Kulolchilik"
	}
	s.Require().NoError(s.products.Create(context.Background(), p))
	return p.ID
}

func (s *FavoriteSuite) TestAddListRemove() {
	ctx := context.Background()

	entry, err := s.svc.Add(ctx, s.userID, s.bowlID)
	s.Require().NoError(err)
	s.Require().NotNil(entry.Product)
	s.Equal("Bowl", entry.Product.Title)
	s.Equal("Kulolchilik", entry.Product.Category.Name.String)

	_, err = s.svc.Add(ctx, s.userID, s.plateID)
	s.Require().NoError(err)

	entries, err := s.svc.List(ctx, s.userID)
	s.Require().NoError(err)
	s.Require().Len(entries, 2)
	s.Equal(s.plateID, entries[0].ProductID)
	s.False(entries[0].Product.Category.ID.Valid)

	ok, err := s.svc.IsFavorite(ctx, s.userID, s.bowlID)
	s.Require().NoError(err)
	s.True(ok)

	s.Require().NoError(s.svc.Remove(ctx, s.userID, s.bowlID))
	ok, err = s.svc.IsFavorite(ctx, s.userID, s.bowlID)
	s.Require().NoError(err)
	s.False(ok)

	s.Equal(favorite.ErrNotFavorite, s.svc.Remove(ctx, s.userID, s.bowlID))
}

func (s *FavoriteSuite) TestAddTwice() {
	ctx := context.Background()

	_, err := s.svc.Add(ctx, s.userID, s.bowlID)
	s.Require().NoError(err)

	_, err = s.svc.Add(ctx, s.userID, s.bowlID)
	s.Equal(favorite.ErrAlreadyFavorite, err)
}

func (s *FavoriteSuite) TestAddUnknownProduct() {
	ctx := context.Background()

	_, err := s.svc.Add(ctx, s.userID, core.NewID())
	s.Equal(favorite.ErrUnknownProduct, err)

	_, err = s.svc.Add(ctx, s.userID, "not-an-id")
	s.Equal(favorite.ErrUnknownProduct, err)

	ok, err := s.svc.IsFavorite(ctx, s.userID, "not-an-id")
	s.Require().NoError(err)
	s.False(ok)
}

func (s *FavoriteSuite) TestDeletedProductDropsFavorite() {
	ctx := context.Background()

	_, err := s.svc.Add(ctx, s.userID, s.bowlID)
	s.Require().NoError(err)
	s.Require().NoError(s.products.Delete(ctx, s.bowlID))

	entries, err := s.svc.List(ctx, s.userID)
	s.Require().NoError(err)
	s.Empty(entries)
}

func (s *FavoriteSuite) TestDeletedCategoryKeepsProducts() {
	ctx := context.Background()
	bowl, err := s.products.GetByID(ctx, s.bowlID)
	s.Require().NoError(err)

	s.Require().NoError(category.NewRepository(s.db.DB).Delete(ctx, *bowl.CategoryID))

	bowl, err = s.products.GetByID(ctx, s.bowlID)
	s.Require().NoError(err)
	s.Nil(bowl.CategoryID)
	s.False(bowl.Category.Name.Valid)
	s.Equal("Kulolchilik", bowl.CategoryName)
}

func (s *FavoriteSuite) TestProductListing() {
	ctx := context.Background()
	bowl, err := s.products.GetByID(ctx, s.bowlID)
	s.Require().NoError(err)

	byCategory, err := s.products.List(ctx, product.ListParams{CategoryID: *bowl.CategoryID})
	s.Require().NoError(err)
	s.Require().Len(byCategory, 1)
	s.Equal(s.bowlID, byCategory[0].ID)

	limited, err := s.products.List(ctx, product.ListParams{Limit: 1})
	s.Require().NoError(err)
	s.Len(limited, 1)

	none, err := s.products.List(ctx, product.ListParams{CategoryID: "bogus"})
	s.Require().NoError(err)
	s.Empty(none)

	found, err := s.products.GetByIDs(ctx, []string{s.bowlID, "bogus", core.NewID(), s.plateID})
	s.Require().NoError(err)
	s.Len(found, 2)
}
