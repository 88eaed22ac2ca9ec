// AngelaMos | 2026
// service_test.go

package product_test

import (
	"context"
	"database/sql"
	"errors"
	"mime/multipart"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelamos/artvia-backend/internal/category"
	"github.com/angelamos/artvia-backend/internal/core"
	"github.com/angelamos/artvia-backend/internal/product"
	"github.com/angelamos/artvia-backend/internal/storage"
)

type memRepo struct {
	rows      map[string]product.Product
	createErr error
}

func newMemRepo() *memRepo {
	return &memRepo{rows: make(map[string]product.Product)}
}

func (m *memRepo) Create(_ context.Context, p *product.Product) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.rows[p.ID] = *p
	return nil
}

func (m *memRepo) GetByID(_ context.Context, id string) (*product.Product, error) {
	p, ok := m.rows[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	if p.CategoryID != nil {
		p.Category = product.CategoryRef{
			ID:   sql.NullString{String: *p.CategoryID, Valid: true},
			Name: sql.NullString{String: "Kulolchilik", Valid: true},
		}
	}
	return &p, nil
}

func (m *memRepo) GetByIDs(ctx context.Context, ids []string) ([]product.Product, error) {
	out := []product.Product{}
	for _, id := range ids {
		if p, err := m.GetByID(ctx, id); err == nil {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *memRepo) List(context.Context, product.ListParams) ([]product.Product, error) {
	out := []product.Product{}
	for _, p := range m.rows {
		out = append(out, p)
	}
	return out, nil
}

func (m *memRepo) Update(_ context.Context, p *product.Product) error {
	if _, ok := m.rows[p.ID]; !ok {
		return core.ErrNotFound
	}
	m.rows[p.ID] = *p
	return nil
}

func (m *memRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.rows[id]; !ok {
		return core.ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

const potteryID = "3f2b1c9e-8d7a-4c65-b321-0a9e8f7d6c5b"

type categoryTable map[string]*category.Category

func (c categoryTable) GetByID(_ context.Context, id string) (*category.Category, error) {
	if id == "broken" {
		return nil, errors.New("db down")
	}
	if cat, ok := c[id]; ok {
		return cat, nil
	}
	return nil, core.ErrNotFound
}

var categories = categoryTable{
	potteryID: {ID: potteryID, Name: "Kulolchilik", Slug: "kulolchilik"},
}

type memFiles struct {
	saved   []string
	removed []string
}

func (f *memFiles) SaveFile(_ context.Context, fh *multipart.FileHeader) (*storage.StoredFile, error) {
	if fh.Filename == "broken.png" {
		return nil, errors.New("disk full")
	}
	ref := "/uploads/" + fh.Filename
	f.saved = append(f.saved, ref)
	return &storage.StoredFile{Ref: ref, Kind: storage.KindImage}, nil
}

func (f *memFiles) Remove(_ context.Context, ref string) {
	if ref != "" {
		f.removed = append(f.removed, ref)
	}
}

func str(s string) *string { return &s }

func price(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func fullInput() product.Input {
	return product.Input{
		Title:         str("Blue bowl"),
		TitleUz:       str("Ko'k kosa"),
		TitleRu:       str("Синяя чаша"),
		Description:   str("Glazed bowl"),
		DescriptionUz: str("Sirlangan kosa"),
		DescriptionRu: str("Глазурованная чаша"),
		Price:         price("125000"),
		Category:      str(potteryID),
	}
}

func newService() (*product.Service, *memRepo, *memFiles) {
	repo := newMemRepo()
	files := &memFiles{}
	return product.NewService(repo, categories, files, nil), repo, files
}

func validationMessage(t *testing.T, err error) string {
	t.Helper()
	var appErr *core.AppError
	require.ErrorAs(t, err, &appErr)
	require.ErrorIs(t, err, core.ErrInvalidInput)
	return appErr.Message
}

func TestCreateProduct(t *testing.T) {
	ctx := context.Background()

	t.Run("with an uploaded image", func(t *testing.T) {
		svc, _, files := newService()

		p, err := svc.Create(ctx, fullInput(), &multipart.FileHeader{Filename: "bowl.png"})

		require.NoError(t, err)
		assert.Equal(t, "/uploads/bowl.png", p.Image)
		assert.Equal(t, "Kulolchilik", p.CategoryName)
		require.NotNil(t, p.CategoryID)
		assert.Equal(t, potteryID, *p.CategoryID)
		assert.True(t, p.Category.Name.Valid)
		assert.Equal(t, []string{"/uploads/bowl.png"}, files.saved)
	})

	t.Run("with an image url and a display category name", func(t *testing.T) {
		svc, _, _ := newService()
		in := fullInput()
		in.Image = str(" https://cdn.example/bowl.png ")
		in.CategoryName = str("Pottery")

		p, err := svc.Create(ctx, in, nil)

		require.NoError(t, err)
		assert.Equal(t, "https://cdn.example/bowl.png", p.Image)
		assert.Equal(t, "Pottery", p.CategoryName)
	})

	cases := []struct {
		name    string
		mutate  func(*product.Input)
		message string
	}{
		{"first missing text wins", func(in *product.Input) {
			in.Title = nil
			in.DescriptionRu = str("  ")
		}, "Description (RU) is required"},
		{"missing title", func(in *product.Input) { in.Title = nil }, "Title is required"},
		{"missing price", func(in *product.Input) { in.Price = nil }, "Price is required"},
		{"negative price", func(in *product.Input) { in.Price = price("-1") }, "Price must not be negative"},
		{"missing category", func(in *product.Input) { in.Category = nil }, "Category is required"},
		{"blank category", func(in *product.Input) { in.Category = str(" ") }, "Category is required"},
		{"unknown category", func(in *product.Input) { in.Category = str(core.NewID()) }, "Category not found"},
		{"missing image", func(*product.Input) {}, "Product image is required"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, repo, files := newService()
			in := fullInput()
			tc.mutate(&in)

			_, err := svc.Create(ctx, in, nil)

			assert.Equal(t, tc.message, validationMessage(t, err))
			assert.Empty(t, repo.rows)
			assert.Empty(t, files.saved)
		})
	}

	t.Run("failed insert removes the new image", func(t *testing.T) {
		svc, repo, files := newService()
		repo.createErr = errors.New("insert failed")

		_, err := svc.Create(ctx, fullInput(), &multipart.FileHeader{Filename: "bowl.png"})

		require.Error(t, err)
		assert.Equal(t, []string{"/uploads/bowl.png"}, files.removed)
	})

	t.Run("category lookup failure is internal", func(t *testing.T) {
		svc, _, _ := newService()
		in := fullInput()
		in.Category = str("broken")

		_, err := svc.Create(ctx, in, &multipart.FileHeader{Filename: "bowl.png"})

		require.Error(t, err)
		assert.False(t, core.IsAppError(err))
	})
}

func TestUpdateProduct(t *testing.T) {
	ctx := context.Background()
	svc, repo, files := newService()

	created, err := svc.Create(ctx, fullInput(), &multipart.FileHeader{Filename: "bowl.png"})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, product.Input{
		Price:        price("99000"),
		CategoryName: str(" Ceramics "),
	}, nil)
	require.NoError(t, err)
	assert.True(t, updated.Price.Equal(decimal.NewFromInt(99000)))
	assert.Equal(t, "Ceramics", updated.CategoryName)
	assert.Equal(t, "Blue bowl", updated.Title)
	assert.Equal(t, "/uploads/bowl.png", updated.Image)

	updated, err = svc.Update(ctx, created.ID, product.Input{}, &multipart.FileHeader{Filename: "bowl-v2.png"})
	require.NoError(t, err)
	assert.Equal(t, "/uploads/bowl-v2.png", updated.Image)
	assert.Empty(t, files.removed, "old product images stay on disk")

	_, err = svc.Update(ctx, created.ID, product.Input{TitleUz: str(" ")}, nil)
	assert.Equal(t, "Title (UZ) is required", validationMessage(t, err))

	_, err = svc.Update(ctx, created.ID, product.Input{Price: price("-5")}, nil)
	assert.Equal(t, "Price must not be negative", validationMessage(t, err))

	_, err = svc.Update(ctx, core.NewID(), product.Input{}, nil)
	assert.ErrorIs(t, err, core.ErrNotFound)

	require.NoError(t, svc.Delete(ctx, created.ID))
	assert.Empty(t, repo.rows)
	assert.ErrorIs(t, svc.Delete(ctx, created.ID), core.ErrNotFound)
}

func TestToProductResponse(t *testing.T) {
	p := &product.Product{ID: "p1", Title: "Orphan", CategoryName: "Gone"}

	resp := product.ToProductResponse(p)
	assert.Nil(t, resp.Category)
	assert.Equal(t, "Gone", resp.CategoryName)

	p.Category = product.CategoryRef{
		ID:   sql.NullString{String: potteryID, Valid: true},
		Name: sql.NullString{String: "Kulolchilik", Valid: true},
		Slug: sql.NullString{String: "kulolchilik", Valid: true},
	}
	resp = product.ToProductResponse(p)
	require.NotNil(t, resp.Category)
	assert.Equal(t, "kulolchilik", resp.Category.Slug)
}
