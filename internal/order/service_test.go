// AngelaMos | 2026
// service_test.go

package order_test

import (
	"context"
	"errors"
	"mime/multipart"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelamos/artvia-backend/internal/core"
	"github.com/angelamos/artvia-backend/internal/middleware"
	"github.com/angelamos/artvia-backend/internal/order"
	"github.com/angelamos/artvia-backend/internal/product"
	"github.com/angelamos/artvia-backend/internal/storage"
)

type memRepo struct {
	mu     sync.Mutex
	orders map[string]order.Order
	// beforeUpdate lets a test change the stored row between read and write.
	beforeUpdate func(stored *order.Order)
}

func newMemRepo() *memRepo {
	return &memRepo{orders: make(map[string]order.Order)}
}

func (r *memRepo) put(o *order.Order) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[o.ID] = *o
}

func (r *memRepo) Create(_ context.Context, o *order.Order) error {
	r.put(o)
	return nil
}

func (r *memRepo) GetByID(_ context.Context, id string) (*order.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	return &o, nil
}

func (r *memRepo) List(_ context.Context, userID string) ([]order.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []order.Order
	for _, o := range r.orders {
		if userID == "" || o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *memRepo) UpdateWorkflow(
	_ context.Context,
	o *order.Order,
	expected order.Status,
) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.orders[o.ID]
	if !ok {
		return core.ErrNotFound
	}
	if r.beforeUpdate != nil {
		r.beforeUpdate(&stored)
		r.orders[o.ID] = stored
	}
	if expected != "" && stored.Status != expected {
		return order.ErrStatusChanged
	}
	r.orders[o.ID] = *o
	return nil
}

func (r *memRepo) Stats(context.Context) (*order.Stats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := &order.Stats{ByStatus: map[order.Status]int{}}
	for _, o := range r.orders {
		s.Total++
		s.ByStatus[o.Status]++
		if o.IsPaid {
			s.PaidRevenue = s.PaidRevenue.Add(o.TotalPrice)
		}
	}
	return s, nil
}

type stubProducts struct {
	products []product.Product
	err      error
}

func (p *stubProducts) GetByIDs(_ context.Context, ids []string) ([]product.Product, error) {
	if p.err != nil {
		return nil, p.err
	}
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []product.Product
	for _, prod := range p.products {
		if want[prod.ID] {
			out = append(out, prod)
		}
	}
	return out, nil
}

type memFiles struct {
	saved   []string
	removed []string
	err     error
}

func (f *memFiles) SaveFile(_ context.Context, fh *multipart.FileHeader) (*storage.StoredFile, error) {
	if f.err != nil {
		return nil, f.err
	}
	ref := "/uploads/" + fh.Filename
	f.saved = append(f.saved, ref)
	return &storage.StoredFile{Ref: ref, Kind: storage.KindImage}, nil
}

func (f *memFiles) Remove(_ context.Context, ref string) {
	f.removed = append(f.removed, ref)
}

type fixture struct {
	repo  *memRepo
	files *memFiles
	svc   *order.Service
	buyer *middleware.Principal
	admin *middleware.Principal
}

func newFixture() *fixture {
	repo := newMemRepo()
	files := &memFiles{}
	products := &stubProducts{products: []product.Product{{
		ID:    "7b1f6c1e-6a8e-4c55-9b53-1f0a9f3c2d11",
		Title: "Suzani pillow",
		Image: "/uploads/suzani.jpg",
	}}}

	return &fixture{
		repo:  repo,
		files: files,
		svc:   order.NewService(repo, products, files, nil),
		buyer: &middleware.Principal{
			UserID: core.NewID(),
			Name:   "Dilnoza",
			Email:  "dilnoza@example.com",
			Role:   "user",
		},
		admin: &middleware.Principal{
			UserID:  core.NewID(),
			Role:    "admin",
			IsAdmin: true,
		},
	}
}

func (f *fixture) placeCardOrder(t *testing.T) *order.Order {
	t.Helper()
	o, err := f.svc.Create(context.Background(), f.buyer, decodeRequest(t, validOrderJSON))
	require.NoError(t, err)
	return o
}

func screenshot(name string) *multipart.FileHeader {
	return &multipart.FileHeader{Filename: name, Size: 10}
}

func TestServiceCreate(t *testing.T) {
	f := newFixture()

	o := f.placeCardOrder(t)

	assert.True(t, core.ValidID(o.ID))
	assert.Equal(t, f.buyer.UserID, o.UserID)
	assert.Equal(t, "Dilnoza", o.UserName)
	assert.Equal(t, order.StatusPendingPayment, o.Status)

	require.Len(t, o.Items, 2)
	assert.Equal(t, "Suzani pillow", o.Items[0].Name)
	assert.Equal(t, "/uploads/suzani.jpg", o.Items[0].Image)
	assert.Equal(t, "Product", o.Items[1].Name)
	assert.Empty(t, o.Items[1].Image)

	stored, err := f.repo.GetByID(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, o.Status, stored.Status)
}

func TestServiceCreateProductLookupFails(t *testing.T) {
	repo := newMemRepo()
	boom := errors.New("db down")
	svc := order.NewService(repo, &stubProducts{err: boom}, &memFiles{}, nil)

	_, err := svc.Create(
		context.Background(),
		&middleware.Principal{UserID: core.NewID()},
		decodeRequest(t, validOrderJSON),
	)

	assert.ErrorIs(t, err, boom)
	assert.Empty(t, repo.orders)
}

func TestServiceVisibility(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	mine := f.placeCardOrder(t)

	other := &middleware.Principal{UserID: core.NewID()}
	_, err := f.svc.Create(ctx, other, decodeRequest(t, validOrderJSON))
	require.NoError(t, err)

	t.Run("users list only their own orders", func(t *testing.T) {
		orders, err := f.svc.List(ctx, f.buyer)
		require.NoError(t, err)
		require.Len(t, orders, 1)
		assert.Equal(t, mine.ID, orders[0].ID)
	})

	t.Run("admins list every order", func(t *testing.T) {
		orders, err := f.svc.List(ctx, f.admin)
		require.NoError(t, err)
		assert.Len(t, orders, 2)
	})

	t.Run("my orders are scoped even for admins", func(t *testing.T) {
		orders, err := f.svc.ListMine(ctx, f.admin)
		require.NoError(t, err)
		assert.Empty(t, orders)
	})

	t.Run("strangers cannot read an order", func(t *testing.T) {
		_, err := f.svc.Get(ctx, other, mine.ID)
		assert.ErrorIs(t, err, order.ErrNotOwner)
	})

	t.Run("admins can read any order", func(t *testing.T) {
		o, err := f.svc.Get(ctx, f.admin, mine.ID)
		require.NoError(t, err)
		assert.Equal(t, mine.ID, o.ID)
	})

	t.Run("unknown order", func(t *testing.T) {
		_, err := f.svc.Get(ctx, f.buyer, core.NewID())
		assert.ErrorIs(t, err, core.ErrNotFound)
	})
}

func TestServicePaymentFlow(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	o := f.placeCardOrder(t)

	_, err := f.svc.ConfirmPayment(ctx, o.ID)
	assert.ErrorIs(t, err, order.ErrScreenshotNotUploaded)

	uploaded, err := f.svc.UploadScreenshot(ctx, f.buyer, o.ID, screenshot("receipt.png"))
	require.NoError(t, err)
	assert.Equal(t, order.StatusPaymentUploaded, uploaded.Status)
	assert.Equal(t, "/uploads/receipt.png", uploaded.PaymentScreenshot)

	confirmed, err := f.svc.ConfirmPayment(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, order.StatusPaymentConfirmed, confirmed.Status)
	assert.True(t, confirmed.IsPaid)
	assert.NotNil(t, confirmed.PaidAt)

	delivered, err := f.svc.MarkDelivered(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, order.StatusDelivered, delivered.Status)

	_, err = f.svc.MarkDelivered(ctx, o.ID)
	assert.ErrorIs(t, err, order.ErrAlreadyDelivered)

	stats, err := f.svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Total)
	assert.Equal(t, 1, stats.ByStatus[order.StatusDelivered])
	assert.True(t, stats.PaidRevenue.Equal(decimal.NewFromInt(399500)))
}

func TestServiceUploadScreenshot(t *testing.T) {
	ctx := context.Background()

	t.Run("only the owner may upload", func(t *testing.T) {
		f := newFixture()
		o := f.placeCardOrder(t)

		_, err := f.svc.UploadScreenshot(ctx, f.admin, o.ID, screenshot("a.png"))

		assert.ErrorIs(t, err, order.ErrNotOwner)
		assert.Empty(t, f.files.saved)
	})

	t.Run("cash orders are refused before storing the file", func(t *testing.T) {
		f := newFixture()
		req := mutate(t, func(m map[string]any) { m["paymentMethod"] = "cash" })
		o, err := f.svc.Create(ctx, f.buyer, req)
		require.NoError(t, err)

		_, err = f.svc.UploadScreenshot(ctx, f.buyer, o.ID, screenshot("a.png"))

		assert.ErrorIs(t, err, order.ErrNotCardPayment)
		assert.Empty(t, f.files.saved)
	})

	t.Run("file is required", func(t *testing.T) {
		f := newFixture()
		o := f.placeCardOrder(t)

		_, err := f.svc.UploadScreenshot(ctx, f.buyer, o.ID, nil)

		assert.ErrorIs(t, err, order.ErrScreenshotRequired)
	})

	t.Run("unknown order", func(t *testing.T) {
		f := newFixture()

		_, err := f.svc.UploadScreenshot(ctx, f.buyer, core.NewID(), screenshot("a.png"))

		assert.ErrorIs(t, err, core.ErrNotFound)
	})

	t.Run("replacing a screenshot removes the old file", func(t *testing.T) {
		f := newFixture()
		o := f.placeCardOrder(t)

		_, err := f.svc.UploadScreenshot(ctx, f.buyer, o.ID, screenshot("first.png"))
		require.NoError(t, err)
		_, err = f.svc.UploadScreenshot(ctx, f.buyer, o.ID, screenshot("second.png"))
		require.NoError(t, err)

		assert.Equal(t, []string{"/uploads/first.png"}, f.files.removed)
	})

	t.Run("storage failure leaves the order untouched", func(t *testing.T) {
		f := newFixture()
		o := f.placeCardOrder(t)
		f.files.err = core.ValidationError("Only image and video files are allowed!")

		_, err := f.svc.UploadScreenshot(ctx, f.buyer, o.ID, screenshot("a.exe"))

		assert.ErrorIs(t, err, core.ErrInvalidInput)
		stored, _ := f.repo.GetByID(ctx, o.ID)
		assert.Equal(t, order.StatusPendingPayment, stored.Status)
	})

	t.Run("a concurrent change discards the new file", func(t *testing.T) {
		f := newFixture()
		o := f.placeCardOrder(t)
		f.repo.beforeUpdate = func(stored *order.Order) {
			stored.Status = order.StatusCancelled
		}

		_, err := f.svc.UploadScreenshot(ctx, f.buyer, o.ID, screenshot("late.png"))

		assert.ErrorIs(t, err, order.ErrStatusChanged)
		assert.Equal(t, []string{"/uploads/late.png"}, f.files.removed)
	})
}

func TestServiceRejectPayment(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	o := f.placeCardOrder(t)

	_, err := f.svc.UploadScreenshot(ctx, f.buyer, o.ID, screenshot("r.png"))
	require.NoError(t, err)

	rejected, err := f.svc.RejectPayment(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, order.StatusPendingPayment, rejected.Status)
	assert.Empty(t, rejected.PaymentScreenshot)

	again, err := f.svc.RejectPayment(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, order.StatusPendingPayment, again.Status)
}

func TestServiceConfirmLosesRaceWithReject(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	o := f.placeCardOrder(t)

	_, err := f.svc.UploadScreenshot(ctx, f.buyer, o.ID, screenshot("r.png"))
	require.NoError(t, err)

	f.repo.beforeUpdate = func(stored *order.Order) {
		stored.Status = order.StatusPendingPayment
		stored.PaymentScreenshot = ""
	}

	_, err = f.svc.ConfirmPayment(ctx, o.ID)

	assert.ErrorIs(t, err, order.ErrStatusChanged)
	assert.ErrorIs(t, err, core.ErrConflict)
	stored, _ := f.repo.GetByID(ctx, o.ID)
	assert.False(t, stored.IsPaid)
}

func TestServiceSetStatus(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	o := f.placeCardOrder(t)

	updated, err := f.svc.SetStatus(ctx, o.ID, order.StatusShipped)
	require.NoError(t, err)
	assert.Equal(t, order.StatusShipped, updated.Status)

	f.repo.beforeUpdate = func(stored *order.Order) {
		stored.Status = order.StatusCancelled
	}
	updated, err = f.svc.SetStatus(ctx, o.ID, order.StatusProcessing)
	require.NoError(t, err)
	assert.Equal(t, order.StatusProcessing, updated.Status)

	_, err = f.svc.SetStatus(ctx, o.ID, "teleported")
	assert.ErrorIs(t, err, order.ErrInvalidStatus)
}
