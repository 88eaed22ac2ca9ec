// AngelaMos | 2026
// entity_test.go

package order_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelamos/artvia-backend/internal/core"
	"github.com/angelamos/artvia-backend/internal/order"
)

func cardOrder() *order.Order {
	return &order.Order{
		ID:            core.NewID(),
		UserID:        core.NewID(),
		PaymentMethod: order.PaymentCard,
		Status:        order.StatusPendingPayment,
	}
}

func TestInitialStatus(t *testing.T) {
	assert.Equal(t, order.StatusPendingPayment, order.InitialStatus(order.PaymentCard))
	assert.Equal(t, order.StatusPending, order.InitialStatus(order.PaymentCash))
}

func TestStatusValid(t *testing.T) {
	for _, s := range order.Statuses() {
		assert.True(t, s.Valid(), string(s))
	}
	assert.Len(t, order.Statuses(), 9)
	assert.False(t, order.Status("refunded").Valid())
	assert.False(t, order.Status("").Valid())
}

func TestAttachScreenshot(t *testing.T) {
	t.Run("moves a card order to payment_uploaded", func(t *testing.T) {
		o := cardOrder()

		expected, err := o.AttachScreenshot("/uploads/1-shot.png")

		require.NoError(t, err)
		assert.Equal(t, order.StatusPendingPayment, expected)
		assert.Equal(t, order.StatusPaymentUploaded, o.Status)
		assert.Equal(t, "/uploads/1-shot.png", o.PaymentScreenshot)
	})

	t.Run("accepts a replacement while waiting for review", func(t *testing.T) {
		o := cardOrder()
		o.Status = order.StatusPaymentUploaded
		o.PaymentScreenshot = "/uploads/old.png"

		expected, err := o.AttachScreenshot("/uploads/new.png")

		require.NoError(t, err)
		assert.Equal(t, order.StatusPaymentUploaded, expected)
		assert.Equal(t, "/uploads/new.png", o.PaymentScreenshot)
	})

	t.Run("rejects cash orders", func(t *testing.T) {
		o := cardOrder()
		o.PaymentMethod = order.PaymentCash
		o.Status = order.StatusPending

		_, err := o.AttachScreenshot("/uploads/x.png")

		assert.ErrorIs(t, err, order.ErrNotCardPayment)
		assert.Equal(t, order.StatusPending, o.Status)
	})

	t.Run("rejects orders past payment", func(t *testing.T) {
		o := cardOrder()
		o.Status = order.StatusPaymentConfirmed

		_, err := o.AttachScreenshot("/uploads/x.png")

		assert.ErrorIs(t, err, order.ErrNotAwaitingPayment)
	})

	t.Run("requires a file reference", func(t *testing.T) {
		o := cardOrder()

		_, err := o.AttachScreenshot("")

		assert.ErrorIs(t, err, order.ErrScreenshotRequired)
		assert.Equal(t, order.StatusPendingPayment, o.Status)
	})
}

func TestConfirmPayment(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("marks the order paid", func(t *testing.T) {
		o := cardOrder()
		_, err := o.AttachScreenshot("/uploads/shot.png")
		require.NoError(t, err)

		expected, err := o.ConfirmPayment(now)

		require.NoError(t, err)
		assert.Equal(t, order.StatusPaymentUploaded, expected)
		assert.Equal(t, order.StatusPaymentConfirmed, o.Status)
		assert.True(t, o.IsPaid)
		require.NotNil(t, o.PaidAt)
		assert.True(t, o.PaidAt.Equal(now))
	})

	t.Run("fails before a screenshot is uploaded", func(t *testing.T) {
		o := cardOrder()

		_, err := o.ConfirmPayment(now)

		assert.ErrorIs(t, err, order.ErrScreenshotNotUploaded)
		assert.False(t, o.IsPaid)
		assert.Nil(t, o.PaidAt)
	})

	t.Run("fails when the screenshot reference is empty", func(t *testing.T) {
		o := cardOrder()
		o.Status = order.StatusPaymentUploaded

		_, err := o.ConfirmPayment(now)

		assert.ErrorIs(t, err, order.ErrScreenshotMissing)
	})
}

func TestRejectPayment(t *testing.T) {
	t.Run("resets to pending_payment and clears the screenshot", func(t *testing.T) {
		o := cardOrder()
		_, err := o.AttachScreenshot("/uploads/shot.png")
		require.NoError(t, err)

		expected, err := o.RejectPayment()

		require.NoError(t, err)
		assert.Equal(t, order.StatusPaymentUploaded, expected)
		assert.Equal(t, order.StatusPendingPayment, o.Status)
		assert.Empty(t, o.PaymentScreenshot)
	})

	t.Run("runs again on an already reset order", func(t *testing.T) {
		o := cardOrder()

		expected, err := o.RejectPayment()

		require.NoError(t, err)
		assert.Equal(t, order.StatusPendingPayment, expected)
		assert.Equal(t, order.StatusPendingPayment, o.Status)
	})

	t.Run("fails once payment is confirmed", func(t *testing.T) {
		o := cardOrder()
		o.Status = order.StatusPaymentConfirmed
		o.PaymentScreenshot = "/uploads/shot.png"

		_, err := o.RejectPayment()

		assert.ErrorIs(t, err, order.ErrScreenshotNotUploaded)
		assert.Equal(t, "/uploads/shot.png", o.PaymentScreenshot)
	})
}

func TestMarkDelivered(t *testing.T) {
	now := time.Now()

	o := cardOrder()
	o.Status = order.StatusShipped

	expected, err := o.MarkDelivered(now)
	require.NoError(t, err)
	assert.Equal(t, order.StatusShipped, expected)
	assert.Equal(t, order.StatusDelivered, o.Status)
	require.NotNil(t, o.DeliveredAt)

	_, err = o.MarkDelivered(now)
	assert.ErrorIs(t, err, order.ErrAlreadyDelivered)
}

func TestSetStatus(t *testing.T) {
	o := cardOrder()
	o.Status = order.StatusDelivered

	require.NoError(t, o.SetStatus(order.StatusPending))
	assert.Equal(t, order.StatusPending, o.Status)

	err := o.SetStatus("lost")
	assert.ErrorIs(t, err, order.ErrInvalidStatus)
	assert.ErrorIs(t, err, core.ErrInvalidInput)
	assert.Equal(t, order.StatusPending, o.Status)
}

func TestOwnedBy(t *testing.T) {
	o := cardOrder()
	assert.True(t, o.OwnedBy(o.UserID))
	assert.False(t, o.OwnedBy(core.NewID()))
}
