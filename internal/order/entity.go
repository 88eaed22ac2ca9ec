// AngelaMos | 2026
// entity.go

package order

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelamos/artvia-backend/internal/core"
)

var (
	ErrNotCardPayment        = core.ValidationError("Payment method is not card")
	ErrNotAwaitingPayment    = core.ValidationError("Order is not awaiting payment")
	ErrScreenshotRequired    = core.ValidationError("Screenshot file is required")
	ErrScreenshotNotUploaded = core.ValidationError("Order payment screenshot not uploaded yet")
	ErrScreenshotMissing     = core.ValidationError("Payment screenshot not found")
	ErrAlreadyDelivered      = core.ValidationError("Order is already marked as delivered")
	ErrInvalidStatus         = core.ValidationError("Invalid order status")
	ErrStatusChanged         = core.ConflictError("Order status changed, reload and retry")
	ErrNotOwner              = core.ForbiddenError("Not authorized")
)

type Item struct {
	OrderID   string          `db:"order_id"`
	Position  int             `db:"position"`
	ProductID string          `db:"product_id"`
	Name      string          `db:"name"`
	Image     string          `db:"image"`
	Quantity  int             `db:"quantity"`
	Price     decimal.Decimal `db:"price"`
}

type Order struct {
	ID                string          `db:"id"`
	UserID            string          `db:"user_id"`
	UserName          string          `db:"user_name"`
	UserEmail         string          `db:"user_email"`
	TotalPrice        decimal.Decimal `db:"total_price"`
	ContactName       string          `db:"contact_name"`
	ContactEmail      string          `db:"contact_email"`
	ContactPhone      string          `db:"contact_phone"`
	PaymentMethod     PaymentMethod   `db:"payment_method"`
	DeliveryRegion    string          `db:"delivery_region"`
	DeliveryAddress   string          `db:"delivery_address"`
	DeliveryComment   string          `db:"delivery_comment"`
	Lat               float64         `db:"delivery_lat"`
	Lng               float64         `db:"delivery_lng"`
	PaymentScreenshot string          `db:"payment_screenshot"`
	IsPaid            bool            `db:"is_paid"`
	PaidAt            *time.Time      `db:"paid_at"`
	DeliveredAt       *time.Time      `db:"delivered_at"`
	Status            Status          `db:"status"`
	CreatedAt         time.Time       `db:"created_at"`
	UpdatedAt         time.Time       `db:"updated_at"`

	Items []Item `db:"-"`
}

func (o *Order) OwnedBy(userID string) bool {
	return o.UserID == userID
}

// The transition methods below mutate the order in memory and return the
// status the persisted row must still hold for the write to apply.

func (o *Order) canAttachScreenshot() error {
	if o.PaymentMethod != PaymentCard {
		return ErrNotCardPayment
	}
	if o.Status != StatusPendingPayment && o.Status != StatusPaymentUploaded {
		return ErrNotAwaitingPayment
	}
	return nil
}

// AttachScreenshot also accepts a replacement while the previous upload is
// still waiting for review.
func (o *Order) AttachScreenshot(ref string) (Status, error) {
	if err := o.canAttachScreenshot(); err != nil {
		return "", err
	}
	if ref == "" {
		return "", ErrScreenshotRequired
	}

	prev := o.Status
	o.PaymentScreenshot = ref
	o.Status = StatusPaymentUploaded
	return prev, nil
}

func (o *Order) ConfirmPayment(now time.Time) (Status, error) {
	if o.Status != StatusPaymentUploaded {
		return "", ErrScreenshotNotUploaded
	}
	if o.PaymentScreenshot == "" {
		return "", ErrScreenshotMissing
	}

	prev := o.Status
	o.IsPaid = true
	o.PaidAt = &now
	o.Status = StatusPaymentConfirmed
	return prev, nil
}

// RejectPayment sends the order back to pending_payment. Rejecting an order
// that is already there runs again and changes nothing visible.
func (o *Order) RejectPayment() (Status, error) {
	if o.Status != StatusPaymentUploaded && o.Status != StatusPendingPayment {
		return "", ErrScreenshotNotUploaded
	}

	prev := o.Status
	o.PaymentScreenshot = ""
	o.Status = StatusPendingPayment
	return prev, nil
}

func (o *Order) MarkDelivered(now time.Time) (Status, error) {
	if o.Status == StatusDelivered {
		return "", ErrAlreadyDelivered
	}

	prev := o.Status
	o.Status = StatusDelivered
	o.DeliveredAt = &now
	return prev, nil
}

// SetStatus is the unrestricted admin override. Any listed status is
// accepted from any state.
func (o *Order) SetStatus(status Status) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}
	o.Status = status
	return nil
}
