// AngelaMos | 2026
// status.go

package order

type Status string

const (
	StatusPending          Status = "pending"
	StatusPendingPayment   Status = "pending_payment"
	StatusPaymentUploaded  Status = "payment_uploaded"
	StatusPaymentConfirmed Status = "payment_confirmed"
	StatusPaid             Status = "paid"
	StatusProcessing       Status = "processing"
	StatusShipped          Status = "shipped"
	StatusDelivered        Status = "delivered"
	StatusCancelled        Status = "cancelled"
)

var statuses = map[Status]struct{}{
	StatusPending:          {},
	StatusPendingPayment:   {},
	StatusPaymentUploaded:  {},
	StatusPaymentConfirmed: {},
	StatusPaid:             {},
	StatusProcessing:       {},
	StatusShipped:          {},
	StatusDelivered:        {},
	StatusCancelled:        {},
}

func (s Status) Valid() bool {
	_, ok := statuses[s]
	return ok
}

// Statuses lists every status in workflow order.
func Statuses() []Status {
	return []Status{
		StatusPending,
		StatusPendingPayment,
		StatusPaymentUploaded,
		StatusPaymentConfirmed,
		StatusPaid,
		StatusProcessing,
		StatusShipped,
		StatusDelivered,
		StatusCancelled,
	}
}

type PaymentMethod string

const (
	PaymentCard PaymentMethod = "card"
	PaymentCash PaymentMethod = "cash"
)

// InitialStatus is where a new order starts. Card orders wait for a payment
// screenshot, cash orders wait for the shop.
func InitialStatus(method PaymentMethod) Status {
	if method == PaymentCard {
		return StatusPendingPayment
	}
	return StatusPending
}
