// AngelaMos | 2026
// dto.go

package order

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

type CreateOrderRequest struct {
	Items            []ItemRequest    `json:"items"`
	TotalPrice       *decimal.Decimal `json:"totalPrice"`
	PersonalInfo     *PersonalInfo    `json:"personalInfo"     validate:"required"`
	PaymentMethod    string           `json:"paymentMethod"    validate:"required,oneof=card cash"`
	DeliveryAddress  *DeliveryAddress `json:"deliveryAddress"`
	DeliveryLocation *LocationInput   `json:"deliveryLocation"`
}

type ItemRequest struct {
	Product  string           `json:"product"`
	Quantity *int             `json:"quantity"`
	Price    *decimal.Decimal `json:"price"`
}

type PersonalInfo struct {
	Name  string `json:"name"  validate:"required,max=200"`
	Email string `json:"email" validate:"required,email,max=255"`
	Phone string `json:"phone" validate:"required,max=50"`
}

type DeliveryAddress struct {
	Region  string `json:"region"            validate:"required,max=200"`
	Address string `json:"address"           validate:"required,max=1000"`
	Comment string `json:"comment,omitempty" validate:"max=2000"`
}

// LocationInput keeps the raw coordinate values so that numbers and numeric
// strings can both be accepted.
type LocationInput struct {
	Lat json.RawMessage `json:"lat"`
	Lng json.RawMessage `json:"lng"`
}

type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type SetStatusRequest struct {
	Status string `json:"status"`
}

type UserSummary struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type ItemResponse struct {
	Product  string          `json:"product"`
	Name     string          `json:"name"`
	Image    string          `json:"image"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

type OrderResponse struct {
	ID                string          `json:"_id"`
	User              UserSummary     `json:"user"`
	Items             []ItemResponse  `json:"items"`
	TotalPrice        decimal.Decimal `json:"totalPrice"`
	PersonalInfo      PersonalInfo    `json:"personalInfo"`
	PaymentMethod     PaymentMethod   `json:"paymentMethod"`
	DeliveryAddress   DeliveryAddress `json:"deliveryAddress"`
	DeliveryLocation  Location        `json:"deliveryLocation"`
	PaymentScreenshot string          `json:"paymentScreenshot"`
	IsPaid            bool            `json:"isPaid"`
	PaidAt            *time.Time      `json:"paidAt"`
	DeliveredAt       *time.Time      `json:"deliveredAt"`
	Status            Status          `json:"status"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

type TransitionResponse struct {
	Message        string        `json:"message"`
	Order          OrderResponse `json:"order"`
	ScreenshotPath string        `json:"screenshotPath,omitempty"`
}

type StatsResponse struct {
	Total       int             `json:"total"`
	ByStatus    map[Status]int  `json:"byStatus"`
	PaidRevenue decimal.Decimal `json:"paidRevenue"`
}

func ToOrderResponse(o *Order) OrderResponse {
	items := make([]ItemResponse, len(o.Items))
	for i, it := range o.Items {
		items[i] = ItemResponse{
			Product:  it.ProductID,
			Name:     it.Name,
			Image:    it.Image,
			Quantity: it.Quantity,
			Price:    it.Price,
		}
	}

	return OrderResponse{
		ID: o.ID,
		User: UserSummary{
			ID:    o.UserID,
			Name:  o.UserName,
			Email: o.UserEmail,
		},
		Items:      items,
		TotalPrice: o.TotalPrice,
		PersonalInfo: PersonalInfo{
			Name:  o.ContactName,
			Email: o.ContactEmail,
			Phone: o.ContactPhone,
		},
		PaymentMethod: o.PaymentMethod,
		DeliveryAddress: DeliveryAddress{
			Region:  o.DeliveryRegion,
			Address: o.DeliveryAddress,
			Comment: o.DeliveryComment,
		},
		DeliveryLocation:  Location{Lat: o.Lat, Lng: o.Lng},
		PaymentScreenshot: o.PaymentScreenshot,
		IsPaid:            o.IsPaid,
		PaidAt:            o.PaidAt,
		DeliveredAt:       o.DeliveredAt,
		Status:            o.Status,
		CreatedAt:         o.CreatedAt,
		UpdatedAt:         o.UpdatedAt,
	}
}

func ToOrderResponseList(orders []Order) []OrderResponse {
	out := make([]OrderResponse, len(orders))
	for i := range orders {
		out[i] = ToOrderResponse(&orders[i])
	}
	return out
}

func ToStatsResponse(s *Stats) StatsResponse {
	return StatsResponse{
		Total:       s.Total,
		ByStatus:    s.ByStatus,
		PaidRevenue: s.PaidRevenue,
	}
}
