// AngelaMos | 2026
// validator_test.go

package order_test

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelamos/artvia-backend/internal/core"
	"github.com/angelamos/artvia-backend/internal/order"
)

const validOrderJSON = `{
	"items": [
		{"product": "7b1f6c1e-6a8e-4c55-9b53-1f0a9f3c2d11", "quantity": 2, "price": 150000},
		{"product": "0c3a7f2d-5b1e-4e7a-8d0f-3e2b1a4c5d66", "price": "99.50"}
	],
	"totalPrice": 399500,
	"personalInfo": {"name": " Dilnoza ", "email": "dilnoza@example.com", "phone": "+998901234567"},
	"paymentMethod": "card",
	"deliveryAddress": {"region": "Tashkent", "address": "Chilonzor 5", "comment": "call first"},
	"deliveryLocation": {"lat": 41.2995, "lng": "69.2401"}
}`

func decodeRequest(t *testing.T, body string) *order.CreateOrderRequest {
	t.Helper()
	var req order.CreateOrderRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))
	return &req
}

// mutate applies fn to the generic JSON form of the valid request.
func mutate(t *testing.T, fn func(m map[string]any)) *order.CreateOrderRequest {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(validOrderJSON), &m))
	fn(m)
	raw, err := json.Marshal(m)
	require.NoError(t, err)
	return decodeRequest(t, string(raw))
}

func TestValidateCreate(t *testing.T) {
	v := core.NewValidator()

	t.Run("builds an unsaved card order", func(t *testing.T) {
		o, err := order.ValidateCreate(v, decodeRequest(t, validOrderJSON))

		require.NoError(t, err)
		assert.Equal(t, order.StatusPendingPayment, o.Status)
		assert.Equal(t, order.PaymentCard, o.PaymentMethod)
		assert.Equal(t, "Dilnoza", o.ContactName)
		assert.InDelta(t, 41.2995, o.Lat, 1e-9)
		assert.InDelta(t, 69.2401, o.Lng, 1e-9)
		require.Len(t, o.Items, 2)
		assert.Equal(t, 2, o.Items[0].Quantity)
		assert.Equal(t, 1, o.Items[1].Quantity)
		assert.Equal(t, 1, o.Items[1].Position)
		assert.True(t, o.Items[1].Price.Equal(decimal.RequireFromString("99.5")))
		assert.True(t, o.TotalPrice.Equal(decimal.NewFromInt(399500)))
	})

	t.Run("cash orders start pending", func(t *testing.T) {
		req := mutate(t, func(m map[string]any) { m["paymentMethod"] = "cash" })

		o, err := order.ValidateCreate(v, req)

		require.NoError(t, err)
		assert.Equal(t, order.StatusPending, o.Status)
	})

	t.Run("zero coordinates are valid", func(t *testing.T) {
		req := mutate(t, func(m map[string]any) {
			m["deliveryLocation"] = map[string]any{"lat": 0, "lng": 0}
		})

		o, err := order.ValidateCreate(v, req)

		require.NoError(t, err)
		assert.Zero(t, o.Lat)
		assert.Zero(t, o.Lng)
	})

	cases := []struct {
		name string
		fn   func(m map[string]any)
		want error
	}{
		{
			name: "empty items",
			fn:   func(m map[string]any) { m["items"] = []any{} },
			want: order.ErrItemsRequired,
		},
		{
			name: "missing items",
			fn:   func(m map[string]any) { delete(m, "items") },
			want: order.ErrItemsRequired,
		},
		{
			name: "missing address",
			fn:   func(m map[string]any) { delete(m, "deliveryAddress") },
			want: order.ErrAddressRequired,
		},
		{
			name: "missing location",
			fn:   func(m map[string]any) { delete(m, "deliveryLocation") },
			want: order.ErrLocationRequired,
		},
		{
			name: "null latitude",
			fn: func(m map[string]any) {
				m["deliveryLocation"] = map[string]any{"lat": nil, "lng": 69.2}
			},
			want: order.ErrLocationRequired,
		},
		{
			name: "blank longitude",
			fn: func(m map[string]any) {
				m["deliveryLocation"] = map[string]any{"lat": 41.3, "lng": "  "}
			},
			want: order.ErrLocationRequired,
		},
		{
			name: "latitude not a number",
			fn: func(m map[string]any) {
				m["deliveryLocation"] = map[string]any{"lat": "abc", "lng": 69.2}
			},
			want: order.ErrLocationInvalid,
		},
		{
			name: "longitude is a boolean",
			fn: func(m map[string]any) {
				m["deliveryLocation"] = map[string]any{"lat": 41.3, "lng": true}
			},
			want: order.ErrLocationInvalid,
		},
		{
			name: "latitude out of range",
			fn: func(m map[string]any) {
				m["deliveryLocation"] = map[string]any{"lat": 95, "lng": 69.2}
			},
			want: order.ErrLocationOutOfRange,
		},
		{
			name: "longitude out of range",
			fn: func(m map[string]any) {
				m["deliveryLocation"] = map[string]any{"lat": 41.3, "lng": "-180.5"}
			},
			want: order.ErrLocationOutOfRange,
		},
		{
			name: "bad product reference",
			fn: func(m map[string]any) {
				m["items"] = []any{map[string]any{"product": "abc", "price": 1}}
			},
			want: order.ErrInvalidProduct,
		},
		{
			name: "zero quantity",
			fn: func(m map[string]any) {
				m["items"] = []any{map[string]any{
					"product":  "7b1f6c1e-6a8e-4c55-9b53-1f0a9f3c2d11",
					"quantity": 0,
					"price":    1,
				}}
			},
			want: order.ErrInvalidQuantity,
		},
		{
			name: "negative item price",
			fn: func(m map[string]any) {
				m["items"] = []any{map[string]any{
					"product": "7b1f6c1e-6a8e-4c55-9b53-1f0a9f3c2d11",
					"price":   -5,
				}}
			},
			want: order.ErrNegativePrice,
		},
		{
			name: "quantity beyond integer column",
			fn: func(m map[string]any) {
				m["items"] = []any{map[string]any{
					"product":  "7b1f6c1e-6a8e-4c55-9b53-1f0a9f3c2d11",
					"quantity": 2147483648,
					"price":    1,
				}}
			},
			want: order.ErrQuantityTooLarge,
		},
		{
			name: "missing item price",
			fn: func(m map[string]any) {
				m["items"] = []any{map[string]any{
					"product": "7b1f6c1e-6a8e-4c55-9b53-1f0a9f3c2d11",
				}}
			},
			want: order.ErrPriceRequired,
		},
		{
			name: "null item price",
			fn: func(m map[string]any) {
				m["items"] = []any{map[string]any{
					"product": "7b1f6c1e-6a8e-4c55-9b53-1f0a9f3c2d11",
					"price":   nil,
				}}
			},
			want: order.ErrPriceRequired,
		},
		{
			name: "item price beyond column precision",
			fn: func(m map[string]any) {
				m["items"] = []any{map[string]any{
					"product": "7b1f6c1e-6a8e-4c55-9b53-1f0a9f3c2d11",
					"price":   "1000000000000",
				}}
			},
			want: order.ErrPriceTooLarge,
		},
		{
			name: "missing total",
			fn:   func(m map[string]any) { delete(m, "totalPrice") },
			want: order.ErrTotalRequired,
		},
		{
			name: "negative total",
			fn:   func(m map[string]any) { m["totalPrice"] = -1 },
			want: order.ErrNegativeTotal,
		},
		{
			name: "total rounding past column precision",
			fn:   func(m map[string]any) { m["totalPrice"] = "999999999999.995" },
			want: order.ErrTotalTooLarge,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			o, err := order.ValidateCreate(v, mutate(t, tc.fn))

			assert.Nil(t, o)
			assert.ErrorIs(t, err, tc.want)
		})
	}

	t.Run("amounts are rounded to cents", func(t *testing.T) {
		req := mutate(t, func(m map[string]any) {
			m["totalPrice"] = "1.005"
			m["items"] = []any{map[string]any{
				"product": "7b1f6c1e-6a8e-4c55-9b53-1f0a9f3c2d11",
				"price":   "0.125",
			}}
		})

		o, err := order.ValidateCreate(v, req)

		require.NoError(t, err)
		assert.Equal(t, "1.01", o.TotalPrice.StringFixed(2))
		assert.True(t, o.TotalPrice.Equal(decimal.RequireFromString("1.01")))
		assert.True(t, o.Items[0].Price.Equal(decimal.RequireFromString("0.13")))
	})

	t.Run("largest stored amount is accepted", func(t *testing.T) {
		req := mutate(t, func(m map[string]any) { m["totalPrice"] = "999999999999.99" })

		_, err := order.ValidateCreate(v, req)

		require.NoError(t, err)
	})

	t.Run("unknown payment method", func(t *testing.T) {
		req := mutate(t, func(m map[string]any) { m["paymentMethod"] = "crypto" })

		_, err := order.ValidateCreate(v, req)

		require.Error(t, err)
		assert.ErrorIs(t, err, core.ErrInvalidInput)
		assert.Contains(t, err.Error(), "paymentMethod")
	})

	t.Run("missing contact email", func(t *testing.T) {
		req := mutate(t, func(m map[string]any) {
			m["personalInfo"] = map[string]any{"name": "A", "phone": "1"}
		})

		_, err := order.ValidateCreate(v, req)

		require.Error(t, err)
		assert.ErrorIs(t, err, core.ErrInvalidInput)
		assert.Contains(t, err.Error(), "email")
	})

	t.Run("address is checked before location", func(t *testing.T) {
		req := mutate(t, func(m map[string]any) {
			delete(m, "deliveryAddress")
			delete(m, "deliveryLocation")
		})

		_, err := order.ValidateCreate(v, req)

		assert.ErrorIs(t, err, order.ErrAddressRequired)
	})
}
