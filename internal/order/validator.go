// AngelaMos | 2026
// validator.go

package order

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/angelamos/artvia-backend/internal/core"
)

var (
	ErrItemsRequired      = core.ValidationError("Order items are required")
	ErrAddressRequired    = core.ValidationError("Delivery address is required")
	ErrLocationRequired   = core.ValidationError("Delivery location coordinates are required")
	ErrLocationInvalid    = core.ValidationError("Invalid location coordinates")
	ErrLocationOutOfRange = core.ValidationError("Location coordinates out of valid range")
	ErrInvalidProduct     = core.ValidationError("Invalid product reference")
	ErrInvalidQuantity    = core.ValidationError("Item quantity must be at least 1")
	ErrQuantityTooLarge   = core.ValidationError("Item quantity is too large")
	ErrPriceRequired      = core.ValidationError("Item price is required")
	ErrNegativePrice      = core.ValidationError("Item price must not be negative")
	ErrPriceTooLarge      = core.ValidationError("Item price is too large")
	ErrTotalRequired      = core.ValidationError("Total price is required")
	ErrNegativeTotal      = core.ValidationError("Total price must not be negative")
	ErrTotalTooLarge      = core.ValidationError("Total price is too large")
)

// Amounts are stored as NUMERIC(14,2) and quantities as INTEGER.
const (
	moneyScale  = 2
	maxQuantity = math.MaxInt32
)

var maxAmount = decimal.RequireFromString("999999999999.99")

// normalizeAmount rounds to the stored scale so callers see the value that
// is persisted.
func normalizeAmount(
	in *decimal.Decimal,
	required, negative, tooLarge error,
) (decimal.Decimal, error) {
	if in == nil {
		return decimal.Decimal{}, required
	}
	v := in.Round(moneyScale)
	if v.IsNegative() {
		return decimal.Decimal{}, negative
	}
	if v.GreaterThan(maxAmount) {
		return decimal.Decimal{}, tooLarge
	}
	return v, nil
}

type coordState int

const (
	coordMissing coordState = iota
	coordInvalid
	coordOK
)

// parseCoordinate accepts a JSON number or a string holding one. Absent,
// null and blank values count as missing.
func parseCoordinate(raw json.RawMessage) (float64, coordState) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, coordMissing
	}

	var text string
	switch raw[0] {
	case '"':
		if err := json.Unmarshal(raw, &text); err != nil {
			return 0, coordInvalid
		}
		text = strings.TrimSpace(text)
		if text == "" {
			return 0, coordMissing
		}
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		text = string(raw)
	default:
		return 0, coordInvalid
	}

	v, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, coordInvalid
	}

	return v, coordOK
}

func validateLocation(in *LocationInput) (Location, error) {
	if in == nil {
		return Location{}, ErrLocationRequired
	}

	lat, latState := parseCoordinate(in.Lat)
	lng, lngState := parseCoordinate(in.Lng)

	if latState == coordMissing || lngState == coordMissing {
		return Location{}, ErrLocationRequired
	}
	if latState == coordInvalid || lngState == coordInvalid {
		return Location{}, ErrLocationInvalid
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return Location{}, ErrLocationOutOfRange
	}

	return Location{Lat: lat, Lng: lng}, nil
}

func validateItems(in []ItemRequest) ([]Item, error) {
	items := make([]Item, len(in))

	for i, it := range in {
		if !core.ValidID(it.Product) {
			return nil, ErrInvalidProduct
		}

		qty := 1
		if it.Quantity != nil {
			qty = *it.Quantity
		}
		if qty < 1 {
			return nil, ErrInvalidQuantity
		}
		if qty > maxQuantity {
			return nil, ErrQuantityTooLarge
		}

		price, err := normalizeAmount(it.Price, ErrPriceRequired, ErrNegativePrice, ErrPriceTooLarge)
		if err != nil {
			return nil, err
		}

		items[i] = Item{
			Position:  i,
			ProductID: it.Product,
			Quantity:  qty,
			Price:     price,
		}
	}

	return items, nil
}

// ValidateCreate runs the order admission checks in a fixed order and
// returns an unsaved order in its initial status. Item names and images are
// left for the service to fill in.
func ValidateCreate(v *validator.Validate, req *CreateOrderRequest) (*Order, error) {
	if len(req.Items) == 0 {
		return nil, ErrItemsRequired
	}
	if req.DeliveryAddress == nil {
		return nil, ErrAddressRequired
	}

	loc, err := validateLocation(req.DeliveryLocation)
	if err != nil {
		return nil, err
	}

	items, err := validateItems(req.Items)
	if err != nil {
		return nil, err
	}

	if err := v.Struct(req); err != nil {
		return nil, core.ValidationError(core.FormatValidationError(err))
	}
	total, err := normalizeAmount(req.TotalPrice, ErrTotalRequired, ErrNegativeTotal, ErrTotalTooLarge)
	if err != nil {
		return nil, err
	}

	method := PaymentMethod(req.PaymentMethod)

	return &Order{
		Items:           items,
		TotalPrice:      total,
		ContactName:     strings.TrimSpace(req.PersonalInfo.Name),
		ContactEmail:    strings.TrimSpace(req.PersonalInfo.Email),
		ContactPhone:    strings.TrimSpace(req.PersonalInfo.Phone),
		PaymentMethod:   method,
		DeliveryRegion:  strings.TrimSpace(req.DeliveryAddress.Region),
		DeliveryAddress: strings.TrimSpace(req.DeliveryAddress.Address),
		DeliveryComment: strings.TrimSpace(req.DeliveryAddress.Comment),
		Lat:             loc.Lat,
		Lng:             loc.Lng,
		Status:          InitialStatus(method),
	}, nil
}
