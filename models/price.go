package models

import (
	"database/sql/driver"

	"github.com/shopspring/decimal"
)

// PriceScale is the number of decimal places a recipe price is stored with.
const PriceScale = 2

// MaxPrice is the largest price a NUMERIC(5,2) column can hold.
var MaxPrice = decimal.RequireFromString("999.99")

// Price is a fixed-point money amount. It is rendered as a string with two
// decimal places ("2.50") both in JSON and in the database.
type Price struct {
	decimal.Decimal
}

// NewPrice parses s into a Price.
func NewPrice(s string) (Price, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Price{}, err
	}
	return Price{d}, nil
}

// MustPrice is like NewPrice but panics on malformed input.
func MustPrice(s string) Price {
	return Price{decimal.RequireFromString(s)}
}

// String returns the amount with exactly two decimal places.
func (p Price) String() string {
	return p.StringFixed(PriceScale)
}

// MarshalJSON renders the price as a quoted fixed-point string.
func (p Price) MarshalJSON() ([]byte, error) {
	return []byte(`"` + p.String() + `"`), nil
}

// Value implements driver.Valuer.
func (p Price) Value() (driver.Value, error) {
	return p.String(), nil
}

// Equal reports whether both prices denote the same amount.
func (p Price) Equal(o Price) bool {
	return p.Decimal.Equal(o.Decimal)
}
