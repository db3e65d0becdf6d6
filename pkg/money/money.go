package money

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// Money represents a monetary amount with two decimal places.
type Money struct {
	decimal decimal.Decimal
}

// ErrNotPositive is returned when a parsed amount is zero or negative.
var ErrNotPositive = errors.New("amount must be positive")

// Zero represents zero (0) amount.
// Zero always equals to 0 and to 0.0...N.
var Zero = NewFromInt(0)

// ParseAmount parses user entered amount text. A comma decimal separator
// is accepted and normalized to a dot. The result must be a positive
// decimal, otherwise an error is returned.
func ParseAmount(s string) (Money, error) {
	normalized := strings.ReplaceAll(strings.TrimSpace(s), ",", ".")

	d, err := decimal.NewFromString(normalized)
	if err != nil {
		return Zero, err
	}
	if !d.IsPositive() {
		return Zero, ErrNotPositive
	}

	return Money{d}, nil
}

// NewFromString parses string and returns decimal amount.
// If s is empty, Zero is returned without an error.
func NewFromString(s string) (Money, error) {
	if len(s) == 0 {
		return Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Zero, err
	}
	return Money{d}, nil
}

// NewFromInt returns decimal from integer number.
func NewFromInt(i int64) Money {
	d := decimal.NewFromInt(i)
	return Money{d}
}

// Add returns left + right amounts.
func (m Money) Add(right Money) Money {
	return Money{m.decimal.Add(right.decimal)}
}

// Equal reports whether two amounts represent the same numeric value.
func (m Money) Equal(right Money) bool {
	return m.decimal.Equal(right.decimal)
}

// String returns string representation of the amount with 2 places
// after digit, rounded to nearest.
func (m Money) String() string {
	return m.decimal.StringFixed(2)
}
