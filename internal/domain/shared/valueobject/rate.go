package valueobject

import (
	"database/sql/driver"
	"fmt"

	"github.com/shopspring/decimal"
)

// RateScale is the number of decimal places carried for percentage rates
const RateScale int32 = 4

// Rate is a value object representing a percentage rate (e.g. a commission
// rate of 10 means 10%). Rates carry four decimal places so that fractional
// percentages survive storage round-trips.
type Rate struct {
	value decimal.Decimal
}

// NewRate creates a Rate from a decimal percentage value
func NewRate(value decimal.Decimal) (Rate, error) {
	if value.IsNegative() {
		return Rate{}, fmt.Errorf("rate cannot be negative: %s", value)
	}
	if value.GreaterThan(decimal.NewFromInt(100)) {
		return Rate{}, fmt.Errorf("rate cannot exceed 100: %s", value)
	}
	return Rate{value: value.Round(RateScale)}, nil
}

// NewRateFromString creates a Rate from its string representation
func NewRateFromString(value string) (Rate, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return Rate{}, fmt.Errorf("invalid rate string: %w", err)
	}
	return NewRate(d)
}

// MustRate creates a Rate and panics on invalid input. Reserved for
// package-level constants.
func MustRate(value string) Rate {
	r, err := NewRateFromString(value)
	if err != nil {
		panic(err)
	}
	return r
}

// ZeroRate returns a zero percentage rate
func ZeroRate() Rate {
	return Rate{value: decimal.Zero}
}

// Value returns the decimal percentage value
func (r Rate) Decimal() decimal.Decimal {
	return r.value
}

// IsZero returns true if the rate is zero
func (r Rate) IsZero() bool {
	return r.value.IsZero()
}

// ApplyTo computes `amount × rate / 100` rounded to the monetary scale
func (r Rate) ApplyTo(amount Money) Money {
	return amount.CalculatePercentage(r.value).RoundMoney()
}

// Equals returns true if both rates carry the same percentage
func (r Rate) Equals(other Rate) bool {
	return r.value.Equal(other.value)
}

// String returns the rate with the standard rate scale
func (r Rate) String() string {
	return r.value.StringFixed(RateScale)
}

// MarshalJSON implements json.Marshaler
func (r Rate) MarshalJSON() ([]byte, error) {
	return []byte(`"` + r.value.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (r *Rate) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("invalid rate: %w", err)
	}
	parsed, err := NewRate(d)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Value implements driver.Valuer for database storage
func (r Rate) Value() (driver.Value, error) {
	return r.value.String(), nil
}

// Scan implements sql.Scanner for database retrieval
func (r *Rate) Scan(value any) error {
	if value == nil {
		r.value = decimal.Zero
		return nil
	}

	var strVal string
	switch v := value.(type) {
	case string:
		strVal = v
	case []byte:
		strVal = string(v)
	default:
		return fmt.Errorf("cannot scan %T into Rate", value)
	}

	d, err := decimal.NewFromString(strVal)
	if err != nil {
		return fmt.Errorf("invalid decimal value: %w", err)
	}
	r.value = d
	return nil
}
