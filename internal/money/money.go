// Package money provides a fixed-point amount type used for balances and
// ledger entries. Amounts are always rounded to two decimal places.
package money

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Scale is the number of decimal places kept for every amount.
const Scale = 2

// Amount is a signed decimal amount with two decimal places.
// The zero value is 0.00.
type Amount struct {
	d decimal.Decimal
}

// Zero is 0.00.
var Zero = Amount{}

// New rounds d to Scale places.
func New(d decimal.Decimal) Amount {
	return Amount{d: d.Round(Scale)}
}

// ErrOutOfRange is returned for input amounts whose magnitude reaches
// MaxAbs, and for numbers too long or too extreme to round safely.
var ErrOutOfRange = errors.New("amount out of range")

// MaxAbs bounds the magnitude of any amount accepted from a client.
var MaxAbs = decimal.New(1, 12)

const (
	maxDigits   = 64
	maxExponent = 64
)

// decode parses s and rounds it, refusing shapes whose rounding would cost
// more than the digits the caller sent.
func decode(s string) (Amount, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return Zero, fmt.Errorf("parse amount %q: %w", s, err)
	}
	if d.NumDigits() > maxDigits || d.Exponent() > maxExponent || d.Exponent() < -maxExponent {
		return Zero, fmt.Errorf("parse amount %q: %w", s, ErrOutOfRange)
	}
	return New(d), nil
}

func inRange(a Amount) (Amount, error) {
	if a.d.Abs().GreaterThanOrEqual(MaxAbs) {
		return Zero, fmt.Errorf("amount %s: %w", a, ErrOutOfRange)
	}
	return a, nil
}

// Parse parses a decimal string such as "12.5", "-3" or "1e2". Values whose
// magnitude reaches MaxAbs are rejected with ErrOutOfRange.
func Parse(s string) (Amount, error) {
	a, err := decode(s)
	if err != nil {
		return Zero, err
	}
	return inRange(a)
}

// FromFloat converts a float64 input, rejecting NaN, infinities and values
// outside MaxAbs.
func FromFloat(f float64) (Amount, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) >= MaxAbs.InexactFloat64() {
		return Zero, ErrOutOfRange
	}
	return inRange(New(decimal.NewFromFloat(f)))
}

// MustParse is Parse for constants and tests.
func MustParse(s string) Amount {
	a, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return a
}

// FromJSONNumber converts a decoded JSON number into an amount.
func FromJSONNumber(n json.Number) (Amount, error) {
	return Parse(n.String())
}

func (a Amount) Add(b Amount) Amount { return New(a.d.Add(b.d)) }
func (a Amount) Neg() Amount         { return Amount{d: a.d.Neg()} }

func (a Amount) IsZero() bool     { return a.d.IsZero() }
func (a Amount) IsPositive() bool { return a.d.IsPositive() }

// String renders the amount with exactly two decimals.
func (a Amount) String() string {
	return a.d.StringFixed(Scale)
}

// MarshalJSON writes the amount as a JSON number with two decimals.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalJSON accepts a JSON number or a quoted decimal string.
func (a *Amount) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*a = Zero
		return nil
	}
	s = strings.Trim(s, `"`)
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Value stores the amount as fixed-point text so SQLite never rounds it
// through a float.
func (a Amount) Value() (driver.Value, error) {
	return a.String(), nil
}

// Scan reads amounts stored as text, integers or floats.
func (a *Amount) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*a = Zero
		return nil
	case string:
		parsed, err := decode(v)
		if err != nil {
			return err
		}
		*a = parsed
		return nil
	case []byte:
		parsed, err := decode(string(v))
		if err != nil {
			return err
		}
		*a = parsed
		return nil
	case int64:
		*a = New(decimal.NewFromInt(v))
		return nil
	case float64:
		*a = New(decimal.NewFromFloat(v))
		return nil
	default:
		return fmt.Errorf("scan amount: unsupported type %T", src)
	}
}
