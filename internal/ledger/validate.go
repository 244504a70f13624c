package ledger

import (
	"encoding/json"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dukerupert/cointrack/internal/model"
	"github.com/dukerupert/cointrack/internal/money"
)

const maxTitleLength = 100

const (
	msgTitleRequired    = "Title is required and must be a non-empty string"
	msgTitleTooLong     = "Title must not exceed 100 characters"
	msgAmountPositive   = "Amount must be a positive number"
	msgCategoryRequired = "Category is required"
	msgInvalidDate      = "Invalid date format"
	msgIncomeRequired   = "Title and amount are required"
)

// ValidationError is a client error naming the first field that failed.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(msg string) error { return &ValidationError{Message: msg} }

// ExpenseRequest is the raw expense payload. Fields stay untyped so a value
// of the wrong JSON type is reported as a validation failure for that field.
// Decode with json.Decoder.UseNumber.
type ExpenseRequest struct {
	Title    any `json:"title"`
	Amount   any `json:"amount"`
	Category any `json:"category"`
	Date     any `json:"date"`
}

// IncomeRequest is the raw income payload.
type IncomeRequest struct {
	Title  any `json:"title"`
	Amount any `json:"amount"`
	Date   any `json:"date"`
}

type expenseInput struct {
	title    string
	amount   money.Amount
	category string
	date     time.Time
}

type incomeInput struct {
	title  string
	amount money.Amount
	date   time.Time
}

func (r ExpenseRequest) validate(now time.Time) (expenseInput, error) {
	var in expenseInput

	title, ok := r.Title.(string)
	title = strings.TrimSpace(title)
	if !ok || title == "" {
		return in, invalid(msgTitleRequired)
	}
	if utf8.RuneCountInString(title) > maxTitleLength {
		return in, invalid(msgTitleTooLong)
	}

	amount, ok := positiveAmount(r.Amount)
	if !ok {
		return in, invalid(msgAmountPositive)
	}

	category, ok := r.Category.(string)
	category = strings.TrimSpace(category)
	if !ok || category == "" {
		return in, invalid(msgCategoryRequired)
	}
	if !model.IsValidCategory(category) {
		return in, invalid("Invalid category. Must be one of: " + model.CategoryList())
	}

	date, err := parseDateValue(r.Date, now)
	if err != nil {
		return in, err
	}

	return expenseInput{title: title, amount: amount, category: category, date: date}, nil
}

// validate checks income fields. hasFamily is checked after presence and
// before amount sign, matching the order clients see errors in.
func (r IncomeRequest) validate(now time.Time, hasFamily bool) (incomeInput, error) {
	var in incomeInput

	title, _ := r.Title.(string)
	title = strings.TrimSpace(title)
	if title == "" || !truthy(r.Amount) {
		return in, invalid(msgIncomeRequired)
	}
	if !hasFamily {
		return in, ErrNoFamily
	}

	amount, ok := positiveAmount(r.Amount)
	if !ok {
		return in, invalid(msgAmountPositive)
	}

	date, err := parseDateValue(r.Date, now)
	if err != nil {
		return in, err
	}

	return incomeInput{title: title, amount: amount, date: date}, nil
}

// positiveAmount accepts JSON numbers only and requires a value above zero
// after rounding to cents.
func positiveAmount(v any) (money.Amount, bool) {
	var amount money.Amount
	switch n := v.(type) {
	case json.Number:
		a, err := money.FromJSONNumber(n)
		if err != nil {
			return money.Zero, false
		}
		amount = a
	case float64:
		a, err := money.FromFloat(n)
		if err != nil {
			return money.Zero, false
		}
		amount = a
	default:
		return money.Zero, false
	}
	return amount, amount.IsPositive()
}

func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case json.Number:
		a, err := money.FromJSONNumber(x)
		return err != nil || !a.IsZero()
	case float64:
		return x != 0
	default:
		return true
	}
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseDate accepts RFC 3339 timestamps, zone-less timestamps (read as UTC)
// and plain calendar dates.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// parseDateValue defaults a missing date to now. Numbers are read as Unix
// milliseconds.
func parseDateValue(v any, now time.Time) (time.Time, error) {
	switch d := v.(type) {
	case nil:
		return now.UTC(), nil
	case string:
		if strings.TrimSpace(d) == "" {
			return now.UTC(), nil
		}
		t, ok := ParseDate(d)
		if !ok {
			return time.Time{}, invalid(msgInvalidDate)
		}
		return t, nil
	case json.Number:
		ms, err := d.Int64()
		if err != nil {
			return time.Time{}, invalid(msgInvalidDate)
		}
		return time.UnixMilli(ms).UTC(), nil
	default:
		return time.Time{}, invalid(msgInvalidDate)
	}
}
