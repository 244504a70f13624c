package money

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"
)

func TestParseRoundsToTwoPlaces(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"10", "10.00"},
		{"10.5", "10.50"},
		{"10.456", "10.46"},
		{"10.454", "10.45"},
		{"0.005", "0.01"},
		{"-3.333", "-3.33"},
		{"1e2", "100.00"},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		if err != nil {
			t.Fatalf("Parse(%q): %v", tt.in, err)
		}
		if got.String() != tt.want {
			t.Errorf("Parse(%q) = %q, want %q", tt.in, got.String(), tt.want)
		}
	}
}

func TestParseInvalid(t *testing.T) {
	if _, err := Parse("abc"); err == nil {
		t.Error("expected error for non-numeric input")
	}
}

func TestArithmetic(t *testing.T) {
	b := MustParse("100")
	b = b.Add(MustParse("25.10").Neg())
	b = b.Add(MustParse("0.35"))
	if b.String() != "75.25" {
		t.Errorf("balance = %s, want 75.25", b)
	}
	if !MustParse("0.01").IsPositive() {
		t.Error("0.01 should be positive")
	}
	if MustParse("-0.01").IsPositive() {
		t.Error("-0.01 should not be positive")
	}
	if !Zero.IsZero() {
		t.Error("Zero should be zero")
	}
}

func TestParseRejectsOutOfRange(t *testing.T) {
	for _, in := range []string{
		"1e2000000",
		"1e999999999",
		"-1e999999999",
		"1e-999999999",
		"1000000000000",
		"-1000000000000",
		"999999999999.995",
		"1" + strings.Repeat("0", 80),
	} {
		if _, err := Parse(in); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("Parse(%.20q) err = %v, want ErrOutOfRange", in, err)
		}
	}
	for _, in := range []string{"999999999999.99", "-999999999999.99", "1e11", "0.001"} {
		if _, err := Parse(in); err != nil {
			t.Errorf("Parse(%q): %v", in, err)
		}
	}
}

func TestFromFloat(t *testing.T) {
	a, err := FromFloat(10.456)
	if err != nil || a.String() != "10.46" {
		t.Errorf("FromFloat(10.456) = %s, %v; want 10.46", a, err)
	}
	for _, f := range []float64{math.NaN(), math.Inf(1), math.Inf(-1), 1e300, -1e13} {
		if _, err := FromFloat(f); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("FromFloat(%v) err = %v, want ErrOutOfRange", f, err)
		}
	}
}

func TestJSON(t *testing.T) {
	data, err := json.Marshal(map[string]Amount{"amount": MustParse("7.1")})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `{"amount":7.10}` {
		t.Errorf("json = %s, want {\"amount\":7.10}", data)
	}

	var got struct {
		A Amount `json:"a"`
		B Amount `json:"b"`
	}
	if err := json.Unmarshal([]byte(`{"a": 12.345, "b": "-4"}`), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.A.String() != "12.35" || got.B.String() != "-4.00" {
		t.Errorf("unmarshal = %s, %s; want 12.35, -4.00", got.A, got.B)
	}
}

func TestScanValue(t *testing.T) {
	v, err := MustParse("3.5").Value()
	if err != nil {
		t.Fatalf("value: %v", err)
	}
	if v != "3.50" {
		t.Errorf("Value = %v, want 3.50", v)
	}

	for _, src := range []any{"3.50", []byte("3.5"), int64(3), float64(3.499)} {
		var a Amount
		if err := a.Scan(src); err != nil {
			t.Fatalf("Scan(%v): %v", src, err)
		}
		if a.String() != "3.00" && a.String() != "3.50" {
			t.Errorf("Scan(%v) = %s", src, a)
		}
	}

	var a Amount
	if err := a.Scan(true); err == nil {
		t.Error("expected error scanning bool")
	}
}

func TestScanAcceptsLargeStoredBalance(t *testing.T) {
	var a Amount
	if err := a.Scan("25000000000000.50"); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if a.String() != "25000000000000.50" {
		t.Errorf("scan = %s", a)
	}
	if err := a.Scan("1e999999999"); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("scan huge exponent err = %v, want ErrOutOfRange", err)
	}
}
