package domain

import (
	"errors"
	"testing"
)

func TestNewMoneyValidatesCurrency(t *testing.T) {
	m, err := NewMoney(150000, "usd")
	if err != nil {
		t.Fatalf("NewMoney returned error: %v", err)
	}
	if m.Currency != "USD" {
		t.Fatalf("currency not normalized: got %q want %q", m.Currency, "USD")
	}

	if _, err := NewMoney(100, "WAT"); !errors.Is(err, ErrCurrencyMismatch) {
		t.Fatalf("expected ErrCurrencyMismatch for unknown code, got %v", err)
	}
}

func TestMoneyAdd(t *testing.T) {
	a := Money{AmountMinor: 75000, Currency: "USD"}
	b := Money{AmountMinor: 40000, Currency: "USD"}

	sum, err := a.Add(b)
	if err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	if sum.AmountMinor != 115000 {
		t.Fatalf("sum mismatch: got %d want 115000", sum.AmountMinor)
	}

	eur := Money{AmountMinor: 100, Currency: "EUR"}
	if _, err := a.Add(eur); !errors.Is(err, ErrCurrencyMismatch) {
		t.Fatalf("expected ErrCurrencyMismatch, got %v", err)
	}
}

func TestMoneyDisplay(t *testing.T) {
	cases := []struct {
		money Money
		want  string
	}{
		{Money{AmountMinor: 150000, Currency: "USD"}, "1500.00 USD"},
		{Money{AmountMinor: 1, Currency: "USD"}, "0.01 USD"},
		{Money{AmountMinor: -2550, Currency: "EUR"}, "-25.50 EUR"},
		{Money{AmountMinor: 1500, Currency: "JPY"}, "1500 JPY"},
	}
	for _, tc := range cases {
		if got := tc.money.Display(); got != tc.want {
			t.Fatalf("Display(%+v): got %q want %q", tc.money, got, tc.want)
		}
	}
}

func TestMoneyPredicates(t *testing.T) {
	if !(Money{AmountMinor: 1, Currency: "USD"}).IsPositive() {
		t.Fatal("expected positive")
	}
	if (Money{AmountMinor: 0, Currency: "USD"}).IsPositive() {
		t.Fatal("zero must not be positive")
	}
	if !(Money{AmountMinor: -1, Currency: "USD"}).IsNegative() {
		t.Fatal("expected negative")
	}
	if !(Money{Currency: "USD"}).IsNonNegative() {
		t.Fatal("zero must be non-negative")
	}
	if !(Money{Currency: "USD"}).IsZero() {
		t.Fatal("expected zero")
	}
}
