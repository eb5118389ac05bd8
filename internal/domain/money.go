package domain

import (
	"fmt"
	"strings"

	"golang.org/x/text/currency"
)

// Money is an exact currency amount in integer minor units (cents for most
// currencies). All arithmetic stays in integers; nothing in the ledger path
// ever converts through a float.
type Money struct {
	AmountMinor int64  `json:"amount_minor"`
	Currency    string `json:"currency"`
}

// NewMoney builds a Money value, validating the currency code against the
// ISO 4217 table.
func NewMoney(amountMinor int64, code string) (Money, error) {
	normalized, err := normalizeCurrency(code)
	if err != nil {
		return Money{}, err
	}
	return Money{AmountMinor: amountMinor, Currency: normalized}, nil
}

func normalizeCurrency(code string) (string, error) {
	unit, err := currency.ParseISO(strings.TrimSpace(code))
	if err != nil {
		return "", fmt.Errorf("%w: unknown currency %q", ErrCurrencyMismatch, code)
	}
	return unit.String(), nil
}

// Add returns a+b. Both operands must share a currency.
func (m Money) Add(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, fmt.Errorf("%w: %s vs %s", ErrCurrencyMismatch, m.Currency, other.Currency)
	}
	return Money{AmountMinor: m.AmountMinor + other.AmountMinor, Currency: m.Currency}, nil
}

// IsPositive reports whether the amount is strictly greater than zero.
func (m Money) IsPositive() bool { return m.AmountMinor > 0 }

// IsNegative reports whether the amount is below zero.
func (m Money) IsNegative() bool { return m.AmountMinor < 0 }

// IsNonNegative reports whether the amount is zero or above.
func (m Money) IsNonNegative() bool { return m.AmountMinor >= 0 }

// IsZero reports whether the amount is exactly zero.
func (m Money) IsZero() bool { return m.AmountMinor == 0 }

// minorDigits returns how many minor-unit digits the currency carries
// (2 for USD, 0 for JPY). Falls back to 2 for codes the table does not know.
func minorDigits(code string) int {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return 2
	}
	scale, _ := currency.Cash.Rounding(unit)
	return scale
}

// Display renders the amount for humans, e.g. "1500.00 USD". The conversion
// is pure integer math so display never drifts from the stored value.
func (m Money) Display() string {
	digits := minorDigits(m.Currency)
	if digits == 0 {
		return fmt.Sprintf("%d %s", m.AmountMinor, m.Currency)
	}
	div := int64(1)
	for i := 0; i < digits; i++ {
		div *= 10
	}
	minor := m.AmountMinor
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	return fmt.Sprintf("%s%d.%0*d %s", sign, minor/div, digits, minor%div, m.Currency)
}
