// Package core provides the ledger entry data model and input validation.
//
// This file contains amount parsing: converting user-entered decimal
// strings into integer cents so all arithmetic stays in minor units.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// ParseAmountToCents converts a decimal string to cents.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators.
// The value is multiplied by 100 and rounded half away from zero, so
// sub-cent input like "12.345" resolves deterministically. Negative
// amounts are rejected; the sign of an entry comes from its kind, never
// from the amount. Zero is a valid amount.
//
// Examples:
//
//	ParseAmountToCents("10.42") -> 1042, nil
//	ParseAmountToCents("10,42") -> 1042, nil
//	ParseAmountToCents("0")     -> 0, nil
//	ParseAmountToCents("1.005") -> 101, nil (half away from zero)
func ParseAmountToCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	if d.IsNegative() {
		return 0, ErrInvalidAmount
	}
	cents := d.Mul(oneHundred).Round(0)
	if !cents.BigInt().IsInt64() {
		return 0, ErrInvalidAmount
	}
	return cents.IntPart(), nil
}

// FormatCents renders cents as a plain decimal string for display,
// e.g. 1042 -> "10.42". Calculations must stay in cents.
func FormatCents(cents int64) string {
	return decimal.NewFromInt(cents).Div(oneHundred).StringFixed(2)
}
