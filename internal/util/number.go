package util

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	reCurrency = regexp.MustCompile(`^[$€£]\s*`)
	reGrouping = regexp.MustCompile(`^-?\d{1,3}(?:,\d{3})+(?:\.\d+)?$`)
)

// NormalizeNumericToken strips a leading currency symbol, surrounding
// whitespace and US thousands separators ("$1,234.50" -> "1234.50").
func NormalizeNumericToken(token string) string {
	s := strings.TrimSpace(strings.ReplaceAll(token, "\u00A0", " "))
	s = reCurrency.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, " ", "")
	if reGrouping.MatchString(s) {
		s = strings.ReplaceAll(s, ",", "")
	}
	return s
}

// ParseDecimal returns an invalid NullDecimal for blank input.
func ParseDecimal(input string) (decimal.NullDecimal, error) {
	norm := NormalizeNumericToken(input)
	if norm == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(norm)
	if err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("not a number: %q", input)
	}
	return decimal.NewNullDecimal(d), nil
}

// ParseInt accepts whole numbers written as "1,200" or "12.0".
func ParseInt(input string) (*int, error) {
	d, err := ParseDecimal(input)
	if err != nil {
		return nil, err
	}
	if !d.Valid {
		return nil, nil
	}
	if !d.Decimal.Equal(d.Decimal.Truncate(0)) {
		return nil, fmt.Errorf("not a whole number: %q", input)
	}
	v := int(d.Decimal.IntPart())
	return &v, nil
}

// ParseID parses a remote resource id; blank means "no id" and returns 0.
// Grouped values such as "12,345" are accepted.
func ParseID(input string) (int64, error) {
	s := NormalizeNumericToken(input)
	if s == "" {
		return 0, nil
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id < 0 {
		return 0, fmt.Errorf("not a valid id: %q", input)
	}
	return id, nil
}
