package table

import (
	"math"
	"strconv"
	"strings"
)

// missingTokens are cell values read as "no value" (compared case-insensitively).
var missingTokens = map[string]bool{
	"":     true,
	"na":   true,
	"n/a":  true,
	"nan":  true,
	"null": true,
	"none": true,
}

// currencyMarks are stripped before numeric parsing.
var currencyMarks = []string{"$", "€", "£", "¥", "₩", "원"}

// IsMissing reports whether a raw cell holds no value.
func IsMissing(cell string) bool {
	return missingTokens[strings.ToLower(strings.TrimSpace(cell))]
}

// ParseNumber leniently converts a raw cell to a float. It accepts thousands
// separators, a trailing percent sign, currency marks and accounting-style
// negatives such as "(1,200)". Missing cells, NaN and infinities are rejected.
func ParseNumber(cell string) (float64, bool) {
	s := strings.TrimSpace(cell)
	if IsMissing(s) {
		return 0, false
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		s = s[1 : len(s)-1]
		negative = true
	}
	for _, m := range currencyMarks {
		s = strings.ReplaceAll(s, m, "")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "%")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return 0, false
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	if negative {
		v = -v
	}
	return v, true
}
