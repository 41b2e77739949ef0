package api

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"procure-desk/internal/timeutil"
)

// Default placeholders for fields the backend omits or nulls. V2 of
// the backend sends numbers as strings on some endpoints; everything
// funnels through these coercions so the rest of the client never
// sees a missing key.
const (
	defaultText = "N/A"
	defaultID   = "-"
)

func asString(v interface{}, def string) string {
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return def
	}
	return strings.TrimSpace(s)
}

func asFloat(v interface{}) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case int:
		return float64(x)
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(x), 64); err == nil {
			return f
		}
	}
	return 0
}

func asDecimal(v interface{}) decimal.Decimal {
	switch x := v.(type) {
	case float64:
		return decimal.NewFromFloat(x)
	case string:
		if d, err := decimal.NewFromString(strings.TrimSpace(x)); err == nil {
			return d
		}
	}
	return decimal.Zero
}

// asTime accepts RFC3339 timestamps and bare YYYY-MM-DD dates; nil on
// anything else.
func asTime(v interface{}) *time.Time {
	s, ok := v.(string)
	if !ok || s == "" {
		return nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t
	}
	if t, err := timeutil.ParseDateOnly(s); err == nil {
		return &t
	}
	return nil
}
