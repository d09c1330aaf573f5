package payment

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"driver-license-portal/internal/domain/errs"
)

var ErrInvalidAmount = errs.Validation("Invalid amount")

// MaxAmount is the largest accepted payment, in whole currency units.
const MaxAmount = 1e12

// NormalizeAmount accepts a JSON number or a formatted string such as
// "50,000 BIF" and returns the amount rounded to whole currency units.
func NormalizeAmount(v any) (int64, error) {
	var f float64
	switch a := v.(type) {
	case float64:
		f = a
	case float32:
		f = float64(a)
	case int:
		f = float64(a)
	case int64:
		f = float64(a)
	case json.Number:
		n, err := a.Float64()
		if err != nil {
			return 0, ErrInvalidAmount.With("amount", a.String())
		}
		f = n
	case string:
		cleaned := strings.Map(func(r rune) rune {
			if (r >= '0' && r <= '9') || r == '.' || r == '-' {
				return r
			}
			return -1
		}, a)
		n, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return 0, ErrInvalidAmount.With("amount", a)
		}
		f = n
	default:
		return 0, ErrInvalidAmount
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return 0, ErrInvalidAmount.With("amount", v)
	}
	r := math.Round(f)
	if r < 1 || r > MaxAmount {
		return 0, ErrInvalidAmount.With("amount", v)
	}
	return int64(r), nil
}
