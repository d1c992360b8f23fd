package validate

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// numberPattern accepts plain decimal notation with an optional sign,
// fraction and exponent. Hex, "Inf", "NaN" and digit separators are
// rejected.
var numberPattern = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// ParseNumber converts a form value to a float64. It returns ErrRequired for
// nil or the empty string and ErrInvalidNumber for anything that is not a
// finite number. Surrounding whitespace in text is ignored.
func ParseNumber(v any) (float64, error) {
	switch n := v.(type) {
	case nil:
		return 0, ErrRequired
	case string:
		return parseText(n)
	case json.Number:
		return parseText(string(n))
	case int:
		return float64(n), nil
	case int8:
		return float64(n), nil
	case int16:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint:
		return float64(n), nil
	case uint8:
		return float64(n), nil
	case uint16:
		return float64(n), nil
	case uint32:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	case float32:
		// Round-trip through the shortest float32 text so 19.99f stays 19.99.
		f, err := strconv.ParseFloat(strconv.FormatFloat(float64(n), 'g', -1, 32), 64)
		if err != nil {
			return 0, ErrInvalidNumber
		}
		return finite(f)
	case float64:
		return finite(n)
	default:
		return 0, ErrInvalidNumber
	}
}

func parseText(s string) (float64, error) {
	if s == "" {
		return 0, ErrRequired
	}
	s = strings.TrimSpace(s)
	if !numberPattern.MatchString(s) {
		return 0, ErrInvalidNumber
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, ErrInvalidNumber
	}
	return finite(f)
}

func finite(f float64) (float64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, ErrInvalidNumber
	}
	return f, nil
}

// ParseQuantity converts and checks a quantity, returning the whole number
// to store. Checks run in order: required, numeric, whole, non-negative,
// upper bound.
func ParseQuantity(v any) (int64, error) {
	n, err := ParseNumber(v)
	if err != nil {
		return 0, &FieldError{Field: FieldQuantity, Err: err}
	}
	if n != math.Trunc(n) {
		return 0, &FieldError{Field: FieldQuantity, Err: ErrNotWhole}
	}
	if n < 0 {
		return 0, &FieldError{Field: FieldQuantity, Err: ErrNegative}
	}
	if n > MaxQuantity {
		return 0, &FieldError{Field: FieldQuantity, Err: ErrTooLarge}
	}
	return int64(n), nil
}

// ParsePrice converts and checks a price, returning the value to store.
// Checks run in order: required, numeric, non-negative, upper bound,
// decimal places. Decimal places are counted on the parsed number, so
// "1.200" is 1.2 and passes.
func ParsePrice(v any) (float64, error) {
	n, err := ParseNumber(v)
	if err != nil {
		return 0, &FieldError{Field: FieldPrice, Err: err}
	}
	if n < 0 {
		return 0, &FieldError{Field: FieldPrice, Err: ErrNegative}
	}
	if n > MaxPrice {
		return 0, &FieldError{Field: FieldPrice, Err: ErrTooLarge}
	}
	if DecimalPlaces(n) > MaxPriceDecimals {
		return 0, &FieldError{Field: FieldPrice, Err: ErrTooPrecise}
	}
	return n, nil
}

// DecimalPlaces counts the fractional digits in the shortest base-10
// representation of f. f must be finite.
func DecimalPlaces(f float64) int {
	s := decimal.NewFromFloat(f).String()
	if i := strings.IndexByte(s, '.'); i >= 0 {
		return len(s) - i - 1
	}
	return 0
}
