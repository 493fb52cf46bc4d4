package statement

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrUnsupportedAmount is returned when NormalizeAmount is handed a value
// that is neither a number nor a string.
var ErrUnsupportedAmount = errors.New("unsupported amount type")

// amountReplacer drops grouping separators and the currency symbols that
// show up in statements we have seen.
var amountReplacer = strings.NewReplacer(
	",", "",
	"₹", "",
	"$", "",
	"€", "",
	"£", "",
	"¥", "",
	" ", "",
	"\u00a0", "",
)

// NormalizeAmount coerces a JSON-ish amount into a float64.
//
// Numbers are returned as-is. Strings have separators and currency symbols
// stripped before parsing; a string that still does not parse (or parses to
// NaN/Inf) yields nil with no error, meaning "unknown". Any other type is an
// input error.
func NormalizeAmount(v any) (*float64, error) {
	var f float64

	switch val := v.(type) {
	case nil:
		return nil, nil
	case float64:
		f = val
	case float32:
		f = float64(val)
	case int:
		f = float64(val)
	case int32:
		f = float64(val)
	case int64:
		f = float64(val)
	case uint:
		f = float64(val)
	case uint32:
		f = float64(val)
	case uint64:
		f = float64(val)
	case json.Number:
		parsed, err := val.Float64()
		if err != nil {
			return nil, nil
		}
		f = parsed
	case string:
		s := strings.TrimSpace(amountReplacer.Replace(val))
		if s == "" {
			return nil, nil
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, nil
		}
		f = parsed
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedAmount, v)
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, nil
	}
	return &f, nil
}
