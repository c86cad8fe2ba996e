package llm

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// CleanNumeric coerces a raw JSON value into a float. String inputs have
// thousands-separator commas stripped first. Anything unparseable yields
// 0.0 rather than an error; this swallows bad data instead of rejecting
// the record, which matches the upstream contract the rest of the pipeline
// was built around.
func CleanNumeric(value any) float64 {
	switch v := value.(type) {
	case nil:
		return 0.0
	case float64:
		return v
	case int:
		return float64(v)
	case string:
		f, err := strconv.ParseFloat(strings.ReplaceAll(v, ",", ""), 64)
		if err != nil {
			return 0.0
		}
		return f
	default:
		return 0.0
	}
}

// toInt coerces quantity-like values via float-then-truncate. Unlike
// CleanNumeric it reports failure, because a garbage quantity aborts the
// product list instead of defaulting.
func toInt(value any) (int, error) {
	switch v := value.(type) {
	case float64:
		return int(v), nil
	case int:
		return v, nil
	case string:
		f, err := strconv.ParseFloat(strings.ReplaceAll(v, ",", ""), 64)
		if err != nil {
			return 0, fmt.Errorf("not an integer: %q", v)
		}
		return int(f), nil
	default:
		return 0, fmt.Errorf("not an integer: %v", value)
	}
}

// toTrimmedString renders any scalar as a trimmed string, the way phone
// numbers arrive sometimes as strings and sometimes as bare numbers.
func toTrimmedString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case float64:
		if v == math.Trunc(v) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", v))
	}
}

// Round2 rounds to two decimal places. price_with_tax depends on this exact
// precision; downstream totals compare against it.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}
