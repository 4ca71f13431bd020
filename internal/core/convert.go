package core

// convert.go provides conversion between raw cell text and stored values.
//
// Cells hold either a string or a float64. Values arriving from JSON payloads,
// CSV text or inline edits pass through here so the store never holds any
// other Go type.

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"
)

// numericRegex validates that a string is a plain decimal number.
// pgtype.Numeric does not accept scientific notation, so neither do we.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)$`)

// ParseNumber converts cell text to a finite float64.
// Surrounding whitespace is ignored.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || !numericRegex.MatchString(s) {
		return 0, false
	}

	var n pgtype.Numeric
	if err := n.Scan(s); err != nil {
		return 0, false
	}

	f, err := n.Float64Value()
	if err != nil || !f.Valid {
		return 0, false
	}
	if math.IsInf(f.Float64, 0) || math.IsNaN(f.Float64) {
		return 0, false
	}
	return f.Float64, true
}

// Stringify renders a stored value as text. Absent values render as "".
func Stringify(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// NormalizeValue converts a decoded value into a storable scalar.
// It reports present=false for nil, which means the field should be absent.
func NormalizeValue(v any) (value any, present bool, err error) {
	switch v := v.(type) {
	case nil:
		return nil, false, nil
	case string:
		return v, true, nil
	case float64:
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return nil, false, fmt.Errorf("number must be finite")
		}
		return v, true, nil
	case float32:
		return NormalizeValue(float64(v))
	case int:
		return float64(v), true, nil
	case int32:
		return float64(v), true, nil
	case int64:
		return float64(v), true, nil
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return nil, false, fmt.Errorf("invalid number %q", v.String())
		}
		return NormalizeValue(f)
	default:
		return nil, false, fmt.Errorf("unsupported value type %T", v)
	}
}

// CoerceForColumn converts raw cell text into the stored form for col.
// Number columns store parseable text as float64 and keep anything else
// verbatim; empty text means the field is absent.
func CoerceForColumn(raw string, col Column) (any, bool) {
	if raw == "" {
		return nil, false
	}
	if col.Type == ColumnNumber {
		if f, ok := ParseNumber(raw); ok {
			return f, true
		}
	}
	return raw, true
}
