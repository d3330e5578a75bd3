package tabsettings

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// parseInt reads v the way the extension's options page always has: integers
// pass through, floats truncate, and strings yield their leading integer
// ("20min" is 20, "0x10" is 16, "abc" is not a number).
func parseInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int8:
		return int(n), true
	case int16:
		return int(n), true
	case int32:
		return int(n), true
	case int64:
		return int64ToInt(n)
	case uint:
		return uint64ToInt(uint64(n))
	case uint8:
		return int(n), true
	case uint16:
		return int(n), true
	case uint32:
		return uint64ToInt(uint64(n))
	case uint64:
		return uint64ToInt(n)
	case float32:
		return floatToInt(float64(n))
	case float64:
		return floatToInt(n)
	case json.Number:
		return parseIntString(string(n))
	case string:
		return parseIntString(n)
	default:
		return 0, false
	}
}

func int64ToInt(n int64) (int, bool) {
	if n > math.MaxInt || n < math.MinInt {
		return 0, false
	}
	return int(n), true
}

func uint64ToInt(n uint64) (int, bool) {
	if n > math.MaxInt {
		return 0, false
	}
	return int(n), true
}

func floatToInt(f float64) (int, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	t := math.Trunc(f)
	if t >= 1<<63 || t < -(1<<63) {
		return 0, false
	}
	return int64ToInt(int64(t))
}

func parseIntString(s string) (int, bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	neg := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}
	base, isDigit := 10, isDecimal
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		base, isDigit = 16, isHex
		s = s[2:]
	}
	end := 0
	for end < len(s) && isDigit(s[end]) {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.ParseInt(s[:end], base, 64)
	if err != nil {
		return 0, false
	}
	if neg {
		n = -n
	}
	return int64ToInt(n)
}

func isDecimal(c byte) bool { return c >= '0' && c <= '9' }

func isHex(c byte) bool {
	return isDecimal(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// minutesToMillis converts a minutes setting; NaN when it does not parse.
func minutesToMillis(v any) float64 {
	n, ok := parseInt(v)
	if !ok {
		return math.NaN()
	}
	return float64(n) * 60 * 1000
}

func coerceBool(v any) (bool, bool) {
	switch b := v.(type) {
	case bool:
		return b, true
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(b))
		return parsed, err == nil
	default:
		return false, false
	}
}

func coerceStrings(v any) ([]string, bool) {
	switch l := v.(type) {
	case nil:
		return []string{}, true
	case []string:
		out := make([]string, len(l))
		copy(out, l)
		return out, true
	case []any:
		out := make([]string, 0, len(l))
		for _, e := range l {
			s, ok := e.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	default:
		return nil, false
	}
}

// normalize maps whatever a codec decoded to the key's canonical type.
// Values that do not fit are kept raw; readers decide what they mean.
func normalize(key Key, v any) any {
	kind, ok := KindOf(key)
	if !ok || v == nil {
		return v
	}
	switch kind {
	case KindInt:
		if isIntegral(v) {
			if n, ok := parseInt(v); ok {
				return n
			}
		}
	case KindBool:
		if b, ok := v.(bool); ok {
			return b
		}
	case KindStrings:
		if l, ok := coerceStrings(v); ok {
			return l
		}
	}
	return v
}

// isIntegral reports whether v is a number with no fractional part.
// Text is never integral here; it is kept as typed.
func isIntegral(v any) bool {
	switch f := v.(type) {
	case float32:
		return float64(f) == math.Trunc(float64(f))
	case float64:
		return f == math.Trunc(f)
	case string, json.Number, bool:
		return false
	default:
		return true
	}
}

func cloneValue(v any) any {
	switch l := v.(type) {
	case []string:
		out := make([]string, len(l))
		copy(out, l)
		return out
	case []any:
		out := make([]any, len(l))
		copy(out, l)
		return out
	default:
		return v
	}
}

// ParseValue converts command-line or form text into a value for key.
// Integer settings stay strings so Set applies its own parsing and bounds.
// The whitelist is comma separated; blank entries are dropped.
func ParseValue(key Key, raw string) (any, error) {
	kind, ok := KindOf(key)
	if !ok {
		return nil, unknownKey(key)
	}
	switch kind {
	case KindBool:
		b, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return nil, &InvalidSettingError{Key: key, Value: raw, Reason: "must be true or false"}
		}
		return b, nil
	case KindStrings:
		out := []string{}
		for _, p := range strings.Split(raw, ",") {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out, nil
	default:
		return raw, nil
	}
}
