package venmo

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// timestampLayout is the platform's date-time format. Fractional seconds, used
// by comment timestamps, are accepted by time.Parse without being in the layout.
const timestampLayout = "2006-01-02T15:04:05"

// path is a chain of keys leading to a value in a JSON object.
type path []string

// object is a decoded JSON object. All accessors tolerate a nil receiver and
// missing keys, returning the zero value instead of failing.
type object map[string]any

// descend walks v through keys, one object level per key. It reports false
// when an intermediate value is missing or is not an object.
func descend(v any, keys ...string) (any, bool) {
	if len(keys) == 0 {
		return nil, false
	}
	cur := v
	for _, k := range keys {
		m, ok := asObject(cur)
		if !ok {
			return nil, false
		}
		cur, ok = m[k]
		if !ok || cur == nil {
			return nil, false
		}
	}
	return cur, true
}

func asObject(v any) (object, bool) {
	switch m := v.(type) {
	case object:
		return m, m != nil
	case map[string]any:
		return object(m), m != nil
	default:
		return nil, false
	}
}

func (o object) lookup(p path) (any, bool) {
	return descend(o, p...)
}

func (o object) str(p path) string {
	v, ok := o.lookup(p)
	if !ok {
		return ""
	}
	switch s := v.(type) {
	case string:
		return s
	case json.Number:
		return s.String()
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	default:
		return ""
	}
}

func (o object) float(p path) float64 {
	v, ok := o.lookup(p)
	if !ok {
		return 0
	}
	switch n := v.(type) {
	case json.Number:
		f, _ := n.Float64()
		return f
	case float64:
		return n
	case string:
		f, _ := strconv.ParseFloat(n, 64)
		return f
	default:
		return 0
	}
}

func (o object) integer(p path) (int64, bool) {
	v, ok := o.lookup(p)
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, true
		}
		f, err := n.Float64()
		return int64(f), err == nil
	case float64:
		return int64(n), true
	case string:
		i, err := strconv.ParseInt(n, 10, 64)
		return i, err == nil
	default:
		return 0, false
	}
}

func (o object) boolean(p path) bool {
	v, ok := o.lookup(p)
	if !ok {
		return false
	}
	switch b := v.(type) {
	case bool:
		return b
	case string:
		parsed, _ := strconv.ParseBool(b)
		return parsed
	default:
		return false
	}
}

func (o object) obj(p path) object {
	v, ok := o.lookup(p)
	if !ok {
		return nil
	}
	m, _ := asObject(v)
	return m
}

func (o object) list(p path) []any {
	v, ok := o.lookup(p)
	if !ok {
		return nil
	}
	l, _ := v.([]any)
	return l
}

func (o object) timestamp(p path) time.Time {
	return parseTimestamp(o.str(p))
}

// parseTimestamp converts a platform timestamp to UTC. Empty or malformed
// values yield the zero time.
func parseTimestamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.ParseInLocation(timestampLayout, strings.TrimSuffix(s, "Z"), time.UTC)
	if err != nil {
		return time.Time{}
	}
	return t
}

// errorCode extracts error.code from a response body.
func errorCode(body map[string]any) (int, bool) {
	code, ok := object(body).integer(path{"error", "code"})
	return int(code), ok
}
