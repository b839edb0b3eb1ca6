package survey

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

var (
	leadingInt   = regexp.MustCompile(`^\s*[+-]?\d+`)
	leadingFloat = regexp.MustCompile(`^\s*[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)
)

// doc is a read-only view over a decoded JSON object. Every accessor is total:
// a missing path, a null, or a value of the wrong type yields the default.
type doc map[string]interface{}

func (d doc) get(path ...string) interface{} {
	var current interface{} = map[string]interface{}(d)
	for _, key := range path {
		obj, ok := current.(map[string]interface{})
		if !ok {
			return nil
		}
		current = obj[key]
	}
	return current
}

func (d doc) str(path ...string) string {
	return toString(d.get(path...))
}

func (d doc) integer(path ...string) int {
	return toInt(d.get(path...))
}

func (d doc) float(path ...string) float64 {
	return toFloat(d.get(path...))
}

func (d doc) list(path ...string) []string {
	return toStrings(d.get(path...))
}

func toString(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case map[string]interface{}, []interface{}:
		return ""
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return ""
	}
	return s
}

// toInt reads the leading integer of a string ("15%" is 15); numbers
// are truncated, everything else is 0. Values that do not fit an int,
// NaN, and infinities are 0 too.
func toInt(v interface{}) int {
	switch val := v.(type) {
	case nil, bool:
		return 0
	case float64:
		if !(val >= math.MinInt && val < math.MaxInt) {
			return 0
		}
		return int(val)
	case float32:
		return toInt(float64(val))
	case uint64:
		if val > math.MaxInt {
			return 0
		}
		return int(val)
	case uint:
		if val > math.MaxInt {
			return 0
		}
		return int(val)
	case string:
		m := leadingInt.FindString(val)
		if m == "" {
			return 0
		}
		n, err := strconv.Atoi(strings.TrimSpace(m))
		if err != nil {
			return 0
		}
		return n
	}
	n, err := cast.ToIntE(v)
	if err != nil {
		return 0
	}
	return n
}

// toFloat reads the leading decimal of a string ("1.8%" is 1.8).
func toFloat(v interface{}) float64 {
	switch val := v.(type) {
	case nil, bool:
		return 0
	case string:
		m := leadingFloat.FindString(val)
		if m == "" {
			return 0
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(m), 64)
		if err != nil {
			return 0
		}
		return f
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return 0
	}
	return f
}

// toStrings accepts a list of scalars or a single scalar string. The result is
// never nil.
func toStrings(v interface{}) []string {
	out := []string{}
	switch val := v.(type) {
	case string:
		if s := strings.TrimSpace(val); s != "" {
			out = append(out, s)
		}
	case []interface{}:
		for _, item := range val {
			if s := toString(item); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}
