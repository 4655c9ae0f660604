package acf

import (
	"errors"
	"sort"
	"strconv"
	"strings"

	"github.com/elliotchance/phpserialize"
)

var errNotSerializedArray = errors.New("value is not a serialized array")

// isSerializedArray reports whether v looks like a PHP serialized array.
func isSerializedArray(v string) bool {
	v = strings.TrimSpace(v)
	return strings.HasPrefix(v, "a:") && strings.HasSuffix(v, "}")
}

// unserializeArray decodes a PHP serialized array into its key/value mapping.
func unserializeArray(v string) (map[interface{}]interface{}, error) {
	if !isSerializedArray(v) {
		return nil, errNotSerializedArray
	}
	return phpserialize.UnmarshalAssociativeArray([]byte(strings.TrimSpace(v)))
}

type indexedValue struct {
	index int
	value interface{}
}

// indexedValues returns the integer keyed entries of arr in ascending key order.
func indexedValues(arr map[interface{}]interface{}) []indexedValue {
	values := make([]indexedValue, 0, len(arr))
	for k, v := range arr {
		i, ok := toInt(k)
		if !ok {
			continue
		}
		values = append(values, indexedValue{index: i, value: v})
	}
	sort.Slice(values, func(a, b int) bool {
		return values[a].index < values[b].index
	})
	return values
}

func lookup(arr map[interface{}]interface{}, key string) (interface{}, bool) {
	if v, ok := arr[key]; ok {
		return v, true
	}
	// PHP turns numeric string keys into integers.
	if i, err := strconv.ParseInt(key, 10, 64); err == nil {
		v, ok := arr[i]
		return v, ok
	}
	return nil, false
}

func toMap(v interface{}) (map[interface{}]interface{}, bool) {
	switch m := v.(type) {
	case map[interface{}]interface{}:
		return m, true
	case map[string]interface{}:
		out := make(map[interface{}]interface{}, len(m))
		for k, val := range m {
			out[k] = val
		}
		return out, true
	}
	return nil, false
}

func toString(v interface{}) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case []byte:
		return string(s)
	case int64:
		return strconv.FormatInt(s, 10)
	case int:
		return strconv.Itoa(s)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		if s {
			return "1"
		}
		return ""
	}
	return ""
}

func toInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, false
		}
		return i, true
	}
	return 0, false
}

func toIntPtr(v interface{}) *int {
	i, ok := toInt(v)
	if !ok {
		return nil
	}
	return &i
}

// parseID parses a post ID as stored in a meta value.
func parseID(v interface{}) (int64, bool) {
	i, ok := toInt(v)
	if !ok || i <= 0 {
		return 0, false
	}
	return int64(i), true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// parseIndexedKey splits a repeatable field key {prefix}_{index}_{name} into
// its row index and subfield name.
func parseIndexedKey(key, prefix string) (int, string, error) {
	rest, ok := strings.CutPrefix(key, prefix+"_")
	if !ok {
		return 0, "", &KeyError{Key: key, Prefix: prefix, Err: ErrMalformedKey}
	}
	digits, name, ok := strings.Cut(rest, "_")
	if !ok || name == "" || !isDigits(digits) {
		return 0, "", &KeyError{Key: key, Prefix: prefix, Err: ErrMalformedKey}
	}
	index, err := strconv.Atoi(digits)
	if err != nil {
		return 0, "", &KeyError{Key: key, Prefix: prefix, Err: ErrMalformedKey}
	}
	return index, name, nil
}
