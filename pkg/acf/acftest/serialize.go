// Package acftest provides fixtures for tests that exercise ACF decoding
// against an in-memory repository.
package acftest

import (
	"fmt"
	"strconv"
	"strings"
)

// KV is one entry of an ordered PHP array.
type KV struct {
	Key   interface{}
	Value interface{}
}

// Array is a PHP array with a fixed entry order, so serialized fixtures are
// byte-for-byte stable.
type Array []KV

// List builds an array keyed 0..n-1.
func List(values ...interface{}) Array {
	arr := make(Array, 0, len(values))
	for i, v := range values {
		arr = append(arr, KV{Key: i, Value: v})
	}
	return arr
}

// Assoc builds an array from alternating keys and values.
func Assoc(pairs ...interface{}) Array {
	if len(pairs)%2 != 0 {
		panic("acftest: Assoc needs key/value pairs")
	}
	arr := make(Array, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		arr = append(arr, KV{Key: pairs[i], Value: pairs[i+1]})
	}
	return arr
}

// Serialize renders v in PHP serialize() format. Supported values are nil,
// bool, int, int64, float64, string, []string, []int64 and Array.
func Serialize(v interface{}) string {
	var b strings.Builder
	writeValue(&b, v)
	return b.String()
}

func writeValue(b *strings.Builder, v interface{}) {
	switch val := v.(type) {
	case nil:
		b.WriteString("N;")
	case bool:
		if val {
			b.WriteString("b:1;")
		} else {
			b.WriteString("b:0;")
		}
	case int:
		fmt.Fprintf(b, "i:%d;", val)
	case int64:
		fmt.Fprintf(b, "i:%d;", val)
	case float64:
		fmt.Fprintf(b, "d:%s;", strconv.FormatFloat(val, 'f', -1, 64))
	case string:
		fmt.Fprintf(b, "s:%d:\"%s\";", len(val), val)
	case []string:
		items := make([]interface{}, len(val))
		for i, s := range val {
			items[i] = s
		}
		writeValue(b, List(items...))
	case []int64:
		items := make([]interface{}, len(val))
		for i, n := range val {
			items[i] = n
		}
		writeValue(b, List(items...))
	case Array:
		fmt.Fprintf(b, "a:%d:{", len(val))
		for _, kv := range val {
			writeValue(b, kv.Key)
			writeValue(b, kv.Value)
		}
		b.WriteString("}")
	default:
		panic(fmt.Sprintf("acftest: cannot serialize %T", v))
	}
}
