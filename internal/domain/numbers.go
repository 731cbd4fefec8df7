package domain

import "math"

// IntValue converts the numeric types produced by the JSON, YAML and CBOR
// decoders to int. Fractional values and values outside the int range are
// rejected.
func IntValue(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		if n >= math.MinInt && n <= math.MaxInt {
			return int(n), true
		}
	case uint64:
		if n <= math.MaxInt {
			return int(n), true
		}
	case float64:
		// float64(math.MaxInt) rounds up to a power of two, hence the strict bound
		if n == math.Trunc(n) && n >= math.MinInt && n < math.MaxInt {
			return int(n), true
		}
	}
	return 0, false
}
