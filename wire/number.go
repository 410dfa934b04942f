package wire

import "math"

// fitsFloat32 reports whether converting v to float32 and back loses no
// information, including the ±Infinity case (spec §4.1: "implementations
// must route ±∞ through the Float32 path"). This stands in for the spec's
// manual exponent/mantissa walk: the round-trip cast is exact if and only
// if the walk would have succeeded.
func fitsFloat32(v float64) bool {
	if math.IsInf(v, 0) {
		return true
	}

	f32 := float32(v)

	return float64(f32) == v
}

// isNegative reports whether v is negative, including negative zero (spec
// §4.1's "1/value < 0" test: 1/(-0.0) is -Inf, 1/(+0.0) is +Inf).
func isNegative(v float64) bool {
	if v == 0 {
		return math.Signbit(v)
	}

	return v < 0
}

// asInteger reports whether v is exactly representable as a signed integer
// within [-MaxInt, MaxInt] and is not negative zero, returning that integer.
// Negative zero is deliberately excluded so its sign survives via the
// Float32 path instead of collapsing into integer 0 (spec §4.1 step 2).
func asInteger(v float64, maxInt int64) (int64, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}

	if v == 0 && math.Signbit(v) {
		return 0, false
	}

	if v != math.Trunc(v) {
		return 0, false
	}

	if v < float64(-maxInt) || v > float64(maxInt) {
		return 0, false
	}

	return int64(v), true
}
