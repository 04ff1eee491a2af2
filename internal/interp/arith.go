package interp

import "math"

// addOverflowI32 and friends implement spec.md 4.6's arithmetic overflow
// rule for signed boxed integer ops: the result is checked against the
// target kind's range before being written back, raising
// CodeArithmeticOverflow instead of silently wrapping. Each is computed
// in a wider Go integer so the check is a simple range comparison
// rather than a manual carry test. Unsigned add/sub/mul have no
// overflow variant here: spec.md 4.6 has them wrap, so
// internal/interp/numeric.go's boxedUintArith32/64 use Go's native
// unsigned wraparound directly instead of calling into this file.

func addOverflowI32(a, b int32) (int32, bool) {
	r := int64(a) + int64(b)
	return int32(r), r < math.MinInt32 || r > math.MaxInt32
}

func subOverflowI32(a, b int32) (int32, bool) {
	r := int64(a) - int64(b)
	return int32(r), r < math.MinInt32 || r > math.MaxInt32
}

func mulOverflowI32(a, b int32) (int32, bool) {
	r := int64(a) * int64(b)
	return int32(r), r < math.MinInt32 || r > math.MaxInt32
}

// addOverflowI64/subOverflowI64/mulOverflowI64 can't widen past int64,
// so they test the carry/sign condition directly.
func addOverflowI64(a, b int64) (int64, bool) {
	r := a + b
	return r, (b > 0 && r < a) || (b < 0 && r > a)
}

func subOverflowI64(a, b int64) (int64, bool) {
	if b == math.MinInt64 {
		return 0, true
	}
	return addOverflowI64(a, -b)
}

func mulOverflowI64(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, false
	}
	r := a * b
	return r, r/b != a
}
