package fixed

import "math"

const (
	// FracBits is the number of fractional bits of a Q15 value.
	FracBits = 15

	// One is the largest representable Q15 value (just below 1.0).
	One = math.MaxInt16

	// MinusOne is the smallest representable Q15 value (exactly -1.0).
	MinusOne = math.MinInt16

	// half is the rounding offset added before the product is rescaled.
	half = 1 << (FracBits - 1)

	// satBound is the clamp of AddSat. It is the 32-bit range, not the Q15
	// range: the sum is only protected against gross overflow.
	satBound = 0x7FFFFFFF
)

// Mul returns the rounded Q15 product x*y.
//
// The product is formed in 32 bits, so no intermediate overflow occurs. The
// single unrepresentable case, Mul(MinusOne, MinusOne), wraps to MinusOne.
func Mul(x, y int16) int16 {
	p := int32(x) * int32(y)
	p += half
	return int16(p >> FracBits)
}

// AddWrap returns x+y without overflow protection.
//
// It is meant for hot loops where the caller bounds the magnitudes; an
// overflowing sum wraps around in two's complement.
func AddWrap[T int16 | int32](x, y T) T {
	return x + y
}

// AddSat returns x+y clamped to [-0x7FFFFFFF, 0x7FFFFFFF].
//
// The bound is the 32-bit range, wider than Q15; use [Saturate] to bring an
// accumulator back into the int16 sample range.
func AddSat(x, y int32) int32 {
	s := int64(x) + int64(y)
	if s > satBound {
		s = satBound
	}
	if s < -satBound {
		s = -satBound
	}
	return int32(s)
}

// Saturate clamps a 32-bit accumulator to the int16 sample range.
func Saturate(x int32) int16 {
	if x > One {
		return One
	}
	if x < MinusOne {
		return MinusOne
	}
	return int16(x)
}
