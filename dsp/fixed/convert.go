package fixed

import "math"

const q15Scale = 1 << FracBits

// FromFloat converts float samples in [-1, 1) to Q15, rounding to nearest and
// saturating out-of-range input. Only min(len(dst), len(src)) samples are
// converted. NaN converts to 0.
func FromFloat(dst []int16, src []float64) int {
	n := min(len(dst), len(src))
	for i := range n {
		dst[i] = FloatToQ15(src[i])
	}
	return n
}

// ToFloat converts Q15 samples to floats in [-1, 1). Only
// min(len(dst), len(src)) samples are converted.
func ToFloat(dst []float64, src []int16) int {
	n := min(len(dst), len(src))
	for i := range n {
		dst[i] = float64(src[i]) / q15Scale
	}
	return n
}

// FloatToQ15 converts a single float sample to Q15 with saturation.
func FloatToQ15(v float64) int16 {
	if math.IsNaN(v) {
		return 0
	}
	s := math.Round(v * q15Scale)
	if s > One {
		return One
	}
	if s < MinusOne {
		return MinusOne
	}
	return int16(s)
}
