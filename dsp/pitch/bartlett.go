package pitch

import (
	"math"

	"github.com/cwbudde/algo-pitch/dsp/fixed"
)

// Bartlett writes a triangular window of the given length into dst in Q15.
//
// The ramp is built by repeated addition of a precomputed slope instead of a
// division per sample and saturates at fixed.One. The centre sample (both
// centre samples for even lengths) is forced to fixed.One so rounding drift
// never lowers the peak. The result is symmetric. length is clipped to
// len(dst); a non-positive length leaves dst untouched.
func Bartlett(dst []int16, length int) {
	length = min(length, len(dst))
	if length < 1 {
		return
	}
	if length == 1 {
		dst[0] = fixed.One
		return
	}

	last := length - 1
	mid := last >> 1
	slope := int32(math.Round(float64(int32(1)<<(fixed.FracBits-1)) / float64(last) * 4))

	dst[0] = 0
	ramp := int32(0)
	for i := 1; i <= mid; i++ {
		ramp += slope
		dst[i] = int16(min(ramp, fixed.One))
	}
	dst[mid] = fixed.One

	// For even lengths the first mirrored sample copies the centre, giving
	// the two-sample plateau.
	for i := mid + 1; i <= last; i++ {
		dst[i] = dst[last-i]
	}
}
