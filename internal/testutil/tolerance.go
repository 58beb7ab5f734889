package testutil

import (
	"math"
	"testing"
)

// RequireNearlyEqual fails t if got and want differ by more than eps.
func RequireNearlyEqual(t *testing.T, name string, got, want, eps float64) {
	t.Helper()
	if math.Abs(got-want) > eps {
		t.Fatalf("%s = %v, want %v (diff %v > eps %v)", name, got, want, math.Abs(got-want), eps)
	}
}

// RequireFinite fails t if any element is NaN or Inf.
func RequireFinite(t *testing.T, data []float64) {
	t.Helper()
	for i, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("index %d: non-finite value %v", i, v)
		}
	}
}

// Energy returns the sum of squares of a Q15 signal in sample units.
func Energy(x []int16) float64 {
	e := 0.0
	for _, v := range x {
		f := float64(v)
		e += f * f
	}
	return e
}

// NormalizedAutocorrelation returns the normalized autocorrelation of x at
// lag, or -1 if the overlap is empty or silent.
func NormalizedAutocorrelation(x []int16, lag int) float64 {
	n := len(x) - lag
	if n <= 0 {
		return -1
	}

	dot, e0, e1 := 0.0, 0.0, 0.0
	for i := range n {
		a := float64(x[i])
		b := float64(x[i+lag])
		dot += a * b
		e0 += a * a
		e1 += b * b
	}
	if e0 == 0 || e1 == 0 {
		return -1
	}
	return dot / math.Sqrt(e0*e1)
}
