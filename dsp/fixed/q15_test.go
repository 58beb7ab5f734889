package fixed

import (
	"math"
	"testing"
)

func TestMul(t *testing.T) {
	tests := []struct {
		name string
		x, y int16
		want int16
	}{
		{name: "zero", x: 0, y: 12345, want: 0},
		{name: "half times half", x: 16384, y: 16384, want: 8192},
		{name: "one times value", x: One, y: 1000, want: 1000},
		{name: "negative half", x: -16384, y: 16384, want: -8192},
		{name: "both negative", x: -16384, y: -16384, want: 8192},
		{name: "rounds up", x: 3, y: 16384, want: 2},
		{name: "rounds down", x: 1, y: 16383, want: 0},
		{name: "minus one wraps", x: MinusOne, y: MinusOne, want: MinusOne},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Mul(tt.x, tt.y); got != tt.want {
				t.Fatalf("Mul(%d, %d) = %d, want %d", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestMulMatchesFloatProduct(t *testing.T) {
	for x := -32768; x <= 32767; x += 997 {
		for y := -32768; y <= 32767; y += 1009 {
			got := Mul(int16(x), int16(y))
			want := math.Round(float64(x) * float64(y) / 32768)
			if x == -32768 && y == -32768 {
				continue
			}
			if math.Abs(float64(got)-want) > 1 {
				t.Fatalf("Mul(%d, %d) = %d, want %.0f", x, y, got, want)
			}
		}
	}
}

func TestAddWrap(t *testing.T) {
	if got := AddWrap[int16](1000, 2000); got != 3000 {
		t.Fatalf("AddWrap = %d, want 3000", got)
	}
	if got := AddWrap[int16](One, 1); got != MinusOne {
		t.Fatalf("AddWrap(One, 1) = %d, want wrap to %d", got, MinusOne)
	}
	if got := AddWrap[int32](math.MaxInt32, 1); got != math.MinInt32 {
		t.Fatalf("AddWrap[int32] overflow = %d, want %d", got, int32(math.MinInt32))
	}
}

func TestAddSat(t *testing.T) {
	tests := []struct {
		name string
		x, y int32
		want int32
	}{
		{name: "in range", x: 40000, y: -100, want: 39900},
		{name: "q15 overflow passes", x: One, y: One, want: 2 * One},
		{name: "positive clamp", x: math.MaxInt32, y: 10, want: 0x7FFFFFFF},
		{name: "negative clamp", x: math.MinInt32, y: -10, want: -0x7FFFFFFF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AddSat(tt.x, tt.y); got != tt.want {
				t.Fatalf("AddSat(%d, %d) = %d, want %d", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestSaturate(t *testing.T) {
	if got := Saturate(70000); got != One {
		t.Fatalf("Saturate(70000) = %d, want %d", got, One)
	}
	if got := Saturate(-70000); got != MinusOne {
		t.Fatalf("Saturate(-70000) = %d, want %d", got, MinusOne)
	}
	if got := Saturate(-123); got != -123 {
		t.Fatalf("Saturate(-123) = %d", got)
	}
}

func TestFloatConversion(t *testing.T) {
	src := []float64{0, 0.5, -0.5, 1.5, -2, math.NaN()}
	q := make([]int16, len(src))
	if n := FromFloat(q, src); n != len(src) {
		t.Fatalf("FromFloat converted %d, want %d", n, len(src))
	}

	want := []int16{0, 16384, -16384, One, MinusOne, 0}
	for i := range want {
		if q[i] != want[i] {
			t.Fatalf("q[%d] = %d, want %d", i, q[i], want[i])
		}
	}

	back := make([]float64, 3)
	if n := ToFloat(back, q); n != 3 {
		t.Fatalf("ToFloat converted %d, want 3", n)
	}
	if back[1] != 0.5 || back[2] != -0.5 {
		t.Fatalf("ToFloat = %v", back)
	}
}
