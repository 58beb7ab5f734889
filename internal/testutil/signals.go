package testutil

import (
	"math"
	"math/rand"

	"github.com/cwbudde/algo-pitch/dsp/fixed"
)

// DeterministicSine generates a deterministic sine wave.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// SineQ15 generates a sine wave in Q15 with the given peak amplitude in
// sample units, starting at phase zero. Samples are rounded to nearest.
func SineQ15(freqHz float64, sampleRate int, amplitude int16, length int) []int16 {
	out := make([]int16, length)
	fixed.FromFloat(out, DeterministicSine(freqHz, float64(sampleRate), float64(amplitude)/32768, length))
	return out
}

// NoiseQ15 generates uniform white noise in Q15 with a fixed seed.
func NoiseQ15(seed int64, amplitude int16, length int) []int16 {
	out := make([]int16, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = int16(math.Round((rng.Float64()*2 - 1) * float64(amplitude)))
	}
	return out
}

// Frames splits signal into consecutive frames of frameLength samples,
// dropping a trailing partial frame. Frames share the signal's storage.
func Frames(signal []int16, frameLength int) [][]int16 {
	if frameLength <= 0 {
		return nil
	}
	out := make([][]int16, 0, len(signal)/frameLength)
	for start := 0; start+frameLength <= len(signal); start += frameLength {
		out = append(out, signal[start:start+frameLength])
	}
	return out
}
