// Package fundamental estimates the fundamental frequency of a signal from
// the peak of its windowed power spectrum.
//
// It is a floating-point reference for checking the fixed-point pitch
// detector and the output of the pitch shifter, not a real-time tracker.
package fundamental

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-pitch/dsp/core"
	"github.com/cwbudde/algo-pitch/dsp/fixed"
	"github.com/cwbudde/algo-pitch/dsp/window"
	"github.com/cwbudde/algo-vecmath"
)

const (
	defaultFFTSize = 4096
	defaultMinFreq = 50.0
	defaultMaxFreq = 2000.0
)

// ErrInvalidConfig reports an unusable estimator configuration.
var ErrInvalidConfig = errors.New("fundamental: invalid config")

// Config holds the spectral estimator parameters. Zero values select the
// defaults: 4096-point FFT, search band 50 Hz to 2 kHz.
type Config struct {
	SampleRate int
	FFTSize    int
	MinFreq    float64
	MaxFreq    float64
}

// Result is a spectral peak.
type Result struct {
	// Frequency is the interpolated peak frequency in Hz, 0 if none was found.
	Frequency float64
	// Bin is the index of the strongest bin.
	Bin int
	// PowerDB is the peak bin power in dB relative to a full-scale sine.
	PowerDB float64
}

// Estimator holds an FFT plan and scratch buffers for repeated estimates.
type Estimator struct {
	cfg  Config
	plan *algofft.Plan[complex128]

	window    []float64
	windowLen int
	windowSum float64

	buf   []float64
	q15   []float64
	in    []complex128
	out   []complex128
	re    []float64
	im    []float64
	power []float64
}

// NewEstimator validates cfg and allocates the FFT plan.
func NewEstimator(cfg Config) (*Estimator, error) {
	if cfg.FFTSize == 0 {
		cfg.FFTSize = defaultFFTSize
	}
	if cfg.MinFreq == 0 {
		cfg.MinFreq = defaultMinFreq
	}
	if cfg.MaxFreq == 0 {
		cfg.MaxFreq = defaultMaxFreq
	}

	if cfg.SampleRate <= 0 {
		return nil, fmt.Errorf("%w: sample rate must be positive: %d", ErrInvalidConfig, cfg.SampleRate)
	}
	if cfg.FFTSize < 16 || cfg.FFTSize&(cfg.FFTSize-1) != 0 {
		return nil, fmt.Errorf("%w: FFT size must be a power of two >= 16: %d", ErrInvalidConfig, cfg.FFTSize)
	}
	if cfg.MinFreq <= 0 || cfg.MaxFreq <= cfg.MinFreq {
		return nil, fmt.Errorf("%w: search band [%g, %g] Hz", ErrInvalidConfig, cfg.MinFreq, cfg.MaxFreq)
	}

	plan, err := algofft.NewPlan64(cfg.FFTSize)
	if err != nil {
		return nil, fmt.Errorf("fundamental: fft plan: %w", err)
	}

	bins := cfg.FFTSize/2 + 1

	return &Estimator{
		cfg:    cfg,
		plan:   plan,
		window: make([]float64, cfg.FFTSize),
		buf:    make([]float64, cfg.FFTSize),
		in:     make([]complex128, cfg.FFTSize),
		out:    make([]complex128, cfg.FFTSize),
		re:     make([]float64, bins),
		im:     make([]float64, bins),
		power:  make([]float64, bins),
	}, nil
}

// Config returns the effective configuration.
func (e *Estimator) Config() Config { return e.cfg }

// Estimate returns the strongest spectral peak of signal inside the search
// band. At most FFTSize samples are used; shorter signals are zero-padded
// after windowing.
func (e *Estimator) Estimate(signal []float64) Result {
	n := min(len(signal), e.cfg.FFTSize)
	if n < 2 {
		return Result{}
	}

	e.ensureWindow(n)
	core.CopyInto(e.buf, signal[:n])
	vecmath.MulBlockInPlace(e.buf[:n], e.window[:n])

	for i, v := range e.buf {
		e.in[i] = complex(v, 0)
	}
	if err := e.plan.Forward(e.out, e.in); err != nil {
		return Result{}
	}

	for i := range e.power {
		e.re[i] = real(e.out[i])
		e.im[i] = imag(e.out[i])
	}
	vecmath.Power(e.power, e.re, e.im)

	return e.peak()
}

// EstimateQ15 converts a Q15 frame and estimates its fundamental.
func (e *Estimator) EstimateQ15(frame []int16) Result {
	n := min(len(frame), e.cfg.FFTSize)
	e.q15 = core.EnsureLen(e.q15, n)
	fixed.ToFloat(e.q15, frame[:n])
	return e.Estimate(e.q15)
}

func (e *Estimator) ensureWindow(n int) {
	if e.windowLen == n {
		return
	}
	e.windowSum = window.GenerateInto(e.window[:n], window.TypeHann)
	e.windowLen = n
}

func (e *Estimator) peak() Result {
	binHz := float64(e.cfg.SampleRate) / float64(e.cfg.FFTSize)
	maxBin := len(e.power) - 2
	lo := core.Clamp(int(math.Floor(e.cfg.MinFreq/binHz)), 1, maxBin)
	hi := core.Clamp(int(math.Ceil(e.cfg.MaxFreq/binHz)), lo, maxBin)

	best := lo
	for k := lo + 1; k <= hi; k++ {
		if e.power[k] > e.power[best] {
			best = k
		}
	}
	if e.power[best] == 0 {
		return Result{}
	}

	// Parabolic interpolation on the log spectrum.
	a := math.Log(e.power[best-1] + math.SmallestNonzeroFloat64)
	b := math.Log(e.power[best])
	c := math.Log(e.power[best+1] + math.SmallestNonzeroFloat64)
	delta := 0.0
	if den := a - 2*b + c; den < 0 {
		delta = core.Clamp(0.5*(a-c)/den, -0.5, 0.5)
	}

	// A full-scale sine peaks at (windowSum/2)^2.
	ref := e.windowSum / 2

	return Result{
		Frequency: (float64(best) + delta) * binHz,
		Bin:       best,
		PowerDB:   core.LinearPowerToDB(e.power[best] / (ref * ref)),
	}
}
