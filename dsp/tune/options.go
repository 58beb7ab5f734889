package tune

import (
	"github.com/cwbudde/algo-pitch/dsp/core"
	"github.com/cwbudde/algo-pitch/dsp/note"
	"github.com/cwbudde/algo-pitch/dsp/pitch"
)

// Option configures a Tuner.
type Option func(*config)

type config struct {
	frameOpts []core.FrameOption
	policy    pitch.Policy
	target    float64
	scale     *note.Scale
	estimator pitch.Estimator
	corrector pitch.Corrector
}

func defaultConfig() config {
	return config{
		policy: pitch.PolicyRobust,
	}
}

// WithFrame applies frame options (sample rate, frame length, levels) on
// top of the defaults. Repeated calls accumulate.
func WithFrame(opts ...core.FrameOption) Option {
	return func(cfg *config) {
		cfg.frameOpts = append(cfg.frameOpts, opts...)
	}
}

// WithPolicy sets the smoothing policy applied to detected pitches.
func WithPolicy(policy pitch.Policy) Option {
	return func(cfg *config) {
		cfg.policy = policy
	}
}

// WithTarget corrects every voiced frame to a fixed pitch in Hz.
// It takes precedence over WithScale.
func WithTarget(hz float64) Option {
	return func(cfg *config) {
		cfg.target = hz
	}
}

// WithScale snaps detected pitches to the nearest key of the scale instead
// of the nearest key of the chromatic scale.
func WithScale(tonic note.PitchClass, mode note.Mode) Option {
	return func(cfg *config) {
		cfg.scale = &note.Scale{Tonic: tonic, Mode: mode}
	}
}

// WithEstimator replaces the FLWT detector. The estimator's frame length
// must match the configured frame length.
func WithEstimator(e pitch.Estimator) Option {
	return func(cfg *config) {
		cfg.estimator = e
	}
}

// WithCorrector replaces the PSOLA shifter.
func WithCorrector(c pitch.Corrector) Option {
	return func(cfg *config) {
		cfg.corrector = c
	}
}
