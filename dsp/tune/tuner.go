// Package tune snaps the pitch of a Q15 stream to musical notes by chaining
// the pitch detector, a note target and the pitch shifter frame by frame.
package tune

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-pitch/dsp/core"
	"github.com/cwbudde/algo-pitch/dsp/note"
	"github.com/cwbudde/algo-pitch/dsp/pitch"
)

// Report describes what Process did with one frame.
type Report struct {
	// Detected is the smoothed pitch estimate in Hz, 0 for a pitchless frame.
	Detected float64
	// Target is the pitch the frame was corrected to, 0 if uncorrected.
	Target float64
	// Key is the piano key nearest to Target, 0 if uncorrected.
	Key note.Key
	// Corrected reports whether the frame was rewritten.
	Corrected bool
}

// Cents returns the correction applied in cents, 0 if uncorrected.
func (r Report) Cents() float64 {
	if !r.Corrected || r.Detected <= 0 || r.Target <= 0 {
		return 0
	}
	return 1200 * math.Log2(r.Target/r.Detected)
}

// Tuner is an in-place pitch corrector for a mono Q15 stream. It is not
// safe for concurrent use.
type Tuner struct {
	cfg       config
	frame     core.FrameConfig
	estimator pitch.Estimator
	corrector pitch.Corrector

	// pad holds a zero-padded copy of a short frame.
	pad []int16
}

// New constructs a Tuner. Without options it uses 1024-sample frames at
// 16 kHz, six detector levels, the robust policy and chromatic snapping.
func New(opts ...Option) (*Tuner, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	frame := core.ApplyFrameOptions(cfg.frameOpts...)

	if frame.SampleRate <= 0 {
		return nil, fmt.Errorf("tune: %w: sample rate must be positive: %d",
			pitch.ErrInvalidConfiguration, frame.SampleRate)
	}
	if cfg.policy < pitch.PolicyNone || cfg.policy > pitch.PolicyRobust {
		return nil, fmt.Errorf("tune: %w: unknown policy %v", pitch.ErrInvalidConfiguration, cfg.policy)
	}
	if cfg.target != 0 && (math.IsNaN(cfg.target) || math.IsInf(cfg.target, 0) || cfg.target < 0) {
		return nil, fmt.Errorf("tune: %w: target must be positive and finite: %f", pitch.ErrInvalidPitch, cfg.target)
	}

	t := &Tuner{
		cfg:       cfg,
		frame:     frame,
		estimator: cfg.estimator,
		corrector: cfg.corrector,
		pad:       make([]int16, frame.FrameLength),
	}

	if t.estimator == nil {
		if err := pitch.ValidateDetectorConfig(frame.Levels, frame.FrameLength); err != nil {
			return nil, fmt.Errorf("tune: %w", err)
		}
		t.estimator = pitch.NewDetector(frame.Levels, frame.FrameLength)
	}
	if t.corrector == nil {
		t.corrector = pitch.NewShifter(frame.FrameLength)
	}

	if t.estimator.FrameLength() != frame.FrameLength || t.corrector.FrameLength() != frame.FrameLength {
		return nil, fmt.Errorf("tune: %w: frame length mismatch: estimator %d, corrector %d, config %d",
			pitch.ErrInvalidConfiguration, t.estimator.FrameLength(), t.corrector.FrameLength(), frame.FrameLength)
	}

	return t, nil
}

// Frame returns the frame configuration.
func (t *Tuner) Frame() core.FrameConfig { return t.frame }

// Policy returns the smoothing policy.
func (t *Tuner) Policy() pitch.Policy { return t.cfg.policy }

// Reset clears the detector and shifter history.
func (t *Tuner) Reset() {
	t.estimator.Reset()
	t.corrector.Reset()
}

// Target returns the pitch a frame detected at freq is corrected to, or 0
// for a pitchless frame.
func (t *Tuner) Target(freq float64) float64 {
	if freq <= 0 {
		return 0
	}
	if t.cfg.target > 0 {
		return t.cfg.target
	}
	if t.cfg.scale != nil {
		return t.cfg.scale.Closest(freq).Frequency()
	}
	return note.Closest(freq).Frequency()
}

// Process estimates the pitch of frame and rewrites it in place at the
// target pitch. Pitchless frames are left untouched. A frame shorter than
// the frame length is zero-padded for both detection and correction, and
// only its own samples are written back.
func (t *Tuner) Process(frame []int16) Report {
	fs := t.frame.SampleRate

	buf := frame
	if len(frame) < t.frame.FrameLength {
		core.CopyInto(t.pad, frame)
		buf = t.pad
	}

	detected := t.estimator.EstimateSmoothed(buf, fs, t.cfg.policy)
	target := t.Target(detected)
	if target <= 0 {
		return Report{Detected: detected}
	}

	t.corrector.PitchCorrect(buf, fs, detected, target)
	if len(frame) < len(buf) {
		copy(frame, buf)
	}

	return Report{
		Detected:  detected,
		Target:    target,
		Key:       note.Closest(target),
		Corrected: true,
	}
}

// ProcessSignal processes signal in place frame by frame and returns one
// report per frame. A trailing partial frame is zero-padded as in Process.
func (t *Tuner) ProcessSignal(signal []int16) []Report {
	n := t.frame.FrameLength
	reports := make([]Report, 0, (len(signal)+n-1)/n)
	for start := 0; start < len(signal); start += n {
		reports = append(reports, t.Process(signal[start:min(start+n, len(signal))]))
	}
	return reports
}
