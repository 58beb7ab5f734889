package tune

import (
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/cwbudde/algo-pitch/dsp/core"
	"github.com/cwbudde/algo-pitch/dsp/note"
	"github.com/cwbudde/algo-pitch/dsp/pitch"
	"github.com/cwbudde/algo-pitch/internal/testutil"
	"github.com/cwbudde/algo-pitch/measure/fundamental"
)

type fixedEstimator struct {
	freq    float64
	length  int
	calls   int
	policy  pitch.Policy
	lengths []int
	last    []int16
}

func (f *fixedEstimator) FrameLength() int { return f.length }
func (f *fixedEstimator) Reset()           { f.calls = 0 }

func (f *fixedEstimator) Estimate([]int16, int) float64 {
	f.calls++
	return f.freq
}

func (f *fixedEstimator) EstimateSmoothed(frame []int16, _ int, p pitch.Policy) float64 {
	f.calls++
	f.policy = p
	f.lengths = append(f.lengths, len(frame))
	f.last = slices.Clone(frame)
	return f.freq
}

type recordingCorrector struct {
	length      int
	in, desired []float64
	lengths     []int
	// fill, if non-zero, overwrites every sample of the corrected frame.
	fill int16
}

func (r *recordingCorrector) FrameLength() int { return r.length }
func (r *recordingCorrector) Reset()           { r.in, r.desired, r.lengths = nil, nil, nil }
func (r *recordingCorrector) PitchCorrect(frame []int16, _ int, in, desired float64) {
	r.in = append(r.in, in)
	r.desired = append(r.desired, desired)
	r.lengths = append(r.lengths, len(frame))
	if r.fill != 0 {
		for i := range frame {
			frame[i] = r.fill
		}
	}
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name    string
		opts    []Option
		wantErr error
	}{
		{name: "defaults"},
		{name: "custom frame", opts: []Option{WithFrame(core.WithSampleRate(8000), core.WithFrameLength(512), core.WithLevels(4))}},
		{name: "indivisible frame", opts: []Option{WithFrame(core.WithFrameLength(1000))}, wantErr: pitch.ErrInvalidConfiguration},
		{name: "frame too long", opts: []Option{WithFrame(core.WithFrameLength(4096))}, wantErr: pitch.ErrInvalidConfiguration},
		{name: "unknown policy", opts: []Option{WithPolicy(pitch.Policy(99))}, wantErr: pitch.ErrInvalidConfiguration},
		{name: "negative target", opts: []Option{WithTarget(-440)}, wantErr: pitch.ErrInvalidPitch},
		{name: "NaN target", opts: []Option{WithTarget(math.NaN())}, wantErr: pitch.ErrInvalidPitch},
		{
			name:    "estimator length mismatch",
			opts:    []Option{WithEstimator(&fixedEstimator{length: 256})},
			wantErr: pitch.ErrInvalidConfiguration,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tu, err := New(tt.opts...)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("New() error = %v", err)
				}
				if tu == nil {
					t.Fatal("New() returned nil")
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("New() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestDefaults(t *testing.T) {
	tu, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if tu.Frame() != core.DefaultFrameConfig() {
		t.Fatalf("Frame() = %+v", tu.Frame())
	}
	if tu.Policy() != pitch.PolicyRobust {
		t.Fatalf("Policy() = %v, want robust", tu.Policy())
	}
}

func TestWithFrameAccumulates(t *testing.T) {
	tu, err := New(
		WithFrame(core.WithSampleRate(8000)),
		WithFrame(core.WithFrameLength(512), core.WithLevels(4)),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	want := core.FrameConfig{SampleRate: 8000, FrameLength: 512, Levels: 4}
	if tu.Frame() != want {
		t.Fatalf("Frame() = %+v, want %+v", tu.Frame(), want)
	}
}

func TestTarget(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
		freq float64
		want float64
	}{
		{name: "chromatic", freq: 250, want: note.Key(39).Frequency()},
		{name: "F major snaps up", opts: []Option{WithScale(note.F, note.Major)}, freq: 250, want: note.Key(40).Frequency()},
		{name: "C major keeps B", opts: []Option{WithScale(note.C, note.Major)}, freq: 250, want: note.Key(39).Frequency()},
		{name: "fixed target", opts: []Option{WithTarget(200), WithScale(note.F, note.Major)}, freq: 250, want: 200},
		{name: "pitchless", freq: 0, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tu, err := New(tt.opts...)
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if got := tu.Target(tt.freq); math.Abs(got-tt.want) > 1e-9 {
				t.Fatalf("Target(%v) = %v, want %v", tt.freq, got, tt.want)
			}
		})
	}
}

func TestProcessWiresEstimatorAndCorrector(t *testing.T) {
	est := &fixedEstimator{freq: 300, length: 1024}
	corr := &recordingCorrector{length: 1024}

	tu, err := New(WithEstimator(est), WithCorrector(corr), WithPolicy(pitch.PolicyMedian), WithTarget(330))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	rep := tu.Process(make([]int16, 1024))
	if !rep.Corrected || rep.Detected != 300 || rep.Target != 330 {
		t.Fatalf("Process() = %+v", rep)
	}
	if rep.Key != note.Closest(330) {
		t.Fatalf("Key = %v, want %v", rep.Key, note.Closest(330))
	}
	if est.policy != pitch.PolicyMedian {
		t.Fatalf("estimator saw policy %v, want median", est.policy)
	}
	if !slices.Equal(corr.in, []float64{300}) || !slices.Equal(corr.desired, []float64{330}) {
		t.Fatalf("corrector calls in=%v desired=%v", corr.in, corr.desired)
	}

	want := 1200 * math.Log2(330.0/300.0)
	if math.Abs(rep.Cents()-want) > 1e-9 {
		t.Fatalf("Cents() = %v, want %v", rep.Cents(), want)
	}
}

func TestProcessSkipsPitchlessFrames(t *testing.T) {
	corr := &recordingCorrector{length: 1024}
	tu, err := New(WithEstimator(&fixedEstimator{length: 1024}), WithCorrector(corr))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	frame := testutil.NoiseQ15(1, 1000, 1024)
	want := slices.Clone(frame)

	rep := tu.Process(frame)
	if rep.Corrected || rep.Cents() != 0 {
		t.Fatalf("Process() = %+v, want uncorrected", rep)
	}
	if len(corr.in) != 0 {
		t.Fatal("corrector called for a pitchless frame")
	}
	if !slices.Equal(frame, want) {
		t.Fatal("pitchless frame modified")
	}
}

func TestProcessSignalFrames(t *testing.T) {
	est := &fixedEstimator{freq: 220, length: 256}
	corr := &recordingCorrector{length: 256}
	tu, err := New(
		WithFrame(core.WithFrameLength(256), core.WithLevels(4)),
		WithEstimator(est),
		WithCorrector(corr),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	reports := tu.ProcessSignal(make([]int16, 700))
	if len(reports) != 3 {
		t.Fatalf("len(reports) = %d, want 3", len(reports))
	}
	if est.calls != 3 {
		t.Fatalf("estimator calls = %d, want 3", est.calls)
	}

	// The trailing 188 samples reach both stages as a padded full frame.
	if !slices.Equal(est.lengths, []int{256, 256, 256}) {
		t.Fatalf("estimator frame lengths = %v, want all 256", est.lengths)
	}
	if !slices.Equal(corr.lengths, []int{256, 256, 256}) {
		t.Fatalf("corrector frame lengths = %v, want all 256", corr.lengths)
	}

	tu.Reset()
	if est.calls != 0 || corr.in != nil {
		t.Fatal("Reset not forwarded")
	}
}

func TestProcessPadsShortFrame(t *testing.T) {
	est := &fixedEstimator{freq: 220, length: 256}
	corr := &recordingCorrector{length: 256, fill: 5}
	tu, err := New(
		WithFrame(core.WithFrameLength(256), core.WithLevels(4)),
		WithEstimator(est),
		WithCorrector(corr),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	signal := make([]int16, 110)
	signal[100] = 9
	rep := tu.Process(signal[:100])
	if !rep.Corrected {
		t.Fatalf("Process() = %+v, want corrected", rep)
	}
	if est.lengths[0] != 256 || corr.lengths[0] != 256 {
		t.Fatalf("stages saw %d and %d samples, want 256", est.lengths[0], corr.lengths[0])
	}
	for i, v := range signal[:100] {
		if v != 5 {
			t.Fatalf("signal[%d] = %d, want corrected sample 5", i, v)
		}
	}
	if signal[100] != 9 {
		t.Fatalf("sample past the frame overwritten: %d", signal[100])
	}

	// Corrected samples of the previous short frame do not leak into the
	// padding of the next one.
	tu.Process([]int16{1, 2, 3})
	if !slices.Equal(est.last[:3], []int16{1, 2, 3}) {
		t.Fatalf("estimator saw head %v, want [1 2 3]", est.last[:3])
	}
	for i, v := range est.last[3:] {
		if v != 0 {
			t.Fatalf("padding[%d] = %d, want 0", i+3, v)
		}
	}
}

func TestProcessShortFrameAnalysedPadded(t *testing.T) {
	const fs = 8000

	tu, err := New(WithFrame(core.WithSampleRate(fs)), WithPolicy(pitch.PolicyNone))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	// 700 samples of 250 Hz analysed padded to 1024 match the detector
	// run on the same padded frame.
	sine := testutil.SineQ15(250, fs, 16000, 700)
	padded := make([]int16, 1024)
	copy(padded, sine)
	want := pitch.NewDetector(core.DefaultLevels, core.DefaultFrameLength).Estimate(padded, fs)

	rep := tu.Process(sine)
	if rep.Detected != want {
		t.Fatalf("Detected = %v, want %v", rep.Detected, want)
	}
}

func TestTunerLowersPitch(t *testing.T) {
	const fs = 16000

	tu, err := New(
		WithFrame(core.WithSampleRate(fs)),
		WithPolicy(pitch.PolicyNone),
		WithTarget(200),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	frame := testutil.SineQ15(250, fs, 16000, 1024)
	rep := tu.Process(frame)
	if rep.Detected != 250 || !rep.Corrected {
		t.Fatalf("Process() = %+v, want 250 Hz detected and corrected", rep)
	}

	est, err := fundamental.NewEstimator(fundamental.Config{SampleRate: fs})
	if err != nil {
		t.Fatalf("NewEstimator() error = %v", err)
	}
	// Skip the first block, which is not phase aligned with the rest.
	got := est.EstimateQ15(frame[128:896]).Frequency
	testutil.RequireFinite(t, []float64{rep.Detected, rep.Target, rep.Cents(), got})
	testutil.RequireNearlyEqual(t, "output pitch", got, 200, 20)
}
