package pitch

// Estimator is the shared API of frame-based pitch trackers.
type Estimator interface {
	FrameLength() int
	Estimate(frame []int16, sampleRate int) float64
	EstimateSmoothed(frame []int16, sampleRate int, policy Policy) float64
	Reset()
}

// Corrector is the shared API of in-place pitch correctors.
type Corrector interface {
	FrameLength() int
	PitchCorrect(frame []int16, sampleRate int, inputPitch, desiredPitch float64)
	Reset()
}

var (
	_ Estimator = (*Detector)(nil)
	_ Corrector = (*Shifter)(nil)
)
