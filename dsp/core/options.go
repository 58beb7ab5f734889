package core

// Frame defaults shared by the pitch detector, the shifter and the tools
// built on them.
const (
	DefaultSampleRate  = 16000
	DefaultFrameLength = 1024
	DefaultLevels      = 6
)

// FrameConfig defines the framing of a Q15 stream.
type FrameConfig struct {
	SampleRate  int
	FrameLength int
	// Levels is the wavelet decomposition depth used for pitch detection.
	Levels int
}

// FrameOption mutates a FrameConfig.
type FrameOption func(*FrameConfig)

// DefaultFrameConfig returns the defaults used for speech and solo voice.
func DefaultFrameConfig() FrameConfig {
	return FrameConfig{
		SampleRate:  DefaultSampleRate,
		FrameLength: DefaultFrameLength,
		Levels:      DefaultLevels,
	}
}

// WithSampleRate sets the stream sample rate in Hz.
func WithSampleRate(sampleRate int) FrameOption {
	return func(cfg *FrameConfig) {
		if sampleRate > 0 {
			cfg.SampleRate = sampleRate
		}
	}
}

// WithFrameLength sets the frame length in samples.
func WithFrameLength(frameLength int) FrameOption {
	return func(cfg *FrameConfig) {
		if frameLength > 0 {
			cfg.FrameLength = frameLength
		}
	}
}

// WithLevels sets the decomposition depth. Zero is allowed and disables
// detection.
func WithLevels(levels int) FrameOption {
	return func(cfg *FrameConfig) {
		if levels >= 0 {
			cfg.Levels = levels
		}
	}
}

// ApplyFrameOptions applies zero or more options to the default config.
func ApplyFrameOptions(opts ...FrameOption) FrameConfig {
	cfg := DefaultFrameConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// FrameDuration returns the frame length in seconds, or 0 for an unset
// sample rate.
func (c FrameConfig) FrameDuration() float64 {
	if c.SampleRate <= 0 {
		return 0
	}
	return float64(c.FrameLength) / float64(c.SampleRate)
}
