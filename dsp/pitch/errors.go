package pitch

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidConfiguration reports a detector or shifter configuration that
	// violates the frame length / level preconditions.
	ErrInvalidConfiguration = errors.New("pitch: invalid configuration")

	// ErrInvalidPitch reports a non-positive or non-finite pitch or sample rate.
	ErrInvalidPitch = errors.New("pitch: invalid pitch")
)

// ValidateDetectorConfig reports whether levels and frameLength satisfy the
// detector preconditions: levels in [0, MaxLevels], frameLength in
// [4, MaxFrameLength], frameLength divisible by 2^(levels-1), and the deepest
// level still starting from at least 4 samples.
//
// NewDetector does not call it; out-of-range values are clamped there and a
// divisibility violation only degrades the deepest levels.
func ValidateDetectorConfig(levels, frameLength int) error {
	if levels < 0 || levels > MaxLevels {
		return fmt.Errorf("%w: levels must be in [0, %d]: %d", ErrInvalidConfiguration, MaxLevels, levels)
	}
	if frameLength < minFrameLength || frameLength > MaxFrameLength {
		return fmt.Errorf("%w: frame length must be in [%d, %d]: %d",
			ErrInvalidConfiguration, minFrameLength, MaxFrameLength, frameLength)
	}
	if levels == 0 {
		return nil
	}
	step := 1 << (levels - 1)
	if frameLength%step != 0 {
		return fmt.Errorf("%w: frame length %d not divisible by 2^(levels-1) = %d",
			ErrInvalidConfiguration, frameLength, step)
	}
	if frameLength/step < minFrameLength {
		return fmt.Errorf("%w: frame length %d too short for %d levels",
			ErrInvalidConfiguration, frameLength, levels)
	}
	return nil
}

// ValidatePitchPair reports whether PitchCorrect can run with the given
// arguments.
func ValidatePitchPair(sampleRate int, inputPitch, desiredPitch float64) error {
	if sampleRate <= 0 {
		return fmt.Errorf("%w: sample rate must be positive: %d", ErrInvalidPitch, sampleRate)
	}
	if !isFinitePositive(inputPitch) {
		return fmt.Errorf("%w: input pitch must be positive and finite: %f", ErrInvalidPitch, inputPitch)
	}
	if !isFinitePositive(desiredPitch) {
		return fmt.Errorf("%w: desired pitch must be positive and finite: %f", ErrInvalidPitch, desiredPitch)
	}
	return nil
}

func isFinitePositive(v float64) bool {
	return v > 0 && !math.IsNaN(v) && !math.IsInf(v, 0)
}
