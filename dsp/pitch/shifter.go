package pitch

import (
	"math"

	"github.com/cwbudde/algo-pitch/dsp/fixed"
)

// DefaultShifterFrameLength is used when NewShifter receives a non-positive
// frame length.
const DefaultShifterFrameLength = 512

// Shifter re-times the pitch of Q15 frames with time-domain pitch-synchronous
// overlap-add (TD-PSOLA).
//
// Analysis blocks of one and a half estimated periods are taken every period,
// weighted with a Bartlett window and added back at a hop scaled by the ratio
// of input to desired pitch. Epochs are not located; blocks are placed at
// fixed shifts, so phase discontinuities between blocks are smoothed only by
// the window taper.
//
// The previous input frame is retained in the first half of a two-frame
// history buffer as history only; synthesis reads just the current frame in
// the second half. The accumulator spans two frame lengths so blocks that
// run past the frame end stay in bounds.
type Shifter struct {
	frameLength int

	acc     []int32
	history []int16
	window  []int16
}

// NewShifter constructs a shifter for frames of frameLength samples.
// A non-positive frameLength falls back to DefaultShifterFrameLength.
func NewShifter(frameLength int) *Shifter {
	if frameLength < 1 {
		frameLength = DefaultShifterFrameLength
	}

	return &Shifter{
		frameLength: frameLength,
		acc:         make([]int32, 2*frameLength),
		history:     make([]int16, 2*frameLength),
		// The overlap-add loop runs only for periods shorter than the frame,
		// so the longest window it asks for is below 1.5 frame lengths.
		window: make([]int16, 2*frameLength),
	}
}

// FrameLength returns the frame length in samples.
func (s *Shifter) FrameLength() int { return s.frameLength }

// Reset clears the history and the synthesis accumulator.
func (s *Shifter) Reset() {
	clear(s.acc)
	clear(s.history)
}

// PitchCorrect shifts the pitch of frame from inputPitch to desiredPitch (Hz)
// in place.
//
// Both pitches must be positive and finite and sampleRate positive; otherwise
// frame is left untouched (see [ValidatePitchPair]). At most FrameLength
// samples are processed; a shorter frame is zero-padded internally. If one
// period of inputPitch does not fit into the frame no block is synthesised
// and the frame is silenced.
func (s *Shifter) PitchCorrect(frame []int16, sampleRate int, inputPitch, desiredPitch float64) {
	if ValidatePitchPair(sampleRate, inputPitch, desiredPitch) != nil {
		return
	}

	// The previous frame moves to history[:n] and is not read below.
	n := s.frameLength
	cur := s.history[n:]
	copy(s.history[:n], cur)
	m := copy(cur, frame)
	clear(cur[m:])

	scale := 1 + (inputPitch-desiredPitch)/desiredPitch
	period := math.Ceil(float64(sampleRate) / inputPitch)

	if period < float64(n) {
		shift := int(period)
		halfShift := shift / 2
		synth := math.Round(period * scale)
		// Any hop at least as long as the accumulator lands one block only.
		synthShift := int(min(synth, float64(len(s.acc))))

		Bartlett(s.window, shift+halfShift+1)
		s.overlapAdd(cur, shift, halfShift, synthShift)
	}

	out := min(len(frame), n)
	for i := range out {
		frame[i] = fixed.Saturate(s.acc[i])
	}
	clear(s.acc)
}

// overlapAdd accumulates windowed analysis blocks of src into the
// synthesis accumulator.
func (s *Shifter) overlapAdd(src []int16, shift, halfShift, synthShift int) {
	n := len(src)
	span := shift + halfShift
	limit := n - shift - 1

	for ai, si := -1, 0; ai < limit; ai, si = ai+shift, si+synthShift {
		start := max(ai+1-halfShift, 0)
		end := min(start+span, n-1)

		count := min(end-start+1, len(s.acc)-si)
		for k := range count {
			p := fixed.Mul(src[start+k], s.window[k])
			s.acc[si+k] = fixed.AddWrap(s.acc[si+k], int32(p))
		}
	}
}
