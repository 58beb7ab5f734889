// Package wavio reads and writes mono Q15 WAV files.
package wavio

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/cwbudde/algo-pitch/dsp/core"
)

const (
	bitDepth      = 16
	pcmFormat     = 1
	unsigned8Bias = 128
)

// ErrInvalidFile reports a file that is not a readable PCM WAV.
var ErrInvalidFile = errors.New("wavio: invalid WAV file")

// Clip is a mono Q15 recording.
type Clip struct {
	SampleRate int
	Samples    []int16
}

// Duration returns the clip length in seconds.
func (c Clip) Duration() float64 {
	return core.FrameConfig{SampleRate: c.SampleRate, FrameLength: len(c.Samples)}.FrameDuration()
}

// ReadFile decodes a PCM WAV file into a mono Q15 clip. Multi-channel input
// is averaged to mono; 8, 24 and 32-bit input is rescaled to 16 bits.
func ReadFile(path string) (Clip, error) {
	f, err := os.Open(path)
	if err != nil {
		return Clip{}, fmt.Errorf("wavio: open %s: %w", path, err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return Clip{}, fmt.Errorf("%w: %s", ErrInvalidFile, path)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return Clip{}, fmt.Errorf("wavio: decode %s: %w", path, err)
	}

	channels := int(dec.NumChans)
	if channels < 1 {
		return Clip{}, fmt.Errorf("%w: %s: no channels", ErrInvalidFile, path)
	}

	samples, err := downmix(buf.Data, channels, int(dec.BitDepth))
	if err != nil {
		return Clip{}, fmt.Errorf("wavio: %s: %w", path, err)
	}

	return Clip{SampleRate: int(dec.SampleRate), Samples: samples}, nil
}

// WriteFile encodes clip as a mono 16-bit PCM WAV file.
func WriteFile(path string, clip Clip) error {
	if clip.SampleRate <= 0 {
		return fmt.Errorf("wavio: write %s: sample rate must be positive: %d", path, clip.SampleRate)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("wavio: create %s: %w", path, err)
	}

	enc := wav.NewEncoder(f, clip.SampleRate, bitDepth, 1, pcmFormat)

	data := make([]int, len(clip.Samples))
	for i, s := range clip.Samples {
		data[i] = int(s)
	}
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: clip.SampleRate},
		Data:           data,
		SourceBitDepth: bitDepth,
	}

	if err := enc.Write(buf); err != nil {
		f.Close()
		return fmt.Errorf("wavio: encode %s: %w", path, err)
	}
	if err := enc.Close(); err != nil {
		f.Close()
		return fmt.Errorf("wavio: finalize %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("wavio: close %s: %w", path, err)
	}
	return nil
}

// downmix averages interleaved frames to mono Q15.
func downmix(data []int, channels, depth int) ([]int16, error) {
	toQ15, err := rescaler(depth)
	if err != nil {
		return nil, err
	}

	out := make([]int16, len(data)/channels)
	for i := range out {
		sum := 0
		for c := range channels {
			sum += toQ15(data[i*channels+c])
		}
		out[i] = int16(core.Clamp(sum/channels, -32768, 32767))
	}
	return out, nil
}

func rescaler(depth int) (func(int) int, error) {
	switch depth {
	case 8:
		return func(v int) int { return (v - unsigned8Bias) << 8 }, nil
	case 16:
		return func(v int) int { return v }, nil
	case 24:
		return func(v int) int { return v >> 8 }, nil
	case 32:
		return func(v int) int { return v >> 16 }, nil
	default:
		return nil, fmt.Errorf("%w: unsupported bit depth %d", ErrInvalidFile, depth)
	}
}
