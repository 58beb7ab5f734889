// Command pitchtrack tracks the pitch of a mono WAV file frame by frame and
// optionally writes a pitch-corrected copy.
//
// Usage:
//
//	pitchtrack [flags] input.wav
//
// Without -out the input is analysed only. Corrected frames are snapped to
// the nearest piano key, the nearest key of a scale (-key, -scale) or a
// fixed pitch (-target).
//
// Examples:
//
//	pitchtrack voice.wav
//	pitchtrack -policy octave -verify voice.wav
//	pitchtrack -key F -scale major -out tuned.wav voice.wav
//	pitchtrack -target 220 -frame 512 -levels 5 -out flat.wav voice.wav
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/cwbudde/algo-pitch/dsp/core"
	"github.com/cwbudde/algo-pitch/dsp/note"
	"github.com/cwbudde/algo-pitch/dsp/pitch"
	"github.com/cwbudde/algo-pitch/dsp/tune"
	"github.com/cwbudde/algo-pitch/internal/wavio"
	"github.com/cwbudde/algo-pitch/measure/fundamental"
)

type options struct {
	frame  int
	levels int
	policy string
	target float64
	key    string
	scale  string
	out    string
	verify bool
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("pitchtrack: ")

	var opts options
	flag.IntVar(&opts.frame, "frame", core.DefaultFrameLength, "frame length in samples (max 1024)")
	flag.IntVar(&opts.levels, "levels", core.DefaultLevels, "wavelet decomposition levels (0-6)")
	flag.StringVar(&opts.policy, "policy", pitch.PolicyRobust.String(), "smoothing policy: none, median, last-reliable, octave, robust")
	flag.Float64Var(&opts.target, "target", 0, "correct every voiced frame to this pitch in Hz")
	flag.StringVar(&opts.key, "key", "", "tonic of the scale to snap to, e.g. C, F#, Bb (default chromatic)")
	flag.StringVar(&opts.scale, "scale", note.Major.String(), "scale mode used with -key: major or minor")
	flag.StringVar(&opts.out, "out", "", "write the corrected signal to this WAV file")
	flag.BoolVar(&opts.verify, "verify", false, "add an FFT reference pitch per frame")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: pitchtrack [flags] input.wav\n\n")
		fmt.Fprintf(os.Stderr, "Tracks the pitch of a mono WAV file and optionally corrects it.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(flag.Arg(0), opts); err != nil {
		log.Fatal(err)
	}
}

func run(input string, opts options) error {
	clip, err := wavio.ReadFile(input)
	if err != nil {
		return err
	}

	tuner, err := newTuner(clip.SampleRate, opts)
	if err != nil {
		return err
	}

	var ref *fundamental.Estimator
	if opts.verify {
		ref, err = fundamental.NewEstimator(fundamental.Config{SampleRate: clip.SampleRate})
		if err != nil {
			return err
		}
	}

	rows := track(tuner, clip.Samples, ref)
	printRows(os.Stdout, tuner.Frame(), rows, opts.verify)

	if opts.out == "" {
		return nil
	}
	if err := wavio.WriteFile(opts.out, clip); err != nil {
		return err
	}
	log.Printf("wrote %s (%.2f s)", opts.out, clip.Duration())
	return nil
}

func newTuner(sampleRate int, opts options) (*tune.Tuner, error) {
	policy, err := pitch.ParsePolicy(opts.policy)
	if err != nil {
		return nil, err
	}

	tuneOpts := []tune.Option{
		tune.WithFrame(
			core.WithSampleRate(sampleRate),
			core.WithFrameLength(opts.frame),
			core.WithLevels(opts.levels),
		),
		tune.WithPolicy(policy),
	}
	if opts.target != 0 {
		tuneOpts = append(tuneOpts, tune.WithTarget(opts.target))
	}
	if opts.key != "" {
		tonic, err := note.ParsePitchClass(opts.key)
		if err != nil {
			return nil, err
		}
		mode, err := note.ParseMode(opts.scale)
		if err != nil {
			return nil, err
		}
		tuneOpts = append(tuneOpts, tune.WithScale(tonic, mode))
	}

	return tune.New(tuneOpts...)
}
