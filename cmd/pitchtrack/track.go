package main

import (
	"github.com/cwbudde/algo-pitch/dsp/core"
	"github.com/cwbudde/algo-pitch/dsp/tune"
	"github.com/cwbudde/algo-pitch/measure/fundamental"
)

// row is one line of the report table.
type row struct {
	index     int
	levelDB   float64
	reference float64
	report    tune.Report
}

// track runs the tuner over samples in place. The reference pitch, if ref
// is set, is measured on each frame before it is corrected.
func track(t *tune.Tuner, samples []int16, ref *fundamental.Estimator) []row {
	n := t.Frame().FrameLength
	rows := make([]row, 0, (len(samples)+n-1)/n)

	for start := 0; start < len(samples); start += n {
		frame := samples[start:min(start+n, len(samples))]

		r := row{index: len(rows), levelDB: core.LinearToDB(core.RMSQ15(frame))}
		if ref != nil {
			r.reference = ref.EstimateQ15(frame).Frequency
		}
		r.report = t.Process(frame)
		rows = append(rows, r)
	}
	return rows
}
