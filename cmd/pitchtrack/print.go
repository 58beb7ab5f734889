package main

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/cwbudde/algo-pitch/dsp/core"
)

const unvoiced = "-"

func printRows(w io.Writer, cfg core.FrameConfig, rows []row, verify bool) {
	fmt.Fprintln(w, headerStyle.Render(header(verify)))

	voiced := 0
	for _, r := range rows {
		line := formatRow(cfg, r, verify)
		if r.report.Corrected {
			voiced++
			fmt.Fprintln(w, voicedStyle.Render(line))
		} else {
			fmt.Fprintln(w, unvoicedStyle.Render(line))
		}
	}

	fmt.Fprintln(w, summaryStyle.Render(summary(cfg, len(rows), voiced)))
}

func header(verify bool) string {
	h := fmt.Sprintf("%6s  %8s  %7s  %9s  %5s  %9s  %7s", "frame", "time [s]", "level", "pitch", "note", "target", "cents")
	if verify {
		h += fmt.Sprintf("  %9s", "fft")
	}
	return h
}

func formatRow(cfg core.FrameConfig, r row, verify bool) string {
	var b strings.Builder

	t := float64(r.index) * cfg.FrameDuration()
	fmt.Fprintf(&b, "%6d  %8.3f  %7s  ", r.index, t, formatDB(r.levelDB))

	rep := r.report
	if rep.Corrected {
		fmt.Fprintf(&b, "%9.2f  %5s  %9.2f  %+7.1f", rep.Detected, rep.Key, rep.Target, rep.Cents())
	} else {
		fmt.Fprintf(&b, "%9s  %5s  %9s  %7s", unvoiced, unvoiced, unvoiced, unvoiced)
	}

	if verify {
		if r.reference > 0 {
			fmt.Fprintf(&b, "  %9.2f", r.reference)
		} else {
			fmt.Fprintf(&b, "  %9s", unvoiced)
		}
	}
	return b.String()
}

func formatDB(db float64) string {
	if math.IsInf(db, -1) {
		return "-inf"
	}
	return fmt.Sprintf("%.1f", db)
}

func summary(cfg core.FrameConfig, frames, voiced int) string {
	return fmt.Sprintf("%d frames of %d samples at %d Hz, %d voiced", frames, cfg.FrameLength, cfg.SampleRate, voiced)
}
