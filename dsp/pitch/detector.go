package pitch

import "math"

const (
	// MaxLevels is the deepest wavelet decomposition a Detector performs.
	MaxLevels = 6

	// MaxFrameLength is the longest frame a Detector analyses.
	MaxFrameLength = 1024

	// MaxFrequency is the highest pitch the detector resolves. It sets the
	// refractory distance between two accepted peaks.
	MaxFrequency = 3000

	minFrameLength = 4

	// peakThreshold places the acceptance band for peaks at this fraction of
	// the distance between the frame mean and its extreme.
	peakThreshold = 0.75

	// modeSpan is the largest index gap between two same-type peaks whose
	// distance is considered a period candidate.
	modeSpan = 3
)

// Detector estimates the pitch of Q15 frames with a fast lifting wavelet
// transform: the frame is repeatedly halved with a Haar approximation step,
// peaks and valleys are located on every level, and the most common peak
// distance is confirmed against the previous, finer level.
//
// A Detector remembers the last confirmed period and the five most recent
// estimates between calls; see [Policy] for the smoothing modes built on that
// history.
type Detector struct {
	levels      int
	frameLength int

	window []int32
	maxIdx []int
	minIdx []int
	diffs  []int

	mode     []int
	maxCount []int
	minCount []int

	track tracker
}

// NewDetector constructs a detector for frames of frameLength samples.
//
// levels outside [0, MaxLevels] falls back to MaxLevels and frameLength is
// clamped to [4, MaxFrameLength]. frameLength should be divisible by
// 2^(levels-1); see [ValidateDetectorConfig].
func NewDetector(levels, frameLength int) *Detector {
	if levels < 0 || levels > MaxLevels {
		levels = MaxLevels
	}
	frameLength = min(max(frameLength, minFrameLength), MaxFrameLength)

	return &Detector{
		levels:      levels,
		frameLength: frameLength,
		window:      make([]int32, frameLength),
		maxIdx:      make([]int, frameLength),
		minIdx:      make([]int, frameLength),
		diffs:       make([]int, 0, modeSpan*frameLength),
		mode:        make([]int, levels),
		maxCount:    make([]int, levels),
		minCount:    make([]int, levels),
	}
}

// Levels returns the number of decomposition levels.
func (d *Detector) Levels() int { return d.levels }

// FrameLength returns the analysed frame length in samples.
func (d *Detector) FrameLength() int { return d.frameLength }

// LastFrequency returns the most recent held frequency in Hz, 0 if none.
func (d *Detector) LastFrequency() float64 { return d.track.lastFreq }

// LastMode returns the last confirmed period in samples, measured on the
// level where it was confirmed. 0 means no period has been confirmed yet.
func (d *Detector) LastMode() int { return d.track.lastMode }

// Reset clears the cross-frame history.
func (d *Detector) Reset() {
	d.track = tracker{}
}

// Estimate returns the pitch of frame in Hz, or 0 if the frame is pitchless.
//
// At most FrameLength samples are analysed. Frames shorter than 4 samples are
// reported as pitchless.
func (d *Detector) Estimate(frame []int16, sampleRate int) float64 {
	return d.track.plain(d.scan(frame, sampleRate))
}

// scanResult is the outcome of one pass over the decomposition levels.
type scanResult struct {
	freq      float64
	mode      int
	confirmed bool
}

func (d *Detector) scan(frame []int16, sampleRate int) scanResult {
	n := min(len(frame), d.frameLength)
	if n < minFrameLength || sampleRate <= 0 {
		return scanResult{}
	}

	sum := 0
	hi, lo := int32(math.MinInt16), int32(math.MaxInt16)
	for i, s := range frame[:n] {
		v := int32(s)
		d.window[i] = v
		sum += int(v)
		hi = max(hi, v)
		lo = min(lo, v)
	}
	mean := int32(sum / n)
	maxThresh := int32(peakThreshold*float64(hi-mean) + float64(mean))
	minThresh := int32(peakThreshold*float64(lo-mean) + float64(mean))

	width := n
	for lev := range d.levels {
		d.mode[lev] = 0
		d.maxCount[lev] = 0
		d.minCount[lev] = 0

		width >>= 1
		minDist := max((sampleRate/MaxFrequency)>>(lev+1), 1)

		d.halve(lev, width, minDist, mean, maxThresh, minThresh)
		if d.maxCount[lev] < 2 || d.minCount[lev] < 2 {
			continue
		}
		d.mode[lev] = d.findMode(lev, width, minDist)

		if lev == 0 {
			continue
		}
		prev := d.mode[lev-1]
		if prev == 0 || d.maxCount[lev-1] < 2 || d.minCount[lev-1] < 2 {
			continue
		}
		if absInt(prev-2*d.mode[lev]) <= minDist {
			return scanResult{
				freq:      float64(sampleRate) / float64(prev) / float64(int(1)<<lev),
				mode:      prev,
				confirmed: true,
			}
		}
	}

	return scanResult{}
}

// halve replaces the window with its Haar approximation of the given width
// and records the peaks and valleys of the new level while it is filled.
//
// A peak is accepted when it clears its threshold, no other peak was accepted
// since the signal last crossed the mean, and at least minDist samples passed
// since the previous accepted peak.
func (d *Detector) halve(lev, width, minDist int, mean, maxThresh, minThresh int32) {
	w := d.window

	// Polarity comes from the first forward difference of the new level,
	// taken on the samples before they are overwritten.
	climber := -1
	if w[3]+w[2]-w[1]-w[0] > 0 {
		climber = 1
	}
	searching := true
	tooClose := 0

	w[0] = (w[1] + w[0]) >> 1
	for j := 1; j < width; j++ {
		w[j] = (w[2*j+1] + w[2*j]) >> 1
		diff := w[j] - w[j-1]

		switch {
		case climber >= 0 && diff < 0:
			if w[j-1] >= maxThresh && searching && tooClose == 0 {
				d.maxIdx[d.maxCount[lev]] = j - 1
				d.maxCount[lev]++
				searching = false
				tooClose = minDist
			}
			climber = -1
		case climber <= 0 && diff > 0:
			if w[j-1] <= minThresh && searching && tooClose == 0 {
				d.minIdx[d.minCount[lev]] = j - 1
				d.minCount[lev]++
				searching = false
				tooClose = minDist
			}
			climber = 1
		}

		if (w[j] <= mean && w[j-1] > mean) || (w[j] >= mean && w[j-1] < mean) {
			searching = true
		}
		if tooClose > 0 {
			tooClose--
		}
	}
}

// findMode returns the most supported distance between same-type peaks of
// the given level, averaged over its neighbours, or 0 if no distance has
// enough support.
func (d *Detector) findMode(lev, width, minDist int) int {
	diffs := d.diffs[:0]
	for span := 1; span <= modeSpan; span++ {
		for k := 0; k < d.maxCount[lev]-span; k++ {
			diffs = append(diffs, absInt(d.maxIdx[k]-d.maxIdx[k+span]))
		}
		for k := 0; k < d.minCount[lev]-span; k++ {
			diffs = append(diffs, absInt(d.minIdx[k]-d.minIdx[k+span]))
		}
	}

	oldMode := d.track.lastMode
	hint := oldMode >> (lev + 1)
	best := 1 // a mode needs at least two agreeing distances
	mode := 0

	for _, cand := range diffs {
		support := 0
		for _, other := range diffs {
			if absInt(cand-other) < minDist {
				support++
			}
		}
		nearHint := oldMode != 0 && absInt(cand-hint) < minDist

		switch {
		case support >= best && support > (width/cand)>>2:
			switch {
			case support > best:
				best = support
				mode = cand
			case nearHint:
				mode = cand
			case oldMode != -1 && float64(cand) > 1.95*float64(mode) && float64(cand) < 2.05*float64(mode):
				// lastMode is never -1, so an equally supported candidate
				// near twice the current mode always wins the tie.
				mode = cand
			}
		case support == best-1 && nearHint:
			mode = cand
		}
	}

	if mode == 0 {
		return 0
	}

	sum, count := 0, 0
	for _, other := range diffs {
		if absInt(mode-other) <= minDist {
			sum += other
			count++
		}
	}
	return sum / count
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
