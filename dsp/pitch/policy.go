package pitch

import (
	"fmt"
	"strings"
)

// octaveTolerance is the distance in Hz within which two estimates are
// treated as exactly one octave apart.
const octaveTolerance = 3.0

// Policy selects how EstimateSmoothed post-processes the raw estimate.
type Policy int

const (
	// PolicyNone returns the raw estimate, identical to Estimate.
	PolicyNone Policy = iota
	// PolicyMedian returns the median of the five most recent estimates.
	PolicyMedian
	// PolicyLastReliable returns the last confirmed frequency, holding it
	// over pitchless frames.
	PolicyLastReliable
	// PolicyOctaveInvariant discards an estimate that is one octave above or
	// below the previous one and keeps the previous value instead.
	PolicyOctaveInvariant
	// PolicyRobust combines median smoothing with last-value hold.
	PolicyRobust
)

var policyNames = [...]string{
	PolicyNone:            "none",
	PolicyMedian:          "median",
	PolicyLastReliable:    "last-reliable",
	PolicyOctaveInvariant: "octave",
	PolicyRobust:          "robust",
}

func (p Policy) String() string {
	if p < 0 || int(p) >= len(policyNames) {
		return fmt.Sprintf("Policy(%d)", int(p))
	}
	return policyNames[p]
}

// ParsePolicy returns the policy with the given name (case-insensitive).
func ParsePolicy(name string) (Policy, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for p, n := range policyNames {
		if n == name {
			return Policy(p), nil
		}
	}
	return PolicyNone, fmt.Errorf("%w: unknown smoothing policy %q", ErrInvalidConfiguration, name)
}

// EstimateSmoothed estimates the pitch of frame and post-processes it with
// the given policy. All policies share the detector's history, so switching
// policies between frames is allowed.
func (d *Detector) EstimateSmoothed(frame []int16, sampleRate int, policy Policy) float64 {
	return d.track.apply(d.scan(frame, sampleRate), policy)
}

// tracker holds the cross-frame state of a Detector.
type tracker struct {
	lastFreq float64
	lastMode int
	history  median5
}

// plain records a scan result the way Estimate reports it.
func (t *tracker) plain(r scanResult) float64 {
	if !r.confirmed {
		t.history.push(0)
		return 0
	}
	t.lastMode = r.mode
	t.lastFreq = r.freq
	t.history.push(r.freq)
	return r.freq
}

func (t *tracker) apply(r scanResult, policy Policy) float64 {
	switch policy {
	case PolicyMedian:
		t.plain(r)
		return t.history.median()
	case PolicyLastReliable:
		t.plain(r)
		return t.lastFreq
	case PolicyOctaveInvariant:
		old := t.lastFreq
		t.plain(r)
		if isOctaveApart(old, t.lastFreq) {
			t.lastFreq = old
		}
		return t.lastFreq
	case PolicyRobust:
		return t.robust(r)
	default:
		return t.plain(r)
	}
}

// robust smooths confirmed estimates through the median history. A pitchless
// frame reports the median if it is nonzero and otherwise holds the last
// frequency; either value is pushed back into the history.
func (t *tracker) robust(r scanResult) float64 {
	if r.confirmed {
		t.lastMode = r.mode
		t.history.push(r.freq)
		t.lastFreq = t.history.median()
		return t.lastFreq
	}

	m := t.history.median()
	if m == 0 {
		t.history.push(t.lastFreq)
		return t.lastFreq
	}
	t.history.push(m)
	return m
}

func isOctaveApart(old, cur float64) bool {
	if cur >= 2*old-octaveTolerance && cur <= 2*old+octaveTolerance {
		return true
	}
	return old >= 2*cur-octaveTolerance && old <= 2*cur+octaveTolerance
}
