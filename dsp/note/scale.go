package note

import (
	"fmt"
	"math"
	"strings"
)

// Mode selects the step pattern of a diatonic scale.
type Mode int

const (
	Major Mode = iota
	Minor
)

var modeSteps = [...][7]int{
	Major: {2, 2, 1, 2, 2, 2, 1},
	Minor: {2, 1, 2, 2, 1, 2, 2},
}

func (m Mode) String() string {
	switch m {
	case Major:
		return "major"
	case Minor:
		return "minor"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode parses "major" or "minor" (case-insensitive; "maj" and "min"
// are accepted too).
func ParseMode(name string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "major", "maj":
		return Major, nil
	case "minor", "min":
		return Minor, nil
	default:
		return Major, fmt.Errorf("%w: %q", ErrUnknownMode, name)
	}
}

// Scale is a diatonic scale over the piano keys.
type Scale struct {
	Tonic PitchClass
	Mode  Mode
}

// Keys returns the piano keys that belong to the scale in ascending order.
// An unknown mode is treated as major.
func (s Scale) Keys() []Key {
	steps := modeSteps[Major]
	if s.Mode == Minor {
		steps = modeSteps[Minor]
	}

	// Lowest key carrying the tonic.
	first := Key(1)
	for first.PitchClass() != s.Tonic%octaveKeys {
		first++
		if first > octaveKeys {
			return nil
		}
	}

	keys := make([]Key, 0, NumKeys*len(steps)/octaveKeys+1)
	for k, i := first, 0; k <= NumKeys; k, i = k+Key(steps[i]), (i+1)%len(steps) {
		keys = append(keys, k)
	}
	return keys
}

// Contains reports whether k belongs to the scale.
func (s Scale) Contains(k Key) bool {
	if !k.Valid() {
		return false
	}
	for _, sk := range s.Keys() {
		if sk == k {
			return true
		}
	}
	return false
}

// ClosestInScale returns the key of the scale whose frequency is nearest to
// freq. Exact midpoints resolve to the upper key; frequencies outside the
// piano snap to the lowest or highest key of the scale.
func ClosestInScale(freq float64, tonic PitchClass, mode Mode) Key {
	return Scale{Tonic: tonic, Mode: mode}.Closest(freq)
}

// Closest returns the key of the scale nearest to freq, see ClosestInScale.
func (s Scale) Closest(freq float64) Key {
	keys := s.Keys()
	if len(keys) == 0 {
		return Closest(freq)
	}
	if math.IsNaN(freq) || freq <= keys[0].Frequency() {
		return keys[0]
	}
	for i := 1; i < len(keys); i++ {
		if freq <= keys[i].Frequency() {
			return nearer(freq, keys[i-1], keys[i])
		}
	}
	return keys[len(keys)-1]
}
