// Package note maps frequencies onto the 88 keys of a piano and restricts
// them to major or minor scales.
package note

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

const (
	// NumKeys is the number of keys on a standard piano.
	NumKeys = 88

	// ConcertA is the frequency of A4, key 49.
	ConcertA = 440.0

	concertAKey = 49
	octaveKeys  = 12
)

var (
	// ErrUnknownPitchClass reports a pitch class name that cannot be parsed.
	ErrUnknownPitchClass = errors.New("note: unknown pitch class")

	// ErrUnknownMode reports a scale mode name that cannot be parsed.
	ErrUnknownMode = errors.New("note: unknown mode")
)

// Key is a piano key number, 1 (A0) to 88 (C8).
type Key int

// Valid reports whether k is a key of the piano.
func (k Key) Valid() bool { return k >= 1 && k <= NumKeys }

// Frequency returns the equal-tempered frequency of k in Hz, tuned to
// ConcertA. Keys outside the piano are extrapolated.
func (k Key) Frequency() float64 {
	return ConcertA * math.Exp2(float64(int(k)-concertAKey)/octaveKeys)
}

// PitchClass returns the pitch class of k.
func (k Key) PitchClass() PitchClass {
	return PitchClass(((int(k)+8)%octaveKeys + octaveKeys) % octaveKeys)
}

// Octave returns the scientific octave number of k; C4 is key 40.
func (k Key) Octave() int {
	return int(math.Floor(float64(int(k)+8) / octaveKeys))
}

// Name returns the scientific pitch name of k, for example "A4" or "C#5".
func (k Key) Name() string {
	if !k.Valid() {
		return fmt.Sprintf("Key(%d)", int(k))
	}
	return k.PitchClass().String() + fmt.Sprint(k.Octave())
}

func (k Key) String() string { return k.Name() }

// Closest returns the key whose frequency is nearest to freq. Frequencies
// above the top key map to key 88 and below the bottom key to key 1. Exact
// midpoints resolve to the upper key.
func Closest(freq float64) Key {
	if math.IsNaN(freq) || freq <= Key(1).Frequency() {
		return 1
	}
	if freq >= Key(NumKeys).Frequency() {
		return NumKeys
	}

	// Keys are logarithmically spaced; the nearest key in Hz is one of the
	// two neighbours of the fractional key position.
	pos := concertAKey + octaveKeys*math.Log2(freq/ConcertA)
	lo := Key(math.Floor(pos))
	return nearer(freq, lo, lo+1)
}

func nearer(freq float64, lo, hi Key) Key {
	if freq-lo.Frequency() < hi.Frequency()-freq {
		return lo
	}
	return hi
}

// PitchClass is a note name without octave, C = 0 through B = 11.
type PitchClass int

const (
	C PitchClass = iota
	CSharp
	D
	DSharp
	E
	F
	FSharp
	G
	GSharp
	A
	ASharp
	B
)

var pitchClassNames = [octaveKeys]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

var flatNames = map[string]PitchClass{
	"DB": CSharp, "EB": DSharp, "GB": FSharp, "AB": GSharp, "BB": ASharp,
	"CB": B, "FB": E, "E#": F, "B#": C,
}

func (p PitchClass) String() string {
	if p < 0 || p >= octaveKeys {
		return fmt.Sprintf("PitchClass(%d)", int(p))
	}
	return pitchClassNames[p]
}

// ParsePitchClass parses a pitch class name such as "C", "f#", "Bb" or "Gs".
func ParsePitchClass(name string) (PitchClass, error) {
	s := strings.ToUpper(strings.TrimSpace(name))
	s = strings.Replace(s, "S", "#", 1)
	s = strings.Replace(s, "♯", "#", 1)
	s = strings.Replace(s, "♭", "B", 1)

	for p, n := range pitchClassNames {
		if n == s {
			return PitchClass(p), nil
		}
	}
	if p, ok := flatNames[s]; ok {
		return p, nil
	}
	return C, fmt.Errorf("%w: %q", ErrUnknownPitchClass, name)
}
