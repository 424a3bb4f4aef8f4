package chords

import "strings"

// Semitones in an octave.
const Semitones = 12

// sharpNames is the canonical spelling for each pitch class.
var sharpNames = [Semitones]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// pitchClasses maps every accepted note spelling, including theoretical ones, to its pitch class.
var pitchClasses = map[string]int{
	"C": 0, "B#": 0,
	"C#": 1, "Db": 1,
	"D":  2,
	"D#": 3, "Eb": 3,
	"E": 4, "Fb": 4,
	"F": 5, "E#": 5,
	"F#": 6, "Gb": 6,
	"G":  7,
	"G#": 8, "Ab": 8,
	"A":  9,
	"A#": 10, "Bb": 10,
	"B": 11, "Cb": 11,
}

// Transpose shifts the root and bass notes of symbol by offset semitones.
//
// The quality suffix is copied verbatim and output notes are always sharp-spelled. A symbol without a recognizable
// root is returned unchanged, as is any symbol when offset is a multiple of 12. If the bass part cannot be read it is
// kept as written after the '/'.
//
// Because of that identity case, composing transpositions only matches a single transposition up to enharmonic
// spelling for flat input: Transpose(Transpose("Bb", 1), -1) is "A#" while Transpose("Bb", 0) is "Bb".
func Transpose(symbol string, offset int) string {
	if mod(offset) == 0 {
		return symbol
	}

	head, bass, hasBass := strings.Cut(symbol, "/")

	root, quality, ok := splitRoot(head)
	if !ok {
		return symbol
	}

	var b strings.Builder
	b.Grow(len(symbol) + 2)
	b.WriteString(shift(root, offset))
	b.WriteString(quality)

	if hasBass {
		b.WriteByte('/')
		if bassRoot, rest, ok := splitRoot(bass); ok {
			b.WriteString(shift(bassRoot, offset))
			b.WriteString(rest)
		} else {
			b.WriteString(bass)
		}
	}

	return b.String()
}

// TransposeAll applies [Transpose] to every symbol and returns a new slice.
func TransposeAll(symbols []string, offset int) []string {
	out := make([]string, len(symbols))
	for i, s := range symbols {
		out[i] = Transpose(s, offset)
	}
	return out
}

// PitchClass returns the pitch class (0-11) of a note name such as "Eb" or "F#".
func PitchClass(note string) (int, bool) {
	pc, ok := pitchClasses[note]
	return pc, ok
}

// splitRoot separates a leading note name from the remainder of s.
func splitRoot(s string) (root, rest string, ok bool) {
	if s == "" || s[0] < 'A' || s[0] > 'G' {
		return "", s, false
	}

	n := 1
	if len(s) > 1 && (s[1] == '#' || s[1] == 'b') {
		n = 2
	}

	if _, known := pitchClasses[s[:n]]; !known {
		return "", s, false
	}

	return s[:n], s[n:], true
}

func shift(note string, offset int) string {
	return sharpNames[mod(pitchClasses[note]+offset)]
}

// mod reduces n into [0, 11] for any sign.
func mod(n int) int {
	return ((n % Semitones) + Semitones) % Semitones
}
