package chords

import "fmt"

// Bounds of a transposition [Offset].
const (
	MaxOffset = Semitones - 1
	MinOffset = -MaxOffset
)

// Offset is a signed semitone shift applied to every rendered chord.
//
// The zero value means no transposition.
type Offset int

// NewOffset folds any integer into [MinOffset, MaxOffset] while keeping its sign.
func NewOffset(n int) Offset {
	return Offset(n % Semitones)
}

// Up returns the offset raised by one semitone, folded back by 12 past [MaxOffset].
func (o Offset) Up() Offset {
	return o.fold(o + 1)
}

// Down returns the offset lowered by one semitone, folded back by 12 past [MinOffset].
func (o Offset) Down() Offset {
	return o.fold(o - 1)
}

// fold applies a single +-12 step. Offsets only ever move by one from an in-range value.
func (Offset) fold(n Offset) Offset {
	switch {
	case n > MaxOffset:
		return n - Semitones
	case n < MinOffset:
		return n + Semitones
	}
	return n
}

// Int returns the offset as a plain int for [Transpose].
func (o Offset) Int() int { return int(o) }

// Active reports whether chords should be transposed at all.
func (o Offset) Active() bool { return o != 0 }

// String formats the offset with an explicit sign, e.g. "+2" or "-3".
func (o Offset) String() string {
	if o > 0 {
		return fmt.Sprintf("+%d", int(o))
	}
	return fmt.Sprintf("%d", int(o))
}
