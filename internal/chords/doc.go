// Package chords transposes chord symbols by a number of semitones.
//
// A chord symbol is read as a root note (a letter A-G with an optional '#' or 'b'), a quality suffix that is never
// reinterpreted, and an optional "/bass" part following the same rules. Roots are mapped to a pitch class through a
// fixed enharmonic table, shifted with a true modulo and written back with the canonical sharp spelling:
//
//	Transpose("F#m7", 1)  // "Gm7"
//	Transpose("Bb", -1)   // "A"
//	Transpose("G/B", 2)   // "A/C#"
//	Transpose("N.C.", 5)  // "N.C." (not a chord, returned as written)
//
// [Offset] holds the session-wide shift applied while rendering a set, bounded to [-11, 11].
package chords
