package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// SongID is the stable identifier of a [Song].
//
// Catalog sources may encode ids as JSON strings or numbers; both decode to the same textual form so that 7 and "7" compare equal.
type SongID string

// UnmarshalJSON accepts a JSON string, number or null.
func (id *SongID) UnmarshalJSON(data []byte) error {
	s, err := decodeText(data)
	if err != nil {
		return fmt.Errorf("song id: %w", err)
	}
	*id = SongID(s)
	return nil
}

// String returns the id as text.
func (id SongID) String() string { return string(id) }

// Display is a free-form display value (key, capo) that sources write as either a string or a number.
type Display string

// UnmarshalJSON accepts a JSON string, number or null.
func (d *Display) UnmarshalJSON(data []byte) error {
	s, err := decodeText(data)
	if err != nil {
		return err
	}
	*d = Display(s)
	return nil
}

func decodeText(data []byte) (string, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return "", nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return "", err
		}
		return s, nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return "", fmt.Errorf("expected string or number, got %s", data)
	}

	if i, err := n.Int64(); err == nil {
		return strconv.FormatInt(i, 10), nil
	}
	return n.String(), nil
}

// Section names a part of a song's chord chart.
type Section string

const (
	SectionIntro     Section = "intro"
	SectionVerse     Section = "verse"
	SectionPreChorus Section = "preChorus"
	SectionChorus    Section = "chorus"
	SectionBridge    Section = "bridge"
	SectionOutro     Section = "outro"
)

// SectionOrder is the fixed rendering order of chord chart sections.
var SectionOrder = []Section{
	SectionIntro,
	SectionVerse,
	SectionPreChorus,
	SectionChorus,
	SectionBridge,
	SectionOutro,
}

// Label returns the upper-case heading used when printing a section.
func (s Section) Label() string {
	if s == SectionPreChorus {
		return "PRE-CHORUS"
	}
	return strings.ToUpper(string(s))
}

// Chords maps a section to its ordered chord symbols.
type Chords map[Section][]string

// Empty reports whether no known section carries any chord.
func (c Chords) Empty() bool {
	for _, s := range SectionOrder {
		if len(c[s]) > 0 {
			return false
		}
	}
	return true
}

// Song is a single catalog record.
type Song struct {
	ID         SongID   `json:"id"`
	Title      string   `json:"title"`
	Artist     string   `json:"artist"`
	Era        string   `json:"era"`
	Key        Display  `json:"key"`
	Capo       Display  `json:"capo"`
	Energy     int      `json:"energy"`
	Popularity float64  `json:"popularity"`
	Tags       []string `json:"tags"`
	Chords     Chords   `json:"chords,omitempty"`
	ChordLink  string   `json:"chordLink,omitempty"`
}

// HasTag reports whether tag is one of the song's labels.
func (s Song) HasTag(tag string) bool {
	return slices.Contains(s.Tags, tag)
}

// HasChordLink reports whether chords live behind an external link instead of inline.
func (s Song) HasChordLink() bool {
	return s.ChordLink != ""
}
