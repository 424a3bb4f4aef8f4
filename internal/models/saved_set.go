package models

import (
	"fmt"
	"strings"
	"time"
)

var (
	_ Record = (*SavedSet)(nil)
	_ Record = (*Preference)(nil)
)

// SavedSet is a named snapshot of a working set.
//
// Only song ids are stored; they are resolved against the live catalog when the set is loaded.
type SavedSet struct {
	id        string
	sequence  int
	name      string
	songIDs   []SongID
	createdAt time.Time
	updatedAt time.Time
}

// NewSavedSet creates a SavedSet with the given name and ordered song ids.
func NewSavedSet(sequence int, name string, songIDs []SongID) *SavedSet {
	now := time.Now()
	return &SavedSet{
		sequence:  sequence,
		name:      strings.TrimSpace(name),
		songIDs:   append([]SongID(nil), songIDs...),
		createdAt: now,
		updatedAt: now,
	}
}

func (s *SavedSet) ID() string           { return s.id }
func (s *SavedSet) Sequence() int        { return s.sequence }
func (s *SavedSet) Name() string         { return s.name }
func (s *SavedSet) CreatedAt() time.Time { return s.createdAt }
func (s *SavedSet) UpdatedAt() time.Time { return s.updatedAt }

// SongIDs returns a copy of the ordered song ids.
func (s *SavedSet) SongIDs() []SongID { return append([]SongID(nil), s.songIDs...) }

func (s *SavedSet) SetID(id string)          { s.id = id }
func (s *SavedSet) SetSequence(seq int)      { s.sequence = seq }
func (s *SavedSet) SetCreatedAt(t time.Time) { s.createdAt = t }
func (s *SavedSet) SetUpdatedAt(t time.Time) { s.updatedAt = t }
func (s *SavedSet) SetSongIDs(ids []SongID)  { s.songIDs = append([]SongID(nil), ids...) }

// Validate checks that the set has a name and at least one song.
func (s *SavedSet) Validate() error {
	if s.name == "" {
		return fmt.Errorf("set name is required")
	}
	if len(s.songIDs) == 0 {
		return fmt.Errorf("set %q has no songs", s.name)
	}
	for i, id := range s.songIDs {
		if id == "" {
			return fmt.Errorf("set %q: empty song id at position %d", s.name, i+1)
		}
	}
	return nil
}

// Preference is a single persisted key/value user preference.
type Preference struct {
	key       string
	value     string
	createdAt time.Time
	updatedAt time.Time
}

// NewPreference creates a Preference for key with the given value.
func NewPreference(key, value string) *Preference {
	now := time.Now()
	return &Preference{key: key, value: value, createdAt: now, updatedAt: now}
}

// ID returns the preference key.
func (p *Preference) ID() string           { return p.key }
func (p *Preference) Value() string        { return p.value }
func (p *Preference) CreatedAt() time.Time { return p.createdAt }
func (p *Preference) UpdatedAt() time.Time { return p.updatedAt }

func (p *Preference) SetValue(v string)        { p.value = v }
func (p *Preference) SetCreatedAt(t time.Time) { p.createdAt = t }
func (p *Preference) SetUpdatedAt(t time.Time) { p.updatedAt = t }

// Bool interprets the value the way the stage mode flag is stored ("1" is true).
func (p *Preference) Bool() bool { return p.value == "1" }

func (p *Preference) Validate() error {
	if strings.TrimSpace(p.key) == "" {
		return fmt.Errorf("preference key is required")
	}
	return nil
}
