package setlist

import (
	"fmt"
	"io"
	"slices"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/gigbuilder/internal/catalog"
	"github.com/desertthunder/gigbuilder/internal/chords"
	"github.com/desertthunder/gigbuilder/internal/models"
	"github.com/desertthunder/gigbuilder/internal/shared"
)

// Store persists named sets as ordered song ids.
type Store interface {
	Save(name string, ids []models.SongID) error
	Load(name string) ([]models.SongID, error)
	Delete(name string) error
	Names() ([]string, error)
}

// Session owns the working set and transposition offset for one performer.
type Session struct {
	mu      sync.Mutex
	catalog *catalog.Catalog
	policy  Policy
	store   Store
	logger  *log.Logger
	set     []models.Song
	offset  chords.Offset
}

// SessionOpts contains configuration options for creating a Session.
type SessionOpts struct {
	Policy *Policy
	Store  Store
	Logger *log.Logger
}

// NewSession creates an empty session over cat.
func NewSession(cat *catalog.Catalog, opts SessionOpts) *Session {
	policy := DefaultPolicy()
	if opts.Policy != nil {
		policy = *opts.Policy
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(io.Discard)
	}
	if cat == nil {
		cat = catalog.New(nil)
	}

	return &Session{
		catalog: cat,
		policy:  policy,
		store:   opts.Store,
		logger:  opts.Logger,
	}
}

// Catalog returns the catalog the session resolves ids against.
func (s *Session) Catalog() *catalog.Catalog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog
}

// Reload swaps in a new catalog and re-resolves the working set, dropping songs that no longer exist.
func (s *Session) Reload(cat *catalog.Catalog) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.catalog = cat
	s.set = cat.Resolve(idsOf(s.set))
}

// Set returns a copy of the working set in performance order.
func (s *Session) Set() []models.Song {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.set)
}

// IDs returns the working set as ordered ids, the form sets are saved in.
func (s *Session) IDs() []models.SongID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return idsOf(s.set)
}

// Len returns the number of songs in the working set.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.set)
}

// Add appends the catalog song with id.
//
// It reports false without error when the song is already in the set.
func (s *Session) Add(id models.SongID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	song, ok := s.catalog.Lookup(id)
	if !ok {
		return false, fmt.Errorf("%w: %s", shared.ErrSongNotFound, id)
	}

	if slices.ContainsFunc(s.set, func(x models.Song) bool { return x.ID == id }) {
		return false, nil
	}

	s.set = append(s.set, song)
	return true, nil
}

// Remove deletes the song at the zero-based position index.
func (s *Session) Remove(index int) (models.Song, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.set) {
		return models.Song{}, fmt.Errorf("%w: position %d out of range (set has %d songs)", shared.ErrInvalidArgument, index+1, len(s.set))
	}

	removed := s.set[index]
	s.set = slices.Delete(s.set, index, index+1)
	return removed, nil
}

// Clear empties the working set.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.set = nil
}

// Build replaces the working set with a smart set built from pool.
func (s *Session) Build(pool []models.Song) []models.Song {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.set = Build(pool, s.policy)
	s.logger.Debug("built smart set", "pool", len(pool), "songs", len(s.set))
	return slices.Clone(s.set)
}

// BuildFiltered filters the catalog with criteria and builds from the result.
func (s *Session) BuildFiltered(criteria models.FilterCriteria) []models.Song {
	return s.Build(s.Catalog().Filter(criteria))
}

// LoadIDs replaces the working set with the catalog songs for ids, silently dropping unknown ids.
func (s *Session) LoadIDs(ids []models.SongID) []models.Song {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.set = s.catalog.Resolve(ids)
	if dropped := len(ids) - len(s.set); dropped > 0 {
		s.logger.Debug("dropped unknown songs from loaded set", "dropped", dropped)
	}
	return slices.Clone(s.set)
}

// Save stores the working set under name, overwriting any set with that name.
func (s *Session) Save(name string) error {
	name = shared.NormalizeName(name)
	if name == "" {
		return fmt.Errorf("%w: set name", shared.ErrMissingArgument)
	}

	ids := s.IDs()
	if len(ids) == 0 {
		return fmt.Errorf("%w: nothing to save as %q", shared.ErrEmptySet, name)
	}

	store, err := s.requireStore()
	if err != nil {
		return err
	}

	if err := store.Save(name, ids); err != nil {
		return fmt.Errorf("failed to save set %q: %w", name, err)
	}

	s.logger.Info("saved set", "name", name, "songs", len(ids))
	return nil
}

// Load replaces the working set with the set saved under name.
func (s *Session) Load(name string) ([]models.Song, error) {
	store, err := s.requireStore()
	if err != nil {
		return nil, err
	}

	ids, err := store.Load(shared.NormalizeName(name))
	if err != nil {
		return nil, err
	}

	return s.LoadIDs(ids), nil
}

// Resolve returns the songs of the set saved under name, dropping unknown ids. The working set is untouched.
func (s *Session) Resolve(name string) ([]models.Song, error) {
	store, err := s.requireStore()
	if err != nil {
		return nil, err
	}

	ids, err := store.Load(shared.NormalizeName(name))
	if err != nil {
		return nil, err
	}
	return s.Catalog().Resolve(ids), nil
}

// BuildAndSave builds from the filtered catalog and saves the result under name while holding the session lock,
// so no other caller can replace the working set between the build and the save.
//
// The working set only changes once the save succeeds.
func (s *Session) BuildAndSave(criteria models.FilterCriteria, name string) ([]models.Song, error) {
	name = shared.NormalizeName(name)
	if name == "" {
		return nil, fmt.Errorf("%w: set name", shared.ErrMissingArgument)
	}
	store, err := s.requireStore()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	songs := Build(s.catalog.Filter(criteria), s.policy)
	if len(songs) == 0 {
		return nil, fmt.Errorf("%w: nothing to save as %q", shared.ErrEmptySet, name)
	}
	if err := store.Save(name, idsOf(songs)); err != nil {
		return nil, fmt.Errorf("failed to save set %q: %w", name, err)
	}

	s.set = songs
	s.logger.Info("saved set", "name", name, "songs", len(songs))
	return slices.Clone(songs), nil
}

// Delete removes the saved set called name. The working set is untouched.
func (s *Session) Delete(name string) error {
	store, err := s.requireStore()
	if err != nil {
		return err
	}
	return store.Delete(shared.NormalizeName(name))
}

// SavedNames lists saved sets by name.
func (s *Session) SavedNames() ([]string, error) {
	store, err := s.requireStore()
	if err != nil {
		return nil, err
	}
	return store.Names()
}

func (s *Session) requireStore() (Store, error) {
	if s.store == nil {
		return nil, fmt.Errorf("%w: no set store configured", shared.ErrServiceUnavailable)
	}
	return s.store, nil
}

// Offset returns the current transposition offset.
func (s *Session) Offset() chords.Offset {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.offset
}

// TransposeUp raises the offset by a semitone and returns it.
func (s *Session) TransposeUp() chords.Offset {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.offset = s.offset.Up()
	return s.offset
}

// TransposeDown lowers the offset by a semitone and returns it.
func (s *Session) TransposeDown() chords.Offset {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.offset = s.offset.Down()
	return s.offset
}

// ResetTranspose sets the offset back to zero.
func (s *Session) ResetTranspose() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.offset = 0
}

// Chart returns song's chord chart shifted by the current offset.
//
// Songs with a chord link have no inline chart and return nil.
func (s *Session) Chart(song models.Song) models.Chords {
	return Chart(song, s.Offset())
}

// Chart returns song's chord chart shifted by offset, or nil when the song links out to its chords.
func Chart(song models.Song, offset chords.Offset) models.Chords {
	if song.HasChordLink() {
		return nil
	}

	out := make(models.Chords, len(song.Chords))
	for section, symbols := range song.Chords {
		out[section] = chords.TransposeAll(symbols, offset.Int())
	}
	return out
}

func idsOf(songs []models.Song) []models.SongID {
	ids := make([]models.SongID, len(songs))
	for i, s := range songs {
		ids[i] = s.ID
	}
	return ids
}
