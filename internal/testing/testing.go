// package testing contains shared testing utilities
package testing

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"slices"
	"testing"

	"github.com/desertthunder/gigbuilder/internal/models"
	"github.com/desertthunder/gigbuilder/internal/shared"
)

// Song builds a catalog record with the fields the builder and filter look at.
func Song(id string, energy int, popularity float64) models.Song {
	return models.Song{
		ID:         models.SongID(id),
		Title:      "Song " + id,
		Artist:     "Artist " + id,
		Era:        "90s",
		Key:        "G",
		Capo:       "0",
		Energy:     energy,
		Popularity: popularity,
	}
}

// SampleCatalogJSON is a small catalog document covering chord charts, numeric ids, tags and chord links.
const SampleCatalogJSON = `[
  {"id": 1, "title": "Wonderwall", "artist": "Oasis", "era": "90s", "key": "F#m", "capo": 2, "energy": 3, "popularity": 95,
   "tags": ["singalong", "acoustic"],
   "chords": {"intro": ["Em7", "G", "Dsus4", "A7sus4"], "verse": ["Em7", "G", "Dsus4", "A7sus4"], "chorus": ["C", "D", "Em7"]}},
  {"id": "2", "title": "Mr. Brightside", "artist": "The Killers", "era": "2000s", "key": "Db", "capo": 0, "energy": 5, "popularity": 97,
   "tags": ["singalong", "rock"],
   "chords": {"verse": ["Db", "Dbmaj7", "Ebm"], "preChorus": ["Gb", "Ebm", "Bb"], "chorus": ["Db", "Gb", "Ebm", "Bb"]}},
  {"id": "3", "title": "Valerie", "artist": "Amy Winehouse", "era": "2000s", "key": "Eb", "capo": "", "energy": 4, "popularity": 90,
   "tags": ["dance"], "chordLink": "https://example.com/valerie"},
  {"id": "", "title": "No Id", "artist": "Nobody", "energy": 3, "popularity": 100}
]`

// MemoryStore is an in-memory set store for session tests.
type MemoryStore struct {
	Sets map[string][]models.SongID
	Err  error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{Sets: map[string][]models.SongID{}}
}

func (m *MemoryStore) Save(name string, ids []models.SongID) error {
	if m.Err != nil {
		return m.Err
	}
	m.Sets[name] = append([]models.SongID(nil), ids...)
	return nil
}

func (m *MemoryStore) Load(name string) ([]models.SongID, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	ids, ok := m.Sets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", shared.ErrSetNotFound, name)
	}
	return append([]models.SongID(nil), ids...), nil
}

func (m *MemoryStore) Delete(name string) error {
	if _, ok := m.Sets[name]; !ok {
		return fmt.Errorf("%w: %s", shared.ErrSetNotFound, name)
	}
	delete(m.Sets, name)
	return nil
}

func (m *MemoryStore) Names() ([]string, error) {
	names := make([]string, 0, len(m.Sets))
	for name := range m.Sets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names, m.Err
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
