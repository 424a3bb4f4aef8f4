package setlist

import (
	"errors"
	"slices"
	"sync"
	"testing"

	"github.com/desertthunder/gigbuilder/internal/catalog"
	"github.com/desertthunder/gigbuilder/internal/chords"
	"github.com/desertthunder/gigbuilder/internal/models"
	"github.com/desertthunder/gigbuilder/internal/shared"
	th "github.com/desertthunder/gigbuilder/internal/testing"
)

func newSession(t *testing.T) (*Session, *th.MemoryStore) {
	t.Helper()
	cat := catalog.Merge([]models.Song{
		th.Song("1", 3, 10),
		th.Song("2", 4, 20),
		th.Song("3", 5, 30),
		th.Song("4", 3, 40),
	})
	store := th.NewMemoryStore()
	return NewSession(cat, SessionOpts{Store: store}), store
}

func TestSession(t *testing.T) {
	t.Run("Add appends in order and ignores duplicates", func(t *testing.T) {
		s, _ := newSession(t)

		for _, id := range []models.SongID{"3", "1"} {
			added, err := s.Add(id)
			if err != nil || !added {
				t.Fatalf("Add(%s) = %v, %v", id, added, err)
			}
		}

		added, err := s.Add("3")
		if err != nil {
			t.Fatalf("Add(duplicate) error = %v", err)
		}
		if added {
			t.Error("expected duplicate add to be ignored")
		}

		if !slices.Equal(s.IDs(), []models.SongID{"3", "1"}) {
			t.Errorf("IDs() = %v, want [3 1]", s.IDs())
		}
	})

	t.Run("Add unknown song", func(t *testing.T) {
		s, _ := newSession(t)
		if _, err := s.Add("missing"); !errors.Is(err, shared.ErrSongNotFound) {
			t.Errorf("expected ErrSongNotFound, got %v", err)
		}
	})

	t.Run("Remove by position", func(t *testing.T) {
		s, _ := newSession(t)
		s.LoadIDs([]models.SongID{"1", "2", "3"})

		removed, err := s.Remove(1)
		if err != nil {
			t.Fatalf("Remove() error = %v", err)
		}
		if removed.ID != "2" {
			t.Errorf("removed %s, want 2", removed.ID)
		}
		if !slices.Equal(s.IDs(), []models.SongID{"1", "3"}) {
			t.Errorf("IDs() = %v, want [1 3]", s.IDs())
		}

		if _, err := s.Remove(5); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
		if _, err := s.Remove(-1); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("Clear", func(t *testing.T) {
		s, _ := newSession(t)
		s.LoadIDs([]models.SongID{"1", "2"})
		s.Clear()
		if s.Len() != 0 {
			t.Errorf("expected empty set, got %d", s.Len())
		}
	})

	t.Run("Build replaces the working set", func(t *testing.T) {
		s, _ := newSession(t)
		s.LoadIDs([]models.SongID{"2"})

		got := s.Build(s.Catalog().Songs())
		if len(got) != 4 {
			t.Fatalf("expected 4 songs, got %d", len(got))
		}
		want := []models.SongID{"4", "1", "2", "3"}
		if !slices.Equal(s.IDs(), want) {
			t.Errorf("IDs() = %v, want %v", s.IDs(), want)
		}
	})

	t.Run("BuildFiltered uses the filtered pool", func(t *testing.T) {
		s, _ := newSession(t)
		got := s.BuildFiltered(models.FilterCriteria{Query: "song 3"})
		if len(got) != 1 || got[0].ID != "3" {
			t.Errorf("expected only song 3, got %v", got)
		}
	})

	t.Run("Set returns a copy", func(t *testing.T) {
		s, _ := newSession(t)
		s.LoadIDs([]models.SongID{"1"})
		set := s.Set()
		set[0].Title = "changed"
		if s.Set()[0].Title == "changed" {
			t.Error("Set() exposed internal state")
		}
	})

	t.Run("Save and Load round trip", func(t *testing.T) {
		s, _ := newSession(t)
		s.LoadIDs([]models.SongID{"3", "1", "2"})

		if err := s.Save("  Friday   Pub "); err != nil {
			t.Fatalf("Save() error = %v", err)
		}

		s.Clear()
		got, err := s.Load("Friday Pub")
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if !slices.Equal(idsOf(got), []models.SongID{"3", "1", "2"}) {
			t.Errorf("Load() = %v, want [3 1 2]", idsOf(got))
		}
	})

	t.Run("Load drops songs missing from the catalog", func(t *testing.T) {
		s, store := newSession(t)
		store.Sets["Old"] = []models.SongID{"1", "gone", "3"}

		got, err := s.Load("Old")
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if !slices.Equal(idsOf(got), []models.SongID{"1", "3"}) {
			t.Errorf("Load() = %v, want [1 3]", idsOf(got))
		}
	})

	t.Run("Save validation", func(t *testing.T) {
		s, _ := newSession(t)

		if err := s.Save("Empty"); !errors.Is(err, shared.ErrEmptySet) {
			t.Errorf("expected ErrEmptySet, got %v", err)
		}

		s.LoadIDs([]models.SongID{"1"})
		if err := s.Save("   "); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("Delete and SavedNames", func(t *testing.T) {
		s, store := newSession(t)
		store.Sets["B"] = []models.SongID{"1"}
		store.Sets["A"] = []models.SongID{"2"}

		names, err := s.SavedNames()
		if err != nil {
			t.Fatalf("SavedNames() error = %v", err)
		}
		if !slices.Equal(names, []string{"A", "B"}) {
			t.Errorf("SavedNames() = %v", names)
		}

		if err := s.Delete("A"); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		if err := s.Delete("A"); !errors.Is(err, shared.ErrSetNotFound) {
			t.Errorf("expected ErrSetNotFound, got %v", err)
		}
	})

	t.Run("no store configured", func(t *testing.T) {
		s := NewSession(nil, SessionOpts{})
		if _, err := s.Load("x"); !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})

	t.Run("Reload drops removed songs", func(t *testing.T) {
		s, _ := newSession(t)
		s.LoadIDs([]models.SongID{"1", "2", "3"})

		s.Reload(catalog.Merge([]models.Song{th.Song("3", 5, 1), th.Song("1", 3, 1)}))
		if !slices.Equal(s.IDs(), []models.SongID{"1", "3"}) {
			t.Errorf("IDs() = %v, want [1 3]", s.IDs())
		}
	})
}

func TestSessionBuildAndSave(t *testing.T) {
	t.Run("builds, saves and replaces the working set", func(t *testing.T) {
		s, store := newSession(t)

		songs, err := s.BuildAndSave(models.FilterCriteria{}, "  Friday   Pub ")
		if err != nil {
			t.Fatalf("BuildAndSave() error = %v", err)
		}
		want := []models.SongID{"4", "1", "2", "3"}
		if !slices.Equal(idsOf(songs), want) {
			t.Errorf("built %v, want %v", idsOf(songs), want)
		}
		if !slices.Equal(store.Sets["Friday Pub"], want) {
			t.Errorf("saved %v, want %v", store.Sets["Friday Pub"], want)
		}
		if !slices.Equal(s.IDs(), want) {
			t.Errorf("working set %v, want %v", s.IDs(), want)
		}
	})

	t.Run("failures leave the working set unchanged", func(t *testing.T) {
		s, store := newSession(t)
		s.LoadIDs([]models.SongID{"2"})

		if _, err := s.BuildAndSave(models.FilterCriteria{Query: "nothing"}, "Empty"); !errors.Is(err, shared.ErrEmptySet) {
			t.Errorf("expected ErrEmptySet, got %v", err)
		}
		if _, err := s.BuildAndSave(models.FilterCriteria{}, "   "); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}

		store.Err = errors.New("disk full")
		if _, err := s.BuildAndSave(models.FilterCriteria{}, "Friday"); err == nil {
			t.Error("expected save error")
		}

		if !slices.Equal(s.IDs(), []models.SongID{"2"}) {
			t.Errorf("working set changed to %v", s.IDs())
		}
	})

	t.Run("concurrent loads cannot change what is saved", func(t *testing.T) {
		s, store := newSession(t)
		want := []models.SongID{"4", "1", "2", "3"}

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 200 {
				s.LoadIDs([]models.SongID{"3"})
			}
		}()
		for range 200 {
			if _, err := s.BuildAndSave(models.FilterCriteria{}, "Friday"); err != nil {
				t.Fatalf("BuildAndSave() error = %v", err)
			}
			if got := store.Sets["Friday"]; !slices.Equal(got, want) {
				t.Fatalf("saved %v, want %v", got, want)
			}
		}
		wg.Wait()
	})

	t.Run("no store", func(t *testing.T) {
		s := NewSession(catalog.New(nil), SessionOpts{})
		if _, err := s.BuildAndSave(models.FilterCriteria{}, "Friday"); !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})
}

func TestSessionResolve(t *testing.T) {
	s, store := newSession(t)
	store.Sets["Pub"] = []models.SongID{"3", "99", "1"}
	s.LoadIDs([]models.SongID{"2"})

	songs, err := s.Resolve(" Pub ")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if !slices.Equal(idsOf(songs), []models.SongID{"3", "1"}) {
		t.Errorf("Resolve() = %v", idsOf(songs))
	}
	if !slices.Equal(s.IDs(), []models.SongID{"2"}) {
		t.Errorf("working set changed to %v", s.IDs())
	}

	if _, err := s.Resolve("Ghost"); !errors.Is(err, shared.ErrSetNotFound) {
		t.Errorf("expected ErrSetNotFound, got %v", err)
	}
}

func TestSessionTranspose(t *testing.T) {
	s, _ := newSession(t)

	if s.Offset() != 0 {
		t.Fatalf("expected initial offset 0, got %d", s.Offset())
	}

	for i := 0; i < 11; i++ {
		s.TransposeUp()
	}
	if s.Offset() != 11 {
		t.Errorf("expected offset 11, got %d", s.Offset())
	}
	if got := s.TransposeUp(); got != 0 {
		t.Errorf("expected fold to 0, got %d", got)
	}
	if got := s.TransposeDown(); got != -1 {
		t.Errorf("expected -1, got %d", got)
	}

	s.ResetTranspose()
	if s.Offset() != 0 {
		t.Errorf("expected reset to 0, got %d", s.Offset())
	}
}

func TestChart(t *testing.T) {
	song := th.Song("1", 3, 1)
	song.Chords = models.Chords{
		models.SectionVerse:  {"G", "D/F#", "Em"},
		models.SectionChorus: {"C", "N.C."},
	}

	got := Chart(song, chords.Offset(2))
	if !slices.Equal(got[models.SectionVerse], []string{"A", "E/G#", "F#m"}) {
		t.Errorf("verse = %v", got[models.SectionVerse])
	}
	if !slices.Equal(got[models.SectionChorus], []string{"D", "N.C."}) {
		t.Errorf("chorus = %v", got[models.SectionChorus])
	}
	if song.Chords[models.SectionVerse][0] != "G" {
		t.Error("Chart() modified the song")
	}

	song.ChordLink = "https://example.com/chart"
	if Chart(song, chords.Offset(2)) != nil {
		t.Error("expected nil chart for linked chords")
	}
}
