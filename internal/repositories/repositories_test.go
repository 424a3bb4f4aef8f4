package repositories

import (
	"database/sql"
	"errors"
	"slices"
	"testing"

	"github.com/desertthunder/gigbuilder/internal/models"
	"github.com/desertthunder/gigbuilder/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(shared.MemoryDatabase)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

func ids(values ...string) []models.SongID {
	out := make([]models.SongID, len(values))
	for i, v := range values {
		out[i] = models.SongID(v)
	}
	return out
}

func TestNextSequence(t *testing.T) {
	db := setupTestDB(t)

	for want := 1; want <= 3; want++ {
		got, err := NextSequence(db, "saved_sets")
		if err != nil {
			t.Fatalf("NextSequence() error = %v", err)
		}
		if got != want {
			t.Errorf("NextSequence() = %d, want %d", got, want)
		}
	}

	if _, err := NextSequence(db, "missing"); err == nil {
		t.Error("expected error for a table without a sequence")
	}
}

func TestSavedSetRepository(t *testing.T) {
	t.Run("Create", func(t *testing.T) {
		repo := NewSavedSetRepository(setupTestDB(t))
		set := models.NewSavedSet(0, "Friday Pub", ids("1", "2", "3"))

		if err := repo.Create(set); err != nil {
			t.Fatalf("failed to create set: %v", err)
		}

		if set.ID() == "" {
			t.Error("set ID should be set after creation")
		}
		if set.Sequence() != 1 {
			t.Errorf("expected sequence 1, got %d", set.Sequence())
		}
	})

	t.Run("Create rejects an empty set", func(t *testing.T) {
		repo := NewSavedSetRepository(setupTestDB(t))

		err := repo.Create(models.NewSavedSet(0, "Empty", nil))
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("Create rejects a duplicate name", func(t *testing.T) {
		repo := NewSavedSetRepository(setupTestDB(t))

		if err := repo.Create(models.NewSavedSet(0, "Wedding", ids("1"))); err != nil {
			t.Fatalf("failed to create set: %v", err)
		}
		if err := repo.Create(models.NewSavedSet(0, "Wedding", ids("2"))); err == nil {
			t.Error("expected unique constraint error")
		}
	})

	t.Run("Get preserves song order", func(t *testing.T) {
		repo := NewSavedSetRepository(setupTestDB(t))
		set := models.NewSavedSet(0, "Order", ids("c", "a", "b"))
		if err := repo.Create(set); err != nil {
			t.Fatalf("failed to create set: %v", err)
		}

		got, err := repo.Get(set.ID())
		if err != nil {
			t.Fatalf("failed to get set: %v", err)
		}

		if got.Name() != "Order" {
			t.Errorf("expected name Order, got %s", got.Name())
		}
		if !slices.Equal(got.SongIDs(), ids("c", "a", "b")) {
			t.Errorf("expected ids [c a b], got %v", got.SongIDs())
		}
	})

	t.Run("Get missing", func(t *testing.T) {
		repo := NewSavedSetRepository(setupTestDB(t))

		if _, err := repo.Get("nope"); !errors.Is(err, shared.ErrSetNotFound) {
			t.Errorf("expected ErrSetNotFound, got %v", err)
		}
		if _, err := repo.GetByName("nope"); !errors.Is(err, shared.ErrSetNotFound) {
			t.Errorf("expected ErrSetNotFound, got %v", err)
		}
	})

	t.Run("Update replaces songs", func(t *testing.T) {
		repo := NewSavedSetRepository(setupTestDB(t))
		set := models.NewSavedSet(0, "Rehearsal", ids("1", "2"))
		if err := repo.Create(set); err != nil {
			t.Fatalf("failed to create set: %v", err)
		}

		set.SetSongIDs(ids("3"))
		if err := repo.Update(set); err != nil {
			t.Fatalf("failed to update set: %v", err)
		}

		got, err := repo.GetByName("Rehearsal")
		if err != nil {
			t.Fatalf("failed to get set: %v", err)
		}
		if !slices.Equal(got.SongIDs(), ids("3")) {
			t.Errorf("expected ids [3], got %v", got.SongIDs())
		}
	})

	t.Run("Update missing", func(t *testing.T) {
		repo := NewSavedSetRepository(setupTestDB(t))
		set := models.NewSavedSet(0, "Ghost", ids("1"))
		set.SetID("ghost")

		if err := repo.Update(set); !errors.Is(err, shared.ErrSetNotFound) {
			t.Errorf("expected ErrSetNotFound, got %v", err)
		}
	})

	t.Run("Delete cascades songs", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewSavedSetRepository(db)
		set := models.NewSavedSet(0, "Gone", ids("1", "2"))
		if err := repo.Create(set); err != nil {
			t.Fatalf("failed to create set: %v", err)
		}

		if err := repo.Delete(set.ID()); err != nil {
			t.Fatalf("failed to delete set: %v", err)
		}

		var count int
		if err := db.QueryRow("SELECT COUNT(*) FROM saved_set_songs WHERE set_id = ?", set.ID()).Scan(&count); err != nil {
			t.Fatalf("failed to count songs: %v", err)
		}
		if count != 0 {
			t.Errorf("expected songs to be removed, found %d", count)
		}

		if err := repo.Delete(set.ID()); !errors.Is(err, shared.ErrSetNotFound) {
			t.Errorf("expected ErrSetNotFound on second delete, got %v", err)
		}
	})

	t.Run("List sorted by name", func(t *testing.T) {
		repo := NewSavedSetRepository(setupTestDB(t))
		for _, name := range []string{"Zoo", "Arena", "Mall"} {
			if err := repo.Create(models.NewSavedSet(0, name, ids("1"))); err != nil {
				t.Fatalf("failed to create set %s: %v", name, err)
			}
		}

		sets, err := repo.List(nil)
		if err != nil {
			t.Fatalf("failed to list sets: %v", err)
		}

		var names []string
		for _, s := range sets {
			names = append(names, s.Name())
			if len(s.SongIDs()) != 1 {
				t.Errorf("expected listed set %s to carry its songs", s.Name())
			}
		}
		if !slices.Equal(names, []string{"Arena", "Mall", "Zoo"}) {
			t.Errorf("expected sorted names, got %v", names)
		}

		filtered, err := repo.List(map[string]any{"name": "Mall"})
		if err != nil {
			t.Fatalf("failed to list sets: %v", err)
		}
		if len(filtered) != 1 || filtered[0].Name() != "Mall" {
			t.Errorf("expected only Mall, got %d sets", len(filtered))
		}
	})
}

// brokenSets fails every lookup, as a locked or corrupted database would.
type brokenSets struct {
	models.SetRepository
	err error
}

func (b brokenSets) GetByName(string) (*models.SavedSet, error)      { return nil, b.err }
func (b brokenSets) List(map[string]any) ([]*models.SavedSet, error) { return nil, b.err }

func TestSetStore(t *testing.T) {
	t.Run("lookup failures are not reported as missing sets", func(t *testing.T) {
		boom := errors.New("database is locked")
		store := NewSetStore(brokenSets{err: boom})

		if err := store.Save("Friday", ids("1")); !errors.Is(err, boom) || errors.Is(err, shared.ErrSetNotFound) {
			t.Errorf("Save() error = %v", err)
		}
		if _, err := store.Load("Friday"); !errors.Is(err, boom) {
			t.Errorf("Load() error = %v", err)
		}
		if _, err := store.Names(); !errors.Is(err, boom) {
			t.Errorf("Names() error = %v", err)
		}
	})

	t.Run("Save then Load", func(t *testing.T) {
		store := NewSetStore(NewSavedSetRepository(setupTestDB(t)))

		if err := store.Save("Friday", ids("1", "2")); err != nil {
			t.Fatalf("Save() error = %v", err)
		}

		got, err := store.Load("Friday")
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if !slices.Equal(got, ids("1", "2")) {
			t.Errorf("Load() = %v, want [1 2]", got)
		}
	})

	t.Run("Save overwrites", func(t *testing.T) {
		store := NewSetStore(NewSavedSetRepository(setupTestDB(t)))

		if err := store.Save("Friday", ids("1", "2")); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		if err := store.Save("Friday", ids("9")); err != nil {
			t.Fatalf("Save() overwrite error = %v", err)
		}

		got, err := store.Load("Friday")
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if !slices.Equal(got, ids("9")) {
			t.Errorf("Load() = %v, want [9]", got)
		}

		names, err := store.Names()
		if err != nil {
			t.Fatalf("Names() error = %v", err)
		}
		if len(names) != 1 {
			t.Errorf("expected a single saved set, got %v", names)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		store := NewSetStore(NewSavedSetRepository(setupTestDB(t)))

		if err := store.Save("Friday", ids("1")); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		if err := store.Delete("Friday"); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		if _, err := store.Load("Friday"); !errors.Is(err, shared.ErrSetNotFound) {
			t.Errorf("expected ErrSetNotFound after delete, got %v", err)
		}
		if err := store.Delete("Friday"); !errors.Is(err, shared.ErrSetNotFound) {
			t.Errorf("expected ErrSetNotFound deleting twice, got %v", err)
		}
	})
}

func TestPreferenceRepository(t *testing.T) {
	t.Run("Bool defaults to false", func(t *testing.T) {
		repo := NewPreferenceRepository(setupTestDB(t))

		on, err := repo.Bool(PrefStageMode)
		if err != nil {
			t.Fatalf("Bool() error = %v", err)
		}
		if on {
			t.Error("expected unset flag to be false")
		}
	})

	t.Run("PutBool round trip", func(t *testing.T) {
		repo := NewPreferenceRepository(setupTestDB(t))

		if err := repo.PutBool(PrefStageMode, true); err != nil {
			t.Fatalf("PutBool() error = %v", err)
		}
		if on, _ := repo.Bool(PrefStageMode); !on {
			t.Error("expected flag to be true")
		}

		if err := repo.PutBool(PrefStageMode, false); err != nil {
			t.Fatalf("PutBool() error = %v", err)
		}
		if on, _ := repo.Bool(PrefStageMode); on {
			t.Error("expected flag to be false after overwrite")
		}
	})

	t.Run("CRUD", func(t *testing.T) {
		repo := NewPreferenceRepository(setupTestDB(t))
		p := models.NewPreference(PrefLastSet, "Friday")

		if err := repo.Create(p); err != nil {
			t.Fatalf("Create() error = %v", err)
		}

		p.SetValue("Saturday")
		if err := repo.Update(p); err != nil {
			t.Fatalf("Update() error = %v", err)
		}

		got, err := repo.Get(PrefLastSet)
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if got.Value() != "Saturday" {
			t.Errorf("expected Saturday, got %s", got.Value())
		}

		all, err := repo.List(nil)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(all) != 1 {
			t.Errorf("expected 1 preference, got %d", len(all))
		}

		if err := repo.Delete(PrefLastSet); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		if _, err := repo.Get(PrefLastSet); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}
