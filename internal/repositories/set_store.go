package repositories

import (
	"errors"
	"fmt"

	"github.com/desertthunder/gigbuilder/internal/models"
	"github.com/desertthunder/gigbuilder/internal/shared"
)

// SetStore adapts a [models.SetRepository] to the name-keyed store the working-set session saves to.
//
// Saving an existing name overwrites it.
type SetStore struct {
	repo models.SetRepository
}

// NewSetStore creates a new SetStore over repo, usually a [SavedSetRepository].
func NewSetStore(repo models.SetRepository) *SetStore {
	return &SetStore{repo: repo}
}

// Save creates or overwrites the set called name.
func (s *SetStore) Save(name string, ids []models.SongID) error {
	existing, err := s.repo.GetByName(name)
	switch {
	case errors.Is(err, shared.ErrSetNotFound):
		return s.repo.Create(models.NewSavedSet(0, name, ids))
	case err != nil:
		return fmt.Errorf("failed to look up set %q: %w", name, err)
	}

	existing.SetSongIDs(ids)
	return s.repo.Update(existing)
}

// Load returns the ordered song ids saved under name.
func (s *SetStore) Load(name string) ([]models.SongID, error) {
	set, err := s.repo.GetByName(name)
	if err != nil {
		return nil, fmt.Errorf("failed to load set %q: %w", name, err)
	}
	return set.SongIDs(), nil
}

// Delete removes the set called name.
func (s *SetStore) Delete(name string) error {
	set, err := s.repo.GetByName(name)
	if err != nil {
		return fmt.Errorf("failed to delete set %q: %w", name, err)
	}
	return s.repo.Delete(set.ID())
}

// Names lists saved set names in sorted order.
func (s *SetStore) Names() ([]string, error) {
	sets, err := s.repo.List(nil)
	if err != nil {
		return nil, err
	}

	names := make([]string, len(sets))
	for i, set := range sets {
		names[i] = set.Name()
	}
	return names, nil
}
