package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/gigbuilder/internal/models"
	"github.com/desertthunder/gigbuilder/internal/shared"
)

var _ models.Repository[*models.Preference] = (*PreferenceRepository)(nil)

// Preference keys.
const (
	PrefStageMode = "stage_mode"
	PrefLastSet   = "last_set"
)

// PreferenceRepository implements [models.Repository] for key/value preferences.
type PreferenceRepository struct {
	db *sql.DB
}

// NewPreferenceRepository creates a new PreferenceRepository with the given database connection
func NewPreferenceRepository(db *sql.DB) *PreferenceRepository {
	return &PreferenceRepository{db: db}
}

// Create inserts a new preference
func (r *PreferenceRepository) Create(p *models.Preference) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	_, err := r.db.Exec(`
		INSERT INTO preferences (key, value, created_at, updated_at)
		VALUES (?, ?, ?, ?)
	`, p.ID(), p.Value(), p.CreatedAt(), p.UpdatedAt())
	if err != nil {
		return fmt.Errorf("failed to insert preference: %w", err)
	}
	return nil
}

// Get retrieves a preference by key
func (r *PreferenceRepository) Get(key string) (*models.Preference, error) {
	var (
		value     string
		createdAt time.Time
		updatedAt time.Time
	)

	err := r.db.QueryRow(`SELECT value, created_at, updated_at FROM preferences WHERE key = ?`, key).
		Scan(&value, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: preference %s", shared.ErrNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan preference: %w", err)
	}

	p := models.NewPreference(key, value)
	p.SetCreatedAt(createdAt)
	p.SetUpdatedAt(updatedAt)
	return p, nil
}

// Update modifies an existing preference's value
func (r *PreferenceRepository) Update(p *models.Preference) error {
	now := time.Now()

	result, err := r.db.Exec(`UPDATE preferences SET value = ?, updated_at = ? WHERE key = ?`, p.Value(), now, p.ID())
	if err != nil {
		return fmt.Errorf("failed to update preference: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: preference %s", shared.ErrNotFound, p.ID())
	}

	p.SetUpdatedAt(now)
	return nil
}

// Delete removes a preference by key
func (r *PreferenceRepository) Delete(key string) error {
	result, err := r.db.Exec(`DELETE FROM preferences WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("failed to delete preference: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: preference %s", shared.ErrNotFound, key)
	}
	return nil
}

// List retrieves all preferences ordered by key. Criteria are ignored.
func (r *PreferenceRepository) List(criteria map[string]any) ([]*models.Preference, error) {
	rows, err := r.db.Query(`SELECT key, value, created_at, updated_at FROM preferences ORDER BY key ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query preferences: %w", err)
	}
	defer rows.Close()

	var prefs []*models.Preference
	for rows.Next() {
		var (
			key, value           string
			createdAt, updatedAt time.Time
		)
		if err := rows.Scan(&key, &value, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan preference: %w", err)
		}
		p := models.NewPreference(key, value)
		p.SetCreatedAt(createdAt)
		p.SetUpdatedAt(updatedAt)
		prefs = append(prefs, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return prefs, nil
}

// Put creates or overwrites the value for key.
func (r *PreferenceRepository) Put(key, value string) error {
	_, err := r.db.Exec(`
		INSERT INTO preferences (key, value, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value, time.Now(), time.Now())
	if err != nil {
		return fmt.Errorf("failed to store preference %s: %w", key, err)
	}
	return nil
}

// Bool reads a "1"/"0" flag, returning false when the key is unset.
func (r *PreferenceRepository) Bool(key string) (bool, error) {
	p, err := r.Get(key)
	if errors.Is(err, shared.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return p.Bool(), nil
}

// PutBool stores a flag as "1" or "0".
func (r *PreferenceRepository) PutBool(key string, on bool) error {
	v := "0"
	if on {
		v = "1"
	}
	return r.Put(key, v)
}
