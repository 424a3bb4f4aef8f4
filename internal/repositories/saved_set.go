package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/gigbuilder/internal/models"
	"github.com/desertthunder/gigbuilder/internal/shared"
)

var (
	_ models.Repository[*models.SavedSet] = (*SavedSetRepository)(nil)
	_ models.SetRepository                = (*SavedSetRepository)(nil)
)

// SavedSetRepository implements [models.Repository] and [models.SetRepository] for saved sets.
//
// A set row owns its ordered song rows; deleting a set removes them through the foreign key cascade.
type SavedSetRepository struct {
	db *sql.DB
}

// NewSavedSetRepository creates a new SavedSetRepository with the given database connection
func NewSavedSetRepository(db *sql.DB) *SavedSetRepository {
	return &SavedSetRepository{db: db}
}

// Create inserts a new set and its songs with a generated ID and sequence
func (r *SavedSetRepository) Create(set *models.SavedSet) error {
	if err := set.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	sequence, err := NextSequence(r.db, "saved_sets")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	set.SetID(id)
	set.SetSequence(sequence)

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO saved_sets (id, sequence, name, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, id, sequence, set.Name(), set.CreatedAt(), set.UpdatedAt())
	if err != nil {
		return fmt.Errorf("failed to insert set: %w", err)
	}

	if err := insertSongs(tx, id, set.SongIDs()); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit set: %w", err)
	}
	return nil
}

// Get retrieves a set by ID
func (r *SavedSetRepository) Get(id string) (*models.SavedSet, error) {
	set, err := r.scanOne(r.db.QueryRow(`
		SELECT id, sequence, name, created_at, updated_at
		FROM saved_sets
		WHERE id = ?
	`, id))
	if err != nil {
		return nil, err
	}
	return set, r.loadSongs(set)
}

// GetByName retrieves a set by its unique name
func (r *SavedSetRepository) GetByName(name string) (*models.SavedSet, error) {
	set, err := r.scanOne(r.db.QueryRow(`
		SELECT id, sequence, name, created_at, updated_at
		FROM saved_sets
		WHERE name = ?
	`, name))
	if err != nil {
		return nil, err
	}
	return set, r.loadSongs(set)
}

// Update replaces the set's songs and bumps its updated_at timestamp
func (r *SavedSetRepository) Update(set *models.SavedSet) error {
	if err := set.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	now := time.Now()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(`UPDATE saved_sets SET name = ?, updated_at = ? WHERE id = ?`, set.Name(), now, set.ID())
	if err != nil {
		return fmt.Errorf("failed to update set: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrSetNotFound, set.ID())
	}

	if _, err := tx.Exec(`DELETE FROM saved_set_songs WHERE set_id = ?`, set.ID()); err != nil {
		return fmt.Errorf("failed to clear set songs: %w", err)
	}

	if err := insertSongs(tx, set.ID(), set.SongIDs()); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit set: %w", err)
	}

	set.SetUpdatedAt(now)
	return nil
}

// Delete removes a set and its songs by ID
func (r *SavedSetRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM saved_sets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete set: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrSetNotFound, id)
	}

	return nil
}

// List retrieves all sets ordered by name.
//
// Supported criteria: "name" (exact match).
func (r *SavedSetRepository) List(criteria map[string]any) ([]*models.SavedSet, error) {
	query := `
		SELECT id, sequence, name, created_at, updated_at
		FROM saved_sets
		WHERE 1 = 1
	`
	args := []any{}

	if name, ok := criteria["name"].(string); ok && name != "" {
		query += " AND name = ?"
		args = append(args, name)
	}

	query += " ORDER BY name ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sets: %w", err)
	}
	defer rows.Close()

	var sets []*models.SavedSet
	for rows.Next() {
		set, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		sets = append(sets, set)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	for _, set := range sets {
		if err := r.loadSongs(set); err != nil {
			return nil, err
		}
	}

	return sets, nil
}

func insertSongs(tx *sql.Tx, setID string, ids []models.SongID) error {
	stmt, err := tx.Prepare(`INSERT INTO saved_set_songs (set_id, position, song_id) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare song insert: %w", err)
	}
	defer stmt.Close()

	for i, songID := range ids {
		if _, err := stmt.Exec(setID, i, songID.String()); err != nil {
			return fmt.Errorf("failed to insert song %s: %w", songID, err)
		}
	}
	return nil
}

func (r *SavedSetRepository) loadSongs(set *models.SavedSet) error {
	rows, err := r.db.Query(`SELECT song_id FROM saved_set_songs WHERE set_id = ? ORDER BY position ASC`, set.ID())
	if err != nil {
		return fmt.Errorf("failed to query set songs: %w", err)
	}
	defer rows.Close()

	var ids []models.SongID
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return fmt.Errorf("failed to scan set song: %w", err)
		}
		ids = append(ids, models.SongID(id))
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("row iteration error: %w", err)
	}

	set.SetSongIDs(ids)
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

// scanOne scans a single [sql.Row], mapping no rows to [shared.ErrSetNotFound]
func (r *SavedSetRepository) scanOne(row *sql.Row) (*models.SavedSet, error) {
	set, err := r.scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shared.ErrSetNotFound
	}
	return set, err
}

func (r *SavedSetRepository) scan(row scanner) (*models.SavedSet, error) {
	var (
		id        string
		sequence  int
		name      string
		createdAt time.Time
		updatedAt time.Time
	)

	if err := row.Scan(&id, &sequence, &name, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan set: %w", err)
	}

	set := models.NewSavedSet(sequence, name, nil)
	set.SetID(id)
	set.SetCreatedAt(createdAt)
	set.SetUpdatedAt(updatedAt)
	return set, nil
}
