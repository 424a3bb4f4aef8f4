// package models defines the data model for the gig setlist builder
package models

import "time"

// Record is a row persisted by a repository: a saved set or a preference.
type Record interface {
	ID() string
	CreatedAt() time.Time
	UpdatedAt() time.Time
	Validate() error
}

// Repository is the keyed read/write surface every record repository provides.
//
// For sets the key is the generated id; for preferences it is the preference key.
type Repository[T Record] interface {
	Create(record T) error
	Get(key string) (T, error)
	Update(record T) error
	Delete(key string) error
}

// SetRepository is what the name-keyed set store needs from saved set storage.
type SetRepository interface {
	Create(set *SavedSet) error
	Update(set *SavedSet) error
	Delete(id string) error
	GetByName(name string) (*SavedSet, error)
	List(criteria map[string]any) ([]*SavedSet, error)
}
