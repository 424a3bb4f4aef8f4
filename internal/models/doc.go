// Package models defines domain entities and persistence interfaces for the gig setlist builder.
//
// The package contains two categories of types:
//
// 1. Catalog records: plain structs decoded from the song JSON sources
//   - [Song] : Song metadata, energy/popularity ratings and chord chart
//   - [Chords] : Section name to ordered chord symbols
//   - [FilterCriteria] : Query, era, artist, tag and sort selection
//
// 2. Persistent Entities: Database-backed models with full lifecycle management
//   - [SavedSet] : Named, ordered list of song ids
//   - [Preference] : Single key/value user preference (e.g. stage mode)
//
// All persistent entities implement the Model interface providing ID generation, timestamps and validation.
// The Repository[T] interface defines standard CRUD operations for database access.
package models
