// Package repositories implements SQLite persistence for saved sets and preferences.
//
// Key Implementations:
//   - [SavedSetRepository] : Named sets with their ordered song ids
//   - [PreferenceRepository] : Key/value preferences such as the stage mode flag
//   - [SetStore] : Name-keyed adapter used by the working-set session to save, load and delete sets
//
// Sequence numbers provide stable, human-readable ordering (e.g., set #4) independent of UUIDs and creation timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
