// Package tasks runs long operations over saved sets with progress reporting.
//
// # Bulk Export
//
// [ExportEngine.BulkExport] renders every requested saved set to its own file in an output directory using a
// small worker pool, then writes an export_manifest.json that records which sets succeeded and which failed.
// A failing set does not stop the others.
//
// # Progress Reporting
//
// Operations take an optional send-only channel of [ProgressUpdate]. Updates use select with default so a slow
// or absent reader never blocks an export.
package tasks
