// Package store persists courses and their lessons in SQLite. The schema
// is embedded and versioned; a database created by a different schema
// version is refused rather than silently migrated.
package store
