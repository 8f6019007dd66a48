// Package course defines the normalized course records produced by the
// collector and persisted by the store, plus the newline-delimited JSON
// codec used to stage freshly collected courses on disk before import.
package course
