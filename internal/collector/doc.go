// Package collector turns YouTube playlists into course records. A run
// searches per-category keyword lists (plus any caller-provided keywords),
// assembles candidate playlists into courses, stages them as JSONL, and
// imports them into the store with deduplication.
package collector
