// Package classify contains the pure heuristics used while normalizing
// playlists into courses: ISO-8601 duration parsing, language detection,
// subcategory refinement, tag extraction, and the category keyword tables
// that drive collection runs.
//
// Every function here is a pure function of its inputs. The language and
// subcategory tables are ordered slices evaluated first-match-wins; the
// rules overlap, so table order is load-bearing and must not be converted
// to a map.
package classify
