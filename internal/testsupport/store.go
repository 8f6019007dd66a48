package testsupport

import (
	"context"
	"testing"

	"coursespider/internal/config"
	"coursespider/internal/course"
	"coursespider/internal/store"
)

// MustOpenStore opens a store.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg.DatabasePath())
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

// MustInsertCourse inserts a course and fails the test on error or
// duplicate.
func MustInsertCourse(t testing.TB, st *store.Store, c *course.Course) int64 {
	t.Helper()

	inserted, err := st.InsertCourse(context.Background(), c)
	if err != nil {
		t.Fatalf("store.InsertCourse: %v", err)
	}
	if !inserted {
		t.Fatalf("duplicate course %s", c.YouTubeID)
	}
	return c.ID
}
