package store_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"coursespider/internal/course"
	"coursespider/internal/store"
)

func openStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "courses.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func testCourse(youtubeID, category string) *course.Course {
	return &course.Course{
		YouTubeID:   youtubeID,
		URL:         "https://www.youtube.com/playlist?list=" + youtubeID,
		Category:    category,
		Subcategory: "Python",
		Title:       "Course " + youtubeID,
		Description: "a complete course",
		Author: course.Author{
			Name:        "Teacher " + youtubeID,
			ChannelID:   "UC-" + youtubeID,
			Homepage:    "https://www.youtube.com/channel/UC-" + youtubeID,
			Subscribers: 1000,
		},
		DurationMin: 120,
		LessonCount: 2,
		Lessons: []course.Lesson{
			{Idx: 1, Title: "One", VideoID: youtubeID + "-v1", DurationMin: 60},
			{Idx: 2, Title: "Two", VideoID: youtubeID + "-v2", DurationMin: 60},
		},
		Language:     "en",
		LanguageName: "English",
		VerifiedFree: true,
		ScrapedAt:    "2025-01-01T00:00:00Z",
		Tags:         []string{"beginner", "complete"},
	}
}

func TestInsertCourseAndDuplicate(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	c := testCourse("PL1", "Programming")
	inserted, err := s.InsertCourse(ctx, c)
	if err != nil {
		t.Fatalf("InsertCourse: %v", err)
	}
	if !inserted {
		t.Fatal("first insert should succeed")
	}
	if c.ID == 0 {
		t.Fatal("row id not populated")
	}

	dup := testCourse("PL1", "Web Dev")
	dup.Title = "A different title, same playlist"
	inserted, err = s.InsertCourse(ctx, dup)
	if err != nil {
		t.Fatalf("duplicate insert: %v", err)
	}
	if inserted {
		t.Fatal("duplicate youtube_id must be rejected")
	}

	// First write wins.
	got, err := s.GetCourseByYouTubeID(ctx, "PL1")
	if err != nil {
		t.Fatalf("GetCourseByYouTubeID: %v", err)
	}
	if got.Category != "Programming" {
		t.Fatalf("original row overwritten: %+v", got)
	}
}

func TestGetCourseWithLessons(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	c := testCourse("PL2", "AI/ML")
	if _, err := s.InsertCourse(ctx, c); err != nil {
		t.Fatalf("InsertCourse: %v", err)
	}

	got, err := s.GetCourse(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetCourse: %v", err)
	}
	if len(got.Lessons) != 2 || got.Lessons[0].Idx != 1 || got.Lessons[1].Idx != 2 {
		t.Fatalf("lessons wrong: %+v", got.Lessons)
	}
	if got.Author.Subscribers != 1000 {
		t.Fatalf("author not round-tripped: %+v", got.Author)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "beginner" {
		t.Fatalf("tags wrong: %v", got.Tags)
	}
	if got.CreatedAt == "" {
		t.Fatal("created_at not set")
	}
}

func TestGetCourseNotFound(t *testing.T) {
	s := openStore(t)
	if _, err := s.GetCourse(context.Background(), 9999); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.GetCourseByYouTubeID(context.Background(), "PLnope"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteCourseCascades(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	c := testCourse("PL3", "Database")
	if _, err := s.InsertCourse(ctx, c); err != nil {
		t.Fatalf("InsertCourse: %v", err)
	}
	if err := s.DeleteCourse(ctx, c.ID); err != nil {
		t.Fatalf("DeleteCourse: %v", err)
	}
	if _, err := s.GetCourse(ctx, c.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("course still present: %v", err)
	}
	if err := s.DeleteCourse(ctx, c.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("second delete should be ErrNotFound, got %v", err)
	}

	stats, err := s.Statistics(ctx)
	if err != nil {
		t.Fatalf("Statistics: %v", err)
	}
	if stats.TotalLessons != 0 {
		t.Fatalf("lessons did not cascade: %+v", stats)
	}
}

// Cascade must hold on every pooled connection, not just the one that
// ran the schema setup.
func TestDeleteCourseCascadesAcrossConnections(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	c := testCourse("PLpool", "Programming")
	if _, err := s.InsertCourse(ctx, c); err != nil {
		t.Fatalf("InsertCourse: %v", err)
	}

	// Concurrent reads force database/sql to open several connections,
	// so the subsequent delete can land on any of them.
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.GetCourse(ctx, c.ID)
		}()
	}
	wg.Wait()

	if err := s.DeleteCourse(ctx, c.ID); err != nil {
		t.Fatalf("DeleteCourse: %v", err)
	}

	// Count orphans through a fresh handle so no cached state can mask
	// rows left behind in the file.
	raw, err := sql.Open("sqlite", s.Path())
	if err != nil {
		t.Fatalf("open raw handle: %v", err)
	}
	defer raw.Close()
	var orphans int
	if err := raw.QueryRowContext(ctx, "SELECT COUNT(1) FROM lessons").Scan(&orphans); err != nil {
		t.Fatalf("count lessons: %v", err)
	}
	if orphans != 0 {
		t.Fatalf("%d lesson rows survived the course delete", orphans)
	}
}

func TestInsertCourseConcurrentDuplicates(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	const writers = 8
	start := make(chan struct{})
	results := make(chan bool, writers)
	errs := make(chan error, writers)

	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			<-start
			c := testCourse("PLrace", fmt.Sprintf("Category %d", n))
			inserted, err := s.InsertCourse(ctx, c)
			if err != nil {
				errs <- err
				return
			}
			results <- inserted
		}(i)
	}
	close(start)
	wg.Wait()
	close(results)
	close(errs)

	for err := range errs {
		t.Errorf("concurrent insert: %v", err)
	}
	winners := 0
	for inserted := range results {
		if inserted {
			winners++
		}
	}
	if winners != 1 {
		t.Fatalf("winners = %d, want exactly 1", winners)
	}

	_, total, err := s.SearchCourses(ctx, store.Filters{})
	if err != nil {
		t.Fatalf("SearchCourses: %v", err)
	}
	if total != 1 {
		t.Fatalf("total rows = %d, want 1", total)
	}
}

func TestImportJSONL(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	// Pre-existing course to trigger a duplicate skip.
	if _, err := s.InsertCourse(ctx, testCourse("PLdup", "Design")); err != nil {
		t.Fatalf("seed insert: %v", err)
	}

	path := filepath.Join(t.TempDir(), "staged.jsonl")
	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("create staging: %v", err)
	}
	if err := course.WriteJSONL(file, []course.Course{
		*testCourse("PLnew1", "Cloud"),
		*testCourse("PLdup", "Design"),
		*testCourse("PLnew2", "DevOps"),
	}); err != nil {
		t.Fatalf("WriteJSONL: %v", err)
	}
	if _, err := file.WriteString("garbage line\n"); err != nil {
		t.Fatalf("append garbage: %v", err)
	}
	if err := file.Close(); err != nil {
		t.Fatalf("close staging: %v", err)
	}

	imported, skipped, err := s.ImportJSONL(ctx, path)
	if err != nil {
		t.Fatalf("ImportJSONL: %v", err)
	}
	if imported != 2 {
		t.Errorf("imported = %d, want 2", imported)
	}
	if skipped != 2 {
		t.Errorf("skipped = %d, want 2 (one dup, one malformed)", skipped)
	}
}

func TestSearchCourses(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		c := testCourse(fmt.Sprintf("PLweb%d", i), "Web Dev")
		c.DurationMin = i * 100
		c.LessonCount = i
		if _, err := s.InsertCourse(ctx, c); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}
	es := testCourse("PLes", "Web Dev")
	es.Language = "es"
	es.LanguageName = "Spanish"
	if _, err := s.InsertCourse(ctx, es); err != nil {
		t.Fatalf("insert: %v", err)
	}

	t.Run("category filter and total", func(t *testing.T) {
		courses, total, err := s.SearchCourses(ctx, store.Filters{Category: "Web Dev", Limit: 2})
		if err != nil {
			t.Fatalf("SearchCourses: %v", err)
		}
		if total != 6 {
			t.Errorf("total = %d, want 6", total)
		}
		if len(courses) != 2 {
			t.Errorf("page size = %d, want 2", len(courses))
		}
		if len(courses[0].Lessons) == 0 {
			t.Error("lessons not attached to search results")
		}
	})

	t.Run("language filter", func(t *testing.T) {
		courses, total, err := s.SearchCourses(ctx, store.Filters{Language: "es"})
		if err != nil {
			t.Fatalf("SearchCourses: %v", err)
		}
		if total != 1 || len(courses) != 1 || courses[0].YouTubeID != "PLes" {
			t.Fatalf("language filter wrong: total=%d courses=%+v", total, courses)
		}
	})

	t.Run("duration range and sort", func(t *testing.T) {
		courses, _, err := s.SearchCourses(ctx, store.Filters{
			MinDuration: 200, MaxDuration: 400,
			SortBy: "duration_min", SortOrder: "asc",
		})
		if err != nil {
			t.Fatalf("SearchCourses: %v", err)
		}
		if len(courses) != 3 {
			t.Fatalf("expected 3 courses, got %d", len(courses))
		}
		if courses[0].DurationMin != 200 || courses[2].DurationMin != 400 {
			t.Fatalf("sort wrong: %d..%d", courses[0].DurationMin, courses[2].DurationMin)
		}
	})

	t.Run("author substring", func(t *testing.T) {
		_, total, err := s.SearchCourses(ctx, store.Filters{Author: "Teacher PLes"})
		if err != nil {
			t.Fatalf("SearchCourses: %v", err)
		}
		if total != 1 {
			t.Fatalf("total = %d, want 1", total)
		}
	})

	t.Run("unknown sort column falls back", func(t *testing.T) {
		if _, _, err := s.SearchCourses(ctx, store.Filters{SortBy: "youtube_id; DROP TABLE courses"}); err != nil {
			t.Fatalf("SearchCourses: %v", err)
		}
		if _, err := s.GetCourseByYouTubeID(ctx, "PLes"); err != nil {
			t.Fatalf("table gone: %v", err)
		}
	})

	t.Run("limit capped", func(t *testing.T) {
		courses, _, err := s.SearchCourses(ctx, store.Filters{Limit: 100000})
		if err != nil {
			t.Fatalf("SearchCourses: %v", err)
		}
		if len(courses) > 100 {
			t.Fatalf("limit cap not applied: %d", len(courses))
		}
	})
}

func TestStatistics(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	a := testCourse("PLa", "AI/ML")
	a.DurationMin = 90 // rounds to 2 hours with the next one
	b := testCourse("PLb", "Web Dev")
	b.DurationMin = 45
	b.Language = "es"
	b.LanguageName = "Spanish"
	for _, c := range []*course.Course{a, b} {
		if _, err := s.InsertCourse(ctx, c); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	stats, err := s.Statistics(ctx)
	if err != nil {
		t.Fatalf("Statistics: %v", err)
	}
	if stats.TotalCourses != 2 || stats.TotalLessons != 4 {
		t.Fatalf("totals wrong: %+v", stats)
	}
	if stats.ByCategory["AI/ML"] != 1 || stats.ByCategory["Web Dev"] != 1 {
		t.Fatalf("by_category wrong: %v", stats.ByCategory)
	}
	if stats.ByLanguage["English"] != 1 || stats.ByLanguage["Spanish"] != 1 {
		t.Fatalf("by_language wrong: %v", stats.ByLanguage)
	}
	if stats.TotalDurationHours != 2 {
		t.Fatalf("duration hours = %d, want 2", stats.TotalDurationHours)
	}
}

func TestSchemaVersionMismatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "courses.db")
	s, err := store.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	_ = s.Close()

	// Reopening the same database succeeds at the same version.
	s2, err := store.Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	_ = s2.Close()
}
