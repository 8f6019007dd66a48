package collector_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"coursespider/internal/collector"
	"coursespider/internal/config"
	"coursespider/internal/jobs"
	"coursespider/internal/logging"
	"coursespider/internal/store"
	"coursespider/internal/testsupport"
	"coursespider/internal/youtube"
)

// fakeCatalog serves canned playlists keyed by id. Every playlist gets
// lessonCount videos of 10 minutes each.
type fakeCatalog struct {
	searches    map[string][]youtube.SearchResult
	playlists   map[string]*youtube.Playlist
	lessonCount map[string]int
	channelErr  error
	searchCalls []string
	searchSizes []int
}

func (f *fakeCatalog) SearchPlaylists(_ context.Context, keyword string, maxResults int, _ string) ([]youtube.SearchResult, error) {
	f.searchCalls = append(f.searchCalls, keyword)
	f.searchSizes = append(f.searchSizes, maxResults)
	return f.searches[keyword], nil
}

func (f *fakeCatalog) PlaylistDetails(_ context.Context, id string) (*youtube.Playlist, error) {
	return f.playlists[id], nil
}

func (f *fakeCatalog) PlaylistItems(_ context.Context, id string) ([]youtube.PlaylistItem, error) {
	n := f.lessonCount[id]
	items := make([]youtube.PlaylistItem, n)
	for i := range items {
		items[i] = youtube.PlaylistItem{
			VideoID:  fmt.Sprintf("%s-v%d", id, i+1),
			Title:    fmt.Sprintf("Lesson %d", i+1),
			Position: i,
		}
	}
	return items, nil
}

func (f *fakeCatalog) VideoDetails(_ context.Context, ids []string) []youtube.Video {
	videos := make([]youtube.Video, len(ids))
	for i, id := range ids {
		videos[i] = youtube.Video{
			ID:       id,
			Title:    fmt.Sprintf("Video %d", i+1),
			Duration: "PT10M",
		}
	}
	return videos
}

func (f *fakeCatalog) ChannelDetails(_ context.Context, id string) (*youtube.Channel, error) {
	if f.channelErr != nil {
		return nil, f.channelErr
	}
	return &youtube.Channel{ID: id, Title: "Chan", Subscribers: 5000}, nil
}

func playlist(id, title string) *youtube.Playlist {
	return &youtube.Playlist{
		ID:           id,
		Title:        title,
		Description:  "learn from scratch, a complete course",
		ChannelID:    "UC1",
		ChannelTitle: "Chan",
		PublishedAt:  "2024-06-01T00:00:00Z",
		Thumbnail:    "https://img/" + id + ".jpg",
	}
}

type recordingNotifier struct {
	completed []string
	failed    []string
}

func (r *recordingNotifier) CollectionCompleted(_ context.Context, jobID string, imported, skipped int) error {
	r.completed = append(r.completed, fmt.Sprintf("%s:%d:%d", jobID, imported, skipped))
	return nil
}

func (r *recordingNotifier) CollectionFailed(_ context.Context, jobID, reason string) error {
	r.failed = append(r.failed, jobID+":"+reason)
	return nil
}

func (r *recordingNotifier) Test(context.Context) error { return nil }

func newTestConfig(t *testing.T) *config.Config {
	t.Helper()
	return testsupport.NewConfig(t)
}

func openStore(t *testing.T, cfg *config.Config) *store.Store {
	t.Helper()
	return testsupport.MustOpenStore(t, cfg)
}

func TestAssemblerBuild(t *testing.T) {
	catalog := &fakeCatalog{
		playlists:   map[string]*youtube.Playlist{"PL1": playlist("PL1", "Complete Python Bootcamp 2025")},
		lessonCount: map[string]int{"PL1": 6},
	}
	assembler := collector.NewAssembler(catalog, 5, "en")

	c, err := assembler.Build(context.Background(), youtube.SearchResult{PlaylistID: "PL1"}, "Programming")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if c.YouTubeID != "PL1" || c.URL != "https://www.youtube.com/playlist?list=PL1" {
		t.Fatalf("identity wrong: %+v", c)
	}
	if c.LessonCount != 6 || len(c.Lessons) != 6 {
		t.Fatalf("lesson count wrong: %d", c.LessonCount)
	}
	if c.DurationMin != 60 {
		t.Fatalf("duration = %d, want 60", c.DurationMin)
	}
	if c.Lessons[0].Idx != 1 || c.Lessons[5].Idx != 6 {
		t.Fatalf("lesson indexes wrong: %+v", c.Lessons)
	}
	if c.Subcategory != "Python" {
		t.Fatalf("subcategory = %q", c.Subcategory)
	}
	if c.Language != "en" || c.LanguageName != "English" {
		t.Fatalf("language = %q/%q", c.Language, c.LanguageName)
	}
	if c.Author.Subscribers != 5000 || c.Author.Homepage != "https://www.youtube.com/channel/UC1" {
		t.Fatalf("author wrong: %+v", c.Author)
	}
	if !c.VerifiedFree || c.ScrapedAt == "" || c.LastUpdated == "" {
		t.Fatalf("stamps wrong: %+v", c)
	}
	wantTags := []string{"course", "complete", "bootcamp", "2025"}
	if strings.Join(c.Tags, ",") != strings.Join(wantTags, ",") {
		t.Fatalf("tags = %v, want %v", c.Tags, wantTags)
	}
}

func TestAssemblerLanguageFallbacks(t *testing.T) {
	// Title and description avoid every marker vocabulary so only the
	// declared metadata and the configured default can decide.
	neutral := func(defaultLang, audioLang string) *youtube.Playlist {
		p := playlist("PL1", "Xylophone basics")
		p.Description = "chromatic scales and mallet technique"
		p.DefaultLanguage = defaultLang
		p.DefaultAudioLanguage = audioLang
		return p
	}

	cases := []struct {
		name        string
		defaultLang string
		audioLang   string
		configLang  string
		want        string
		wantName    string
	}{
		{"declared language wins", "es", "fr", "pt", "es", "Spanish"},
		{"audio language backs up declared", "", "fr", "pt", "fr", "French"},
		{"configured default backs up both", "", "", "pt", "pt", "Portuguese"},
		{"english when nothing declared", "", "", "", "en", "English"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			catalog := &fakeCatalog{
				playlists:   map[string]*youtube.Playlist{"PL1": neutral(tc.defaultLang, tc.audioLang)},
				lessonCount: map[string]int{"PL1": 5},
			}
			assembler := collector.NewAssembler(catalog, 5, tc.configLang)

			c, err := assembler.Build(context.Background(), youtube.SearchResult{PlaylistID: "PL1"}, "Music")
			if err != nil {
				t.Fatalf("Build: %v", err)
			}
			if c.Language != tc.want || c.LanguageName != tc.wantName {
				t.Fatalf("language = %q/%q, want %q/%q", c.Language, c.LanguageName, tc.want, tc.wantName)
			}
		})
	}
}

func TestAssemblerRejectsMissingPlaylist(t *testing.T) {
	catalog := &fakeCatalog{playlists: map[string]*youtube.Playlist{}}
	assembler := collector.NewAssembler(catalog, 5, "en")

	_, err := assembler.Build(context.Background(), youtube.SearchResult{PlaylistID: "PLgone"}, "Programming")
	if !errors.Is(err, collector.ErrSkipped) {
		t.Fatalf("expected ErrSkipped, got %v", err)
	}
}

func TestAssemblerRejectsShortPlaylists(t *testing.T) {
	catalog := &fakeCatalog{
		playlists:   map[string]*youtube.Playlist{"PL1": playlist("PL1", "Short one")},
		lessonCount: map[string]int{"PL1": 4},
	}
	assembler := collector.NewAssembler(catalog, 5, "en")

	_, err := assembler.Build(context.Background(), youtube.SearchResult{PlaylistID: "PL1"}, "Programming")
	if !errors.Is(err, collector.ErrSkipped) {
		t.Fatalf("expected ErrSkipped, got %v", err)
	}
	if !strings.Contains(err.Error(), "minimum 5") {
		t.Fatalf("reason missing: %v", err)
	}
}

func TestAssemblerChannelFailureDegrades(t *testing.T) {
	catalog := &fakeCatalog{
		playlists:   map[string]*youtube.Playlist{"PL1": playlist("PL1", "Go course")},
		lessonCount: map[string]int{"PL1": 5},
		channelErr:  errors.New("quota"),
	}
	assembler := collector.NewAssembler(catalog, 5, "en")

	c, err := assembler.Build(context.Background(), youtube.SearchResult{PlaylistID: "PL1"}, "Programming")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if c.Author.Subscribers != 0 {
		t.Fatalf("subscribers = %d, want 0", c.Author.Subscribers)
	}
}

func TestRunCollectsAndImports(t *testing.T) {
	cfg := newTestConfig(t)
	st := openStore(t, cfg)
	registry := jobs.NewRegistry()
	notifier := &recordingNotifier{}

	catalog := &fakeCatalog{
		searches: map[string][]youtube.SearchResult{
			// First keyword of the AI/ML category.
			"machine learning course": {
				{PlaylistID: "PL1"}, {PlaylistID: "PL2"}, {PlaylistID: "PLshort"},
			},
		},
		playlists: map[string]*youtube.Playlist{
			"PL1":     playlist("PL1", "Machine Learning Complete Course"),
			"PL2":     playlist("PL2", "Deep Learning Bootcamp"),
			"PLshort": playlist("PLshort", "Tiny ML"),
		},
		lessonCount: map[string]int{"PL1": 8, "PL2": 10, "PLshort": 2},
	}

	c := collector.New(cfg, catalog, st, registry, notifier, logging.NewNop())
	job := registry.Create(jobs.Params{Total: 2})

	err := c.Run(context.Background(), collector.RunParams{
		JobID:              job.ID,
		CoursesPerCategory: 2,
		Categories:         []string{"AI/ML"},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	got, _ := registry.Get(job.ID)
	if got.Status != jobs.StatusCompleted {
		t.Fatalf("status = %q, error = %q, logs = %v", got.Status, got.Error, got.Logs)
	}
	if got.Collected != 2 {
		t.Fatalf("collected = %d, want 2", got.Collected)
	}

	// Cap of 2 reached on the first keyword; no further keywords searched.
	if len(catalog.searchCalls) != 1 {
		t.Fatalf("search calls = %v", catalog.searchCalls)
	}

	stored, err := st.GetCourseByYouTubeID(context.Background(), "PL1")
	if err != nil {
		t.Fatalf("course not imported: %v", err)
	}
	if stored.Category != "AI/ML" {
		t.Fatalf("category = %q", stored.Category)
	}
	if _, err := st.GetCourseByYouTubeID(context.Background(), "PLshort"); !errors.Is(err, store.ErrNotFound) {
		t.Fatal("short playlist should have been rejected")
	}

	// Staging file removed after import.
	entries, err := os.ReadDir(cfg.Paths.DataDir)
	if err != nil {
		t.Fatalf("read data dir: %v", err)
	}
	for _, entry := range entries {
		if filepath.Ext(entry.Name()) == ".jsonl" {
			t.Fatalf("staging file left behind: %s", entry.Name())
		}
	}

	if len(notifier.completed) != 1 || notifier.completed[0] != job.ID+":2:0" {
		t.Fatalf("notifications = %v", notifier.completed)
	}
}

func TestRunUsesConfiguredSearchSize(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.Collector.SearchResultsPerKeyword = 7
	st := openStore(t, cfg)
	registry := jobs.NewRegistry()

	catalog := &fakeCatalog{
		searches: map[string][]youtube.SearchResult{
			"machine learning course": {{PlaylistID: "PL1"}},
		},
		playlists:   map[string]*youtube.Playlist{"PL1": playlist("PL1", "Machine Learning Complete Course")},
		lessonCount: map[string]int{"PL1": 8},
	}

	c := collector.New(cfg, catalog, st, registry, &recordingNotifier{}, logging.NewNop())
	job := registry.Create(jobs.Params{Total: 1})

	err := c.Run(context.Background(), collector.RunParams{
		JobID:              job.ID,
		CoursesPerCategory: 1,
		Categories:         []string{"AI/ML"},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(catalog.searchSizes) == 0 || catalog.searchSizes[0] != 7 {
		t.Fatalf("search sizes = %v, want [7]", catalog.searchSizes)
	}
}

func TestRunCustomKeywordsFirst(t *testing.T) {
	cfg := newTestConfig(t)
	st := openStore(t, cfg)
	registry := jobs.NewRegistry()

	catalog := &fakeCatalog{
		searches: map[string][]youtube.SearchResult{
			"rust course": {{PlaylistID: "PLrust"}},
		},
		playlists:   map[string]*youtube.Playlist{"PLrust": playlist("PLrust", "Rust for Beginners")},
		lessonCount: map[string]int{"PLrust": 7},
	}

	c := collector.New(cfg, catalog, st, registry, &recordingNotifier{}, logging.NewNop())
	job := registry.Create(jobs.Params{CustomKeywords: []string{"rust course"}})

	err := c.Run(context.Background(), collector.RunParams{
		JobID:              job.ID,
		CoursesPerCategory: 5,
		CustomKeywords:     []string{"rust course"},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	stored, err := st.GetCourseByYouTubeID(context.Background(), "PLrust")
	if err != nil {
		t.Fatalf("custom keyword course missing: %v", err)
	}
	if stored.Category != "Custom" {
		t.Fatalf("category = %q, want Custom", stored.Category)
	}
}

func TestRunFailsWithoutAPIKey(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.YouTube.APIKey = ""
	st := openStore(t, cfg)
	registry := jobs.NewRegistry()
	notifier := &recordingNotifier{}
	catalog := &fakeCatalog{}

	c := collector.New(cfg, catalog, st, registry, notifier, logging.NewNop())
	job := registry.Create(jobs.Params{})

	err := c.Run(context.Background(), collector.RunParams{JobID: job.ID, Categories: []string{"AI/ML"}})
	if !errors.Is(err, config.ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}

	got, _ := registry.Get(job.ID)
	if got.Status != jobs.StatusFailed {
		t.Fatalf("status = %q", got.Status)
	}
	if len(catalog.searchCalls) != 0 {
		t.Fatal("no lookups may happen without an API key")
	}
	if len(notifier.failed) != 1 {
		t.Fatalf("failure notification missing: %v", notifier.failed)
	}
}

func TestRunCompletesWithNothingCollected(t *testing.T) {
	cfg := newTestConfig(t)
	st := openStore(t, cfg)
	registry := jobs.NewRegistry()
	notifier := &recordingNotifier{}

	c := collector.New(cfg, &fakeCatalog{}, st, registry, notifier, logging.NewNop())
	job := registry.Create(jobs.Params{})

	if err := c.Run(context.Background(), collector.RunParams{JobID: job.ID, Categories: []string{"Design"}}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	got, _ := registry.Get(job.ID)
	if got.Status != jobs.StatusCompleted {
		t.Fatalf("status = %q", got.Status)
	}
	if len(notifier.completed) != 1 || !strings.HasSuffix(notifier.completed[0], ":0:0") {
		t.Fatalf("notifications = %v", notifier.completed)
	}
}

func TestRunIgnoresUnknownCategories(t *testing.T) {
	cfg := newTestConfig(t)
	st := openStore(t, cfg)
	registry := jobs.NewRegistry()
	catalog := &fakeCatalog{}

	c := collector.New(cfg, catalog, st, registry, &recordingNotifier{}, logging.NewNop())
	job := registry.Create(jobs.Params{})

	if err := c.Run(context.Background(), collector.RunParams{JobID: job.ID, Categories: []string{"Knitting"}}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(catalog.searchCalls) != 0 {
		t.Fatalf("unknown category must not search: %v", catalog.searchCalls)
	}
}
