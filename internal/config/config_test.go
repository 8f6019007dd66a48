package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"coursespider/internal/config"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if exists {
		t.Fatal("expected exists=false for missing file")
	}
	if resolved != path {
		t.Fatalf("resolved = %q, want %q", resolved, path)
	}
	if cfg.Paths.APIBind != "127.0.0.1:8000" {
		t.Errorf("api_bind default = %q", cfg.Paths.APIBind)
	}
	if cfg.Collector.MinLessons != 5 || cfg.Collector.CoursesPerCategory != 5 {
		t.Errorf("collector defaults = %+v", cfg.Collector)
	}
	if cfg.YouTube.BaseURL != "https://www.googleapis.com/youtube/v3" {
		t.Errorf("base_url default = %q", cfg.YouTube.BaseURL)
	}
	if cfg.Logging.Format != "auto" || cfg.Logging.Level != "info" {
		t.Errorf("logging defaults = %+v", cfg.Logging)
	}
}

func TestLoadParsesSections(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
data_dir = "` + dir + `/data"
api_bind = "0.0.0.0:9000"

[youtube]
api_key = "from-file"
search_max_results = 25

[collector]
min_lessons = 3
default_language = "es"

[logging]
format = "json"
level = "debug"

[notifications]
ntfy_topic = "courses"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists {
		t.Fatal("expected exists=true")
	}
	if cfg.Paths.APIBind != "0.0.0.0:9000" {
		t.Errorf("api_bind = %q", cfg.Paths.APIBind)
	}
	if cfg.YouTube.APIKey != "from-file" || cfg.YouTube.SearchMaxResults != 25 {
		t.Errorf("youtube = %+v", cfg.YouTube)
	}
	if cfg.Collector.MinLessons != 3 || cfg.Collector.DefaultLanguage != "es" {
		t.Errorf("collector = %+v", cfg.Collector)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Errorf("logging = %+v", cfg.Logging)
	}
	if cfg.Notifications.NtfyTopic != "courses" {
		t.Errorf("ntfy_topic = %q", cfg.Notifications.NtfyTopic)
	}
	if got := cfg.DatabasePath(); got != filepath.Join(dir, "data", "courses.db") {
		t.Errorf("DatabasePath = %q", got)
	}
}

func TestEnvOverridesFileAPIKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[youtube]\napi_key = \"from-file\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("YOUTUBE_API_KEY", "from-env")

	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.YouTube.APIKey != "from-env" {
		t.Fatalf("api_key = %q, want from-env", cfg.YouTube.APIKey)
	}
}

func TestRequireAPIKey(t *testing.T) {
	cfg := config.Default()
	if err := cfg.RequireAPIKey(); !errors.Is(err, config.ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
	cfg.YouTube.APIKey = "k"
	if err := cfg.RequireAPIKey(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*config.Config)
		wantSub string
	}{
		{"bad bind", func(c *config.Config) { c.Paths.APIBind = "not-a-bind" }, "api_bind"},
		{"search results over api cap", func(c *config.Config) { c.YouTube.SearchMaxResults = 51 }, "at most 50"},
		{"bad language code", func(c *config.Config) { c.Collector.DefaultLanguage = "english" }, "two-letter"},
		{"bad level", func(c *config.Config) { c.Logging.Level = "verbose" }, "logging.level"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.wantSub) {
				t.Fatalf("error %q does not mention %q", err, tc.wantSub)
			}
		})
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	for _, section := range []string{"[paths]", "[youtube]", "[collector]", "[logging]", "[notifications]"} {
		if !strings.Contains(string(data), section) {
			t.Errorf("sample missing %s", section)
		}
	}
}

func TestEnsureDirectories(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(dir, "data")
	cfg.Paths.LogDir = filepath.Join(dir, "logs")

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	for _, d := range []string{cfg.Paths.DataDir, cfg.Paths.LogDir} {
		info, err := os.Stat(d)
		if err != nil || !info.IsDir() {
			t.Errorf("directory %q not created: %v", d, err)
		}
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home dir: %v", err)
	}
	got, err := config.ExpandPath("~/x/y")
	if err != nil {
		t.Fatalf("ExpandPath: %v", err)
	}
	if got != filepath.Join(home, "x", "y") {
		t.Fatalf("ExpandPath = %q", got)
	}
}
