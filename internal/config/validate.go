package config

import (
	"errors"
	"fmt"
	"net"
	"strings"
)

// Validate ensures the configuration is usable. A missing YouTube API key
// is not a validation failure; RequireAPIKey gates the operations that
// need one.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateYouTube(); err != nil {
		return err
	}
	if err := c.validateCollector(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		return errors.New("paths.data_dir must be set")
	}
	if _, _, err := net.SplitHostPort(c.Paths.APIBind); err != nil {
		return fmt.Errorf("paths.api_bind %q is not host:port: %w", c.Paths.APIBind, err)
	}
	return nil
}

func (c *Config) validateYouTube() error {
	if !strings.HasPrefix(c.YouTube.BaseURL, "http://") && !strings.HasPrefix(c.YouTube.BaseURL, "https://") {
		return fmt.Errorf("youtube.base_url %q must be an http(s) URL", c.YouTube.BaseURL)
	}
	if c.YouTube.SearchMaxResults > 50 {
		return errors.New("youtube.search_max_results must be at most 50")
	}
	return ensurePositiveMap(map[string]int{
		"youtube.search_max_results":    c.YouTube.SearchMaxResults,
		"youtube.request_timeout":       c.YouTube.RequestTimeout,
		"notifications.request_timeout": c.Notifications.RequestTimeout,
	})
}

func (c *Config) validateCollector() error {
	if len(c.Collector.DefaultLanguage) != 2 {
		return fmt.Errorf("collector.default_language %q must be a two-letter code", c.Collector.DefaultLanguage)
	}
	return ensurePositiveMap(map[string]int{
		"collector.min_lessons":                c.Collector.MinLessons,
		"collector.courses_per_category":       c.Collector.CoursesPerCategory,
		"collector.search_results_per_keyword": c.Collector.SearchResultsPerKeyword,
	})
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level %q must be one of debug, info, warn, error", c.Logging.Level)
	}
}

func ensurePositiveMap(values map[string]int) error {
	for name, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive, got %d", name, value)
		}
	}
	return nil
}
