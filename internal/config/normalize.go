package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeYouTube()
	c.normalizeCollector()
	c.normalizeLogging()
	c.normalizeNotifications()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.StaticDir) != "" {
		if c.Paths.StaticDir, err = expandPath(c.Paths.StaticDir); err != nil {
			return fmt.Errorf("paths.static_dir: %w", err)
		}
	}
	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	if c.Paths.APIBind == "" {
		c.Paths.APIBind = defaultAPIBind
	}
	return nil
}

func (c *Config) normalizeYouTube() {
	c.YouTube.APIKey = strings.TrimSpace(c.YouTube.APIKey)
	// The environment wins over the config file.
	if value, ok := os.LookupEnv("YOUTUBE_API_KEY"); ok && strings.TrimSpace(value) != "" {
		c.YouTube.APIKey = strings.TrimSpace(value)
	}
	c.YouTube.BaseURL = strings.TrimSuffix(strings.TrimSpace(c.YouTube.BaseURL), "/")
	if c.YouTube.BaseURL == "" {
		c.YouTube.BaseURL = defaultYouTubeBaseURL
	}
	if c.YouTube.SearchMaxResults <= 0 {
		c.YouTube.SearchMaxResults = defaultSearchMaxResults
	}
	if c.YouTube.RequestTimeout <= 0 {
		c.YouTube.RequestTimeout = defaultRequestTimeout
	}
	if c.YouTube.RateLimitPerSecond <= 0 {
		c.YouTube.RateLimitPerSecond = defaultRateLimitPerSecond
	}
}

func (c *Config) normalizeCollector() {
	if c.Collector.MinLessons <= 0 {
		c.Collector.MinLessons = defaultMinLessons
	}
	if c.Collector.CoursesPerCategory <= 0 {
		c.Collector.CoursesPerCategory = defaultCoursesPerCategory
	}
	if c.Collector.SearchResultsPerKeyword <= 0 {
		c.Collector.SearchResultsPerKeyword = defaultSearchResultsPerKeyword
	}
	c.Collector.DefaultLanguage = strings.ToLower(strings.TrimSpace(c.Collector.DefaultLanguage))
	if c.Collector.DefaultLanguage == "" {
		c.Collector.DefaultLanguage = defaultLanguage
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "console", "json":
	default:
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNotifyRequestTimeout
	}
}
