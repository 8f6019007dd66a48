package config

const (
	defaultDataDir                 = "~/.local/share/coursespider"
	defaultLogDir                  = "~/.local/share/coursespider/logs"
	defaultAPIBind                 = "127.0.0.1:8000"
	defaultYouTubeBaseURL          = "https://www.googleapis.com/youtube/v3"
	defaultSearchMaxResults        = 10
	defaultRequestTimeout          = 30
	defaultRateLimitPerSecond      = 4.0
	defaultMinLessons              = 5
	defaultCoursesPerCategory      = 5
	defaultSearchResultsPerKeyword = 10
	defaultLanguage                = "en"
	defaultLogFormat               = "auto"
	defaultLogLevel                = "info"
	defaultNotifyRequestTimeout    = 10
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
			APIBind: defaultAPIBind,
		},
		YouTube: YouTube{
			BaseURL:            defaultYouTubeBaseURL,
			SearchMaxResults:   defaultSearchMaxResults,
			RequestTimeout:     defaultRequestTimeout,
			RateLimitPerSecond: defaultRateLimitPerSecond,
		},
		Collector: Collector{
			MinLessons:              defaultMinLessons,
			CoursesPerCategory:      defaultCoursesPerCategory,
			SearchResultsPerKeyword: defaultSearchResultsPerKeyword,
			DefaultLanguage:         defaultLanguage,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyRequestTimeout,
		},
	}
}
