package collector

import (
	"context"
	"errors"
	"fmt"
	"time"

	"coursespider/internal/classify"
	"coursespider/internal/course"
	"coursespider/internal/youtube"
)

// ErrSkipped marks a candidate that was rejected by an admission rule
// rather than failed by an external error.
var ErrSkipped = errors.New("playlist skipped")

// Assembler builds a course from a playlist search hit. defaultLanguage
// is the code assumed when neither the playlist metadata nor the text
// gives one away.
type Assembler struct {
	catalog         Catalog
	minLessons      int
	defaultLanguage string
	now             func() time.Time
}

func NewAssembler(catalog Catalog, minLessons int, defaultLanguage string) *Assembler {
	return &Assembler{
		catalog:         catalog,
		minLessons:      minLessons,
		defaultLanguage: defaultLanguage,
		now:             time.Now,
	}
}

// Build resolves a candidate playlist into a course. Admission failures
// (playlist gone, too few lessons) return an ErrSkipped-wrapped error.
func (a *Assembler) Build(ctx context.Context, candidate youtube.SearchResult, category string) (*course.Course, error) {
	details, err := a.catalog.PlaylistDetails(ctx, candidate.PlaylistID)
	if err != nil {
		return nil, fmt.Errorf("playlist %s details: %w", candidate.PlaylistID, err)
	}
	if details == nil {
		return nil, fmt.Errorf("%w: playlist %s unavailable", ErrSkipped, candidate.PlaylistID)
	}

	items, err := a.catalog.PlaylistItems(ctx, candidate.PlaylistID)
	if err != nil && len(items) < a.minLessons {
		return nil, fmt.Errorf("playlist %s items: %w", candidate.PlaylistID, err)
	}
	if len(items) < a.minLessons {
		return nil, fmt.Errorf("%w: only %d videos (minimum %d required)", ErrSkipped, len(items), a.minLessons)
	}

	videoIDs := make([]string, len(items))
	for i, item := range items {
		videoIDs[i] = item.VideoID
	}
	videos := a.catalog.VideoDetails(ctx, videoIDs)

	// Channel lookup failures degrade to zero subscribers; the course is
	// still admitted.
	var subscribers int64
	if channel, err := a.catalog.ChannelDetails(ctx, details.ChannelID); err == nil && channel != nil {
		subscribers = channel.Subscribers
	}

	totalDuration := 0
	lessons := make([]course.Lesson, 0, len(videos))
	for i, video := range videos {
		duration := classify.ParseDuration(video.Duration)
		totalDuration += duration
		lessons = append(lessons, course.Lesson{
			Idx:         i + 1,
			Title:       video.Title,
			VideoID:     video.ID,
			DurationMin: duration,
			Description: video.Description,
			Thumbnail:   video.Thumbnail,
			PublishedAt: video.PublishedAt,
			ViewCount:   video.ViewCount,
			LikeCount:   video.LikeCount,
		})
	}

	text := details.Title + " " + details.Description
	declared := details.DefaultLanguage
	if declared == "" {
		declared = details.DefaultAudioLanguage
	}
	if declared == "" {
		declared = a.defaultLanguage
	}
	languageCode := classify.DetectLanguage(details.Title, details.Description, declared)
	timestamp := a.now().UTC().Format(time.RFC3339)

	return &course.Course{
		YouTubeID:   details.ID,
		URL:         "https://www.youtube.com/playlist?list=" + details.ID,
		Category:    category,
		Subcategory: classify.DetermineSubcategory(category, text),
		Title:       details.Title,
		Description: details.Description,
		Author: course.Author{
			Name:        details.ChannelTitle,
			ChannelID:   details.ChannelID,
			Homepage:    "https://www.youtube.com/channel/" + details.ChannelID,
			Subscribers: subscribers,
		},
		DurationMin:  totalDuration,
		LessonCount:  len(lessons),
		Lessons:      lessons,
		Language:     languageCode,
		LanguageName: classify.LanguageName(languageCode),
		Thumbnail:    details.Thumbnail,
		PublishedAt:  details.PublishedAt,
		LastUpdated:  timestamp,
		VerifiedFree: true,
		ScrapedAt:    timestamp,
		Tags:         classify.ExtractTags(text),
	}, nil
}
