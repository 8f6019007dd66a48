// Package export renders the whole catalog as a JavaScript data file so
// the front-end can run without a server.
package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"coursespider/internal/course"
	"coursespider/internal/store"
)

// Summary reports what an export produced.
type Summary struct {
	Courses    int
	Lessons    int
	Hours      int
	Categories int
	Languages  int
}

type statsRecord struct {
	TotalCourses int      `json:"total_courses"`
	TotalLessons int      `json:"total_lessons"`
	TotalHours   int      `json:"total_hours"`
	Categories   []string `json:"categories"`
	Languages    []string `json:"languages"`
	LastUpdated  string   `json:"last_updated"`
}

// courseRecord is the flattened shape the standalone viewer reads. It
// drops bookkeeping fields like scraped_at and tags.
type courseRecord struct {
	ID                int64          `json:"id"`
	YouTubeID         string         `json:"youtube_id"`
	URL               string         `json:"url"`
	Title             string         `json:"title"`
	Description       string         `json:"description"`
	Category          string         `json:"category"`
	Subcategory       string         `json:"subcategory"`
	AuthorName        string         `json:"author_name"`
	AuthorChannelID   string         `json:"author_channel_id"`
	AuthorHomepage    string         `json:"author_homepage"`
	AuthorSubscribers int64          `json:"author_subscribers"`
	Thumbnail         string         `json:"thumbnail"`
	DurationMin       int            `json:"duration_min"`
	LessonCount       int            `json:"lesson_count"`
	Language          string         `json:"language"`
	LanguageName      string         `json:"language_name"`
	PublishedAt       string         `json:"published_at"`
	Lessons           []lessonRecord `json:"lessons"`
}

type lessonRecord struct {
	Idx         int    `json:"idx"`
	Title       string `json:"title"`
	VideoID     string `json:"video_id"`
	DurationMin int    `json:"duration_min"`
	Description string `json:"description"`
	Thumbnail   string `json:"thumbnail"`
	ViewCount   int64  `json:"view_count"`
	LikeCount   int64  `json:"like_count"`
}

type dataFile struct {
	Stats   statsRecord    `json:"stats"`
	Courses []courseRecord `json:"courses"`
}

// WriteJS writes the full catalog to w as a `const COURSES_DATA = ...`
// JavaScript file, newest courses first.
func WriteJS(ctx context.Context, st *store.Store, w io.Writer, now time.Time) (*Summary, error) {
	courses, _, err := st.SearchCourses(ctx, store.Filters{Limit: -1})
	if err != nil {
		return nil, fmt.Errorf("load courses: %w", err)
	}

	categorySet := map[string]bool{}
	languageSet := map[string]bool{}
	totalLessons := 0
	totalMinutes := 0

	records := make([]courseRecord, 0, len(courses))
	for _, c := range courses {
		categorySet[c.Category] = true
		languageSet[c.LanguageName] = true
		totalLessons += len(c.Lessons)
		totalMinutes += c.DurationMin
		records = append(records, toRecord(c))
	}

	timestamp := now.Format("2006-01-02 15:04:05")
	data := dataFile{
		Stats: statsRecord{
			TotalCourses: len(records),
			TotalLessons: totalLessons,
			TotalHours:   int(math.Round(float64(totalMinutes) / 60.0)),
			Categories:   sortedSet(categorySet),
			Languages:    sortedSet(languageSet),
			LastUpdated:  timestamp,
		},
		Courses: records,
	}

	header := fmt.Sprintf("// Auto-generated on %s\n// Total courses: %d\n// Total lessons: %d\n// Total hours: %d\n\nconst COURSES_DATA = ",
		timestamp, data.Stats.TotalCourses, data.Stats.TotalLessons, data.Stats.TotalHours)
	if _, err := io.WriteString(w, header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	encoded, err := marshalData(data)
	if err != nil {
		return nil, fmt.Errorf("encode catalog: %w", err)
	}
	if _, err := w.Write(encoded); err != nil {
		return nil, fmt.Errorf("write catalog: %w", err)
	}
	if _, err := io.WriteString(w, ";\n"); err != nil {
		return nil, fmt.Errorf("write trailer: %w", err)
	}

	return &Summary{
		Courses:    data.Stats.TotalCourses,
		Lessons:    data.Stats.TotalLessons,
		Hours:      data.Stats.TotalHours,
		Categories: len(data.Stats.Categories),
		Languages:  len(data.Stats.Languages),
	}, nil
}

func toRecord(c course.Course) courseRecord {
	lessons := make([]lessonRecord, 0, len(c.Lessons))
	for _, l := range c.Lessons {
		lessons = append(lessons, lessonRecord{
			Idx:         l.Idx,
			Title:       l.Title,
			VideoID:     l.VideoID,
			DurationMin: l.DurationMin,
			Description: l.Description,
			Thumbnail:   l.Thumbnail,
			ViewCount:   l.ViewCount,
			LikeCount:   l.LikeCount,
		})
	}
	return courseRecord{
		ID:                c.ID,
		YouTubeID:         c.YouTubeID,
		URL:               c.URL,
		Title:             c.Title,
		Description:       c.Description,
		Category:          c.Category,
		Subcategory:       c.Subcategory,
		AuthorName:        c.Author.Name,
		AuthorChannelID:   c.Author.ChannelID,
		AuthorHomepage:    c.Author.Homepage,
		AuthorSubscribers: c.Author.Subscribers,
		Thumbnail:         c.Thumbnail,
		DurationMin:       c.DurationMin,
		LessonCount:       c.LessonCount,
		Language:          c.Language,
		LanguageName:      c.LanguageName,
		PublishedAt:       c.PublishedAt,
		Lessons:           lessons,
	}
}

// marshalData keeps titles and descriptions readable in the output file
// instead of HTML-escaping them.
func marshalData(data dataFile) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return nil, err
	}
	// Encode appends a newline that would sit before the semicolon.
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// sortedSet orders display names the way a person would expect, accent
// and case insensitively.
func sortedSet(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for key := range set {
		out = append(out, key)
	}
	collate.New(language.English, collate.Loose).SortStrings(out)
	return out
}
