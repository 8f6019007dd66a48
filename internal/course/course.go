package course

// Author describes the channel that published a course.
type Author struct {
	Name        string `json:"name"`
	ChannelID   string `json:"channel_id"`
	Homepage    string `json:"homepage"`
	Subscribers int64  `json:"subscribers"`
}

// Lesson is one video within a course. Idx is the 1-based position in the
// source playlist and defines the canonical lesson order.
type Lesson struct {
	Idx         int    `json:"idx"`
	Title       string `json:"title"`
	VideoID     string `json:"video_id"`
	DurationMin int    `json:"duration_min"`
	Description string `json:"description"`
	Thumbnail   string `json:"thumbnail"`
	PublishedAt string `json:"published_at"`
	ViewCount   int64  `json:"view_count"`
	LikeCount   int64  `json:"like_count"`
}

// Course is a normalized playlist with its ordered lessons. YouTubeID is
// the external identity: the store rejects a second course with the same
// id rather than overwriting the first.
//
// Invariants maintained by the assembler: LessonCount equals len(Lessons)
// and DurationMin equals the sum of the lesson durations.
type Course struct {
	ID           int64    `json:"id,omitempty"`
	YouTubeID    string   `json:"youtube_id"`
	URL          string   `json:"url"`
	Category     string   `json:"category"`
	Subcategory  string   `json:"subcategory"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Author       Author   `json:"author"`
	DurationMin  int      `json:"duration_min"`
	LessonCount  int      `json:"lesson_count"`
	Lessons      []Lesson `json:"lessons"`
	Language     string   `json:"language"`
	LanguageName string   `json:"language_name"`
	Thumbnail    string   `json:"thumbnail"`
	PublishedAt  string   `json:"published_at"`
	LastUpdated  string   `json:"last_updated"`
	VerifiedFree bool     `json:"verified_free"`
	ScrapedAt    string   `json:"scraped_at"`
	Tags         []string `json:"tags"`
	CreatedAt    string   `json:"created_at,omitempty"`
}
