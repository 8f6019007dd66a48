package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"coursespider/internal/course"
)

// InsertCourse stores a course with all of its lessons in one transaction.
// Returns false when a course with the same youtube_id already exists;
// the existing row is never overwritten.
func (s *Store) InsertCourse(ctx context.Context, c *course.Course) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var existing int64
	err = tx.QueryRowContext(ctx, "SELECT id FROM courses WHERE youtube_id = ?", c.YouTubeID).Scan(&existing)
	switch {
	case err == nil:
		return false, nil
	case !errors.Is(err, sql.ErrNoRows):
		return false, fmt.Errorf("check duplicate: %w", err)
	}

	tags, err := json.Marshal(c.Tags)
	if err != nil {
		return false, fmt.Errorf("encode tags: %w", err)
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO courses (
            youtube_id, url, category, subcategory, title, description,
            author_name, author_channel_id, author_homepage, author_subscribers,
            duration_min, lesson_count, language, language_name, thumbnail,
            published_at, last_updated, verified_free, scraped_at, tags
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.YouTubeID, c.URL, c.Category, c.Subcategory, c.Title, c.Description,
		c.Author.Name, c.Author.ChannelID, c.Author.Homepage, c.Author.Subscribers,
		c.DurationMin, c.LessonCount, c.Language, c.LanguageName, c.Thumbnail,
		c.PublishedAt, c.LastUpdated, c.VerifiedFree, c.ScrapedAt, string(tags),
	)
	if err != nil {
		// A concurrent writer can win the race between the duplicate
		// check and the insert; its row stands.
		if isDuplicateCourse(err) {
			return false, nil
		}
		return false, fmt.Errorf("insert course %s: %w", c.YouTubeID, err)
	}
	courseID, err := res.LastInsertId()
	if err != nil {
		return false, fmt.Errorf("last insert id: %w", err)
	}

	for i := range c.Lessons {
		lesson := &c.Lessons[i]
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO lessons (
                course_id, idx, title, video_id, duration_min, description,
                thumbnail, published_at, view_count, like_count
            ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			courseID, lesson.Idx, lesson.Title, lesson.VideoID, lesson.DurationMin,
			lesson.Description, lesson.Thumbnail, lesson.PublishedAt,
			lesson.ViewCount, lesson.LikeCount,
		); err != nil {
			return false, fmt.Errorf("insert lesson %d of %s: %w", lesson.Idx, c.YouTubeID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit course %s: %w", c.YouTubeID, err)
	}
	c.ID = courseID
	return true, nil
}

// isDuplicateCourse reports whether err is the UNIQUE violation raised
// when another transaction already inserted the same youtube_id.
func isDuplicateCourse(err error) bool {
	var se *sqlite.Error
	return errors.As(err, &se) && se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
}

// ImportJSONL loads a staging file written by the collector. Malformed
// lines and duplicate courses count as skipped; the import never aborts on
// a bad line.
func (s *Store) ImportJSONL(ctx context.Context, path string) (imported, skipped int, err error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, 0, fmt.Errorf("open staging file: %w", err)
	}
	defer file.Close()

	var insertErr error
	readErr := course.ReadJSONL(file, func(c *course.Course, lineErr error) {
		if insertErr != nil {
			return
		}
		if lineErr != nil {
			skipped++
			return
		}
		ok, err := s.InsertCourse(ctx, c)
		if err != nil {
			insertErr = err
			return
		}
		if ok {
			imported++
		} else {
			skipped++
		}
	})
	if readErr != nil {
		return imported, skipped, readErr
	}
	if insertErr != nil {
		return imported, skipped, insertErr
	}
	return imported, skipped, nil
}

// GetCourse fetches a course by row id with lessons in playlist order.
func (s *Store) GetCourse(ctx context.Context, id int64) (*course.Course, error) {
	return s.getCourse(ctx, "id = ?", id)
}

// GetCourseByYouTubeID fetches a course by its playlist id.
func (s *Store) GetCourseByYouTubeID(ctx context.Context, youtubeID string) (*course.Course, error) {
	return s.getCourse(ctx, "youtube_id = ?", youtubeID)
}

func (s *Store) getCourse(ctx context.Context, where string, arg any) (*course.Course, error) {
	row := s.db.QueryRowContext(ctx, selectCourseColumns+" FROM courses WHERE "+where, arg)
	c, err := scanCourse(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	lessons, err := s.lessonsFor(ctx, []int64{c.ID})
	if err != nil {
		return nil, err
	}
	c.Lessons = lessons[c.ID]
	return c, nil
}

// DeleteCourse removes a course; its lessons cascade.
func (s *Store) DeleteCourse(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM courses WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete course %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

const selectCourseColumns = `SELECT
    id, youtube_id, url, category, subcategory, title, description,
    author_name, author_channel_id, author_homepage, author_subscribers,
    duration_min, lesson_count, language, language_name, thumbnail,
    published_at, last_updated, verified_free, scraped_at, tags, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCourse(row rowScanner) (*course.Course, error) {
	var c course.Course
	var tags string
	err := row.Scan(
		&c.ID, &c.YouTubeID, &c.URL, &c.Category, &c.Subcategory, &c.Title, &c.Description,
		&c.Author.Name, &c.Author.ChannelID, &c.Author.Homepage, &c.Author.Subscribers,
		&c.DurationMin, &c.LessonCount, &c.Language, &c.LanguageName, &c.Thumbnail,
		&c.PublishedAt, &c.LastUpdated, &c.VerifiedFree, &c.ScrapedAt, &tags, &c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(tags), &c.Tags); err != nil {
		// A corrupt tag list shouldn't hide the course.
		c.Tags = nil
	}
	return &c, nil
}

// lessonsFor loads lessons for the given course ids, keyed by course id,
// ordered by idx.
func (s *Store) lessonsFor(ctx context.Context, courseIDs []int64) (map[int64][]course.Lesson, error) {
	result := make(map[int64][]course.Lesson, len(courseIDs))
	if len(courseIDs) == 0 {
		return result, nil
	}

	query := `SELECT course_id, idx, title, video_id, duration_min, description,
        thumbnail, published_at, view_count, like_count
        FROM lessons WHERE course_id IN (`
	args := make([]any, len(courseIDs))
	for i, id := range courseIDs {
		if i > 0 {
			query += ","
		}
		query += "?"
		args[i] = id
	}
	query += ") ORDER BY course_id, idx"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query lessons: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var courseID int64
		var l course.Lesson
		if err := rows.Scan(&courseID, &l.Idx, &l.Title, &l.VideoID, &l.DurationMin,
			&l.Description, &l.Thumbnail, &l.PublishedAt, &l.ViewCount, &l.LikeCount); err != nil {
			return nil, fmt.Errorf("scan lesson: %w", err)
		}
		result[courseID] = append(result[courseID], l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate lessons: %w", err)
	}
	return result, nil
}
