package store

import (
	"context"
	"fmt"
	"strings"

	"coursespider/internal/course"
)

// maxSearchLimit caps the page size regardless of what the caller asks for.
const maxSearchLimit = 100

const defaultSearchLimit = 20

// Filters narrows and orders a course search. Zero values mean "no
// constraint".
type Filters struct {
	Category     string
	Subcategory  string
	Language     string
	LanguageName string
	Author       string // substring on author_name
	Query        string // substring on title or description
	MinLessons   int
	MaxLessons   int
	MinDuration  int // minutes
	MaxDuration  int
	SortBy       string // one of sortColumns, default created_at
	SortOrder    string // asc|desc, default desc
	Limit        int    // 0 = default page size, < 0 = no limit
	Offset       int
}

// sortColumns whitelists ORDER BY targets; anything else falls back to
// created_at.
var sortColumns = map[string]string{
	"created_at":   "created_at",
	"title":        "title",
	"duration_min": "duration_min",
	"lesson_count": "lesson_count",
	"published_at": "published_at",
	"subscribers":  "author_subscribers",
}

// SearchCourses returns one page of matching courses with their lessons,
// plus the total number of matches for pagination.
func (s *Store) SearchCourses(ctx context.Context, f Filters) ([]course.Course, int, error) {
	where, args := buildWhere(f)

	var total int
	countQuery := "SELECT COUNT(1) FROM courses" + where
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count courses: %w", err)
	}

	// SQLite reads a negative LIMIT as unlimited, which the advanced
	// search relies on to post-filter the full result set.
	limit := f.Limit
	switch {
	case limit == 0:
		limit = defaultSearchLimit
	case limit > maxSearchLimit:
		limit = maxSearchLimit
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}

	query := selectCourseColumns + " FROM courses" + where +
		" ORDER BY " + orderClause(f) + " LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query courses: %w", err)
	}
	defer rows.Close()

	var courses []course.Course
	var ids []int64
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan course: %w", err)
		}
		courses = append(courses, *c)
		ids = append(ids, c.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate courses: %w", err)
	}

	lessons, err := s.lessonsFor(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	for i := range courses {
		courses[i].Lessons = lessons[courses[i].ID]
	}

	return courses, total, nil
}

func buildWhere(f Filters) (string, []any) {
	var clauses []string
	var args []any

	eq := func(column, value string) {
		if value != "" {
			clauses = append(clauses, column+" = ?")
			args = append(args, value)
		}
	}
	eq("category", f.Category)
	eq("subcategory", f.Subcategory)
	eq("language", f.Language)
	eq("language_name", f.LanguageName)

	if f.Author != "" {
		clauses = append(clauses, "author_name LIKE ?")
		args = append(args, "%"+f.Author+"%")
	}
	if f.Query != "" {
		clauses = append(clauses, "(title LIKE ? OR description LIKE ?)")
		pattern := "%" + f.Query + "%"
		args = append(args, pattern, pattern)
	}
	if f.MinLessons > 0 {
		clauses = append(clauses, "lesson_count >= ?")
		args = append(args, f.MinLessons)
	}
	if f.MaxLessons > 0 {
		clauses = append(clauses, "lesson_count <= ?")
		args = append(args, f.MaxLessons)
	}
	if f.MinDuration > 0 {
		clauses = append(clauses, "duration_min >= ?")
		args = append(args, f.MinDuration)
	}
	if f.MaxDuration > 0 {
		clauses = append(clauses, "duration_min <= ?")
		args = append(args, f.MaxDuration)
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func orderClause(f Filters) string {
	column, ok := sortColumns[strings.ToLower(strings.TrimSpace(f.SortBy))]
	if !ok {
		column = "created_at"
	}
	direction := "DESC"
	if strings.EqualFold(strings.TrimSpace(f.SortOrder), "asc") {
		direction = "ASC"
	}
	// Stable tiebreak keeps pagination deterministic.
	return column + " " + direction + ", id " + direction
}
