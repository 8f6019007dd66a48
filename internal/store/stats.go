package store

import (
	"context"
	"fmt"
	"math"
)

// Statistics summarizes the catalog for the stats endpoint and CLI.
type Statistics struct {
	TotalCourses       int            `json:"total_courses"`
	ByCategory         map[string]int `json:"by_category"`
	ByLanguage         map[string]int `json:"by_language"`
	TotalLessons       int            `json:"total_lessons"`
	TotalDurationHours int            `json:"total_duration_hours"`
}

// Statistics computes catalog-wide aggregates. Languages are keyed by
// display name.
func (s *Store) Statistics(ctx context.Context) (*Statistics, error) {
	stats := &Statistics{
		ByCategory: map[string]int{},
		ByLanguage: map[string]int{},
	}

	var totalMinutes int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1), COALESCE(SUM(lesson_count), 0), COALESCE(SUM(duration_min), 0) FROM courses",
	).Scan(&stats.TotalCourses, &stats.TotalLessons, &totalMinutes)
	if err != nil {
		return nil, fmt.Errorf("course totals: %w", err)
	}
	stats.TotalDurationHours = int(math.Round(float64(totalMinutes) / 60.0))

	if err := s.countsInto(ctx, "category", stats.ByCategory); err != nil {
		return nil, err
	}
	if err := s.countsInto(ctx, "language_name", stats.ByLanguage); err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *Store) countsInto(ctx context.Context, column string, dest map[string]int) error {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+column+", COUNT(1) FROM courses GROUP BY "+column)
	if err != nil {
		return fmt.Errorf("group by %s: %w", column, err)
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var count int
		if err := rows.Scan(&key, &count); err != nil {
			return fmt.Errorf("scan %s count: %w", column, err)
		}
		dest[key] = count
	}
	return rows.Err()
}
