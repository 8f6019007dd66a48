package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"coursespider/internal/collector"
	"coursespider/internal/course"
	"coursespider/internal/jobs"
	"coursespider/internal/logging"
	"coursespider/internal/store"
)

// coursePage is the paginated list envelope.
type coursePage struct {
	Success    bool            `json:"success"`
	Data       []course.Course `json:"data"`
	Pagination pagination      `json:"pagination"`
}

type nameCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func (s *Server) handleCourses(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	query := r.URL.Query()

	limit := intParam(query.Get("limit"), 20)
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	offset := intParam(query.Get("offset"), 0)
	if offset < 0 {
		offset = 0
	}

	search := query.Get("search")
	if search == "" {
		search = query.Get("q")
	}

	filters := store.Filters{
		Category:     query.Get("category"),
		Subcategory:  query.Get("subcategory"),
		Language:     query.Get("language"),
		LanguageName: query.Get("language_name"),
		Author:       query.Get("author"),
		Query:        search,
		MinLessons:   intParam(query.Get("min_lessons"), 0),
		MaxLessons:   intParam(query.Get("max_lessons"), 0),
		MinDuration:  intParam(query.Get("min_duration"), 0),
		MaxDuration:  intParam(query.Get("max_duration"), 0),
		SortBy:       query.Get("sort"),
		SortOrder:    query.Get("order"),
		Limit:        limit,
		Offset:       offset,
	}

	courses, total, err := s.store.SearchCourses(r.Context(), filters)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if courses == nil {
		courses = []course.Course{}
	}

	s.writeJSON(w, http.StatusOK, coursePage{
		Success:    true,
		Data:       courses,
		Pagination: newPagination(limit, offset, total),
	})
}

// handleCourseItem serves /api/courses/{id} and /api/courses/youtube/{id}.
func (s *Server) handleCourseItem(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/courses/")

	if ytid, ok := strings.CutPrefix(rest, "youtube/"); ok {
		if r.Method != http.MethodGet {
			s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		if ytid == "" || strings.Contains(ytid, "/") {
			s.writeError(w, http.StatusNotFound, "Course not found")
			return
		}
		c, err := s.store.GetCourseByYouTubeID(r.Context(), ytid)
		s.respondCourse(w, c, err)
		return
	}

	if rest == "" || strings.Contains(rest, "/") {
		s.writeError(w, http.StatusNotFound, "Course not found")
		return
	}
	id, err := strconv.ParseInt(rest, 10, 64)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid course id")
		return
	}

	switch r.Method {
	case http.MethodGet:
		c, err := s.store.GetCourse(r.Context(), id)
		s.respondCourse(w, c, err)
	case http.MethodDelete:
		if err := s.store.DeleteCourse(r.Context(), id); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				s.writeError(w, http.StatusNotFound, "Course not found")
				return
			}
			s.writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		s.writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"message": fmt.Sprintf("Course %d deleted successfully", id),
		})
	default:
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) respondCourse(w http.ResponseWriter, c *course.Course, err error) {
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, "Course not found")
			return
		}
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeData(w, c)
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	s.handleCounts(w, r, func(stats *store.Statistics) map[string]int { return stats.ByCategory })
}

func (s *Server) handleLanguages(w http.ResponseWriter, r *http.Request) {
	s.handleCounts(w, r, func(stats *store.Statistics) map[string]int { return stats.ByLanguage })
}

func (s *Server) handleCounts(w http.ResponseWriter, r *http.Request, pick func(*store.Statistics) map[string]int) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	stats, err := s.store.Statistics(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	counts := pick(stats)
	out := make([]nameCount, 0, len(counts))
	for name, count := range counts {
		out = append(out, nameCount{Name: name, Count: count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	s.writeData(w, out)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	stats, err := s.store.Statistics(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeData(w, stats)
}

func (s *Server) handleFilters(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	stats, err := s.store.Statistics(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeData(w, map[string]any{
		"categories":    sortedKeys(stats.ByCategory),
		"languages":     sortedKeys(stats.ByLanguage),
		"total_courses": stats.TotalCourses,
	})
}

// searchRequest is the advanced search body. List filters are applied
// after the database query, matching any listed value.
type searchRequest struct {
	Query       string   `json:"query"`
	Categories  []string `json:"categories,omitempty"`
	Languages   []string `json:"languages,omitempty"`
	Authors     []string `json:"authors,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	MinLessons  int      `json:"min_lessons,omitempty"`
	MaxLessons  int      `json:"max_lessons,omitempty"`
	MinDuration int      `json:"min_duration,omitempty"`
	MaxDuration int      `json:"max_duration,omitempty"`
	Sort        string   `json:"sort,omitempty"`
	Order       string   `json:"order,omitempty"`
	Limit       int      `json:"limit,omitempty"`
	Offset      int      `json:"offset,omitempty"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// Fetch every database match, then narrow by the list filters the
	// SQL layer cannot express.
	matched, _, err := s.store.SearchCourses(r.Context(), store.Filters{
		Query:       req.Query,
		MinLessons:  req.MinLessons,
		MaxLessons:  req.MaxLessons,
		MinDuration: req.MinDuration,
		MaxDuration: req.MaxDuration,
		SortBy:      req.Sort,
		SortOrder:   req.Order,
		Limit:       -1,
	})
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	filtered := matched[:0:0]
	for _, c := range matched {
		if len(req.Categories) > 0 && !containsString(req.Categories, c.Category) {
			continue
		}
		if len(req.Languages) > 0 && !containsString(req.Languages, c.Language) {
			continue
		}
		if len(req.Authors) > 0 && !matchesAuthor(req.Authors, c.Author.Name) {
			continue
		}
		if len(req.Tags) > 0 && !intersects(req.Tags, c.Tags) {
			continue
		}
		filtered = append(filtered, c)
	}

	limit := req.Limit
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	offset := req.Offset
	if offset < 0 {
		offset = 0
	}

	total := len(filtered)
	start := offset
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}
	page := filtered[start:end]
	if page == nil {
		page = []course.Course{}
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    page,
		"total":   total,
		"query":   req,
	})
}

type collectRequest struct {
	CoursesPerCategory int      `json:"courses_per_category"`
	Categories         []string `json:"categories"`
	Language           string   `json:"language"`
	CustomKeywords     []string `json:"custom_keywords"`
}

func (s *Server) handleCollect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	req := collectRequest{CoursesPerCategory: s.cfg.Collector.CoursesPerCategory}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}
	if req.CoursesPerCategory <= 0 {
		req.CoursesPerCategory = s.cfg.Collector.CoursesPerCategory
	}

	job := s.registry.Create(jobs.Params{
		Total:          collector.EstimateTotal(req.Categories, req.CustomKeywords, req.CoursesPerCategory),
		Language:       req.Language,
		CustomKeywords: req.CustomKeywords,
	})

	// Detached from the request context so client disconnects cannot
	// abort a run in flight.
	go func() {
		err := s.collector.Run(context.Background(), collector.RunParams{
			JobID:              job.ID,
			CoursesPerCategory: req.CoursesPerCategory,
			Categories:         req.Categories,
			Language:           req.Language,
			CustomKeywords:     req.CustomKeywords,
		})
		if err != nil {
			s.logger.Error("collection run failed",
				logging.String("job_id", job.ID), logging.Error(err))
		}
	}()

	s.writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"job_id":  job.ID,
		"message": "Collection started",
	})
}

func (s *Server) handleCollectStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/api/collect/status/")
	if id == "" || strings.Contains(id, "/") {
		s.writeError(w, http.StatusNotFound, "Job not found")
		return
	}
	job, ok := s.registry.Get(id)
	if !ok {
		s.writeError(w, http.StatusNotFound, "Job not found")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"status":  job,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"status":    "healthy",
		"database":  "connected",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func intParam(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func containsString(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}

func matchesAuthor(authors []string, name string) bool {
	lower := strings.ToLower(name)
	for _, author := range authors {
		if strings.Contains(lower, strings.ToLower(author)) {
			return true
		}
	}
	return false
}

func intersects(wanted, have []string) bool {
	for _, w := range wanted {
		if containsString(have, w) {
			return true
		}
	}
	return false
}
