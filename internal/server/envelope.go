package server

import (
	"encoding/json"
	"net/http"

	"coursespider/internal/logging"
)

// pagination mirrors the shape the front-end expects on list endpoints.
type pagination struct {
	Limit      int `json:"limit"`
	Offset     int `json:"offset"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	TotalPages int `json:"total_pages"`
}

func newPagination(limit, offset, total int) pagination {
	return pagination{
		Limit:      limit,
		Offset:     offset,
		Total:      total,
		Page:       offset/limit + 1,
		TotalPages: (total + limit - 1) / limit,
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", logging.Error(err))
	}
}

// writeData wraps payload in the success envelope.
func (s *Server) writeData(w http.ResponseWriter, payload any) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    payload,
	})
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]any{
		"success": false,
		"error":   message,
	})
}
