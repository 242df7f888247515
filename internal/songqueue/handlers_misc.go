package songqueue

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"songqueue-service/internal/provider"
)

// handleHistory returns the most recent archived songs, newest first.
// GET /api/history?offset=&limit=
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	writeJSON(w, http.StatusOK, s.state.History(offset, limit))
}

// handleStats returns per-day archived song counts.
// GET /api/stats
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.state.Stats())
}

// handleNames returns known requester names for autocomplete.
// GET /api/names
func (s *Server) handleNames(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.state.Names())
}

// handleValidateLink resolves a URL without touching any state.
// POST /api/validate/link
func (s *Server) handleValidateLink(w http.ResponseWriter, r *http.Request) {
	var body struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	body.URL = strings.TrimSpace(body.URL)
	if body.URL == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"valid": false,
			"error": "no URL provided",
		})
		return
	}

	info, err := s.resolver.Resolve(r.Context(), body.URL)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"valid": false,
			"error": "video not found or link is invalid",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"valid":     true,
		"videoInfo": info,
	})
}

// handleSearch proxies a YouTube search for the requester page.
// GET /api/search/youtube?q=
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		writeJSON(w, http.StatusOK, []provider.SearchResult{})
		return
	}

	results, err := s.resolver.Search(r.Context(), q, 10)
	if err != nil {
		if errors.Is(err, provider.ErrSearchUnavailable) {
			writeError(w, http.StatusServiceUnavailable, "search is not configured")
			return
		}
		log.Printf("songqueue-service: search %q: %v", q, err)
		writeError(w, http.StatusBadGateway, "failed to query provider")
		return
	}
	writeJSON(w, http.StatusOK, results)
}
