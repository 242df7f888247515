package songqueue

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"songqueue-service/internal/provider"
)

// handleListSongs returns the pending queue with wait estimates.
// GET /api/songs
func (s *Server) handleListSongs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.state.Queue())
}

// handleSubmitSong accepts a new request. Validation and link resolution run
// before any state is touched, so a failed submission mutates nothing.
// POST /api/songs
func (s *Server) handleSubmitSong(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name             string              `json:"name"`
		SongName         string              `json:"songName"`
		Link             string              `json:"link"`
		VideoInfo        *provider.VideoInfo `json:"videoInfo"`
		ConfirmDuplicate bool                `json:"confirmDuplicate"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	body.SongName = strings.TrimSpace(body.SongName)
	if body.SongName == "" {
		writeError(w, http.StatusBadRequest, "song name is required")
		return
	}
	if s.profanity.IsProfane(body.Name) {
		writeError(w, http.StatusBadRequest, "name contains inappropriate language, please use another")
		return
	}

	body.Link = strings.TrimSpace(body.Link)
	info := body.VideoInfo
	if body.Link != "" && info == nil {
		if _, ok := provider.ValidateLink(body.Link); !ok {
			writeError(w, http.StatusBadRequest, "invalid link; supported: YouTube, Spotify")
			return
		}
		resolved, err := s.resolver.Resolve(r.Context(), body.Link)
		if err != nil {
			log.Printf("songqueue-service: resolve %q: %v", body.Link, err)
			writeError(w, http.StatusBadRequest, "could not fetch song metadata from link")
			return
		}
		info = resolved
	}

	song, err := s.state.Submit(SubmitRequest{
		Name:             body.Name,
		SongName:         body.SongName,
		Link:             body.Link,
		VideoInfo:        info,
		ConfirmDuplicate: body.ConfirmDuplicate,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, song)
}

// handleVoteSong adjusts a song's vote counters, one vote per address per
// hour. Switching is allowed by declaring the previous vote.
// POST /api/songs/{id}/vote
func (s *Server) handleVoteSong(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var body struct {
		Type         string `json:"type"`
		PreviousVote string `json:"previousVote"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if body.Type != "up" && body.Type != "down" {
		writeError(w, http.StatusBadRequest, "invalid vote type")
		return
	}
	if body.PreviousVote != "" && body.PreviousVote != "up" && body.PreviousVote != "down" {
		writeError(w, http.StatusBadRequest, "invalid previous vote")
		return
	}

	if !s.state.HasSong(id) {
		writeError(w, http.StatusNotFound, "song not found")
		return
	}

	voter := clientIP(r)
	if _, voted := s.markers.Get(r.Context(), id, voter); voted && body.PreviousVote == "" {
		writeError(w, http.StatusBadRequest, "you already voted for this song")
		return
	}

	outcome, err := s.state.ApplyVote(id, body.Type, body.PreviousVote)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	s.markers.Set(r.Context(), id, voter, body.Type)

	if outcome.AutoRejected {
		log.Printf("songqueue-service: song %s auto-rejected at %d downvotes", id, outcome.Song.Votes.Down)
	}
	if outcome.Prioritized {
		log.Printf("songqueue-service: song %s auto-prioritized at %d upvotes", id, outcome.Song.Votes.Up)
	}

	writeJSON(w, http.StatusOK, outcome.Song)
}

// handleDeleteSong rejects a queued song and archives it.
// DELETE /api/songs/{id}
func (s *Server) handleDeleteSong(w http.ResponseWriter, r *http.Request) {
	var body struct {
		AdminKey string `json:"adminKey"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if !s.authorize(body.AdminKey) {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	song, err := s.state.Reject(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "song rejected",
		"song":    song,
	})
}

// handlePrioritizeSong moves a queued song to the front.
// POST /api/songs/{id}/priority
func (s *Server) handlePrioritizeSong(w http.ResponseWriter, r *http.Request) {
	var body struct {
		AdminKey string `json:"adminKey"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if !s.authorize(body.AdminKey) {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	song, err := s.state.Prioritize(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "song prioritized",
		"song":    song,
	})
}

// handleUpdateLink re-resolves a queued song's link. The lookup happens
// before the state is touched; on failure the song keeps its old link.
// PUT /api/songs/{id}/link
func (s *Server) handleUpdateLink(w http.ResponseWriter, r *http.Request) {
	var body struct {
		AdminKey string `json:"adminKey"`
		Link     string `json:"link"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if !s.authorize(body.AdminKey) {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	body.Link = strings.TrimSpace(body.Link)
	if _, ok := provider.ValidateLink(body.Link); !ok {
		writeError(w, http.StatusBadRequest, "invalid link; supported: YouTube, Spotify")
		return
	}
	info, err := s.resolver.Resolve(r.Context(), body.Link)
	if err != nil {
		log.Printf("songqueue-service: resolve %q: %v", body.Link, err)
		writeError(w, http.StatusBadRequest, "could not fetch song metadata from link")
		return
	}

	song, err := s.state.UpdateLink(chi.URLParam(r, "id"), body.Link, info)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "link updated",
		"song":    song,
	})
}
