package songqueue

import (
	"encoding/json"
	"net/http"
)

// handleCurrentSong is the poll endpoint all three pages reconstruct their
// display from. Reads recompute the elapsed position from the stored start
// instant, so every poll is a pure, idempotent snapshot.
// GET /api/songs/current
func (s *Server) handleCurrentSong(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.state.Current())
}

// handleSkipSong discards the current song (no history entry) and starts the
// next one, if any.
// POST /api/songs/skip
func (s *Server) handleSkipSong(w http.ResponseWriter, r *http.Request) {
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

	view := s.state.Skip()
	message := "skipped to next song"
	if view.Current == nil {
		message = "no more songs in queue"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":       message,
		"current":       view.Current,
		"playbackState": view.PlaybackState,
	})
}

// handleNextSong is called by the player page when a song ends naturally.
// Unauthenticated on purpose: the player runs without the admin key. With
// repeat on, the same song restarts; otherwise the finished song is archived
// and the queue advances.
// POST /api/songs/next
func (s *Server) handleNextSong(w http.ResponseWriter, r *http.Request) {
	view := s.state.Advance()
	writeJSON(w, http.StatusOK, map[string]any{
		"current":       view.Current,
		"playbackState": view.PlaybackState,
	})
}

// handlePlayback runs the play/pause transitions.
// POST /api/playback
func (s *Server) handlePlayback(w http.ResponseWriter, r *http.Request) {
	var body struct {
		AdminKey string `json:"adminKey"`
		Action   string `json:"action"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if !s.authorize(body.AdminKey) {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var view CurrentView
	switch body.Action {
	case "play":
		view = s.state.Play()
	case "pause":
		view = s.state.Pause()
	default:
		writeError(w, http.StatusBadRequest, "invalid action")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"playbackState": view.PlaybackState,
		"currentSong":   view.Current,
	})
}

// handleSeek moves the position within the current song.
// POST /api/playback/seek
func (s *Server) handleSeek(w http.ResponseWriter, r *http.Request) {
	var body struct {
		AdminKey string  `json:"adminKey"`
		Time     float64 `json:"time"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if !s.authorize(body.AdminKey) {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	snap, err := s.state.Seek(body.Time)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"playbackState": snap,
	})
}

// handleRepeat toggles repeat mode.
// POST /api/playback/repeat
func (s *Server) handleRepeat(w http.ResponseWriter, r *http.Request) {
	var body struct {
		AdminKey string `json:"adminKey"`
		Enabled  bool   `json:"enabled"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if !s.authorize(body.AdminKey) {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	snap := s.state.SetRepeat(body.Enabled)
	writeJSON(w, http.StatusOK, map[string]any{
		"playbackState": snap,
	})
}
