package songqueue

import (
	"encoding/json"
	"net/http"
)

// handleAdminLogin exchanges the admin password for the admin key. The key
// is the same process-lifetime secret, not a derived session token.
// POST /api/admin/login
func (s *Server) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if !s.authorize(body.Password) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{
			"success": false,
			"error":   "wrong password",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"adminKey": s.adminKey,
	})
}

// handleCinemaMode flips the display-only cinema flag.
// POST /api/admin/cinema
func (s *Server) handleCinemaMode(w http.ResponseWriter, r *http.Request) {
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

	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"cinemaMode": s.state.ToggleCinema(),
	})
}

// handleVolume sets the player volume, clamped to 0-100.
// POST /api/admin/volume
func (s *Server) handleVolume(w http.ResponseWriter, r *http.Request) {
	var body struct {
		AdminKey string `json:"adminKey"`
		Volume   *int   `json:"volume"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if !s.authorize(body.AdminKey) {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	volume := 100
	if body.Volume != nil {
		volume = *body.Volume
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"volume":  s.state.SetVolume(volume),
	})
}
