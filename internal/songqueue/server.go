package songqueue

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"songqueue-service/internal/provider"
)

// Resolver looks up metadata for a submitted link and backs the search
// endpoint. Implemented by provider.Client; stubbed in tests.
type Resolver interface {
	Resolve(ctx context.Context, link string) (*provider.VideoInfo, error)
	Search(ctx context.Context, query string, limit int) ([]provider.SearchResult, error)
}

// ProfanityChecker screens requester names.
type ProfanityChecker interface {
	IsProfane(text string) bool
}

type Server struct {
	state     *State
	markers   *VoteMarkers
	resolver  Resolver
	profanity ProfanityChecker
	adminKey  string
}

func NewServer(state *State, markers *VoteMarkers, resolver Resolver, profanity ProfanityChecker, adminKey string) *Server {
	return &Server{
		state:     state,
		markers:   markers,
		resolver:  resolver,
		profanity: profanity,
		adminKey:  adminKey,
	}
}

// authorize is the moderation gate: every admin-mutating handler calls it
// first and fails closed, mutating nothing on a mismatch.
func (s *Server) authorize(suppliedKey string) bool {
	return suppliedKey != "" && suppliedKey == s.adminKey
}

func (s *Server) Router(middlewares ...func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	for _, mw := range middlewares {
		r.Use(mw)
	}

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/songs", s.handleListSongs)
		r.Post("/songs", s.handleSubmitSong)
		r.Get("/songs/current", s.handleCurrentSong)
		r.Post("/songs/skip", s.handleSkipSong)
		r.Post("/songs/next", s.handleNextSong)
		r.Post("/songs/{id}/vote", s.handleVoteSong)
		r.Delete("/songs/{id}", s.handleDeleteSong)
		r.Post("/songs/{id}/priority", s.handlePrioritizeSong)
		r.Put("/songs/{id}/link", s.handleUpdateLink)

		r.Post("/playback", s.handlePlayback)
		r.Post("/playback/seek", s.handleSeek)
		r.Post("/playback/repeat", s.handleRepeat)

		r.Get("/history", s.handleHistory)
		r.Get("/stats", s.handleStats)
		r.Get("/names", s.handleNames)

		r.Post("/admin/login", s.handleAdminLogin)
		r.Post("/admin/cinema", s.handleCinemaMode)
		r.Post("/admin/volume", s.handleVolume)

		r.Post("/validate/link", s.handleValidateLink)
		r.Get("/search/youtube", s.handleSearch)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "songqueue-service",
	})
}
