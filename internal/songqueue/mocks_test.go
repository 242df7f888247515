package songqueue

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"songqueue-service/internal/provider"
)

const testAdminKey = "test-admin-key"

// stubResolver implements Resolver for handler tests.
type stubResolver struct {
	ResolveFunc func(ctx context.Context, link string) (*provider.VideoInfo, error)
	SearchFunc  func(ctx context.Context, query string, limit int) ([]provider.SearchResult, error)
}

func (r *stubResolver) Resolve(ctx context.Context, link string) (*provider.VideoInfo, error) {
	if r.ResolveFunc != nil {
		return r.ResolveFunc(ctx, link)
	}
	return &provider.VideoInfo{
		VideoID:  "dQw4w9WgXcQ",
		Title:    "Test Video",
		Author:   "Test Channel",
		Platform: provider.PlatformYouTube,
		Duration: 212,
		URL:      link,
	}, nil
}

func (r *stubResolver) Search(ctx context.Context, query string, limit int) ([]provider.SearchResult, error) {
	if r.SearchFunc != nil {
		return r.SearchFunc(ctx, query, limit)
	}
	return nil, errors.New("search not stubbed")
}

// stubProfanity flags any name containing one of the listed words.
type stubProfanity struct {
	banned []string
}

func (p stubProfanity) IsProfane(text string) bool {
	lower := strings.ToLower(text)
	for _, word := range p.banned {
		if strings.Contains(lower, word) {
			return true
		}
	}
	return false
}

// newTestServer wires a Server over fresh state with a controllable clock.
// Advance the clock through the returned pointer.
func newTestServer(t *testing.T) (*Server, *State, *time.Time) {
	t.Helper()

	state := NewState()
	now := time.Date(2026, 8, 30, 20, 0, 0, 0, time.UTC)
	state.now = func() time.Time { return now }

	markers := NewVoteMarkers(nil)
	markers.now = state.now

	srv := NewServer(state, markers, &stubResolver{}, stubProfanity{banned: []string{"badword"}}, testAdminKey)
	return srv, state, &now
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
}

// submitSong pushes a song through the HTTP surface and returns it.
func submitSong(t *testing.T, router http.Handler, name, songName string) SongRequest {
	t.Helper()

	w := doJSON(t, router, http.MethodPost, "/api/songs", map[string]any{
		"name":     name,
		"songName": songName,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("submit %q: expected 201, got %d (%s)", songName, w.Code, w.Body.String())
	}
	var song SongRequest
	decodeBody(t, w, &song)
	return song
}
