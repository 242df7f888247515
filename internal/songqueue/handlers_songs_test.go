package songqueue

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"songqueue-service/internal/provider"
)

// doJSONAs is doJSON with a spoofed client address, for per-voter behavior.
func doJSONAs(t *testing.T, handler http.Handler, method, path string, body any, ip string) *httptest.ResponseRecorder {
	t.Helper()

	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Forwarded-For", ip)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func TestSubmitSong_Validation(t *testing.T) {
	srv, _, _ := newTestServer(t)
	router := srv.Router()

	tests := []struct {
		name     string
		body     map[string]any
		wantCode int
		wantErr  string
	}{
		{
			name:     "missing song name",
			body:     map[string]any{"name": "Alice"},
			wantCode: http.StatusBadRequest,
			wantErr:  "song name is required",
		},
		{
			name:     "whitespace song name",
			body:     map[string]any{"name": "Alice", "songName": "   "},
			wantCode: http.StatusBadRequest,
			wantErr:  "song name is required",
		},
		{
			name:     "profane requester name",
			body:     map[string]any{"name": "mr badword", "songName": "Fine Song"},
			wantCode: http.StatusBadRequest,
			wantErr:  "name contains inappropriate language, please use another",
		},
		{
			name:     "unsupported link",
			body:     map[string]any{"songName": "Fine Song", "link": "https://example.com/song"},
			wantCode: http.StatusBadRequest,
			wantErr:  "invalid link; supported: YouTube, Spotify",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, router, http.MethodPost, "/api/songs", tt.body)
			if w.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tt.wantCode, w.Body.String())
			}
			var resp struct {
				Error string `json:"error"`
			}
			decodeBody(t, w, &resp)
			if resp.Error != tt.wantErr {
				t.Errorf("error = %q, want %q", resp.Error, tt.wantErr)
			}
		})
	}
}

func TestSubmitSong_ResolvesLink(t *testing.T) {
	srv, _, _ := newTestServer(t)
	router := srv.Router()

	w := doJSON(t, router, http.MethodPost, "/api/songs", map[string]any{
		"name":     "Alice",
		"songName": "Never Gonna Give You Up",
		"link":     "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (%s)", w.Code, w.Body.String())
	}
	var song SongRequest
	decodeBody(t, w, &song)
	if song.VideoInfo == nil || song.VideoInfo.Title != "Test Video" {
		t.Fatalf("videoInfo = %+v, want resolved metadata", song.VideoInfo)
	}
	if song.Duration != 212 {
		t.Errorf("duration = %d, want resolved 212", song.Duration)
	}
}

func TestSubmitSong_ResolveFailure(t *testing.T) {
	srv, _, _ := newTestServer(t)
	srv.resolver = &stubResolver{
		ResolveFunc: func(ctx context.Context, link string) (*provider.VideoInfo, error) {
			return nil, errors.New("boom")
		},
	}
	router := srv.Router()

	w := doJSON(t, router, http.MethodPost, "/api/songs", map[string]any{
		"songName": "Song",
		"link":     "https://youtu.be/dQw4w9WgXcQ",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestSubmitSong_DuplicateConfirmFlow(t *testing.T) {
	srv, _, _ := newTestServer(t)
	router := srv.Router()

	submitSong(t, router, "Alice", "Popular Song")

	// Unconfirmed duplicate: 409 with the isDuplicate marker.
	w := doJSON(t, router, http.MethodPost, "/api/songs", map[string]any{
		"name":     "Bob",
		"songName": "popular song",
	})
	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409 (%s)", w.Code, w.Body.String())
	}
	var conflict struct {
		Error       string `json:"error"`
		IsDuplicate bool   `json:"isDuplicate"`
	}
	decodeBody(t, w, &conflict)
	if !conflict.IsDuplicate {
		t.Error("conflict response missing isDuplicate")
	}

	// Confirmed: accepted and flagged.
	w = doJSON(t, router, http.MethodPost, "/api/songs", map[string]any{
		"name":             "Bob",
		"songName":         "popular song",
		"confirmDuplicate": true,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("confirmed status = %d, want 201 (%s)", w.Code, w.Body.String())
	}
	var song SongRequest
	decodeBody(t, w, &song)
	if !song.IsDuplicate {
		t.Error("confirmed duplicate not flagged")
	}

	var queue []QueuedSong
	w = doJSON(t, router, http.MethodGet, "/api/songs", nil)
	decodeBody(t, w, &queue)
	if len(queue) != 2 {
		t.Errorf("queue length = %d, want 2", len(queue))
	}
}

func TestVoteSong_Validation(t *testing.T) {
	srv, _, _ := newTestServer(t)
	router := srv.Router()
	song := submitSong(t, router, "Alice", "Song")

	w := doJSON(t, router, http.MethodPost, "/api/songs/"+song.ID+"/vote", map[string]any{"type": "sideways"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("invalid type: status = %d, want 400", w.Code)
	}

	w = doJSON(t, router, http.MethodPost, "/api/songs/"+song.ID+"/vote", map[string]any{
		"type":         "up",
		"previousVote": "maybe",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("invalid previousVote: status = %d, want 400", w.Code)
	}

	w = doJSON(t, router, http.MethodPost, "/api/songs/no-such-id/vote", map[string]any{"type": "up"})
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown song: status = %d, want 404", w.Code)
	}
}

func TestVoteSong_OnePerAddress(t *testing.T) {
	srv, _, _ := newTestServer(t)
	router := srv.Router()
	song := submitSong(t, router, "Alice", "Song")

	w := doJSONAs(t, router, http.MethodPost, "/api/songs/"+song.ID+"/vote",
		map[string]any{"type": "up"}, "203.0.113.7")
	if w.Code != http.StatusOK {
		t.Fatalf("first vote: status = %d (%s)", w.Code, w.Body.String())
	}

	// Same address, no previousVote declared: refused.
	w = doJSONAs(t, router, http.MethodPost, "/api/songs/"+song.ID+"/vote",
		map[string]any{"type": "up"}, "203.0.113.7")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("repeat vote: status = %d, want 400", w.Code)
	}

	// Same address switching sides: allowed, counters move.
	w = doJSONAs(t, router, http.MethodPost, "/api/songs/"+song.ID+"/vote",
		map[string]any{"type": "down", "previousVote": "up"}, "203.0.113.7")
	if w.Code != http.StatusOK {
		t.Fatalf("switch vote: status = %d (%s)", w.Code, w.Body.String())
	}
	var voted SongRequest
	decodeBody(t, w, &voted)
	if voted.Votes.Up != 0 || voted.Votes.Down != 1 {
		t.Errorf("votes = %+v, want 0 up / 1 down", voted.Votes)
	}

	// A different address votes independently.
	w = doJSONAs(t, router, http.MethodPost, "/api/songs/"+song.ID+"/vote",
		map[string]any{"type": "up"}, "203.0.113.8")
	if w.Code != http.StatusOK {
		t.Fatalf("other address: status = %d (%s)", w.Code, w.Body.String())
	}
}

func TestVoteSong_AutoRejectMovesToHistory(t *testing.T) {
	srv, _, _ := newTestServer(t)
	router := srv.Router()
	song := submitSong(t, router, "Alice", "Unpopular Song")

	for i := 0; i < autoRejectDownvotes; i++ {
		w := doJSONAs(t, router, http.MethodPost, "/api/songs/"+song.ID+"/vote",
			map[string]any{"type": "down"}, fmt.Sprintf("203.0.113.%d", i+1))
		if w.Code != http.StatusOK {
			t.Fatalf("vote %d: status = %d (%s)", i, w.Code, w.Body.String())
		}
	}

	var queue []QueuedSong
	w := doJSON(t, router, http.MethodGet, "/api/songs", nil)
	decodeBody(t, w, &queue)
	if len(queue) != 0 {
		t.Fatalf("queue = %+v, want empty after auto-reject", queue)
	}

	var history []HistoryEntry
	w = doJSON(t, router, http.MethodGet, "/api/history", nil)
	decodeBody(t, w, &history)
	if len(history) != 1 || history[0].ID != song.ID || history[0].Status != statusRejected {
		t.Fatalf("history = %+v, want the rejected song", history)
	}
}

func TestVoteSong_AutoPrioritize(t *testing.T) {
	srv, _, _ := newTestServer(t)
	router := srv.Router()
	submitSong(t, router, "Alice", "First")
	song := submitSong(t, router, "Bob", "Crowd Favorite")

	for i := 0; i < autoPrioritizeUpvotes; i++ {
		w := doJSONAs(t, router, http.MethodPost, "/api/songs/"+song.ID+"/vote",
			map[string]any{"type": "up"}, fmt.Sprintf("203.0.113.%d", i+1))
		if w.Code != http.StatusOK {
			t.Fatalf("vote %d: status = %d (%s)", i, w.Code, w.Body.String())
		}
	}

	var queue []QueuedSong
	w := doJSON(t, router, http.MethodGet, "/api/songs", nil)
	decodeBody(t, w, &queue)
	if queue[0].ID != song.ID {
		t.Fatalf("front of queue = %q, want Crowd Favorite", queue[0].SongName)
	}
}

func TestDeleteSong(t *testing.T) {
	srv, _, _ := newTestServer(t)
	router := srv.Router()
	song := submitSong(t, router, "Alice", "Song")

	w := doJSON(t, router, http.MethodDelete, "/api/songs/"+song.ID, map[string]any{"adminKey": "wrong"})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("wrong key: status = %d, want 401", w.Code)
	}

	w = doJSON(t, router, http.MethodDelete, "/api/songs/no-such-id", map[string]any{"adminKey": testAdminKey})
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown song: status = %d, want 404", w.Code)
	}

	w = doJSON(t, router, http.MethodDelete, "/api/songs/"+song.ID, map[string]any{"adminKey": testAdminKey})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (%s)", w.Code, w.Body.String())
	}
	var resp struct {
		Message string      `json:"message"`
		Song    SongRequest `json:"song"`
	}
	decodeBody(t, w, &resp)
	if resp.Song.Status != statusRejected {
		t.Errorf("song status = %q, want %q", resp.Song.Status, statusRejected)
	}
}

func TestPrioritizeSong(t *testing.T) {
	srv, _, _ := newTestServer(t)
	router := srv.Router()
	submitSong(t, router, "Alice", "First")
	song := submitSong(t, router, "Bob", "Second")

	w := doJSON(t, router, http.MethodPost, "/api/songs/"+song.ID+"/priority", map[string]any{})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("no key: status = %d, want 401", w.Code)
	}

	w = doJSON(t, router, http.MethodPost, "/api/songs/"+song.ID+"/priority",
		map[string]any{"adminKey": testAdminKey})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (%s)", w.Code, w.Body.String())
	}

	var queue []QueuedSong
	w = doJSON(t, router, http.MethodGet, "/api/songs", nil)
	decodeBody(t, w, &queue)
	if queue[0].ID != song.ID {
		t.Fatalf("front of queue = %q, want Second", queue[0].SongName)
	}
}

func TestUpdateLink(t *testing.T) {
	srv, _, _ := newTestServer(t)
	router := srv.Router()
	song := submitSong(t, router, "Alice", "Song")

	w := doJSON(t, router, http.MethodPut, "/api/songs/"+song.ID+"/link", map[string]any{
		"adminKey": "wrong",
		"link":     "https://youtu.be/dQw4w9WgXcQ",
	})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("wrong key: status = %d, want 401", w.Code)
	}

	w = doJSON(t, router, http.MethodPut, "/api/songs/"+song.ID+"/link", map[string]any{
		"adminKey": testAdminKey,
		"link":     "https://example.com/nope",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad link: status = %d, want 400", w.Code)
	}

	w = doJSON(t, router, http.MethodPut, "/api/songs/"+song.ID+"/link", map[string]any{
		"adminKey": testAdminKey,
		"link":     "https://youtu.be/dQw4w9WgXcQ",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (%s)", w.Code, w.Body.String())
	}
	var resp struct {
		Song SongRequest `json:"song"`
	}
	decodeBody(t, w, &resp)
	if resp.Song.Link != "https://youtu.be/dQw4w9WgXcQ" || resp.Song.Duration != 212 {
		t.Errorf("song = %+v, want updated link and duration", resp.Song)
	}
}
