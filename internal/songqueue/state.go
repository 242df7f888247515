package songqueue

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"songqueue-service/internal/provider"
)

// State is the aggregate root owning every piece of mutable data: the
// pending queue, the current song, the playback clock, the history ledger
// and the requester-name list. One mutex covers the lot because the
// interesting invariants span entities (a song is owned by exactly one of
// queue, current slot or history at any time); readers can never observe a
// torn combination of current song and playback state.
type State struct {
	mu       sync.Mutex
	queue    []*SongRequest
	current  *SongRequest
	playback playback
	history  map[string][]HistoryEntry
	names    []string

	now func() time.Time
}

func NewState() *State {
	return &State{
		playback: newPlayback(),
		history:  make(map[string][]HistoryEntry),
		now:      time.Now,
	}
}

// SubmitRequest carries an already-validated, already-resolved submission.
// Link resolution happens before this call so a slow lookup never holds the
// state lock.
type SubmitRequest struct {
	Name             string
	SongName         string
	Link             string
	VideoInfo        *provider.VideoInfo
	ConfirmDuplicate bool
}

// Submit appends a request to the pending queue. A duplicate of the queue or
// of today's history is flagged; without ConfirmDuplicate it is refused
// instead of added.
func (s *State) Submit(req SubmitRequest) (*SongRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	isDuplicate := s.isDuplicateLocked(req.SongName, req.Link, now)
	if isDuplicate && !req.ConfirmDuplicate {
		return nil, &duplicateError{msg: "this song was already requested today"}
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = AnonymousName
	}

	duration := DefaultDurationSeconds
	if req.VideoInfo != nil && req.VideoInfo.Duration > 0 {
		duration = req.VideoInfo.Duration
	}

	song := &SongRequest{
		ID:          uuid.NewString(),
		Name:        name,
		SongName:    strings.TrimSpace(req.SongName),
		Link:        strings.TrimSpace(req.Link),
		VideoInfo:   req.VideoInfo,
		Duration:    duration,
		Status:      statusPending,
		IsDuplicate: isDuplicate,
		SubmittedAt: now,
	}
	s.queue = append(s.queue, song)
	s.recordNameLocked(name)

	return song.clone(), nil
}

// isDuplicateLocked matches the song name case-insensitively and the link
// byte-exactly against the pending queue and today's history bucket.
func (s *State) isDuplicateLocked(songName, link string, now time.Time) bool {
	lower := strings.ToLower(strings.TrimSpace(songName))
	match := func(song *SongRequest) bool {
		if strings.ToLower(song.SongName) == lower {
			return true
		}
		return link != "" && song.Link == link
	}

	for _, song := range s.queue {
		if match(song) {
			return true
		}
	}
	for i := range s.history[dayKey(now)] {
		if match(&s.history[dayKey(now)][i].SongRequest) {
			return true
		}
	}
	return false
}

func (s *State) recordNameLocked(name string) {
	if name == "" || name == AnonymousName {
		return
	}
	for _, existing := range s.names {
		if existing == name {
			return
		}
	}
	s.names = append(s.names, name)
}

// Names returns the known requester names for autocomplete.
func (s *State) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Current returns the poll payload for the player and admin pages.
func (s *State) Current() CurrentView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentViewLocked(s.now())
}

// Play starts the queue when idle, or resumes a paused song. Playing with an
// empty queue and no current song is a no-op; so is playing while already
// playing.
func (s *State) Play() CurrentView {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	switch {
	case s.current == nil && len(s.queue) > 0:
		s.dequeueToCurrentLocked(now)
	case s.current != nil:
		s.playback.resume(now)
	}
	return s.currentViewLocked(now)
}

// Pause freezes playback. Calling it again is a no-op.
func (s *State) Pause() CurrentView {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.playback.pause(now)
	return s.currentViewLocked(now)
}

// Seek moves the position within the current song, clamped to its duration.
func (s *State) Seek(target float64) (PlaybackSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return PlaybackSnapshot{}, badRequestError("no song playing")
	}

	if target < 0 {
		target = 0
	}
	if max := float64(s.current.Duration); target >= max {
		target = max - 1
		if target < 0 {
			target = 0
		}
	}

	now := s.now()
	s.playback.seek(now, time.Duration(target*float64(time.Second)))
	return s.playback.snapshot(now), nil
}

// Skip discards the current song without archiving it and moves on. Manual
// skips intentionally leave no history trace; only natural song ends and
// rejections are recorded.
func (s *State) Skip() CurrentView {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.current = nil
	if len(s.queue) > 0 {
		s.dequeueToCurrentLocked(now)
	} else {
		s.playback.stop()
	}
	return s.currentViewLocked(now)
}

// Advance handles a natural end of the current song: with repeat on the same
// song restarts from zero, otherwise the song is archived and the next one
// (if any) starts.
func (s *State) Advance() CurrentView {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.advanceLocked(now)
	return s.currentViewLocked(now)
}

func (s *State) advanceLocked(now time.Time) {
	if s.playback.repeat && s.current != nil {
		s.playback.startFresh(now)
		return
	}

	if s.current != nil {
		s.archiveLocked(s.current, now)
		s.current = nil
	}
	if len(s.queue) > 0 {
		s.dequeueToCurrentLocked(now)
	} else {
		s.playback.stop()
	}
}

// AdvanceIfFinished advances only when the current song has played past its
// duration. Used by the optional auto-advance worker.
func (s *State) AdvanceIfFinished() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if s.current == nil ||
		s.playback.status != StatusPlaying ||
		s.playback.elapsedSeconds(now) < float64(s.current.Duration) {
		return false
	}
	s.advanceLocked(now)
	return true
}

// SetRepeat toggles repeat mode.
func (s *State) SetRepeat(enabled bool) PlaybackSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.playback.repeat = enabled
	return s.playback.snapshot(s.now())
}

// ToggleCinema flips cinema mode and returns the new value.
func (s *State) ToggleCinema() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.playback.cinema = !s.playback.cinema
	return s.playback.cinema
}

// SetVolume clamps to [0,100] and returns the applied value.
func (s *State) SetVolume(volume int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if volume < 0 {
		volume = 0
	}
	if volume > 100 {
		volume = 100
	}
	s.playback.volume = volume
	return volume
}

// dequeueToCurrentLocked moves the queue head into the current slot and
// starts the clock from zero.
func (s *State) dequeueToCurrentLocked(now time.Time) {
	s.current = s.queue[0]
	s.queue = s.queue[1:]
	s.playback.startFresh(now)
}

func (s *State) currentViewLocked(now time.Time) CurrentView {
	view := CurrentView{
		IsPlaying:     s.playback.status == StatusPlaying,
		IsRepeat:      s.playback.repeat,
		PlaybackState: s.playback.snapshot(now),
	}
	if s.current != nil {
		view.Current = s.current.clone()
		view.CurrentTime = s.playback.elapsedSeconds(now)
	}
	if len(s.queue) > 0 {
		view.NextSong = s.queue[0].clone()
	}
	return view
}
