package songqueue

import (
	"math"
	"time"

	"songqueue-service/internal/provider"
)

// Queue returns the pending songs in order, each enriched with its queue
// number and wait estimate. The estimate is a running prefix sum seeded with
// the remaining seconds of the current song, so wait times are monotonically
// non-decreasing down the queue.
func (s *State) Queue() []QueuedSong {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	wait := s.currentRemainingLocked(now)

	out := make([]QueuedSong, 0, len(s.queue))
	for i, song := range s.queue {
		out = append(out, QueuedSong{
			SongRequest:          *song.clone(),
			QueueNumber:          i + 1,
			EstimatedWaitSeconds: int(wait),
			EstimatedWaitMinutes: int(math.Ceil(wait / 60)),
			EstimatedPlayTime:    now.Add(time.Duration(wait * float64(time.Second))),
		})
		wait += float64(song.Duration)
	}
	return out
}

// currentRemainingLocked is how long the current song still has to play.
// A paused song still has to finish before the queue moves, so it counts.
func (s *State) currentRemainingLocked(now time.Time) float64 {
	if s.current == nil {
		return 0
	}
	remaining := float64(s.current.Duration) - s.playback.elapsedSeconds(now)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Reject removes a queued song, marks it rejected and archives it to
// history.
func (s *State) Reject(id string) (*SongRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(id)
	if idx < 0 {
		return nil, notFoundError("song not found")
	}

	song := s.queue[idx]
	s.queue = append(s.queue[:idx], s.queue[idx+1:]...)
	song.Status = statusRejected
	s.archiveLocked(song, s.now())
	return song.clone(), nil
}

// Prioritize moves a queued song to the front.
func (s *State) Prioritize(id string) (*SongRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(id)
	if idx < 0 {
		return nil, notFoundError("song not found")
	}
	s.moveToFrontLocked(idx)
	return s.queue[0].clone(), nil
}

// UpdateLink swaps a queued song's link and resolved metadata. The caller
// resolves the new link first; nothing here is partially applied.
func (s *State) UpdateLink(id, link string, info *provider.VideoInfo) (*SongRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(id)
	if idx < 0 {
		return nil, notFoundError("song not found")
	}

	song := s.queue[idx]
	song.Link = link
	song.VideoInfo = info
	song.Duration = DefaultDurationSeconds
	if info != nil && info.Duration > 0 {
		song.Duration = info.Duration
	}
	return song.clone(), nil
}

// VoteOutcome reports what a vote did beyond adjusting counters.
type VoteOutcome struct {
	Song         *SongRequest
	AutoRejected bool
	Prioritized  bool
}

// ApplyVote adjusts a queued song's vote counters. A repeated vote of the
// same type is a no-op; a supplied previous vote of the other type is
// decremented first (vote switching). Thresholds run after every counted
// vote: enough downvotes reject the song to history, enough upvotes move it
// to the front.
func (s *State) ApplyVote(id, voteType, previousVote string) (*VoteOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(id)
	if idx < 0 {
		return nil, notFoundError("song not found")
	}
	song := s.queue[idx]

	if previousVote == voteType {
		return &VoteOutcome{Song: song.clone()}, nil
	}

	switch previousVote {
	case "up":
		if song.Votes.Up > 0 {
			song.Votes.Up--
		}
	case "down":
		if song.Votes.Down > 0 {
			song.Votes.Down--
		}
	}

	if voteType == "up" {
		song.Votes.Up++
	} else {
		song.Votes.Down++
	}

	outcome := &VoteOutcome{}
	switch {
	case song.Votes.Down >= autoRejectDownvotes:
		s.queue = append(s.queue[:idx], s.queue[idx+1:]...)
		song.Status = statusRejected
		s.archiveLocked(song, s.now())
		outcome.AutoRejected = true
	case song.Votes.Up >= autoPrioritizeUpvotes:
		s.moveToFrontLocked(idx)
		outcome.Prioritized = true
	}
	outcome.Song = song.clone()
	return outcome, nil
}

// HasSong reports whether a song is still pending.
func (s *State) HasSong(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.indexLocked(id) >= 0
}

func (s *State) indexLocked(id string) int {
	for i, song := range s.queue {
		if song.ID == id {
			return i
		}
	}
	return -1
}

func (s *State) moveToFrontLocked(idx int) {
	song := s.queue[idx]
	copy(s.queue[1:idx+1], s.queue[:idx])
	s.queue[0] = song
}
