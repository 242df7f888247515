package songqueue

import (
	"time"

	"songqueue-service/internal/provider"
)

const (
	// DefaultDurationSeconds is the scheduling duration for songs whose link
	// carries no resolvable duration (or no link at all).
	DefaultDurationSeconds = 180

	// AnonymousName stands in for a blank requester name.
	AnonymousName = "Anonymous"

	statusPending  = "pending"
	statusRejected = "rejected"
)

// Auto-moderation thresholds, checked after every counted vote.
const (
	autoRejectDownvotes   = 10
	autoPrioritizeUpvotes = 15
)

type Votes struct {
	Up   int `json:"up"`
	Down int `json:"down"`
}

// SongRequest is one submitted request. A request is owned by exactly one of
// the pending queue, the current slot or the history ledger at any moment.
type SongRequest struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	SongName    string              `json:"songName"`
	Link        string              `json:"link,omitempty"`
	VideoInfo   *provider.VideoInfo `json:"videoInfo,omitempty"`
	Duration    int                 `json:"duration"` // seconds, used for scheduling
	Votes       Votes               `json:"votes"`
	Status      string              `json:"status"`
	IsDuplicate bool                `json:"isDuplicate"`
	SubmittedAt time.Time           `json:"submittedAt"`
}

func (s *SongRequest) clone() *SongRequest {
	out := *s
	return &out
}

// QueuedSong is a pending SongRequest enriched with its queue position and
// wait estimates computed at read time.
type QueuedSong struct {
	SongRequest
	QueueNumber          int       `json:"queueNumber"`
	EstimatedWaitSeconds int       `json:"estimatedWaitSeconds"`
	EstimatedWaitMinutes int       `json:"estimatedWaitMinutes"`
	EstimatedPlayTime    time.Time `json:"estimatedPlayTime"`
}

// HistoryEntry is a finished or rejected song filed under the calendar day
// it left the system.
type HistoryEntry struct {
	SongRequest
	PlayedAt time.Time `json:"playedAt"`
}

// CurrentView is the poll payload for the player and admin pages.
type CurrentView struct {
	Current       *SongRequest     `json:"current"`
	IsPlaying     bool             `json:"isPlaying"`
	IsRepeat      bool             `json:"isRepeat"`
	CurrentTime   float64          `json:"currentTime"`
	NextSong      *SongRequest     `json:"nextSong"`
	PlaybackState PlaybackSnapshot `json:"playbackState"`
}
