package songqueue

import "time"

// PlayStatus enumerates the three playback states. Keeping the state
// explicit (instead of a nullable start instant next to an isPlaying flag)
// makes combinations like "playing with no start instant" unrepresentable.
type PlayStatus int

const (
	StatusIdle PlayStatus = iota
	StatusPlaying
	StatusPaused
)

// playback is the playback clock plus the display flags. The elapsed
// position is never ticked by a timer: while playing it is derived from
// startedAt on every read, while paused it sits frozen in elapsed. A read is
// therefore correct immediately regardless of how long ago the last state
// change happened.
type playback struct {
	status    PlayStatus
	startedAt time.Time     // set only while playing
	elapsed   time.Duration // set only while paused
	repeat    bool
	cinema    bool
	volume    int
}

func newPlayback() playback {
	return playback{volume: 100}
}

// elapsedSeconds is the current position within the song.
func (p *playback) elapsedSeconds(now time.Time) float64 {
	switch p.status {
	case StatusPlaying:
		return now.Sub(p.startedAt).Seconds()
	case StatusPaused:
		return p.elapsed.Seconds()
	default:
		return 0
	}
}

// startFresh begins playing from position zero.
func (p *playback) startFresh(now time.Time) {
	p.status = StatusPlaying
	p.startedAt = now
	p.elapsed = 0
}

// stop returns the clock to idle. Flags (repeat, cinema, volume) survive.
func (p *playback) stop() {
	p.status = StatusIdle
	p.startedAt = time.Time{}
	p.elapsed = 0
}

// pause freezes the derived position. No-op unless playing.
func (p *playback) pause(now time.Time) {
	if p.status != StatusPlaying {
		return
	}
	p.elapsed = now.Sub(p.startedAt)
	p.startedAt = time.Time{}
	p.status = StatusPaused
}

// resume continues from the frozen position by back-dating startedAt.
// No-op unless paused.
func (p *playback) resume(now time.Time) {
	if p.status != StatusPaused {
		return
	}
	p.startedAt = now.Add(-p.elapsed)
	p.elapsed = 0
	p.status = StatusPlaying
}

// seek moves the position while keeping the play/pause state.
func (p *playback) seek(now time.Time, target time.Duration) {
	switch p.status {
	case StatusPlaying:
		p.startedAt = now.Add(-target)
	case StatusPaused:
		p.elapsed = target
	}
}

// PlaybackSnapshot is the wire representation of the playback state,
// recomputed from the stored instant on every read.
type PlaybackSnapshot struct {
	IsPlaying   bool       `json:"isPlaying"`
	CurrentTime float64    `json:"currentTime"`
	StartedAt   *time.Time `json:"startedAt,omitempty"`
	IsRepeat    bool       `json:"isRepeat"`
	CinemaMode  bool       `json:"cinemaMode"`
	Volume      int        `json:"volume"`
}

func (p *playback) snapshot(now time.Time) PlaybackSnapshot {
	snap := PlaybackSnapshot{
		IsPlaying:   p.status == StatusPlaying,
		CurrentTime: p.elapsedSeconds(now),
		IsRepeat:    p.repeat,
		CinemaMode:  p.cinema,
		Volume:      p.volume,
	}
	if p.status == StatusPlaying {
		startedAt := p.startedAt
		snap.StartedAt = &startedAt
	}
	return snap
}
