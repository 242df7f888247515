package songqueue

import (
	"context"
	"log"
	"time"
)

// StartTicker runs a background worker that advances playback when the
// current song has played past its duration. The player page normally
// drives /api/songs/next itself; the ticker covers headless deployments and
// is off unless AUTO_ADVANCE is set.
func (s *Server) StartTicker(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	go func() {
		for {
			select {
			case <-ctx.Done():
				ticker.Stop()
				return
			case <-ticker.C:
				if s.state.AdvanceIfFinished() {
					log.Printf("songqueue-service: auto-advanced finished song")
				}
			}
		}
	}()
}
