package songqueue

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// markerTTL is how long a vote marker blocks a repeat vote from the same
// address. Best effort: false negatives after expiry are tolerated.
const markerTTL = time.Hour

// VoteMarkers records one vote per voter per song for a fixed window. With a
// redis client configured, markers are TTL'd keys that survive the process;
// without one they live in an in-process map with the same expiry.
type VoteMarkers struct {
	rdb *redis.Client

	mu    sync.Mutex
	local map[string]localMarker

	now func() time.Time
}

type localMarker struct {
	voteType  string
	expiresAt time.Time
}

func NewVoteMarkers(rdb *redis.Client) *VoteMarkers {
	return &VoteMarkers{
		rdb:   rdb,
		local: make(map[string]localMarker),
		now:   time.Now,
	}
}

func markerKey(songID, voter string) string {
	return "vote:" + songID + ":" + voter
}

// Get returns the vote type previously recorded for (song, voter), if any.
// A redis failure degrades to "no marker" rather than blocking the vote.
func (v *VoteMarkers) Get(ctx context.Context, songID, voter string) (string, bool) {
	if v.rdb != nil {
		val, err := v.rdb.Get(ctx, markerKey(songID, voter)).Result()
		if err == redis.Nil {
			return "", false
		}
		if err != nil {
			log.Printf("songqueue-service: vote marker get: %v", err)
			return "", false
		}
		return val, true
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	m, ok := v.local[markerKey(songID, voter)]
	if !ok || v.now().After(m.expiresAt) {
		delete(v.local, markerKey(songID, voter))
		return "", false
	}
	return m.voteType, true
}

// Set records a vote, refreshing the expiry window.
func (v *VoteMarkers) Set(ctx context.Context, songID, voter, voteType string) {
	if v.rdb != nil {
		if err := v.rdb.Set(ctx, markerKey(songID, voter), voteType, markerTTL).Err(); err != nil {
			log.Printf("songqueue-service: vote marker set: %v", err)
		}
		return
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.local[markerKey(songID, voter)] = localMarker{
		voteType:  voteType,
		expiresAt: v.now().Add(markerTTL),
	}
}
