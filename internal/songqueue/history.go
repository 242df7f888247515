package songqueue

import (
	"sort"
	"time"
)

// History pagination bounds. The global view never returns more than the
// most recent 50 entries.
const historyPageMax = 50

// dayKey buckets instants by UTC calendar day.
func dayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// archiveLocked appends a finished or rejected song to today's history
// bucket. The ledger is append-only; entries are never mutated afterwards.
func (s *State) archiveLocked(song *SongRequest, playedAt time.Time) {
	key := dayKey(playedAt)
	s.history[key] = append(s.history[key], HistoryEntry{
		SongRequest: *song.clone(),
		PlayedAt:    playedAt,
	})
}

// History flattens the ledger, newest first, honoring offset/limit paging
// capped at 50 entries.
func (s *State) History(offset, limit int) []HistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	var all []HistoryEntry
	for _, entries := range s.history {
		all = append(all, entries...)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].PlayedAt.After(all[j].PlayedAt)
	})

	if limit <= 0 || limit > historyPageMax {
		limit = historyPageMax
	}
	if offset < 0 {
		offset = 0
	}
	if offset >= len(all) {
		return []HistoryEntry{}
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end]
}

// Stats maps each day to the number of archived songs.
func (s *State) Stats() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := make(map[string]int, len(s.history))
	for date, entries := range s.history {
		stats[date] = len(entries)
	}
	return stats
}
