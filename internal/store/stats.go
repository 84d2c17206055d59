package store

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/sadopc/fastr/internal/fasting"
)

// GetStats returns the cached aggregate stats, or a fresh computation when
// the cache is absent or unreadable.
func (s *Store) GetStats() fasting.Stats {
	raw, ok, err := s.getValue(keyStats)
	if err != nil {
		s.logger.Error("load stats", "err", err)
		return calculateStats(s.GetAllSessions())
	}
	if !ok {
		return calculateStats(s.GetAllSessions())
	}

	var stats fasting.Stats
	if err := json.Unmarshal([]byte(raw), &stats); err != nil {
		s.logger.Error("decode stats", "err", err)
		return calculateStats(s.GetAllSessions())
	}
	return stats
}

// refreshStats recomputes and caches stats after a session mutation. A cache
// write failure is logged but does not fail the triggering mutation.
func (s *Store) refreshStats(sessions []fasting.Session) {
	stats := calculateStats(sessions)
	data, err := json.Marshal(stats)
	if err != nil {
		s.logger.Error("encode stats", "err", err)
		return
	}
	if err := s.setValue(keyStats, string(data)); err != nil {
		s.logger.Error("cache stats", "err", err)
	}
}

// calculateStats aggregates over finished sessions (those with an end time,
// which covers both completed and stopped fasts).
func calculateStats(sessions []fasting.Session) fasting.Stats {
	var finished []fasting.Session
	for _, session := range sessions {
		if session.EndTime != nil {
			finished = append(finished, session)
		}
	}

	if len(finished) == 0 {
		return fasting.Stats{FavoriteProtocol: fasting.SixteenEight}
	}

	totalDuration := 0
	counts := make(map[fasting.Protocol]int)
	for _, session := range finished {
		totalDuration += session.ActualDuration
		counts[session.Protocol]++
	}

	// Mode by count; ties break toward the earlier protocol in canonical
	// order.
	favorite := fasting.SixteenEight
	best := -1
	for _, p := range fasting.Protocols {
		if counts[p] > best {
			best = counts[p]
			favorite = p
		}
	}

	last := finished[len(finished)-1]

	return fasting.Stats{
		TotalSessions:    len(finished),
		TotalDuration:    totalDuration,
		AverageDuration:  float64(totalDuration) / float64(len(finished)),
		LongestStreak:    longestStreak(finished),
		CurrentStreak:    currentStreak(finished, time.Now()),
		CompletionRate:   float64(len(finished)) / float64(len(sessions)),
		FavoriteProtocol: favorite,
		LastSession:      &last,
	}
}

// currentStreak counts consecutive calendar days with a finished session,
// walking backward from the day containing now. Any gap stops the walk.
func currentStreak(sessions []fasting.Session, now time.Time) int {
	if len(sessions) == 0 {
		return 0
	}

	sorted := make([]fasting.Session, len(sessions))
	copy(sorted, sessions)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].StartTime.After(sorted[j].StartTime)
	})

	today := midnight(now)
	streak := 0
	for _, session := range sorted {
		day := midnight(session.StartTime)
		daysBack := int(today.Sub(day).Hours() / 24)
		if daysBack == streak {
			streak++
		} else if daysBack > streak {
			break
		}
	}
	return streak
}

// longestStreak approximates the longest run as the number of distinct
// calendar days containing a session. Kept for compatibility with existing
// stored stats; it is not a true longest-consecutive-run scan.
func longestStreak(sessions []fasting.Session) int {
	days := make(map[string]struct{})
	for _, session := range sessions {
		days[session.StartTime.Local().Format("2006-01-02")] = struct{}{}
	}
	return len(days)
}

func midnight(t time.Time) time.Time {
	t = t.Local()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
