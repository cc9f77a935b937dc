package game

import (
	"slices"
	"sync"

	"github.com/tomz197/slash/internal/config"
)

// HighScore is a single leaderboard entry.
type HighScore struct {
	Score int
	Date  string // Formatted with config.DateLayout
	Name  string // Player name, empty in local play
}

// Leaderboard keeps the best scores of the process, highest first.
// It is safe for concurrent use so several sessions can share one.
type Leaderboard struct {
	mu      sync.RWMutex
	size    int
	entries []HighScore
}

// NewLeaderboard creates an empty leaderboard holding at most size entries.
// A non-positive size means config.LeaderboardSize.
func NewLeaderboard(size int) *Leaderboard {
	if size <= 0 {
		size = config.LeaderboardSize
	}
	return &Leaderboard{
		size:    size,
		entries: make([]HighScore, 0, size+1),
	}
}

// Record appends an entry, re-sorts by score descending and truncates.
// Ties keep their insertion order, so an older score stays ahead.
// It returns the entry's 1-based place, or 0 if it did not make the board.
func (l *Leaderboard) Record(e HighScore) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	place := 1
	for _, x := range l.entries {
		if x.Score >= e.Score {
			place++
		}
	}

	l.entries = append(l.entries, e)
	slices.SortStableFunc(l.entries, func(a, b HighScore) int {
		return b.Score - a.Score
	})
	if len(l.entries) > l.size {
		l.entries = l.entries[:l.size]
	}

	if place > l.size {
		return 0
	}
	return place
}

// Entries returns a copy of the current entries, highest first.
func (l *Leaderboard) Entries() []HighScore {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Clone(l.entries)
}

// Len returns the number of entries on the board.
func (l *Leaderboard) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Rank messages, best first.
const (
	RankLegendary  = "🏆 Legendary Samurai! Your blade is unmatched!"
	RankMaster     = "⚔️ Master Warrior! Your skills are formidable!"
	RankSkilled    = "🎯 Skilled Fighter! You show great promise!"
	RankApprentice = "🌸 Apprentice Samurai! Keep training!"
	RankNovice     = "🍃 Novice! The path to mastery begins with a single step."
)

// RankMessage returns the message for a final score. Each threshold is
// inclusive.
func RankMessage(score int) string {
	switch {
	case score >= 500:
		return RankLegendary
	case score >= 350:
		return RankMaster
	case score >= 200:
		return RankSkilled
	case score >= 100:
		return RankApprentice
	default:
		return RankNovice
	}
}
