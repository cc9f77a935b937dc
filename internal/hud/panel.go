// Package hud keeps the text readouts the game writes while it runs, for
// hosts that draw their own overlays.
package hud

import (
	"fmt"
	"time"

	"github.com/tomz197/slash/internal/config"
	"github.com/tomz197/slash/internal/game"
	"github.com/tomz197/slash/internal/sched"
)

// Panel stores the latest score, time, combo and game over readouts.
// It is owned by the host's loop goroutine.
type Panel struct {
	clock sched.Clock

	score       string
	timeLeft    string
	combo       string
	pulseUntil  time.Time
	finalScore  string
	rankMessage string
	leaderboard []game.HighScore
}

var _ game.HUD = (*Panel)(nil)

// NewPanel creates an empty panel. The clock times the combo pulse; nil
// means the system clock.
func NewPanel(clock sched.Clock) *Panel {
	if clock == nil {
		clock = sched.SystemClock{}
	}
	return &Panel{
		clock:    clock,
		score:    "0",
		timeLeft: fmt.Sprint(config.SessionSeconds),
		combo:    "0",
	}
}

// SetScore updates the running score readout.
func (p *Panel) SetScore(text string) { p.score = text }

// SetTime updates the seconds-left readout.
func (p *Panel) SetTime(text string) { p.timeLeft = text }

// SetFinalScore updates the game over score.
func (p *Panel) SetFinalScore(text string) { p.finalScore = text }

// SetRankMessage updates the game over rank line.
func (p *Panel) SetRankMessage(text string) { p.rankMessage = text }

// SetCombo updates the combo readout. A pulse highlights it for
// ComboPulseDuration.
func (p *Panel) SetCombo(text string, pulse bool) {
	p.combo = text
	if pulse {
		p.pulseUntil = p.clock.Now().Add(config.ComboPulseDuration)
	} else {
		p.pulseUntil = time.Time{}
	}
}

// RenderLeaderboard keeps a copy of the entries.
func (p *Panel) RenderLeaderboard(entries []game.HighScore) {
	p.leaderboard = append(p.leaderboard[:0], entries...)
}

// Score returns the running score readout.
func (p *Panel) Score() string { return p.score }

// Time returns the seconds-left readout.
func (p *Panel) Time() string { return p.timeLeft }

// Combo returns the combo readout.
func (p *Panel) Combo() string { return p.combo }

// FinalScore returns the score shown on the game over screen.
func (p *Panel) FinalScore() string { return p.finalScore }

// RankMessage returns the rank line shown on the game over screen.
func (p *Panel) RankMessage() string { return p.rankMessage }

// Leaderboard returns the last rendered entries.
func (p *Panel) Leaderboard() []game.HighScore {
	return p.leaderboard
}

// Pulsing reports whether the combo readout is still highlighted at now.
func (p *Panel) Pulsing(now time.Time) bool {
	return now.Before(p.pulseUntil)
}

// LeaderboardLines formats the leaderboard one entry per line.
func (p *Panel) LeaderboardLines() []string {
	lines := make([]string, 0, len(p.leaderboard))
	for i, e := range p.leaderboard {
		lines = append(lines, FormatEntry(i+1, e))
	}
	return lines
}

// FormatEntry formats a leaderboard entry as "1. 600 points  3/14/2026  name".
func FormatEntry(place int, e game.HighScore) string {
	line := fmt.Sprintf("%d. %d points  %s", place, e.Score, e.Date)
	if e.Name != "" {
		line += "  " + e.Name
	}
	return line
}
