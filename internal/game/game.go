// Package game implements the slash game engine: a 30 second session in
// which drifting enemies are clicked for points, with combo scoring, a
// difficulty ramp and a top-5 leaderboard.
//
// The engine draws to a Surface and is driven by a Scheduler. All actions
// and scheduled callbacks go through one ordered event queue, so the host
// must call it from a single goroutine.
package game

import (
	"errors"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/slash/internal/draw"
	"github.com/tomz197/slash/internal/sched"
)

var (
	// ErrNoSurface is returned by New when no drawing surface is given.
	ErrNoSurface = errors.New("game: no drawing surface")
	// ErrNoScheduler is returned by New when no scheduler is given.
	ErrNoScheduler = errors.New("game: no scheduler")
)

// Clock is a monotonic time source.
type Clock interface {
	Now() time.Time
}

// Scheduler runs the countdown and the per-frame tick.
type Scheduler interface {
	ScheduleInterval(fn func(), period time.Duration) sched.Handle
	CancelInterval(h sched.Handle)
	ScheduleFrame(fn func()) sched.Handle
	CancelFrame(h sched.Handle)
}

// HUD receives the formatted readouts. Implementations must not call back
// into the engine.
type HUD interface {
	SetScore(text string)
	SetTime(text string)
	// SetCombo updates the combo readout; pulse asks for a short highlight.
	SetCombo(text string, pulse bool)
	SetFinalScore(text string)
	SetRankMessage(text string)
	RenderLeaderboard(entries []HighScore)
}

// Phase is the engine's position in its state machine.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseTutorial
	PhasePlaying
	PhaseGameOver
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseTutorial:
		return "tutorial"
	case PhasePlaying:
		return "playing"
	case PhaseGameOver:
		return "game over"
	default:
		return "unknown"
	}
}

// Options configures an Engine. Surface and Scheduler are required.
type Options struct {
	Surface     draw.Surface
	Scheduler   Scheduler
	HUD         HUD          // nil discards readouts
	Clock       Clock        // nil means the system clock
	Leaderboard *Leaderboard // nil means a private board
	Logger      *log.Logger  // nil discards logs
	Rand        *rand.Rand   // nil means a time-seeded source
	Player      string       // Name stored with leaderboard entries
}

// Engine owns one player's game state.
type Engine struct {
	surface draw.Surface
	sched   Scheduler
	hud     HUD
	clock   Clock
	board   *Leaderboard
	log     *log.Logger
	rng     *rand.Rand
	player  string

	phase   Phase
	state   State
	session uint64 // Bumped on every session start; stale callbacks carry an old value

	timer sched.Handle // Countdown interval, zero when not scheduled
	frame sched.Handle // Pending frame callback, zero when not scheduled

	queue    []Event
	draining bool
}

// New creates an idle engine.
func New(opts Options) (*Engine, error) {
	if opts.Surface == nil {
		return nil, ErrNoSurface
	}
	if opts.Scheduler == nil {
		return nil, ErrNoScheduler
	}

	e := &Engine{
		surface: opts.Surface,
		sched:   opts.Scheduler,
		hud:     opts.HUD,
		clock:   opts.Clock,
		board:   opts.Leaderboard,
		log:     opts.Logger,
		rng:     opts.Rand,
		player:  opts.Player,
	}
	if e.hud == nil {
		e.hud = nopHUD{}
	}
	if e.clock == nil {
		e.clock = sched.SystemClock{}
	}
	if e.board == nil {
		e.board = NewLeaderboard(0)
	}
	if e.log == nil {
		e.log = log.New(io.Discard)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return e, nil
}

// Phase returns the current phase.
func (e *Engine) Phase() Phase {
	return e.phase
}

// State returns the live game state. It must only be read on the
// goroutine driving the engine.
func (e *Engine) State() *State {
	return &e.state
}

// Leaderboard returns the board scores are recorded to.
func (e *Engine) Leaderboard() *Leaderboard {
	return e.board
}

// Start opens the tutorial from Idle.
func (e *Engine) Start() { e.post(Event{Kind: EventStart}) }

// Begin leaves the tutorial and starts a session.
func (e *Engine) Begin() { e.post(Event{Kind: EventBegin}) }

// Replay starts a new session from the game over screen.
func (e *Engine) Replay() { e.post(Event{Kind: EventReplay}) }

// Close returns to Idle. Closing a running session records no score.
func (e *Engine) Close() { e.post(Event{Kind: EventClose}) }

// Click slashes at a pointer position.
func (e *Engine) Click(p Pointer) { e.post(Event{Kind: EventClick, Pointer: p}) }

// Stop cancels the countdown and the frame callback and ends any running
// session without recording it. Calling it again has no effect. Hosts call
// it when tearing down.
func (e *Engine) Stop() {
	e.halt()
	if e.phase == PhasePlaying {
		e.phase = PhaseIdle
	}
}

// halt cancels both scheduled callbacks and clears IsPlaying. Every exit
// from Playing goes through here; it is safe to call repeatedly.
func (e *Engine) halt() {
	if e.timer != 0 {
		e.sched.CancelInterval(e.timer)
		e.timer = 0
	}
	if e.frame != 0 {
		e.sched.CancelFrame(e.frame)
		e.frame = 0
	}
	e.state.IsPlaying = false
}

type nopHUD struct{}

func (nopHUD) SetScore(string)               {}
func (nopHUD) SetTime(string)                {}
func (nopHUD) SetCombo(string, bool)         {}
func (nopHUD) SetFinalScore(string)          {}
func (nopHUD) SetRankMessage(string)         {}
func (nopHUD) RenderLeaderboard([]HighScore) {}
