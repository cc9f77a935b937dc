package game

import (
	"errors"
	"image/color"
	"math/rand"
	"testing"
	"time"

	"github.com/tomz197/slash/internal/draw"
	"github.com/tomz197/slash/internal/object"
	"github.com/tomz197/slash/internal/sched"
)

// recordingSurface counts drawing calls.
type recordingSurface struct {
	clears  int
	circles int
	lines   int
}

func (s *recordingSurface) Size() (float64, float64)                           { return 800, 500 }
func (s *recordingSurface) Clear()                                             { s.clears++ }
func (s *recordingSurface) FillRect(_, _, _, _ float64, _ color.RGBA)          {}
func (s *recordingSurface) FillCircle(_, _, _ float64, _ color.RGBA)           { s.circles++ }
func (s *recordingSurface) StrokeCircle(_, _, _, _ float64, _ color.RGBA)      {}
func (s *recordingSurface) DrawLine(_, _ draw.Point, _ float64, _ color.RGBA) { s.lines++ }
func (s *recordingSurface) SetAlpha(float64)                                   {}

// recordingHUD keeps the last value written to every readout.
type recordingHUD struct {
	score, time, combo string
	pulses             int
	finalScore, rank   string
	leaderboard        []HighScore
}

func (h *recordingHUD) SetScore(text string) { h.score = text }
func (h *recordingHUD) SetTime(text string)  { h.time = text }
func (h *recordingHUD) SetCombo(text string, pulse bool) {
	h.combo = text
	if pulse {
		h.pulses++
	}
}
func (h *recordingHUD) SetFinalScore(text string)             { h.finalScore = text }
func (h *recordingHUD) SetRankMessage(text string)            { h.rank = text }
func (h *recordingHUD) RenderLeaderboard(entries []HighScore) { h.leaderboard = entries }

type harness struct {
	clock   *sched.ManualClock
	loop    *sched.Loop
	surface *recordingSurface
	hud     *recordingHUD
	board   *Leaderboard
	engine  *Engine
}

var epoch = time.Date(2026, 3, 14, 12, 0, 0, 0, time.Local)

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		clock:   sched.NewManualClock(epoch),
		surface: &recordingSurface{},
		hud:     &recordingHUD{},
		board:   NewLeaderboard(0),
	}
	h.loop = sched.NewLoop(h.clock)
	e, err := New(Options{
		Surface:     h.surface,
		Scheduler:   h.loop,
		HUD:         h.hud,
		Clock:       h.clock,
		Leaderboard: h.board,
		Rand:        rand.New(rand.NewSource(42)),
		Player:      "ada",
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	h.engine = e
	return h
}

func (h *harness) advance(d time.Duration) {
	h.loop.RunDue(h.clock.Advance(d))
}

func (h *harness) play(t *testing.T) {
	t.Helper()
	h.engine.Start()
	h.engine.Begin()
	if h.engine.Phase() != PhasePlaying {
		t.Fatalf("phase = %v, want playing", h.engine.Phase())
	}
}

func enemyAt(x, y float64) *object.Enemy {
	return &object.Enemy{X: x, Y: y, Radius: 30, Opacity: 1}
}

func TestNewRequiresSurfaceAndScheduler(t *testing.T) {
	if _, err := New(Options{Scheduler: sched.NewLoop(nil)}); !errors.Is(err, ErrNoSurface) {
		t.Fatalf("err = %v, want ErrNoSurface", err)
	}
	if _, err := New(Options{Surface: &recordingSurface{}}); !errors.Is(err, ErrNoScheduler) {
		t.Fatalf("err = %v, want ErrNoScheduler", err)
	}

	// Everything else is optional.
	e, err := New(Options{Surface: &recordingSurface{}, Scheduler: sched.NewLoop(nil)})
	if err != nil {
		t.Fatalf("New with defaults: %v", err)
	}
	e.Start()
	e.Begin()
	e.Click(Pointer{X: 1, Y: 1})
	e.Close()
	if e.Phase() != PhaseIdle {
		t.Fatalf("phase = %v, want idle", e.Phase())
	}
}

func TestStateMachine(t *testing.T) {
	h := newHarness(t)
	e := h.engine

	steps := []struct {
		name   string
		action func()
		want   Phase
	}{
		{"begin from idle is ignored", e.Begin, PhaseIdle},
		{"close from idle is ignored", e.Close, PhaseIdle},
		{"start opens the tutorial", e.Start, PhaseTutorial},
		{"start again is ignored", e.Start, PhaseTutorial},
		{"replay from tutorial is ignored", e.Replay, PhaseTutorial},
		{"close the tutorial", e.Close, PhaseIdle},
		{"start again", e.Start, PhaseTutorial},
		{"begin plays", e.Begin, PhasePlaying},
		{"replay while playing is ignored", e.Replay, PhasePlaying},
		{"start while playing is ignored", e.Start, PhasePlaying},
		{"close while playing", e.Close, PhaseIdle},
	}
	for _, s := range steps {
		s.action()
		if got := e.Phase(); got != s.want {
			t.Fatalf("%s: phase = %v, want %v", s.name, got, s.want)
		}
	}
	if e.State().IsPlaying {
		t.Fatalf("IsPlaying still set after close")
	}
}

func TestSessionStartSchedulesFirstFrame(t *testing.T) {
	h := newHarness(t)
	h.play(t)

	if h.surface.clears != 0 {
		t.Fatalf("clears = %d, want no tick before the host runs the scheduler", h.surface.clears)
	}
	intervals, frames := h.loop.Pending()
	if intervals != 1 || frames != 1 {
		t.Fatalf("pending = (%d,%d), want one countdown and one frame", intervals, frames)
	}
	if h.hud.score != "0" || h.hud.time != "30" || h.hud.combo != "0" {
		t.Fatalf("hud not reset: %+v", h.hud)
	}

	// One host frame runs exactly one tick.
	h.advance(0)
	if h.surface.clears != 1 {
		t.Fatalf("clears = %d after the first host frame, want 1", h.surface.clears)
	}
	// 16 vertical and 10 horizontal grid lines.
	if h.surface.lines != 26 {
		t.Fatalf("grid lines = %d, want 26", h.surface.lines)
	}
	if _, frames := h.loop.Pending(); frames != 1 {
		t.Fatalf("pending frames = %d, want the next one queued", frames)
	}
}

func TestReplayRunsOneTickPerHostFrame(t *testing.T) {
	h := newHarness(t)
	h.play(t)
	for h.engine.Phase() == PhasePlaying {
		h.advance(time.Second)
	}

	clears := h.surface.clears
	h.engine.Replay()
	h.advance(0)
	if got := h.surface.clears - clears; got != 1 {
		t.Fatalf("first host frame after replay ran %d ticks, want 1", got)
	}
}

func TestCountdownEndsExactlyAtZero(t *testing.T) {
	h := newHarness(t)
	h.play(t)
	st := h.engine.State()

	for want := 29; want >= 1; want-- {
		h.advance(time.Second)
		if st.TimeLeft != want {
			t.Fatalf("TimeLeft = %d, want %d", st.TimeLeft, want)
		}
		if h.engine.Phase() != PhasePlaying {
			t.Fatalf("game ended early with %d seconds left", st.TimeLeft)
		}
	}

	h.advance(time.Second)
	if st.TimeLeft != 0 || h.engine.Phase() != PhaseGameOver || st.IsPlaying {
		t.Fatalf("after 30s: TimeLeft=%d phase=%v playing=%v", st.TimeLeft, h.engine.Phase(), st.IsPlaying)
	}
	if intervals, frames := h.loop.Pending(); intervals != 0 || frames != 0 {
		t.Fatalf("callbacks left running after game over: (%d,%d)", intervals, frames)
	}

	// Nothing moves after the session ends.
	clears := h.surface.clears
	h.advance(5 * time.Second)
	if st.TimeLeft != 0 || h.surface.clears != clears {
		t.Fatalf("state changed after game over")
	}
}

func TestDifficultyRamp(t *testing.T) {
	h := newHarness(t)
	h.play(t)
	st := h.engine.State()

	if st.MaxEnemies != 3 || st.SpawnRate != 1500*time.Millisecond {
		t.Fatalf("initial difficulty = %d/%v", st.MaxEnemies, st.SpawnRate)
	}

	for st.TimeLeft > 21 {
		h.advance(time.Second)
	}
	if st.MaxEnemies != 3 {
		t.Fatalf("difficulty raised before 20s left")
	}

	h.advance(time.Second)
	if st.MaxEnemies != 4 || st.SpawnRate != 1200*time.Millisecond {
		t.Fatalf("at 20s left: %d/%v, want 4/1.2s", st.MaxEnemies, st.SpawnRate)
	}

	// Equality check: fires once, not on every later tick.
	st.SetDifficulty(9, time.Minute)
	for st.TimeLeft > 11 {
		h.advance(time.Second)
	}
	if st.MaxEnemies != 9 {
		t.Fatalf("mid-game step reapplied after 20s")
	}

	h.advance(time.Second)
	if st.MaxEnemies != 5 || st.SpawnRate != time.Second {
		t.Fatalf("at 10s left: %d/%v, want 5/1s", st.MaxEnemies, st.SpawnRate)
	}

	st.SetDifficulty(9, time.Minute)
	for h.engine.Phase() == PhasePlaying {
		h.advance(time.Second)
	}
	if st.MaxEnemies != 9 {
		t.Fatalf("late-game step reapplied after 10s")
	}
}

func TestComboScoring(t *testing.T) {
	h := newHarness(t)
	h.play(t)
	st := h.engine.State()

	wantScores := []int{10, 25, 45, 70}
	for i, want := range wantScores {
		st.Enemies = []*object.Enemy{enemyAt(400, 250)}
		h.engine.Click(Pointer{X: 400, Y: 250})
		if st.Score != want {
			t.Fatalf("hit %d: score = %d, want %d", i+1, st.Score, want)
		}
		if st.Combo != i+1 {
			t.Fatalf("hit %d: combo = %d, want %d", i+1, st.Combo, i+1)
		}
	}
	if h.hud.score != "70" || h.hud.combo != "4" || h.hud.pulses != 4 {
		t.Fatalf("hud = %+v", h.hud)
	}

	// A miss only costs the combo.
	h.engine.Click(Pointer{X: 10, Y: 10})
	if st.Combo != 0 || st.Score != 70 {
		t.Fatalf("after miss: combo=%d score=%d", st.Combo, st.Score)
	}
	if h.hud.combo != "0" {
		t.Fatalf("hud combo = %q after miss", h.hud.combo)
	}
}

func TestMultiHitClick(t *testing.T) {
	h := newHarness(t)
	h.play(t)
	st := h.engine.State()

	st.Enemies = []*object.Enemy{enemyAt(100, 100)}
	h.engine.Click(Pointer{X: 100, Y: 100})

	st.Enemies = []*object.Enemy{enemyAt(400, 250), enemyAt(410, 250), enemyAt(700, 400)}
	particles := len(st.Particles)
	h.engine.Click(Pointer{X: 405, Y: 250})

	// Both hits score with the combo from before the click.
	if st.Score != 10+15+15 {
		t.Fatalf("score = %d, want 40", st.Score)
	}
	if st.Combo != 2 {
		t.Fatalf("combo = %d, want 2 regardless of hit count", st.Combo)
	}
	if got := len(st.Particles) - particles; got != 15 {
		t.Fatalf("burst = %d particles, want 15 per click", got)
	}
	if !st.Enemies[0].Dying || !st.Enemies[1].Dying || st.Enemies[2].Dying {
		t.Fatalf("wrong enemies hit")
	}
}

func TestDyingEnemyCannotBeHitAgain(t *testing.T) {
	h := newHarness(t)
	h.play(t)
	st := h.engine.State()

	en := enemyAt(400, 250)
	en.Dying = true
	st.Enemies = []*object.Enemy{en}
	st.Combo = 3

	h.engine.Click(Pointer{X: 400, Y: 250})
	if st.Score != 0 || st.Combo != 0 {
		t.Fatalf("dying enemy scored: score=%d combo=%d", st.Score, st.Combo)
	}
}

func TestClickUsesPointerScale(t *testing.T) {
	h := newHarness(t)
	h.play(t)
	st := h.engine.State()

	st.Enemies = []*object.Enemy{enemyAt(400, 250)}
	h.engine.Click(Pointer{X: 40, Y: 12.5, ScaleX: 10, ScaleY: 20})
	if st.Score != 10 {
		t.Fatalf("scaled click missed: score = %d", st.Score)
	}
}

func TestClickOutsidePlayIsIgnored(t *testing.T) {
	h := newHarness(t)
	h.engine.Start()
	st := h.engine.State()
	st.Enemies = []*object.Enemy{enemyAt(400, 250)}

	h.engine.Click(Pointer{X: 400, Y: 250})
	if st.Enemies[0].Dying || st.Score != 0 {
		t.Fatalf("click in the tutorial hit an enemy")
	}
}

func TestSpawnNeverExceedsCapacity(t *testing.T) {
	h := newHarness(t)
	h.play(t)
	st := h.engine.State()

	for h.engine.Phase() == PhasePlaying {
		h.advance(100 * time.Millisecond)
		if len(st.Enemies) > st.MaxEnemies {
			t.Fatalf("%d enemies with capacity %d", len(st.Enemies), st.MaxEnemies)
		}
	}
	if len(st.Enemies) != 5 {
		t.Fatalf("enemies at the end = %d, want the late-game cap of 5", len(st.Enemies))
	}
}

func TestExpiredEnemyRemovedSameTick(t *testing.T) {
	h := newHarness(t)
	h.play(t)
	st := h.engine.State()

	en := enemyAt(400, 250)
	en.Dying = true
	en.Opacity = 0.05
	st.Enemies = []*object.Enemy{en}

	h.surface.circles = 0
	h.advance(16 * time.Millisecond)

	if len(st.Enemies) != 0 {
		t.Fatalf("expired enemy still in the collection")
	}
	if h.surface.circles != 0 {
		t.Fatalf("expired enemy drawn %d circles on its last tick", h.surface.circles)
	}
}

func TestStopIsIdempotent(t *testing.T) {
	h := newHarness(t)
	h.play(t)

	h.engine.Stop()
	h.engine.Stop()
	if h.engine.State().IsPlaying {
		t.Fatalf("IsPlaying after Stop")
	}
	if h.engine.Phase() != PhaseIdle {
		t.Fatalf("phase = %v after Stop, want idle", h.engine.Phase())
	}
	if intervals, frames := h.loop.Pending(); intervals != 0 || frames != 0 {
		t.Fatalf("pending = (%d,%d) after Stop", intervals, frames)
	}

	h.engine.Close()
	h.engine.Stop()
	if h.engine.State().IsPlaying {
		t.Fatalf("IsPlaying after repeated stops")
	}
}

func TestCloseDuringPlayRecordsNothing(t *testing.T) {
	h := newHarness(t)
	h.play(t)
	h.engine.State().Score = 300

	h.engine.Close()
	if h.board.Len() != 0 {
		t.Fatalf("closing a session recorded a score")
	}
}

// leakyScheduler never cancels, so callbacks of stopped sessions can be
// fired by hand.
type leakyScheduler struct {
	intervals []func()
	frames    []func()
}

func (s *leakyScheduler) ScheduleInterval(fn func(), _ time.Duration) sched.Handle {
	s.intervals = append(s.intervals, fn)
	return sched.Handle(len(s.intervals))
}

func (s *leakyScheduler) CancelInterval(sched.Handle) {}

func (s *leakyScheduler) ScheduleFrame(fn func()) sched.Handle {
	s.frames = append(s.frames, fn)
	return sched.Handle(1000 + len(s.frames))
}

func (s *leakyScheduler) CancelFrame(sched.Handle) {}

func TestStaleCallbacksAreIgnored(t *testing.T) {
	ls := &leakyScheduler{}
	surface := &recordingSurface{}
	e, err := New(Options{Surface: surface, Scheduler: ls, Clock: sched.NewManualClock(epoch)})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	e.Start()
	e.Begin()
	e.State().Enemies = []*object.Enemy{{X: 400, Y: 250, Radius: 30, Speed: 1, Opacity: 1}}
	e.Close()

	clears := surface.clears
	ls.intervals[0]()
	ls.frames[0]()
	if e.State().TimeLeft != 30 {
		t.Fatalf("stale countdown ran: TimeLeft = %d", e.State().TimeLeft)
	}
	if surface.clears != clears || e.State().Enemies[0].X != 400 {
		t.Fatalf("stale frame mutated or drew the closed session")
	}

	// A callback from the previous session must not touch the new one.
	e.Start()
	e.Begin()
	ls.intervals[0]()
	if e.State().TimeLeft != 30 {
		t.Fatalf("old session's countdown ticked the new session")
	}
	ls.intervals[1]()
	if e.State().TimeLeft != 29 {
		t.Fatalf("current countdown did not tick: TimeLeft = %d", e.State().TimeLeft)
	}
}

func TestGameOverRecordsScore(t *testing.T) {
	h := newHarness(t)
	h.play(t)
	h.engine.State().Score = 360

	for h.engine.Phase() == PhasePlaying {
		h.advance(time.Second)
	}

	entries := h.board.Entries()
	if len(entries) != 1 {
		t.Fatalf("leaderboard = %v, want one entry", entries)
	}
	want := HighScore{Score: 360, Date: "3/14/2026", Name: "ada"}
	if entries[0] != want {
		t.Fatalf("entry = %+v, want %+v", entries[0], want)
	}
	if h.hud.finalScore != "360" || h.hud.rank != RankMaster {
		t.Fatalf("final readouts = %q %q", h.hud.finalScore, h.hud.rank)
	}
	if len(h.hud.leaderboard) != 1 || h.hud.leaderboard[0] != want {
		t.Fatalf("rendered leaderboard = %v", h.hud.leaderboard)
	}
}

func TestReplayResetsSession(t *testing.T) {
	h := newHarness(t)
	h.play(t)
	st := h.engine.State()
	for h.engine.Phase() == PhasePlaying {
		h.advance(time.Second)
	}
	st.Score, st.Combo = 120, 4

	h.engine.Replay()
	st = h.engine.State()
	if h.engine.Phase() != PhasePlaying || !st.IsPlaying {
		t.Fatalf("replay did not start a session")
	}
	if st.Score != 0 || st.Combo != 0 || st.TimeLeft != 30 || len(st.Enemies) != 0 || len(st.Particles) != 0 {
		t.Fatalf("state not reset: %+v", st)
	}
	if st.MaxEnemies != 3 || st.SpawnRate != 1500*time.Millisecond {
		t.Fatalf("difficulty not reset: %d/%v", st.MaxEnemies, st.SpawnRate)
	}

	h.advance(time.Second)
	if st.TimeLeft != 29 {
		t.Fatalf("countdown not running after replay: %d", st.TimeLeft)
	}
}
