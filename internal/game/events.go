package game

import (
	"math"
	"strconv"

	"github.com/tomz197/slash/internal/config"
	"github.com/tomz197/slash/internal/draw"
	"github.com/tomz197/slash/internal/object"
	"github.com/tomz197/slash/internal/physics"
)

// EventKind identifies an entry in the engine's queue.
type EventKind int

const (
	EventStart EventKind = iota
	EventBegin
	EventReplay
	EventClose
	EventClick
	EventSecond // Countdown tick
	EventFrame  // Frame tick
)

var eventNames = [...]string{
	EventStart:  "start",
	EventBegin:  "begin",
	EventReplay: "replay",
	EventClose:  "close",
	EventClick:  "click",
	EventSecond: "second",
	EventFrame:  "frame",
}

func (k EventKind) String() string {
	if k < 0 || int(k) >= len(eventNames) {
		return "unknown"
	}
	return eventNames[k]
}

// Event is a host action or a scheduled callback.
type Event struct {
	Kind    EventKind
	Pointer Pointer // EventClick only
	Session uint64  // EventSecond and EventFrame only
}

// post queues an event. Events posted while the queue drains, by a handler
// or a callback it triggers, run after the current one, in order.
func (e *Engine) post(ev Event) {
	e.queue = append(e.queue, ev)
	if e.draining {
		return
	}
	e.draining = true
	for len(e.queue) > 0 {
		next := e.queue[0]
		e.queue = e.queue[1:]
		e.handle(next)
	}
	e.queue = nil
	e.draining = false
}

func (e *Engine) handle(ev Event) {
	switch ev.Kind {
	case EventStart:
		if e.phase != PhaseIdle {
			e.ignore(ev)
			return
		}
		e.phase = PhaseTutorial

	case EventBegin:
		if e.phase != PhaseTutorial {
			e.ignore(ev)
			return
		}
		e.startSession()

	case EventReplay:
		if e.phase != PhaseGameOver {
			e.ignore(ev)
			return
		}
		e.startSession()

	case EventClose:
		switch e.phase {
		case PhasePlaying:
			e.halt()
			e.log.Info("session closed", "score", e.state.Score, "time_left", e.state.TimeLeft)
			e.phase = PhaseIdle
		case PhaseTutorial, PhaseGameOver:
			e.phase = PhaseIdle
		default:
			e.ignore(ev)
		}

	case EventClick:
		if e.phase != PhasePlaying || !e.state.IsPlaying {
			e.ignore(ev)
			return
		}
		e.slash(ev.Pointer)

	case EventSecond:
		if e.stale(ev) {
			return
		}
		e.countdown()

	case EventFrame:
		if e.stale(ev) {
			return
		}
		e.frame = 0
		e.tick()
	}
}

func (e *Engine) ignore(ev Event) {
	e.log.Debug("ignored action", "action", ev.Kind, "phase", e.phase)
}

// stale reports whether a scheduled callback belongs to a session that has
// already stopped.
func (e *Engine) stale(ev Event) bool {
	return !e.state.IsPlaying || ev.Session != e.session
}

// startSession resets the state and starts the countdown and frame loop.
func (e *Engine) startSession() {
	e.halt()

	now := e.clock.Now()
	for _, p := range e.state.Particles {
		p.Release()
	}
	e.state = newState(now)
	e.session++
	e.phase = PhasePlaying

	e.hud.SetScore(strconv.Itoa(e.state.Score))
	e.hud.SetTime(strconv.Itoa(e.state.TimeLeft))
	e.hud.SetCombo(strconv.Itoa(e.state.Combo), false)

	session := e.session
	e.timer = e.sched.ScheduleInterval(func() {
		e.post(Event{Kind: EventSecond, Session: session})
	}, config.CountdownPeriod)

	e.log.Info("session started", "player", e.player)
	e.scheduleFrame()
}

// countdown runs once per second while playing.
func (e *Engine) countdown() {
	st := &e.state
	st.TimeLeft--
	e.hud.SetTime(strconv.Itoa(st.TimeLeft))

	if st.TimeLeft <= 0 {
		e.endGame()
		return
	}

	switch st.TimeLeft {
	case config.MidGameSecondsLeft:
		st.SetDifficulty(config.MidGameMaxEnemies, config.MidGameSpawnRate)
		e.log.Debug("difficulty raised", "max_enemies", st.MaxEnemies, "spawn_rate", st.SpawnRate)
	case config.LateGameSecondsLeft:
		st.SetDifficulty(config.LateGameMaxEnemies, config.LateGameSpawnRate)
		e.log.Debug("difficulty raised", "max_enemies", st.MaxEnemies, "spawn_rate", st.SpawnRate)
	}
}

// endGame stops the session, records the score and fills the game over
// readouts.
func (e *Engine) endGame() {
	e.halt()

	score := e.state.Score
	place := e.board.Record(HighScore{
		Score: score,
		Date:  e.clock.Now().Format(config.DateLayout),
		Name:  e.player,
	})

	e.hud.SetFinalScore(strconv.Itoa(score))
	e.hud.SetRankMessage(RankMessage(score))
	e.hud.RenderLeaderboard(e.board.Entries())
	e.phase = PhaseGameOver

	e.log.Info("session over", "player", e.player, "score", score, "place", place)
}

// slash hit-tests a click against every enemy still alive. Each hit scores
// with the combo from before the click; the combo then grows by one for a
// click with any hit, or drops to zero for a miss.
func (e *Engine) slash(p Pointer) {
	st := &e.state
	x, y := p.surfacePoint()

	combo := st.Combo
	points := int(math.Floor(config.HitPoints * (1 + float64(combo)*config.ComboBonus)))
	hits := 0
	for _, en := range st.Enemies {
		if en.Dying || !en.Contains(x, y) {
			continue
		}
		en.Hit()
		st.Score += points
		hits++
	}

	if hits == 0 {
		st.Combo = 0
		e.hud.SetCombo(strconv.Itoa(st.Combo), false)
		return
	}

	st.Combo = combo + 1
	st.Particles = object.SpawnBurst(st.Particles, e.rng, x, y, config.ParticleBurst)
	e.hud.SetScore(strconv.Itoa(st.Score))
	e.hud.SetCombo(strconv.Itoa(st.Combo), true)
}

// tick advances and draws one frame, then asks for the next one.
func (e *Engine) tick() {
	st := &e.state
	s := e.surface
	w, h := s.Size()
	bounds := physics.Bounds{Width: w, Height: h}

	drawBackground(s, w, h)

	uctx := object.UpdateContext{Bounds: bounds}
	dctx := object.DrawContext{Surface: s}
	st.Enemies = object.UpdateAndDraw(st.Enemies, uctx, dctx)
	st.Particles = object.UpdateAndDraw(st.Particles, uctx, dctx)

	if en := st.Spawn(e.clock.Now(), len(st.Enemies), e.rng, bounds); en != nil {
		st.Enemies = append(st.Enemies, en)
	}

	if st.IsPlaying {
		e.scheduleFrame()
	}
}

// scheduleFrame asks the host for the next tick of the current session.
func (e *Engine) scheduleFrame() {
	session := e.session
	e.frame = e.sched.ScheduleFrame(func() {
		e.post(Event{Kind: EventFrame, Session: session})
	})
}

// drawBackground clears the surface to the background colour and draws a
// faint gold grid.
func drawBackground(s draw.Surface, w, h float64) {
	s.SetAlpha(1)
	s.Clear()
	s.FillRect(0, 0, w, h, object.ColorBackground)

	s.SetAlpha(config.GridAlpha)
	for x := 0.0; x < w; x += config.GridSpacing {
		s.DrawLine(draw.Point{X: x, Y: 0}, draw.Point{X: x, Y: h}, 1, object.ColorGold)
	}
	for y := 0.0; y < h; y += config.GridSpacing {
		s.DrawLine(draw.Point{X: 0, Y: y}, draw.Point{X: w, Y: y}, 1, object.ColorGold)
	}
	s.SetAlpha(1)
}
