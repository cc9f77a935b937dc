package client

import (
	"bufio"
	"bytes"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/tomz197/slash/internal/game"
	"github.com/tomz197/slash/internal/input"
	"github.com/tomz197/slash/internal/loop/server"
	"github.com/tomz197/slash/internal/object"
	"github.com/tomz197/slash/internal/sched"
)

func fixedSize(w, h int) func() (int, int, error) {
	return func() (int, int, error) { return w, h, nil }
}

func newTestClient(t *testing.T, r io.Reader) (*Client, *bytes.Buffer, *sched.ManualClock) {
	t.Helper()
	var out bytes.Buffer
	clock := sched.NewManualClock(time.Date(2026, 3, 14, 12, 0, 0, 0, time.Local))
	c, err := NewClient(server.NewServer(server.Options{}), bufio.NewReader(r), &out, ClientOptions{
		TermSizeFunc: fixedSize(80, 25),
		Username:     "ada",
		Clock:        clock,
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c, &out, clock
}

func (c *Client) step(in input.Input) {
	c.state.Input = in
	c.applyInput()
	c.sched.RunDue(c.clock.Now())
}

func TestInputDrivesThePhases(t *testing.T) {
	c, _, _ := newTestClient(t, strings.NewReader(""))

	c.step(input.Input{Space: true})
	if c.engine.Phase() != game.PhaseTutorial {
		t.Fatalf("phase = %v, want tutorial", c.engine.Phase())
	}
	c.step(input.Input{Escape: true, Close: true})
	if c.engine.Phase() != game.PhaseIdle {
		t.Fatalf("escape did not close the tutorial")
	}
	c.step(input.Input{Enter: true})
	c.step(input.Input{Enter: true})
	if c.engine.Phase() != game.PhasePlaying {
		t.Fatalf("phase = %v, want playing", c.engine.Phase())
	}
	c.step(input.Input{Close: true})
	if c.engine.Phase() != game.PhaseIdle {
		t.Fatalf("close during play did not return to idle")
	}
}

func TestClickMapsThroughTheCanvas(t *testing.T) {
	c, _, _ := newTestClient(t, strings.NewReader(""))
	c.step(input.Input{Space: true})
	c.step(input.Input{Space: true})

	st := c.engine.State()
	st.Enemies = []*object.Enemy{{X: 400, Y: 250, Radius: 30, Opacity: 1}}

	// Cell (41,13) on an 80x25 canvas covers surface point (405,250).
	c.step(input.Input{Clicks: []input.Click{{Col: 41, Row: 13}}})
	if st.Score != 10 || c.hud.Score() != "10" {
		t.Fatalf("score = %d (hud %q), want 10", st.Score, c.hud.Score())
	}

	// Outside the canvas: dropped, so the combo survives.
	c.step(input.Input{Clicks: []input.Click{{Col: 200, Row: 1}}})
	if st.Combo != 1 {
		t.Fatalf("click outside the canvas reset the combo")
	}
}

func TestSessionRunsToGameOver(t *testing.T) {
	c, out, clock := newTestClient(t, strings.NewReader(""))
	c.step(input.Input{Space: true})
	c.step(input.Input{Space: true})

	for i := 0; i < 30; i++ {
		clock.Advance(time.Second)
		c.step(input.Input{})
	}
	if c.engine.Phase() != game.PhaseGameOver {
		t.Fatalf("phase = %v after 30s, want game over", c.engine.Phase())
	}
	if c.server.Leaderboard().Len() != 1 {
		t.Fatalf("score not recorded on the shared leaderboard")
	}

	out.Reset()
	if err := c.drawFrame(); err != nil {
		t.Fatalf("drawFrame: %v", err)
	}
	if !strings.Contains(out.String(), "Final Score: 0") || !strings.Contains(out.String(), "Top Scores") {
		t.Fatalf("game over screen not drawn")
	}
	if !strings.Contains(out.String(), "ada") {
		t.Fatalf("leaderboard entry missing the player name")
	}

	c.step(input.Input{Replay: true})
	if c.engine.Phase() != game.PhasePlaying || c.engine.State().TimeLeft != 30 {
		t.Fatalf("replay did not start a fresh session")
	}
}

func TestShutdownEventStopsTheGame(t *testing.T) {
	c, _, _ := newTestClient(t, strings.NewReader(""))
	c.step(input.Input{Space: true})
	c.step(input.Input{Space: true})

	c.handle.EventsCh <- server.ClientEvent{Type: server.EventServerShutdown}
	c.processServerEvents()
	if !c.state.Shutdown || c.engine.State().IsPlaying {
		t.Fatalf("shutdown did not stop the session")
	}
	if c.server.Leaderboard().Len() != 0 {
		t.Fatalf("interrupted session was recorded")
	}
}

func TestRunQuitsOnQ(t *testing.T) {
	c, out, _ := newTestClient(t, strings.NewReader("q"))

	done := make(chan error, 1)
	go func() { done <- c.Run() }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("Run did not return after q")
	}
	if !strings.Contains(out.String(), "\033[?1006h") || !strings.Contains(out.String(), "\033[?1006l") {
		t.Fatalf("mouse reporting not enabled and disabled")
	}
}

func TestClampTermSize(t *testing.T) {
	w, h, col, row := clampTermSize(200, 60)
	if w != 160 || h != 50 || col != 20 || row != 5 {
		t.Fatalf("clampTermSize(200,60) = %d %d %d %d", w, h, col, row)
	}
	w, h, col, row = clampTermSize(80, 24)
	if w != 80 || h != 24 || col != 0 || row != 0 {
		t.Fatalf("clampTermSize(80,24) = %d %d %d %d", w, h, col, row)
	}
}
