package client

import (
	"bufio"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/slash/internal/config"
	"github.com/tomz197/slash/internal/draw"
	"github.com/tomz197/slash/internal/game"
	"github.com/tomz197/slash/internal/hud"
	"github.com/tomz197/slash/internal/input"
	"github.com/tomz197/slash/internal/loop/server"
	"github.com/tomz197/slash/internal/object"
	"github.com/tomz197/slash/internal/sched"
)

// Client handles rendering and input for a single connection. It owns one
// game engine and drives it from its frame loop.
type Client struct {
	server       server.GameServer
	handle       *server.ClientHandle
	state        *ClientState
	engine       *game.Engine
	sched        *sched.Loop
	hud          *hud.Panel
	clock        sched.Clock
	canvas       *draw.Canvas
	chunkWriter  *draw.ChunkWriter // Accumulates UI text for chunked output
	writer       io.Writer
	inputStream  *input.Stream
	lastInput    time.Time
	username     string
	termSizeFunc draw.TermSizeFunc
	log          *log.Logger
}

// ClientOptions configures the client.
type ClientOptions struct {
	TermSizeFunc draw.TermSizeFunc
	Username     string
	Logger       *log.Logger // nil discards logs
	Clock        sched.Clock // nil means the system clock
}

// NewClient creates a new client connected to the given server.
func NewClient(gs server.GameServer, r *bufio.Reader, w io.Writer, opts ClientOptions) (*Client, error) {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}
	clock := opts.Clock
	if clock == nil {
		clock = sched.SystemClock{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	state := NewClientState()
	state.termSizeFunc = termSizeFunc

	// Create canvas with clamped dimensions for max render resolution
	termWidth, termHeight, _ := termSizeFunc()
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)
	canvas := draw.NewScaledCanvas(renderWidth, renderHeight, config.SurfaceWidth, config.SurfaceHeight)
	canvas.SetOffset(offsetCol, offsetRow)
	chunkWriter := draw.NewChunkWriter(w, offsetCol, offsetRow)

	loop := sched.NewLoop(clock)
	panel := hud.NewPanel(clock)
	engine, err := game.New(game.Options{
		Surface:     canvas,
		Scheduler:   loop,
		HUD:         panel,
		Clock:       clock,
		Leaderboard: gs.Leaderboard(),
		Logger:      logger.With("user", opts.Username),
		Player:      opts.Username,
	})
	if err != nil {
		return nil, fmt.Errorf("create game: %w", err)
	}

	return &Client{
		server:       gs,
		handle:       gs.RegisterClient(opts.Username),
		state:        state,
		engine:       engine,
		sched:        loop,
		hud:          panel,
		clock:        clock,
		canvas:       canvas,
		chunkWriter:  chunkWriter,
		writer:       w,
		lastInput:    clock.Now(),
		inputStream:  input.StartStream(r),
		username:     opts.Username,
		termSizeFunc: termSizeFunc,
		log:          logger,
	}, nil
}

// Run starts the client loop. Blocks until the client disconnects or server stops.
func (c *Client) Run() error {
	draw.HideCursor(c.writer)
	draw.EnableMouse(c.writer)
	defer draw.ShowCursor(c.writer)
	defer draw.DisableMouse(c.writer)
	draw.ClearScreen(c.writer)

	lastTime := c.clock.Now()

	for c.state.Running {
		frameStart := c.clock.Now()
		c.state.delta = frameStart.Sub(lastTime)
		lastTime = frameStart

		// Process input
		c.processInput()

		// Check for server events
		c.processServerEvents()

		// Handle screen resize
		c.updateScreen()

		// Turn input into game actions, then let due callbacks run
		if c.state.Shutdown {
			c.updateShutdownState()
		} else {
			c.applyInput()
		}
		c.sched.RunDue(c.clock.Now())

		// Draw frame
		if err := c.drawFrame(); err != nil {
			c.engine.Stop()
			c.server.UnregisterClient(c.handle.ID)
			return err
		}

		// Frame timing
		elapsed := c.clock.Now().Sub(frameStart)
		if elapsed < config.ClientTargetFrameTime {
			time.Sleep(config.ClientTargetFrameTime - elapsed)
		}
	}

	// A running session is abandoned, not scored.
	c.engine.Stop()

	// Unregister from server
	c.server.UnregisterClient(c.handle.ID)

	draw.ClearScreen(c.writer)
	return nil
}

// processInput reads input and tracks inactivity.
func (c *Client) processInput() {
	c.state.Input = input.ReadInput(c.inputStream)
	idle := c.clock.Now().Sub(c.lastInput).Seconds()

	if len(c.state.Input.Pressed) > 0 || len(c.state.Input.Clicks) > 0 {
		c.lastInput = c.clock.Now()
		c.state.isInactive = false
	} else if idle > config.InactivityDisconnectUser {
		c.log.Info("disconnecting inactive client", "user", c.username)
		c.state.Running = false
	} else if idle > config.InactivityWarnUser {
		c.state.isInactive = true
	}

	if c.state.Input.Quit {
		c.state.Running = false
	}
}

// processServerEvents handles events from the server.
func (c *Client) processServerEvents() {
	for {
		select {
		case event, ok := <-c.handle.EventsCh:
			if !ok {
				// Server closed the channel
				c.state.Running = false
				return
			}
			switch event.Type {
			case server.EventServerShutdown:
				c.engine.Stop()
				c.state.Shutdown = true
				c.state.shutdownTimer = config.ShutdownDisplaySeconds
			}
		default:
			return
		}
	}
}

// updateScreen handles terminal resize, clamping to max render resolution.
// On actual size changes, clears the terminal to remove residual pixels
// outside the new canvas area (e.g. old borders or offset content).
func (c *Client) updateScreen() {
	termWidth, termHeight, err := c.termSizeFunc()
	if err != nil {
		return
	}
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)

	if renderWidth != c.canvas.TerminalWidth() || renderHeight != c.canvas.TerminalHeight() ||
		offsetCol != c.canvas.OffsetCol() || offsetRow != c.canvas.OffsetRow() {
		draw.ClearScreen(c.writer)
		c.canvas.ForceRedraw()
	}

	c.canvas.Resize(renderWidth, renderHeight)
	c.canvas.SetOffset(offsetCol, offsetRow)
	c.chunkWriter.SetOffset(offsetCol, offsetRow)
}

// clampTermSize clamps terminal dimensions to the max render resolution and computes
// the centering offset for the render area.
func clampTermSize(termWidth, termHeight int) (renderWidth, renderHeight, offsetCol, offsetRow int) {
	renderWidth = termWidth
	renderHeight = termHeight
	if renderWidth > config.MaxTermWidth {
		renderWidth = config.MaxTermWidth
	}
	if renderHeight > config.MaxTermHeight {
		renderHeight = config.MaxTermHeight
	}
	offsetCol = (termWidth - renderWidth) / 2
	offsetRow = (termHeight - renderHeight) / 2
	return
}

// applyInput maps this frame's keys and clicks to engine actions for the
// current phase.
func (c *Client) applyInput() {
	in := c.state.Input

	switch c.engine.Phase() {
	case game.PhaseIdle:
		if in.Confirm() {
			c.engine.Start()
		}
	case game.PhaseTutorial:
		switch {
		case in.Close:
			c.engine.Close()
		case in.Confirm():
			c.engine.Begin()
		}
	case game.PhasePlaying:
		for _, click := range in.Clicks {
			if p, ok := c.pointer(click); ok {
				c.engine.Click(p)
			}
		}
		if in.Close {
			c.engine.Close()
		}
	case game.PhaseGameOver:
		switch {
		case in.Close:
			c.engine.Close()
		case in.Replay, in.Confirm():
			c.engine.Replay()
		}
	}
}

// pointer converts a terminal click into an engine pointer. Clicks outside
// the canvas are dropped.
func (c *Client) pointer(click input.Click) (game.Pointer, bool) {
	x, y, ok := c.canvas.DisplayPoint(click.Col, click.Row)
	if !ok {
		return game.Pointer{}, false
	}
	sx, sy := c.canvas.DisplayScale()
	return game.Pointer{X: x, Y: y, ScaleX: sx, ScaleY: sy}, true
}

// updateShutdownState handles the shutdown screen countdown.
func (c *Client) updateShutdownState() {
	c.state.shutdownTimer -= c.state.delta.Seconds()
	if c.state.shutdownTimer <= 0 {
		c.state.Running = false
	}
}

// paintBackdrop fills the canvas outside of play, when the engine is not
// drawing.
func (c *Client) paintBackdrop() {
	c.canvas.SetAlpha(1)
	c.canvas.Clear()
	c.canvas.FillRect(0, 0, config.SurfaceWidth, config.SurfaceHeight, object.ColorBackground)
}
