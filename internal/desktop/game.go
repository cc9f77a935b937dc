package desktop

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/tomz197/slash/internal/config"
	"github.com/tomz197/slash/internal/game"
	"github.com/tomz197/slash/internal/hud"
	"github.com/tomz197/slash/internal/object"
	"github.com/tomz197/slash/internal/sched"
)

// ErrQuit is returned from Update when the player closes the window with Q.
var ErrQuit = errors.New("quit")

// lineHeight is the pixel height of one debug-font line.
const lineHeight = 16

// Controls is one frame of window input.
type Controls struct {
	Confirm bool // Space or Enter
	Replay  bool
	Close   bool
	Quit    bool
	Clicks  [][2]int
}

// Options configures the desktop game.
type Options struct {
	Player string
	Logger *log.Logger // nil discards logs
	Clock  sched.Clock // nil means the system clock
}

// Game adapts the engine to ebiten's Game interface.
type Game struct {
	engine  *game.Engine
	sched   *sched.Loop
	hud     *hud.Panel
	surface *Surface
	clock   sched.Clock
	log     *log.Logger
}

var _ ebiten.Game = (*Game)(nil)

// NewGame creates a desktop game with its own leaderboard.
func NewGame(opts Options) (*Game, error) {
	clock := opts.Clock
	if clock == nil {
		clock = sched.SystemClock{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	surface := NewSurface(config.SurfaceWidth, config.SurfaceHeight)
	loop := sched.NewLoop(clock)
	panel := hud.NewPanel(clock)
	engine, err := game.New(game.Options{
		Surface:   surface,
		Scheduler: loop,
		HUD:       panel,
		Clock:     clock,
		Logger:    logger,
		Player:    opts.Player,
	})
	if err != nil {
		return nil, fmt.Errorf("create game: %w", err)
	}

	return &Game{
		engine:  engine,
		sched:   loop,
		hud:     panel,
		surface: surface,
		clock:   clock,
		log:     logger,
	}, nil
}

// Update reads input, applies it and runs due timers.
func (g *Game) Update() error {
	if err := g.Apply(readControls()); err != nil {
		return err
	}
	g.sched.RunDue(g.clock.Now())
	return nil
}

// Apply maps one frame of input to engine actions for the current phase.
func (g *Game) Apply(in Controls) error {
	if in.Quit {
		g.engine.Stop()
		return ErrQuit
	}

	switch g.engine.Phase() {
	case game.PhaseIdle:
		if in.Confirm {
			g.engine.Start()
		}
	case game.PhaseTutorial:
		switch {
		case in.Close:
			g.engine.Close()
		case in.Confirm:
			g.engine.Begin()
		}
	case game.PhasePlaying:
		// Layout keeps the window in surface space, so no scaling is needed
		for _, c := range in.Clicks {
			g.engine.Click(game.Pointer{X: float64(c[0]), Y: float64(c[1])})
		}
		if in.Close {
			g.engine.Close()
		}
	case game.PhaseGameOver:
		switch {
		case in.Close:
			g.engine.Close()
		case in.Replay, in.Confirm:
			g.engine.Replay()
		}
	}
	return nil
}

func readControls() Controls {
	in := Controls{
		Confirm: inpututil.IsKeyJustPressed(ebiten.KeySpace) || inpututil.IsKeyJustPressed(ebiten.KeyEnter),
		Replay:  inpututil.IsKeyJustPressed(ebiten.KeyR),
		Close:   inpututil.IsKeyJustPressed(ebiten.KeyEscape),
		Quit:    inpututil.IsKeyJustPressed(ebiten.KeyQ),
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		in.Clicks = append(in.Clicks, [2]int{x, y})
	}
	return in
}

// Draw blits the play surface and prints the overlay for the current phase.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(object.ColorBackground)

	switch g.engine.Phase() {
	case game.PhaseIdle:
		printLines(screen, []string{
			"MUSHIN SLASH",
			"",
			"Press SPACE to start",
			"Q to quit",
		})
	case game.PhaseTutorial:
		printLines(screen, []string{
			"HOW TO PLAY",
			"",
			"Click enemies to slash them.",
			"Consecutive hits build a combo.",
			"A miss resets it.",
			fmt.Sprintf("You have %d seconds.", config.SessionSeconds),
			"",
			"Press SPACE to begin, ESC to go back",
		})
	case game.PhasePlaying:
		screen.DrawImage(g.surface.Image(), nil)
		g.drawHUD(screen)
	case game.PhaseGameOver:
		screen.DrawImage(g.surface.Image(), nil)
		w, h := screen.Bounds().Dx(), screen.Bounds().Dy()
		vector.DrawFilledRect(screen, 0, 0, float32(w), float32(h), color.RGBA{A: 0x99}, false)

		lines := []string{
			"GAME OVER",
			"",
			"Final Score: " + g.hud.FinalScore(),
			plain(g.hud.RankMessage()),
			"",
			"Top Scores",
		}
		lines = append(lines, g.hud.LeaderboardLines()...)
		lines = append(lines, "", "Press R to replay, ESC to close")
		printLines(screen, lines)
	}
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	combo := "Combo: " + g.hud.Combo()
	if g.hud.Pulsing(g.clock.Now()) {
		combo += " !"
	}
	ebitenutil.DebugPrintAt(screen, "Score: "+g.hud.Score(), 8, 4)
	ebitenutil.DebugPrintAt(screen, "Time: "+g.hud.Time(), config.SurfaceWidth/2-30, 4)
	ebitenutil.DebugPrintAt(screen, combo, config.SurfaceWidth-120, 4)
}

// Layout pins the window to the logical surface size.
func (g *Game) Layout(_, _ int) (int, int) {
	return config.SurfaceWidth, config.SurfaceHeight
}

// Engine exposes the engine for the host.
func (g *Game) Engine() *game.Engine {
	return g.engine
}

// printLines centres a block of lines on the screen.
func printLines(screen *ebiten.Image, lines []string) {
	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()
	top := h/2 - len(lines)*lineHeight/2
	for i, line := range lines {
		// The debug font is 6px wide per glyph
		x := (w - len(line)*6) / 2
		ebitenutil.DebugPrintAt(screen, line, x, top+i*lineHeight)
	}
}

// plain drops characters the debug font cannot render.
func plain(s string) string {
	return strings.TrimSpace(strings.Map(func(r rune) rune {
		if r > 0x7e {
			return -1
		}
		return r
	}, s))
}
