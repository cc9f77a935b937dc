package client

import (
	"time"

	"github.com/tomz197/slash/internal/draw"
	"github.com/tomz197/slash/internal/game"
	"github.com/tomz197/slash/internal/input"
)

// ClientState holds per-terminal state around the game: input, screen
// transitions, inactivity and shutdown. The game itself lives in the engine.
type ClientState struct {
	Input         input.Input
	Running       bool              // Client loop running
	Shutdown      bool              // Server is shutting down
	termSizeFunc  draw.TermSizeFunc // Function to get terminal size
	delta         time.Duration     // Frame delta time (client-side)
	shutdownTimer float64           // Countdown before auto-disconnect on shutdown
	isInactive    bool              // Whether the client is in inactive warning state

	// Last drawn screen, to clear the terminal on transitions
	prevPhase    game.Phase
	prevShutdown bool
	wasInactive  bool
}

// NewClientState creates a new initialized client state.
func NewClientState() *ClientState {
	return &ClientState{
		Running:   true,
		prevPhase: game.PhaseIdle,
	}
}
