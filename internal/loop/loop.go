// Package loop runs the terminal game for a single local player.
package loop

import (
	"bufio"
	"context"
	"io"

	"github.com/charmbracelet/log"

	"github.com/tomz197/slash/internal/draw"
	"github.com/tomz197/slash/internal/loop/client"
	"github.com/tomz197/slash/internal/loop/server"
)

// Options configures local play.
type Options struct {
	TermSizeFunc draw.TermSizeFunc // nil reads the size of stdout
	Logger       *log.Logger       // nil discards logs
}

// Run plays on the given terminal until the player quits. Scores go to a
// private leaderboard that lives as long as the call.
func Run(r *bufio.Reader, w io.Writer, opts Options) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	lobby := server.NewServer(server.Options{Logger: opts.Logger})
	go lobby.Run(ctx)

	c, err := client.NewClient(lobby, r, w, client.ClientOptions{
		TermSizeFunc: opts.TermSizeFunc,
		Logger:       opts.Logger,
	})
	if err != nil {
		return err
	}
	return c.Run()
}
