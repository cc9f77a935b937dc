package main

import (
	"bufio"
	"os"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/tomz197/slash/internal/config"
	"github.com/tomz197/slash/internal/loop"
)

func main() {
	if err := config.Load(); err != nil {
		log.Fatal("failed to load .env", "err", err)
	}

	// Logs go to stderr so they never mix with the game's frames.
	logger := log.NewWithOptions(os.Stderr, log.Options{
		Level:  config.LogLevel(),
		Prefix: "slash",
	})

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		logger.Fatal("failed to enable raw mode", "err", err)
	}
	restore := func() { _ = term.Restore(fd, oldState) }

	reader := bufio.NewReader(os.Stdin)
	if err := loop.Run(reader, os.Stdout, loop.Options{Logger: logger}); err != nil {
		restore()
		logger.Fatal("game error", "err", err)
	}
	restore()
}
