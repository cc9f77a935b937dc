package main

import (
	"errors"
	"os"
	"os/user"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/tomz197/slash/internal/config"
	"github.com/tomz197/slash/internal/desktop"
)

func main() {
	if err := config.Load(); err != nil {
		log.Fatal("failed to load .env", "err", err)
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{
		Level:  config.LogLevel(),
		Prefix: "slash",
	})

	g, err := desktop.NewGame(desktop.Options{
		Player: playerName(),
		Logger: logger,
	})
	if err != nil {
		logger.Fatal("failed to create game", "err", err)
	}

	ebiten.SetWindowSize(config.SurfaceWidth, config.SurfaceHeight)
	ebiten.SetWindowTitle("Mushin Slash")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, desktop.ErrQuit) {
		logger.Fatal("game error", "err", err)
	}
}

// playerName is the name recorded on the leaderboard: PLAYER_NAME if set,
// otherwise the OS user.
func playerName() string {
	if name := config.GetEnv("PLAYER_NAME", ""); name != "" {
		return name
	}
	if u, err := user.Current(); err == nil {
		return u.Username
	}
	return ""
}
