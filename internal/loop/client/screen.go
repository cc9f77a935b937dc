package client

import (
	"fmt"

	"github.com/mattn/go-runewidth"

	"github.com/tomz197/slash/internal/config"
	"github.com/tomz197/slash/internal/draw"
	"github.com/tomz197/slash/internal/game"
	"github.com/tomz197/slash/internal/object"
)

var (
	styleGold      = draw.FgRGB(object.ColorGold)
	styleGoldBold  = draw.StyleBold + styleGold
	styleRim       = draw.FgRGB(object.ColorEnemyRim)
	gameOverShadow = 0.6 // Opacity of the black layer over the final frame
)

// drawFrame draws the current frame.
func (c *Client) drawFrame() error {
	phase := c.engine.Phase()

	// On screen transitions, do a full terminal clear so UI elements from
	// the previous screen don't persist.
	if phase != c.state.prevPhase || c.state.Shutdown != c.state.prevShutdown ||
		c.state.isInactive != c.state.wasInactive {
		c.chunkWriter.ClearScreen()
		c.canvas.ForceRedraw()
		if phase == game.PhaseGameOver && c.state.prevPhase == game.PhasePlaying {
			c.shadeCanvas()
		}
		c.state.prevPhase = phase
		c.state.prevShutdown = c.state.Shutdown
		c.state.wasInactive = c.state.isInactive
	}

	// While playing the engine paints the canvas; the game over screen keeps
	// the final frame.
	if phase == game.PhaseIdle || phase == game.PhaseTutorial {
		c.paintBackdrop()
	}

	// Render canvas to terminal
	c.canvas.Render(c.chunkWriter)

	// Draw border when terminal exceeds max render resolution
	c.canvas.RenderBorder(c.chunkWriter)

	// Draw UI overlay
	c.drawUI(phase)

	return c.chunkWriter.Flush()
}

// shadeCanvas darkens the final frame behind the game over screen.
func (c *Client) shadeCanvas() {
	c.canvas.SetAlpha(gameOverShadow)
	c.canvas.FillRect(0, 0, config.SurfaceWidth, config.SurfaceHeight, object.ColorBackground)
	c.canvas.SetAlpha(1)
}

// drawUI draws the game UI overlay.
func (c *Client) drawUI(phase game.Phase) {
	termWidth := c.canvas.TerminalWidth()
	termHeight := c.canvas.TerminalHeight()
	centerX := termWidth / 2
	centerY := termHeight / 2

	if c.state.Shutdown {
		c.drawShutdownScreen(centerX, centerY)
		return
	}

	if c.state.isInactive {
		c.drawInactivityScreen(centerX, centerY)
		return
	}

	switch phase {
	case game.PhaseIdle:
		c.drawStartScreen(centerX, centerY)
	case game.PhaseTutorial:
		c.drawTutorialScreen(centerX, centerY)
	case game.PhasePlaying:
		c.drawPlayingHUD(termWidth, termHeight)
	case game.PhaseGameOver:
		c.drawGameOverScreen(centerX, centerY)
	}
}

// writeCentered writes s centred on centerX, using display width so wide
// runes (emoji) line up.
func (c *Client) writeCentered(centerX, row int, style, s string) {
	col := centerX - runewidth.StringWidth(s)/2
	if col < 1 {
		col = 1
	}
	if style == "" {
		c.chunkWriter.WriteAt(col, row, s)
		return
	}
	c.chunkWriter.WriteStyledAt(col, row, style, s)
}

// drawArt writes a block of ASCII art centred on centerX starting at row.
func (c *Client) drawArt(centerX, row int, style string, art []string) {
	width := 0
	for _, line := range art {
		width = max(width, len(line))
	}
	for i, line := range art {
		c.chunkWriter.WriteStyledAt(centerX-width/2, row+i, style, line)
	}
}

// blinkPrompt writes a prompt that blinks. While off, its cells are handed
// back to the canvas so the text does not linger.
func (c *Client) blinkPrompt(centerX, row int, style, s string) {
	if c.clock.Now().UnixMilli()/600%2 == 0 {
		c.writeCentered(centerX, row, style, s)
		return
	}
	width := runewidth.StringWidth(s)
	c.canvas.MarkTextDirty(max(centerX-width/2, 1), row, width)
}

// drawInactivityScreen draws the inactivity warning screen.
func (c *Client) drawInactivityScreen(centerX, centerY int) {
	c.writeCentered(centerX, centerY-2, styleGoldBold, "INACTIVITY WARNING")

	remaining := int(config.InactivityDisconnectUser - c.clock.Now().Sub(c.lastInput).Seconds())
	msg := fmt.Sprintf("You have been inactive for too long. You will be disconnected in %d seconds.", remaining)
	c.writeCentered(centerX, centerY, "", msg)

	c.writeCentered(centerX, centerY+2, draw.StyleDim, "Press any key to continue")
}

// drawStartScreen draws the title screen.
func (c *Client) drawStartScreen(centerX, centerY int) {
	// ASCII art title (figlet "small" font)
	titleArt := []string{
		`  ___ _      _   ___ _  _ `,
		` / __| |    /_\ / __| || |`,
		` \__ \ |__ / _ \\__ \ __ |`,
		` |___/____/_/ \_\___/_||_|`,
	}
	titleStartY := centerY - 7
	c.drawArt(centerX, titleStartY, styleGoldBold, titleArt)

	// Subtitle
	c.writeCentered(centerX, titleStartY+len(titleArt)+1, styleRim, "~ Mushin Slash: strike without hesitation ~")

	// Controls section
	controlsY := titleStartY + len(titleArt) + 3
	c.writeCentered(centerX, controlsY, draw.StyleBold, "Controls")
	controlLines := []string{
		"Mouse click . . . .  Slash",
		"R . . . . . . . . . Replay",
		"ESC / X . . . . . .  Close",
		"Q . . . . . . . . . . Quit",
	}
	for i, line := range controlLines {
		c.writeCentered(centerX, controlsY+1+i, "", line)
	}

	// Blinking start prompt
	c.blinkPrompt(centerX, controlsY+len(controlLines)+2, styleGold, ">>  Press SPACE to Start  <<")

	// Who else is here
	snapshot := c.server.GetSnapshot()
	if snapshot.Players > 1 {
		online := fmt.Sprintf("%d samurai online", snapshot.Players)
		c.writeCentered(centerX, controlsY+len(controlLines)+4, draw.StyleDim, online)
	}
}

// drawTutorialScreen explains the rules before a session.
func (c *Client) drawTutorialScreen(centerX, centerY int) {
	c.writeCentered(centerX, centerY-6, styleGoldBold, "HOW TO PLAY")

	lines := []string{
		"Enemies drift across the field. Click them to slash.",
		fmt.Sprintf("You have %d seconds.", config.SessionSeconds),
		"Every hit builds your combo and combos multiply your points.",
		"A miss breaks the combo.",
		"More enemies arrive, faster, as the clock runs down.",
	}
	for i, line := range lines {
		c.writeCentered(centerX, centerY-4+i, "", line)
	}

	c.blinkPrompt(centerX, centerY+3, styleGold, ">>  Press SPACE to Begin  <<")
	c.writeCentered(centerX, centerY+5, draw.StyleDim, "ESC to go back")
}

// drawPlayingHUD draws the in-game HUD.
// Text fields use fixed-width formatting so shrinking values don't leave
// residual characters on screen (since we no longer clear every frame).
func (c *Client) drawPlayingHUD(termWidth, termHeight int) {
	cw := c.chunkWriter

	// Score display (top left), padded to 8 digits
	scoreText := fmt.Sprintf("Score: %-8s", c.hud.Score())
	cw.WriteStyledAt(2, 1, styleGold, scoreText)

	// Time (top centre)
	timeText := fmt.Sprintf("Time: %-3s", c.hud.Time())
	cw.WriteStyledAt(termWidth/2-len(timeText)/2, 1, styleGold, timeText)

	// Combo (top right), highlighted right after a hit
	comboText := fmt.Sprintf("Combo: %-4s", c.hud.Combo())
	style := styleGold
	if c.hud.Pulsing(c.clock.Now()) {
		style = styleGoldBold
	}
	cw.WriteStyledAt(termWidth-len(comboText)-1, 1, style, comboText)

	// Live players (bottom right)
	livePlayersText := fmt.Sprintf("Players: %-4d", c.server.GetSnapshot().Players)
	cw.WriteStyledAt(termWidth-len(livePlayersText)-1, termHeight, draw.StyleDim, livePlayersText)
}

// drawGameOverScreen shows the final score, the rank and the leaderboard.
func (c *Client) drawGameOverScreen(centerX, centerY int) {
	titleArt := []string{
		`   ___   _   __  __ ___    _____   _____ ___  `,
		`  / __| /_\ |  \/  | __|  / _ \ \ / / __| _ \ `,
		` | (_ |/ _ \| |\/| | _|  | (_) \ V /| _||   / `,
		`  \___/_/ \_\_|  |_|___|  \___/ \_/ |___|_|_\ `,
	}
	titleStartY := centerY - 9
	c.drawArt(centerX, titleStartY, styleRim, titleArt)

	row := titleStartY + len(titleArt) + 1
	c.writeCentered(centerX, row, styleGoldBold, "Final Score: "+c.hud.FinalScore())
	c.writeCentered(centerX, row+1, "", c.hud.RankMessage())

	row += 3
	c.writeCentered(centerX, row, draw.StyleBold, "Top Scores")
	lines := c.hud.LeaderboardLines()
	width := 0
	for _, line := range lines {
		width = max(width, runewidth.StringWidth(line))
	}
	for i, line := range lines {
		c.chunkWriter.WriteAt(centerX-width/2, row+1+i, runewidth.FillRight(line, width))
	}

	row += config.LeaderboardSize + 2
	c.blinkPrompt(centerX, row, styleGold, ">>  Press R to Replay  <<")
	c.writeCentered(centerX, row+2, draw.StyleDim, "ESC to close")
}

// drawShutdownScreen draws the server shutdown notification screen.
func (c *Client) drawShutdownScreen(centerX, centerY int) {
	c.writeCentered(centerX, centerY-3, styleGoldBold, "SERVER SHUTTING DOWN")
	c.writeCentered(centerX, centerY-1, "", "The server is restarting for maintenance.")
	c.writeCentered(centerX, centerY, "", "Please reconnect in a moment.")

	remaining := int(c.state.shutdownTimer) + 1
	c.writeCentered(centerX, centerY+2, "", fmt.Sprintf("Disconnecting in %d seconds...", remaining))
	c.writeCentered(centerX, centerY+4, draw.StyleDim, "Press Q to disconnect now")
}
