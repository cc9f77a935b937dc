package draw

import (
	"bufio"
	"fmt"
	"image/color"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

// Control sequences written around the game's frames.
const (
	seqClear       = "\033[H\033[2J"
	seqHideCursor  = "\033[?25l"
	seqShowCursor  = "\033[?25h"
	seqMouseOn     = "\033[?1000h\033[?1006h" // Button presses, SGR coordinates
	seqMouseOff    = "\033[?1006l\033[?1000l"
	seqCursorStart = "\033["
)

// SGR styles used by text overlays.
const (
	ColorReset = "\033[0m"
	StyleBold  = "\033[1m"
	StyleDim   = "\033[2m"
)

// FgRGB returns the SGR sequence selecting c as the 24-bit foreground colour.
func FgRGB(c color.RGBA) string {
	return fmt.Sprintf("\033[38;2;%d;%d;%dm", c.R, c.G, c.B)
}

// ChunkWriter collects one frame of overlay text and canvas output, placed
// relative to the centred play area, and sends it in MTU-sized pieces so a
// frame does not stall an SSH channel.
type ChunkWriter struct {
	frame  strings.Builder
	out    *bufio.Writer
	digits [20]byte
	offCol int
	offRow int
}

var _ io.Writer = (*ChunkWriter)(nil)

// NewChunkWriter returns a writer to w whose positions are shifted by the
// play area's offset.
func NewChunkWriter(w io.Writer, offsetCol, offsetRow int) *ChunkWriter {
	return &ChunkWriter{
		out:    bufio.NewWriterSize(w, 8192),
		offCol: offsetCol,
		offRow: offsetRow,
	}
}

// SetOffset moves the play area after a resize.
func (cw *ChunkWriter) SetOffset(offsetCol, offsetRow int) {
	cw.offCol, cw.offRow = offsetCol, offsetRow
}

// MoveCursor positions the cursor at a 1-based cell of the play area.
func (cw *ChunkWriter) MoveCursor(col, row int) {
	cw.frame.WriteString(seqCursorStart)
	cw.frame.Write(strconv.AppendInt(cw.digits[:0], int64(row+cw.offRow), 10))
	cw.frame.WriteByte(';')
	cw.frame.Write(strconv.AppendInt(cw.digits[:0], int64(col+cw.offCol), 10))
	cw.frame.WriteByte('H')
}

// Write adds raw bytes to the frame. Canvas.Render writes through it.
func (cw *ChunkWriter) Write(p []byte) (int, error) {
	return cw.frame.Write(p)
}

// WriteString adds raw text to the frame.
func (cw *ChunkWriter) WriteString(s string) {
	cw.frame.WriteString(s)
}

// ClearScreen adds a full clear to the frame.
func (cw *ChunkWriter) ClearScreen() {
	cw.frame.WriteString(seqClear)
}

// WriteAt places s at a cell of the play area.
func (cw *ChunkWriter) WriteAt(col, row int, s string) {
	cw.MoveCursor(col, row)
	cw.frame.WriteString(s)
}

// WriteStyledAt places s at a cell wrapped in style and a reset.
func (cw *ChunkWriter) WriteStyledAt(col, row int, style, s string) {
	cw.MoveCursor(col, row)
	cw.frame.WriteString(style)
	cw.frame.WriteString(s)
	cw.frame.WriteString(ColorReset)
}

// Flush sends the frame and starts a new one.
func (cw *ChunkWriter) Flush() error {
	data := cw.frame.String()
	cw.frame.Reset()
	for len(data) > 0 {
		n := min(len(data), maxChunkSize)
		if _, err := cw.out.WriteString(data[:n]); err != nil {
			return err
		}
		data = data[n:]
	}
	return cw.out.Flush()
}

// TermSizeFunc reports the terminal size in cells. Local play asks the tty;
// SSH sessions track window-change requests.
type TermSizeFunc func() (width, height int, err error)

// DefaultTermSizeFunc asks the tty behind stdout.
var DefaultTermSizeFunc TermSizeFunc = func() (int, int, error) {
	return term.GetSize(int(os.Stdout.Fd()))
}

// ClearScreen clears the terminal and homes the cursor.
func ClearScreen(w io.Writer) { io.WriteString(w, seqClear) }

// HideCursor hides the terminal cursor.
func HideCursor(w io.Writer) { io.WriteString(w, seqHideCursor) }

// ShowCursor shows the terminal cursor.
func ShowCursor(w io.Writer) { io.WriteString(w, seqShowCursor) }

// EnableMouse turns on button-press reporting in SGR extended mode, so
// clicks arrive as ESC [ < b ; col ; row M.
func EnableMouse(w io.Writer) { io.WriteString(w, seqMouseOn) }

// DisableMouse turns mouse reporting back off.
func DisableMouse(w io.Writer) { io.WriteString(w, seqMouseOff) }
