package draw

import (
	"image/color"
	"io"
	"math"
	"strconv"
	"strings"
)

// Block characters for drawing.
const (
	BlockFull      = '█'
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
)

// cellColors is what one terminal cell displays: the upper half block is
// drawn in the foreground colour and the lower half shows the background.
type cellColors struct {
	top, bottom color.RGBA
}

// Canvas is a colour drawing buffer with 2x vertical resolution using half-block characters.
// Supports scaling from logical coordinates to actual terminal pixels.
type Canvas struct {
	termWidth      int          // Actual terminal columns
	termHeight     int          // Actual terminal rows
	subPixelHeight int          // termHeight * 2
	pixels         []color.RGBA // Flat slice: [y * termWidth + x]
	alpha          float64      // Global opacity for subsequent primitives

	// Scaling from logical to pixel coordinates
	logicalWidth  float64 // Target/logical width
	logicalHeight float64 // Target/logical height
	scaleX        float64 // termWidth / logicalWidth
	scaleY        float64 // (termHeight*2) / logicalHeight

	// Offset for centering the render area when terminal is larger than max resolution.
	// These are 0-based terminal offsets (columns/rows to skip).
	offsetCol int
	offsetRow int

	// What the terminal currently shows, for frame-to-frame diffing.
	shown []cellColors
	valid []bool // false forces the cell to be rewritten

	// Reusable buffers to reduce allocations
	renderBuf strings.Builder // Buffer for batching render output
	numBuf    [20]byte        // Scratch buffer for allocation-free integer formatting
}

// Compile-time check that Canvas implements Surface.
var _ Surface = (*Canvas)(nil)

// NewScaledCanvas creates a canvas that scales from logical coordinates to terminal pixels.
// logicalWidth/Height define the coordinate space used by the game.
// termWidth/Height are the actual terminal dimensions.
func NewScaledCanvas(termWidth, termHeight int, logicalWidth, logicalHeight float64) *Canvas {
	c := &Canvas{
		logicalWidth:  logicalWidth,
		logicalHeight: logicalHeight,
		alpha:         1,
		termWidth:     -1,
	}
	c.Resize(termWidth, termHeight)
	return c
}

// Resize updates the canvas for new terminal dimensions while keeping logical size.
func (c *Canvas) Resize(termWidth, termHeight int) {
	if termWidth < 0 {
		termWidth = 0
	}
	if termHeight < 0 {
		termHeight = 0
	}
	subPixelHeight := termHeight * 2

	// Reallocate if size changed
	if termWidth != c.termWidth || termHeight != c.termHeight {
		c.pixels = make([]color.RGBA, subPixelHeight*termWidth)
		c.shown = make([]cellColors, termHeight*termWidth)
		c.valid = make([]bool, termHeight*termWidth)
		c.termWidth = termWidth
		c.termHeight = termHeight
		c.subPixelHeight = subPixelHeight
	}

	// Update scale factors
	c.scaleX = float64(termWidth) / c.logicalWidth
	c.scaleY = float64(subPixelHeight) / c.logicalHeight
}

// SetOffset sets the column and row offset for centering the canvas.
// Offsets are 0-based terminal positions: the canvas starts at (offsetCol+1, offsetRow+1).
func (c *Canvas) SetOffset(col, row int) {
	if col != c.offsetCol || row != c.offsetRow {
		c.ForceRedraw()
	}
	c.offsetCol = col
	c.offsetRow = row
}

// OffsetCol returns the column offset used for centering.
func (c *Canvas) OffsetCol() int {
	return c.offsetCol
}

// OffsetRow returns the row offset used for centering.
func (c *Canvas) OffsetRow() int {
	return c.offsetRow
}

// Size returns the logical surface dimensions.
func (c *Canvas) Size() (float64, float64) {
	return c.logicalWidth, c.logicalHeight
}

// SetAlpha sets the opacity used by subsequent primitives, clamped to [0, 1].
func (c *Canvas) SetAlpha(alpha float64) {
	c.alpha = math.Max(0, math.Min(1, alpha))
}

// Clear resets all pixels to black.
func (c *Canvas) Clear() {
	black := color.RGBA{A: 0xff}
	for i := range c.pixels {
		c.pixels[i] = black
	}
}

// ForceRedraw makes the next Render rewrite every cell.
func (c *Canvas) ForceRedraw() {
	clear(c.valid)
}

// MarkTextDirty marks cells overwritten by text so the canvas repaints them
// on the next Render. col and row are 1-based canvas coordinates.
func (c *Canvas) MarkTextDirty(col, row, width int) {
	r := row - 1
	if r < 0 || r >= c.termHeight {
		return
	}
	for x := col - 1; x < col-1+width; x++ {
		if x >= 0 && x < c.termWidth {
			c.valid[r*c.termWidth+x] = false
		}
	}
}

// plot composites a colour onto a pixel at actual terminal coordinates (no scaling).
func (c *Canvas) plot(x, y int, col color.RGBA) {
	if x >= 0 && x < c.termWidth && y >= 0 && y < c.subPixelHeight {
		i := y*c.termWidth + x
		c.pixels[i] = Blend(c.pixels[i], col, c.alpha)
	}
}

// Pixel returns the colour at actual pixel coordinates, or black if out of range.
func (c *Canvas) Pixel(x, y int) color.RGBA {
	if x >= 0 && x < c.termWidth && y >= 0 && y < c.subPixelHeight {
		return c.pixels[y*c.termWidth+x]
	}
	return color.RGBA{A: 0xff}
}

// FillRect fills an axis-aligned rectangle given in logical coordinates.
func (c *Canvas) FillRect(x, y, w, h float64, col color.RGBA) {
	x0 := int(math.Round(x * c.scaleX))
	y0 := int(math.Round(y * c.scaleY))
	x1 := int(math.Round((x + w) * c.scaleX))
	y1 := int(math.Round((y + h) * c.scaleY))
	for py := max(y0, 0); py < min(y1, c.subPixelHeight); py++ {
		for px := max(x0, 0); px < min(x1, c.termWidth); px++ {
			c.plot(px, py, col)
		}
	}
}

// FillCircle fills every pixel whose centre lies inside the circle.
// Circles smaller than a pixel still light the pixel under their centre.
func (c *Canvas) FillCircle(cx, cy, r float64, col color.RGBA) {
	if c.scaleX <= 0 || c.scaleY <= 0 {
		return
	}
	drawn := false
	c.scanCircle(cx, cy, r, func(d2 float64) bool { return d2 <= r*r }, col, &drawn)
	if !drawn {
		c.plot(int(math.Floor(cx*c.scaleX)), int(math.Floor(cy*c.scaleY)), col)
	}
}

// StrokeCircle draws the outline of a circle. The ring is never thinner
// than one pixel so outlines stay closed at small scales.
func (c *Canvas) StrokeCircle(cx, cy, r, width float64, col color.RGBA) {
	if c.scaleX <= 0 || c.scaleY <= 0 {
		return
	}
	half := math.Max(width/2, 0.5/math.Min(c.scaleX, c.scaleY))
	inner := math.Max(0, r-half)
	outer := r + half
	drawn := false
	c.scanCircle(cx, cy, outer, func(d2 float64) bool {
		return d2 >= inner*inner && d2 <= outer*outer
	}, col, &drawn)
}

// scanCircle visits the pixels in the bounding box of a circle and plots
// those whose logical centre satisfies inside(distance²).
func (c *Canvas) scanCircle(cx, cy, r float64, inside func(d2 float64) bool, col color.RGBA, drawn *bool) {
	x0 := max(int(math.Floor((cx-r)*c.scaleX)), 0)
	x1 := min(int(math.Ceil((cx+r)*c.scaleX)), c.termWidth-1)
	y0 := max(int(math.Floor((cy-r)*c.scaleY)), 0)
	y1 := min(int(math.Ceil((cy+r)*c.scaleY)), c.subPixelHeight-1)

	for py := y0; py <= y1; py++ {
		ly := (float64(py)+0.5)/c.scaleY - cy
		for px := x0; px <= x1; px++ {
			lx := (float64(px)+0.5)/c.scaleX - cx
			if inside(lx*lx + ly*ly) {
				c.plot(px, py, col)
				*drawn = true
			}
		}
	}
}

// DrawLine draws a line on the canvas using Bresenham's algorithm.
// Coordinates are in logical space and get scaled to pixels. Lines are one
// pixel wide regardless of width, which is finer than a terminal cell allows.
func (c *Canvas) DrawLine(p1, p2 Point, _ float64, col color.RGBA) {
	// Scale to pixel coordinates for drawing
	x1 := int(math.Round(p1.X * c.scaleX))
	y1 := int(math.Round(p1.Y * c.scaleY))
	x2 := int(math.Round(p2.X * c.scaleX))
	y2 := int(math.Round(p2.Y * c.scaleY))

	dx := abs(x2 - x1)
	dy := abs(y2 - y1)

	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy

	for {
		c.plot(x1, y1, col)

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// maxChunkSize is the maximum bytes to write at once for optimal network flow.
// 1500 bytes matches typical MTU size for smooth SSH/network transmission.
const maxChunkSize = 1400

// Render writes the cells that changed since the previous Render using
// half-block characters and 24-bit colour. Nothing is written when the
// frame is unchanged.
func (c *Canvas) Render(w io.Writer) {
	c.renderBuf.Reset()

	var fg, bg color.RGBA
	colorsSet := false
	lastRow, lastCol := -1, -1

	for row := 0; row < c.termHeight; row++ {
		topOffset := row * 2 * c.termWidth
		bottomOffset := (row*2 + 1) * c.termWidth

		for col := 0; col < c.termWidth; col++ {
			cell := cellColors{top: c.pixels[topOffset+col], bottom: c.pixels[bottomOffset+col]}
			idx := row*c.termWidth + col
			if c.valid[idx] && c.shown[idx] == cell {
				continue
			}
			c.shown[idx] = cell
			c.valid[idx] = true

			if row != lastRow || col != lastCol+1 {
				c.moveCursor(col+1+c.offsetCol, row+1+c.offsetRow)
			}
			if !colorsSet || fg != cell.top {
				c.setColor(38, cell.top)
				fg = cell.top
			}
			if !colorsSet || bg != cell.bottom {
				c.setColor(48, cell.bottom)
				bg = cell.bottom
			}
			colorsSet = true
			c.renderBuf.WriteRune(BlockUpperHalf)
			lastRow, lastCol = row, col
		}
	}

	if c.renderBuf.Len() == 0 {
		return
	}
	c.renderBuf.WriteString(ColorReset)

	// Write output in chunks for optimal network flow
	data := c.renderBuf.String()
	for len(data) > 0 {
		chunk := data
		if len(chunk) > maxChunkSize {
			chunk = data[:maxChunkSize]
		}
		io.WriteString(w, chunk)
		data = data[len(chunk):]
	}
}

func (c *Canvas) moveCursor(col, row int) {
	c.renderBuf.WriteString("\033[")
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(row), 10))
	c.renderBuf.WriteByte(';')
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(col), 10))
	c.renderBuf.WriteByte('H')
}

// setColor appends an SGR truecolor sequence; layer is 38 (fg) or 48 (bg).
func (c *Canvas) setColor(layer int, col color.RGBA) {
	c.renderBuf.WriteString("\033[")
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(layer), 10))
	c.renderBuf.WriteString(";2;")
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(col.R), 10))
	c.renderBuf.WriteByte(';')
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(col.G), 10))
	c.renderBuf.WriteByte(';')
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(col.B), 10))
	c.renderBuf.WriteByte('m')
}

// RenderBorder draws a box border around the canvas area when the terminal
// exceeds the max render resolution on either axis.
// Draws horizontal borders when there is vertical offset, vertical borders
// when there is horizontal offset, and corners when both are present.
func (c *Canvas) RenderBorder(w io.Writer) {
	hasH := c.offsetCol >= 1 // Room for left/right vertical bars
	hasV := c.offsetRow >= 1 // Room for top/bottom horizontal bars
	if !hasH && !hasV {
		return
	}

	// Border positions (1-based terminal coordinates)
	left := c.offsetCol
	right := c.offsetCol + c.termWidth + 1
	top := c.offsetRow
	bottom := c.offsetRow + c.termHeight + 1

	var buf strings.Builder
	buf.Grow((c.termWidth+2)*2 + c.termHeight*2*12) // Estimate buffer size

	if hasV {
		if hasH {
			// Full top and bottom with corners: ┌───┐ └───┘
			buf.WriteString(cursorTo(left, top) + "┌" + strings.Repeat("─", c.termWidth) + "┐")
			buf.WriteString(cursorTo(left, bottom) + "└" + strings.Repeat("─", c.termWidth) + "┘")
		} else {
			buf.WriteString(cursorTo(c.offsetCol+1, top) + strings.Repeat("─", c.termWidth))
			buf.WriteString(cursorTo(c.offsetCol+1, bottom) + strings.Repeat("─", c.termWidth))
		}
	}

	if hasH {
		// Side borders: │ ... │
		for row := c.offsetRow + 1; row <= c.offsetRow+c.termHeight; row++ {
			buf.WriteString(cursorTo(left, row) + "│" + cursorTo(right, row) + "│")
		}
	}

	io.WriteString(w, buf.String())
}

// LogicalWidth returns the logical width (target resolution).
func (c *Canvas) LogicalWidth() float64 {
	return c.logicalWidth
}

// LogicalHeight returns the logical height (target resolution).
func (c *Canvas) LogicalHeight() float64 {
	return c.logicalHeight
}

// TerminalWidth returns the actual terminal column count.
func (c *Canvas) TerminalWidth() int {
	return c.termWidth
}

// TerminalHeight returns the actual terminal row count.
func (c *Canvas) TerminalHeight() int {
	return c.termHeight
}

// LogicalToTerminal converts logical coordinates to 1-based terminal position (col, row).
// This is useful for placing text overlays at positions matching canvas-drawn objects.
func (c *Canvas) LogicalToTerminal(x, y float64) (col, row int) {
	px := int(math.Round(x * c.scaleX))
	py := int(math.Round(y * c.scaleY))
	return px + 1, py/2 + 1
}

// DisplayScale returns how many logical units one displayed cell spans on
// each axis.
func (c *Canvas) DisplayScale() (sx, sy float64) {
	if c.termWidth == 0 || c.termHeight == 0 {
		return 0, 0
	}
	return c.logicalWidth / float64(c.termWidth), c.logicalHeight / float64(c.termHeight)
}

// DisplayPoint converts a 1-based absolute terminal position (as reported by
// the mouse) into displayed-cell coordinates relative to the canvas origin,
// aimed at the centre of the cell. ok is false outside the canvas.
func (c *Canvas) DisplayPoint(col, row int) (x, y float64, ok bool) {
	cx := col - 1 - c.offsetCol
	cy := row - 1 - c.offsetRow
	if cx < 0 || cx >= c.termWidth || cy < 0 || cy >= c.termHeight {
		return 0, 0, false
	}
	return float64(cx) + 0.5, float64(cy) + 0.5, true
}

func cursorTo(col, row int) string {
	return "\033[" + strconv.Itoa(row) + ";" + strconv.Itoa(col) + "H"
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
