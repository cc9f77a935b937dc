// Package desktop hosts the game in an ebiten window.
package desktop

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/tomz197/slash/internal/draw"
)

// Surface draws the game onto an offscreen ebiten image with vector
// primitives.
type Surface struct {
	img   *ebiten.Image
	alpha float64
}

var _ draw.Surface = (*Surface)(nil)

// NewSurface creates a surface of the given logical size.
func NewSurface(width, height int) *Surface {
	return &Surface{
		img:   ebiten.NewImage(width, height),
		alpha: 1,
	}
}

// Image returns the offscreen image the game draws on.
func (s *Surface) Image() *ebiten.Image {
	return s.img
}

func (s *Surface) Size() (float64, float64) {
	b := s.img.Bounds()
	return float64(b.Dx()), float64(b.Dy())
}

func (s *Surface) Clear() {
	s.img.Clear()
}

// SetAlpha sets the opacity of later primitives, clamped to [0, 1].
func (s *Surface) SetAlpha(alpha float64) {
	s.alpha = max(0, min(1, alpha))
}

func (s *Surface) FillRect(x, y, w, h float64, c color.RGBA) {
	vector.DrawFilledRect(s.img, float32(x), float32(y), float32(w), float32(h), s.fade(c), false)
}

func (s *Surface) FillCircle(cx, cy, r float64, c color.RGBA) {
	vector.DrawFilledCircle(s.img, float32(cx), float32(cy), float32(r), s.fade(c), true)
}

func (s *Surface) StrokeCircle(cx, cy, r, width float64, c color.RGBA) {
	vector.StrokeCircle(s.img, float32(cx), float32(cy), float32(r), float32(width), s.fade(c), true)
}

func (s *Surface) DrawLine(p1, p2 draw.Point, width float64, c color.RGBA) {
	vector.StrokeLine(s.img, float32(p1.X), float32(p1.Y), float32(p2.X), float32(p2.Y), float32(width), s.fade(c), true)
}

// fade applies the current opacity. color.RGBA is alpha-premultiplied, so
// every channel scales.
func (s *Surface) fade(c color.RGBA) color.RGBA {
	if s.alpha >= 1 {
		return c
	}
	a := s.alpha
	return color.RGBA{
		R: uint8(float64(c.R) * a),
		G: uint8(float64(c.G) * a),
		B: uint8(float64(c.B) * a),
		A: uint8(float64(c.A) * a),
	}
}
