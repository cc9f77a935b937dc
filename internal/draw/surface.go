// Package draw provides the drawing surface abstraction and its terminal
// implementation.
package draw

import "image/color"

// Point represents a 2D coordinate.
type Point struct {
	X, Y float64
}

// Surface is a 2D drawing target addressed in logical coordinates.
// Every primitive is composited with the current alpha set by SetAlpha.
type Surface interface {
	// Size returns the logical width and height of the surface.
	Size() (width, height float64)
	Clear()
	FillRect(x, y, w, h float64, c color.RGBA)
	FillCircle(cx, cy, r float64, c color.RGBA)
	StrokeCircle(cx, cy, r, width float64, c color.RGBA)
	DrawLine(p1, p2 Point, width float64, c color.RGBA)
	// SetAlpha sets the global opacity (0..1) for subsequent primitives.
	SetAlpha(alpha float64)
}

// Blend composites src over dst with the given opacity.
func Blend(dst, src color.RGBA, alpha float64) color.RGBA {
	if alpha >= 1 {
		return src
	}
	if alpha <= 0 {
		return dst
	}
	mix := func(d, s uint8) uint8 {
		return uint8(float64(s)*alpha + float64(d)*(1-alpha) + 0.5)
	}
	return color.RGBA{
		R: mix(dst.R, src.R),
		G: mix(dst.G, src.G),
		B: mix(dst.B, src.B),
		A: 0xff,
	}
}
