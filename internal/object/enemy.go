package object

import (
	"math"
	"math/rand"

	"github.com/tomz197/slash/internal/config"
	"github.com/tomz197/slash/internal/draw"
	"github.com/tomz197/slash/internal/physics"
)

// Enemy is a slow-drifting target. Once hit it fades out while growing and
// cannot be hit again.
type Enemy struct {
	X, Y    float64 // Position (center)
	Radius  float64 // Hit/draw radius
	Speed   float64 // Units per frame
	Angle   float64 // Heading in radians
	Opacity float64 // 1 while alive, falls to 0 while dying
	Dying   bool    // Hit and fading out
}

// NewEnemy creates an enemy at a random position at least EnemySpawnMargin
// away from every edge, heading in a random direction.
func NewEnemy(rng *rand.Rand, b physics.Bounds) *Enemy {
	margin := config.EnemySpawnMargin
	return &Enemy{
		X:       rng.Float64()*(b.Width-2*margin) + margin,
		Y:       rng.Float64()*(b.Height-2*margin) + margin,
		Radius:  config.EnemyRadius,
		Speed:   config.EnemyMinSpeed + rng.Float64()*config.EnemySpeedRange,
		Angle:   rng.Float64() * 2 * math.Pi,
		Opacity: 1,
	}
}

// Update moves the enemy, bouncing it off the surface edges, or advances
// its fade-out once it has been hit.
func (e *Enemy) Update(ctx UpdateContext) Step {
	if e.Dying {
		e.Opacity -= config.EnemyFadeStep
		e.Radius += config.EnemyGrowStep
		if e.Opacity <= 0 {
			return Remove
		}
		return Continue
	}

	e.X += math.Cos(e.Angle) * e.Speed
	e.Y += math.Sin(e.Angle) * e.Speed

	e.Angle = ctx.Bounds.Reflect(e.X, e.Y, e.Radius, e.Angle)

	// Clamp after reflecting so a fast enemy cannot tunnel through a wall.
	e.X, e.Y = ctx.Bounds.Contain(e.X, e.Y, e.Radius)

	return Continue
}

// Draw renders the enemy as a dark disc with a red rim and a gold X.
func (e *Enemy) Draw(ctx DrawContext) {
	s := ctx.Surface

	// Halo standing in for a glow.
	s.SetAlpha(e.Opacity * 0.3)
	s.FillCircle(e.X, e.Y, e.Radius+6, ColorEnemyRim)

	s.SetAlpha(e.Opacity)
	s.FillCircle(e.X, e.Y, e.Radius, ColorEnemyBody)
	s.StrokeCircle(e.X, e.Y, e.Radius, 3, ColorEnemyRim)

	size := e.Radius * 0.4
	s.DrawLine(draw.Point{X: e.X - size, Y: e.Y - size}, draw.Point{X: e.X + size, Y: e.Y + size}, 3, ColorGold)
	s.DrawLine(draw.Point{X: e.X + size, Y: e.Y - size}, draw.Point{X: e.X - size, Y: e.Y + size}, 3, ColorGold)

	s.SetAlpha(1)
}

// Contains reports whether the point lies on or inside the enemy.
func (e *Enemy) Contains(x, y float64) bool {
	return physics.PointInCircle(x, y, e.X, e.Y, e.Radius)
}

// Hit starts the fade-out.
func (e *Enemy) Hit() {
	e.Dying = true
}
