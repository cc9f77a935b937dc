package object

import (
	"math/rand"
	"sync"

	"github.com/tomz197/slash/internal/config"
)

// particlePool is a sync.Pool for reusing Particle objects to reduce allocations.
var particlePool = sync.Pool{
	New: func() any {
		return &Particle{}
	},
}

// Particle is a short-lived spark thrown out by a successful slash.
type Particle struct {
	X, Y   float64 // Position
	VX, VY float64 // Velocity, units per frame
	Size   float64 // Radius
	Life   float64 // 1 at birth, removed at 0; doubles as opacity
}

// NewParticle creates a single particle from the pool with a random size
// and velocity.
func NewParticle(rng *rand.Rand, x, y float64) *Particle {
	p := particlePool.Get().(*Particle)
	p.X = x
	p.Y = y
	p.Size = rng.Float64()*config.ParticleSizeRange + config.ParticleMinSize
	p.VX = (rng.Float64() - 0.5) * config.ParticleSpread
	p.VY = (rng.Float64() - 0.5) * config.ParticleSpread
	p.Life = 1
	return p
}

// Release returns the particle to the pool for reuse.
// Should be called when the particle is removed from the game.
func (p *Particle) Release() {
	particlePool.Put(p)
}

// SpawnBurst appends count particles starting at (x, y) to dst.
func SpawnBurst(dst []*Particle, rng *rand.Rand, x, y float64, count int) []*Particle {
	for i := 0; i < count; i++ {
		dst = append(dst, NewParticle(rng, x, y))
	}
	return dst
}

// Update moves the particle, applies gravity and burns down its life.
func (p *Particle) Update(_ UpdateContext) Step {
	p.X += p.VX
	p.Y += p.VY
	p.Life -= config.ParticleLifeStep
	p.VY += config.ParticleGravity
	if p.Life <= 0 {
		return Remove
	}
	return Continue
}

// Draw renders the particle as a gold dot fading with its life.
func (p *Particle) Draw(ctx DrawContext) {
	ctx.Surface.SetAlpha(p.Life)
	ctx.Surface.FillCircle(p.X, p.Y, p.Size, ColorGold)
	ctx.Surface.SetAlpha(1)
}
