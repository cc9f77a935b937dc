package game

import (
	"time"

	"github.com/tomz197/slash/internal/config"
	"github.com/tomz197/slash/internal/object"
)

// State is the data of one session. The embedded spawner carries the
// difficulty parameters MaxEnemies and SpawnRate and the spawn clock.
type State struct {
	Score     int
	Combo     int
	TimeLeft  int // Seconds
	IsPlaying bool
	Enemies   []*object.Enemy
	Particles []*object.Particle

	object.EnemySpawner
}

// newState returns the state a session starts with.
func newState(now time.Time) State {
	return State{
		TimeLeft:     config.SessionSeconds,
		IsPlaying:    true,
		EnemySpawner: object.NewEnemySpawner(config.InitialMaxEnemies, config.InitialSpawnRate, now),
	}
}

// Pointer is a click in displayed pixels relative to the surface origin,
// with the factors that turn displayed pixels into surface units.
type Pointer struct {
	X, Y           float64
	ScaleX, ScaleY float64 // Zero means 1
}

// surfacePoint converts the pointer into surface coordinates.
func (p Pointer) surfacePoint() (float64, float64) {
	sx, sy := p.ScaleX, p.ScaleY
	if sx == 0 {
		sx = 1
	}
	if sy == 0 {
		sy = 1
	}
	return p.X * sx, p.Y * sy
}
