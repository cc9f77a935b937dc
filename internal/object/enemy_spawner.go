package object

import (
	"math/rand"
	"time"

	"github.com/tomz197/slash/internal/physics"
)

// EnemySpawner releases one enemy per interval while the field is below
// capacity.
type EnemySpawner struct {
	MaxEnemies int           // Capacity checked at spawn time
	SpawnRate  time.Duration // Minimum time between spawn decisions
	LastSpawn  time.Time     // Time of the last spawn decision
}

// NewEnemySpawner creates a spawner whose clock starts at now.
func NewEnemySpawner(maxEnemies int, rate time.Duration, now time.Time) EnemySpawner {
	if maxEnemies < 0 {
		maxEnemies = 0
	}
	return EnemySpawner{
		MaxEnemies: maxEnemies,
		SpawnRate:  rate,
		LastSpawn:  now,
	}
}

// SetDifficulty changes capacity and cadence without touching the spawn clock.
func (s *EnemySpawner) SetDifficulty(maxEnemies int, rate time.Duration) {
	s.MaxEnemies = maxEnemies
	s.SpawnRate = rate
}

// Spawn returns a new enemy if more than SpawnRate has elapsed since the
// last decision and fewer than MaxEnemies are active, otherwise nil.
// Every elapsed interval restarts the clock, whether or not an enemy was
// released.
func (s *EnemySpawner) Spawn(now time.Time, active int, rng *rand.Rand, b physics.Bounds) *Enemy {
	if now.Sub(s.LastSpawn) <= s.SpawnRate {
		return nil
	}
	s.LastSpawn = now
	if active >= s.MaxEnemies {
		return nil
	}
	return NewEnemy(rng, b)
}
