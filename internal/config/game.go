package config

import "time"

// Surface is the logical drawing area in which the game runs.
// Every host scales it to whatever it actually displays.
const (
	SurfaceWidth  = 800
	SurfaceHeight = 500
	GridSpacing   = 50
	GridAlpha     = 0.05
)

// Session
const (
	SessionSeconds  = 30
	CountdownPeriod = time.Second
)

// Difficulty. Thresholds are compared for equality against the remaining
// seconds after each countdown tick.
const (
	InitialMaxEnemies = 3
	InitialSpawnRate  = 1500 * time.Millisecond

	MidGameSecondsLeft = 20
	MidGameMaxEnemies  = 4
	MidGameSpawnRate   = 1200 * time.Millisecond

	LateGameSecondsLeft = 10
	LateGameMaxEnemies  = 5
	LateGameSpawnRate   = 1000 * time.Millisecond
)

// Scoring
const (
	HitPoints     = 10
	ComboBonus    = 0.5 // Extra multiplier per combo step
	ParticleBurst = 15  // Particles per hit-producing click
)

// Enemies
const (
	EnemyRadius      = 30.0
	EnemySpawnMargin = 40.0
	EnemyMinSpeed    = 0.5
	EnemySpeedRange  = 0.5
	EnemyFadeStep    = 0.05
	EnemyGrowStep    = 2.0
)

// Particles
const (
	ParticleMinSize   = 2.0
	ParticleSizeRange = 3.0
	ParticleSpread    = 10.0
	ParticleLifeStep  = 0.02
	ParticleGravity   = 0.3
)

// Leaderboard
const (
	LeaderboardSize = 5
	DateLayout      = "1/2/2006"
)

// HUD
const (
	ComboPulseDuration = 200 * time.Millisecond
)

// Player
const (
	MaxUsernameLength = 16 // Maximum display length for player usernames
)

// Shutdown
const (
	ShutdownDisplaySeconds = 10.0 // Seconds to show shutdown message before auto-disconnect
	DefaultShutdownGrace   = 15 * time.Second
)

// Inactivity
const (
	InactivityWarnUser       = 90  // Seconds
	InactivityDisconnectUser = 120 // Seconds
)

// Client rendering
const (
	ClientTargetFPS       = 60
	ClientTargetFrameTime = time.Second / ClientTargetFPS

	// Terminals larger than this are rendered centered with a border.
	MaxTermWidth  = 160
	MaxTermHeight = 50
)
