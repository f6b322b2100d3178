// Package config centralizes all tunable game parameters.
package config

import "time"

// Arena - the logical play rectangle, origin at top-left.
// Actual rendering scales to fit terminal size or browser canvas.
const (
	ArenaWidth  = 800
	ArenaHeight = 600
)

// Simulation timing. Per-frame speeds below are expressed in units per
// reference frame and scaled by the elapsed delta.
const (
	ReferenceFPS = 60
	MaxTickDelta = 100 * time.Millisecond // Larger deltas are clamped
)

// Scoring
const (
	InitialLives      = 3
	LevelScoreStep    = 1000 // Score per level
	BombScorePerEnemy = 50   // Points per enemy cleared by a bomb
	HealthRestoreLife = 1    // Lives restored by a health power-up
)

// Player
const (
	PlayerWidth            = 60
	PlayerHeight           = 60
	PlayerSpeed            = 5.0
	PlayerBottomMargin     = 20 // Gap kept between the ship and the arena floor
	PlayerSpawnBottomGap   = 50 // Start position gap above the arena floor
	PlayerShotCooldown     = 200 * time.Millisecond
	PlayerRapidCooldown    = 50 * time.Millisecond
	PlayerInvulnerableTick = 120 // 2 seconds at 60fps
	PlayerBlinkPeriod      = 4   // Ticks per flicker phase
)

// Special power gauge
const (
	SpecialPowerMax      = 100.0
	SpecialPowerStart    = 50.0
	SpecialPowerRegen    = 0.1 // Per frame
	SpecialBoostDrain    = 0.5 // Per frame while boosting
	SpecialBoostFactor   = 1.5
	SpecialFlankMinPower = 20.0
	SpecialFlankCost     = 10.0
	SpecialAttackMin     = 50.0
	SpecialAttackBullets = 8
)

// Projectiles
const (
	ProjectileCullMargin = 10.0

	PlayerBulletWidth  = 4
	PlayerBulletHeight = 15
	PlayerBulletSpeed  = 12.0
	PlayerBulletDamage = 1

	SpecialBulletSize   = 6
	SpecialBulletSpeed  = 8.0
	SpecialBulletDamage = 2

	TripleShotSpread = 3.0 // Lateral speed of the triple-shot side bullets
)

// Enemies
const (
	EnemySpawnY      = -60.0
	BossSpawnY       = -100.0
	EnemyCullMargin  = 100.0
	EnemyBulletDrift = 2.0  // Lateral speed factor for boss spread shots
	BossSpreadAngle  = 0.3  // Radians between boss spread shots
	BossPhaseStep    = 0.02 // Phase advance per frame
	BossSwayAmp      = 3.0
	ZigzagFrequency  = 0.05
	ZigzagAmp        = 2.0
	EnemyFlashPeriod = 4 // Frames per damage-flash phase
)

// Waves
const (
	WaveInitialQuota  = 5
	WaveQuotaBase     = 5
	WaveQuotaCap      = 15
	WaveBaseInterval  = 2000 * time.Millisecond
	WaveIntervalStep  = 100 * time.Millisecond
	WaveIntervalFloor = 800 * time.Millisecond
	WavesPerCycle     = 5
	FastUnlockLevel   = 2
	TankUnlockLevel   = 4
	CollisionGridCell = 100.0
)

// Power-ups
const (
	PowerUpInterval   = 15 * time.Second
	PowerUpSize       = 30
	PowerUpFallSpeed  = 2.0
	PowerUpSpawnY     = -50.0
	PowerUpCullMargin = 50.0

	RapidFireDuration  = 5 * time.Second
	ShieldDuration     = 10 * time.Second
	TripleShotDuration = 7 * time.Second
	SpeedBoostDuration = 8 * time.Second
	SpeedBoostFactor   = 2.0
)

// Particles
const (
	ParticleGravity     = 0.2
	ParticleDrag        = 0.98
	ParticleTrailLength = 5
	ExplosionCount      = 20
	ExplosionSmoke      = 5
	SmokeStagger        = 50 * time.Millisecond
	HitSparks           = 5
	LevelUpStars        = 10
)

// Client rendering
const (
	ClientTargetFPS       = 60
	ClientTargetFrameTime = time.Second / ClientTargetFPS
	ServerTickTime        = time.Second / ReferenceFPS // Websocket match tick
	MaxTermWidth          = 160
	MaxTermHeight         = 60
	BannerDuration        = 2 * time.Second // Wave, boss and level-up banners
	ShutdownDisplay       = 5 * time.Second // Shutdown notice before disconnect
)

// Inactivity
const (
	InactivityWarn       = 90 * time.Second
	InactivityDisconnect = 120 * time.Second
)

// High scores
const (
	MaxNameLength     = 16
	DefaultName       = "AAA"
	HighScoreLimit    = 10  // Default leaderboard size
	HighScoreMaxLimit = 100 // Largest page the API serves
	HighScoresShown   = 5   // Entries on the terminal title screen
	SubmitTimeout     = 5 * time.Second
)
