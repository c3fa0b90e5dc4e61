package main

import (
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config is the flat table of simulation tunables supplied at engine
// construction. Defaults match a 60Hz match; hosts may override any
// field (see LoadConfig in main.go). Speeds are playfield units per
// tick, cooldowns are ticks, power-up durations are milliseconds.
type Config struct {
	TickRate int `mapstructure:"tick_rate"`

	// Player tank
	PlayerSpeed         float64 `mapstructure:"player_speed"`
	PlayerRotationSpeed float64 `mapstructure:"player_rotation_speed"`
	PlayerMaxHealth     int     `mapstructure:"player_max_health"`
	PlayerMaxCooldown   int     `mapstructure:"player_max_cooldown"`
	PlayerDamage        int     `mapstructure:"player_damage"`

	// Enemy tanks
	EnemyMinSpawnIntervalMs int64   `mapstructure:"enemy_min_spawn_interval_ms"`
	EnemyMaxSpawnIntervalMs int64   `mapstructure:"enemy_max_spawn_interval_ms"`
	MaxEnemies              int     `mapstructure:"max_enemies"`
	MinEnemies              int     `mapstructure:"min_enemies"`
	EnemyMinSpeed           float64 `mapstructure:"enemy_min_speed"`
	EnemyMaxSpeed           float64 `mapstructure:"enemy_max_speed"`
	EnemySpeedCap           float64 `mapstructure:"enemy_speed_cap"`
	EnemySpeedPerKill       float64 `mapstructure:"enemy_speed_per_kill"`
	EnemySpeedIncreaseCap   float64 `mapstructure:"enemy_speed_increase_cap"`
	EnemyBaseHealth         int     `mapstructure:"enemy_base_health"`
	EnemyHealthRandomness   int     `mapstructure:"enemy_health_randomness"`
	EnemyRotationSpeed      float64 `mapstructure:"enemy_rotation_speed"`
	EnemyMaxCooldown        int     `mapstructure:"enemy_max_cooldown"`
	EnemyDamage             int     `mapstructure:"enemy_damage"`
	EnemyFireChance         float64 `mapstructure:"enemy_fire_chance"`
	EnemyAimSpread          float64 `mapstructure:"enemy_aim_spread"`
	EnemyRetargetTicks      uint64  `mapstructure:"enemy_retarget_ticks"`
	EnemyRetargetChance     float64 `mapstructure:"enemy_retarget_chance"`
	EdgeBiasMargin          float64 `mapstructure:"edge_bias_margin"`

	// Projectiles
	ProjectileSpeed float64 `mapstructure:"projectile_speed"`
	ShotRange       float64 `mapstructure:"shot_range"`
	EnemyShotRange  float64 `mapstructure:"enemy_shot_range"`
	MuzzleOffset    float64 `mapstructure:"muzzle_offset"`

	// Obstacles
	ObstacleCount       int     `mapstructure:"obstacle_count"`
	ObstacleMinSize     float64 `mapstructure:"obstacle_min_size"`
	ObstacleMaxSize     float64 `mapstructure:"obstacle_max_size"`
	ObstacleHealth      int     `mapstructure:"obstacle_health"`
	SpawnClearance      float64 `mapstructure:"spawn_clearance"`
	CollisionMargin     float64 `mapstructure:"collision_margin"`
	StuckProbeDistance  float64 `mapstructure:"stuck_probe_distance"`
	StuckTurnBucketSize uint64  `mapstructure:"stuck_turn_bucket_size"`

	// Power-ups
	PowerUpMinSpawnIntervalMs int64   `mapstructure:"powerup_min_spawn_interval_ms"`
	PowerUpMaxSpawnIntervalMs int64   `mapstructure:"powerup_max_spawn_interval_ms"`
	MaxPowerUps               int     `mapstructure:"max_powerups"`
	HealthPackAmount          int     `mapstructure:"health_pack_amount"`
	SpeedBoostMultiplier      float64 `mapstructure:"speed_boost_multiplier"`
	SpeedBoostDurationMs      int64   `mapstructure:"speed_boost_duration_ms"`
	RapidFireDurationMs       int64   `mapstructure:"rapid_fire_duration_ms"`
	RapidFireFactor           int     `mapstructure:"rapid_fire_factor"`
	ShieldDurationMs          int64   `mapstructure:"shield_duration_ms"`

	// Ramming
	RamBaseDamage     int     `mapstructure:"ram_base_damage"`
	RamVelocityScale  float64 `mapstructure:"ram_velocity_scale"`
	RamPushForce      float64 `mapstructure:"ram_push_force"`
	PlayerRamMitigate float64 `mapstructure:"player_ram_mitigate"`

	// Scoring
	KillScore int `mapstructure:"kill_score"`
	RamScore  int `mapstructure:"ram_score"`

	// Entity sizes and wrap thresholds
	TankSize            float64 `mapstructure:"tank_size"`
	ProjectileSize      float64 `mapstructure:"projectile_size"`
	PowerUpSize         float64 `mapstructure:"powerup_size"`
	TankWrapThreshold   float64 `mapstructure:"tank_wrap_threshold"`
	ProjectileWrapLimit float64 `mapstructure:"projectile_wrap_limit"`
}

// DefaultConfig returns the stock tuning
func DefaultConfig() Config {
	return Config{
		TickRate: 60,

		PlayerSpeed:         4.0,
		PlayerRotationSpeed: 0.08,
		PlayerMaxHealth:     100,
		PlayerMaxCooldown:   30,
		PlayerDamage:        20,

		EnemyMinSpawnIntervalMs: 3000,
		EnemyMaxSpawnIntervalMs: 7000,
		MaxEnemies:              8,
		MinEnemies:              2,
		EnemyMinSpeed:           1.2,
		EnemyMaxSpeed:           2.4,
		EnemySpeedCap:           4.0,
		EnemySpeedPerKill:       0.08,
		EnemySpeedIncreaseCap:   1.5,
		EnemyBaseHealth:         50,
		EnemyHealthRandomness:   20,
		EnemyRotationSpeed:      0.05,
		EnemyMaxCooldown:        90,
		EnemyDamage:             10,
		EnemyFireChance:         0.3,
		EnemyAimSpread:          0.6,
		EnemyRetargetTicks:      30,
		EnemyRetargetChance:     0.02,
		EdgeBiasMargin:          60,

		ProjectileSpeed: 10.0,
		ShotRange:       400,
		EnemyShotRange:  350,
		MuzzleOffset:    30,

		ObstacleCount:       8,
		ObstacleMinSize:     40,
		ObstacleMaxSize:     120,
		ObstacleHealth:      60,
		SpawnClearance:      150,
		CollisionMargin:     2.0,
		StuckProbeDistance:  6.0,
		StuckTurnBucketSize: 45,

		PowerUpMinSpawnIntervalMs: 8000,
		PowerUpMaxSpawnIntervalMs: 15000,
		MaxPowerUps:               3,
		HealthPackAmount:          25,
		SpeedBoostMultiplier:      1.5,
		SpeedBoostDurationMs:      8000,
		RapidFireDurationMs:       6000,
		RapidFireFactor:           3,
		ShieldDurationMs:          10000,

		RamBaseDamage:     5,
		RamVelocityScale:  2.0,
		RamPushForce:      8.0,
		PlayerRamMitigate: 0.5,

		KillScore: 100,
		RamScore:  50,

		TankSize:            40,
		ProjectileSize:      8,
		PowerUpSize:         24,
		TankWrapThreshold:   40,
		ProjectileWrapLimit: 10,
	}
}

// LoadConfig overlays an optional config file and TANKARENA_*
// environment variables on the defaults. A missing file is not an
// error; a malformed one is.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("tankarena")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if !os.IsNotExist(err) {
				if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
					return cfg, err
				}
			}
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
