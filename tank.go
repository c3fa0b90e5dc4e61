package main

import "math"

// Input is the per-tick control snapshot from the host: pressed keys,
// firing intent, and an optional absolute aim angle. The simulation
// never reads raw device events.
type Input struct {
	Up     bool
	Down   bool
	Left   bool
	Right  bool
	Fire   bool
	HasAim bool
	Aim    float64
}

// Tank is a health-bearing, rotating combat unit, either the single
// player tank or one of the enemy collection.
type Tank struct {
	Object
	ID             string
	Health         int
	MaxHealth      int
	Speed          float64
	RotationSpeed  float64
	Cooldown       int
	MaxCooldown    int
	IsPlayer       bool
	TargetRotation float64
	HasTarget      bool
	LastMove       Vec2
}

// NewPlayerTank places the player at the playfield center.
func NewPlayerTank(cfg Config, bounds Bounds) *Tank {
	return &Tank{
		Object: Object{
			Position: Vec2{X: bounds.Width / 2, Y: bounds.Height / 2},
			Width:    cfg.TankSize,
			Height:   cfg.TankSize,
		},
		ID:            "player",
		Health:        cfg.PlayerMaxHealth,
		MaxHealth:     cfg.PlayerMaxHealth,
		Speed:         cfg.PlayerSpeed,
		RotationSpeed: cfg.PlayerRotationSpeed,
		MaxCooldown:   cfg.PlayerMaxCooldown,
		IsPlayer:      true,
	}
}

// NewEnemyTank builds an enemy with attributes sampled inside the
// configured bands. speedIncrease is the running difficulty scalar;
// it shifts the speed band upward before the per-tank perturbation.
func NewEnemyTank(cfg Config, position Vec2, speedIncrease float64, rng *Rand) *Tank {
	speed := rng.Range(cfg.EnemyMinSpeed, cfg.EnemyMaxSpeed) + speedIncrease
	speed += rng.Jitter(0.4)
	if speed > cfg.EnemySpeedCap {
		speed = cfg.EnemySpeedCap
	}

	health := cfg.EnemyBaseHealth + int(rng.Jitter(float64(cfg.EnemyHealthRandomness)))
	if health < 1 {
		health = 1
	}

	return &Tank{
		Object: Object{
			Position: position,
			Rotation: rng.Angle(),
			Width:    cfg.TankSize,
			Height:   cfg.TankSize,
		},
		ID:            GenerateID(4),
		Health:        health,
		MaxHealth:     health,
		Speed:         speed,
		RotationSpeed: cfg.EnemyRotationSpeed + rng.Jitter(0.02),
		Cooldown:      rng.Intn(cfg.EnemyMaxCooldown),
		MaxCooldown:   cfg.EnemyMaxCooldown,
	}
}

// UpdatePlayer applies one tick of input-driven movement: rotation
// from the left/right keys (or an absolute aim angle when supplied),
// then forward/backward motion resolved against obstacles, then edge
// wrapping. LastMove records the committed pre-wrap displacement for
// the ram damage calculation.
func (t *Tank) UpdatePlayer(cfg Config, in Input, speedMul float64, obstacles []*Obstacle, bounds Bounds) {
	if in.HasAim {
		t.Rotation = NormalizeAngle(in.Aim)
	} else {
		if in.Left {
			t.Rotation = NormalizeAngle(t.Rotation - t.RotationSpeed)
		}
		if in.Right {
			t.Rotation = NormalizeAngle(t.Rotation + t.RotationSpeed)
		}
	}

	step := 0.0
	if in.Up {
		step += t.Speed * speedMul
	}
	if in.Down {
		step -= t.Speed * speedMul
	}

	prev := t.Position
	if step != 0 {
		t.moveAlongHeading(cfg, step, obstacles)
	}
	t.LastMove = t.Position.Sub(prev)
	t.Position = WrapPosition(t.Position, cfg.TankWrapThreshold, bounds)

	t.TickCooldown()
}

// moveAlongHeading commits a movement step along the current facing,
// resolved against obstacles. A blocked axis slides along the other
// one; a corner hit stops the tank.
func (t *Tank) moveAlongHeading(cfg Config, step float64, obstacles []*Obstacle) {
	candidate := t.Position.Add(Heading(t.Rotation).Scale(step))
	res := CheckObstacleCollision(candidate, t.Width, obstacles, cfg.CollisionMargin)
	if !res.Collided {
		t.Position = candidate
		return
	}
	if res.CollidedX && res.CollidedY {
		return
	}
	slide := t.Position
	if res.CollidedX {
		slide.Y = candidate.Y
	} else {
		slide.X = candidate.X
	}
	if again := CheckObstacleCollision(slide, t.Width, obstacles, cfg.CollisionMargin); !again.Collided {
		t.Position = slide
	}
}

// TickCooldown decrements the fire cooldown, holding at zero.
func (t *Tank) TickCooldown() {
	if t.Cooldown > 0 {
		t.Cooldown--
	}
}

// CanFire reports whether the cooldown has fully elapsed.
func (t *Tank) CanFire() bool {
	return t.Cooldown <= 0
}

// Fire resets the cooldown. rapidFire shortens the player's reset so
// follow-up shots come faster.
func (t *Tank) Fire(cfg Config, rapidFire bool) {
	cd := t.MaxCooldown
	if t.IsPlayer && rapidFire && cfg.RapidFireFactor > 0 {
		cd = t.MaxCooldown / cfg.RapidFireFactor
	}
	t.Cooldown = cd
}

// TakeDamage reduces health, clamping at zero, and reports whether
// this hit was lethal.
func (t *Tank) TakeDamage(amount int) bool {
	if t.Health <= 0 {
		return false
	}
	t.Health -= amount
	if t.Health <= 0 {
		t.Health = 0
		return true
	}
	return false
}

// Heal clamp-adds health up to the maximum.
func (t *Tank) Heal(amount int) {
	t.Health += amount
	if t.Health > t.MaxHealth {
		t.Health = t.MaxHealth
	}
}

// ToState converts to protocol state
func (t *Tank) ToState() TankState {
	return TankState{
		ID:     t.ID,
		X:      round1(t.Position.X),
		Y:      round1(t.Position.Y),
		R:      round1(t.Rotation),
		HP:     t.Health,
		MaxHP:  t.MaxHealth,
		Player: t.IsPlayer,
	}
}

// FaceToward turns the current heading toward target by at most
// rotationSpeed, snapping once within a single step.
func (t *Tank) FaceToward(target float64) {
	diff := NormalizeAngle(target - t.Rotation)
	if math.Abs(diff) <= t.RotationSpeed {
		t.Rotation = NormalizeAngle(target)
		return
	}
	t.Rotation = NormalizeAngle(t.Rotation + math.Copysign(t.RotationSpeed, diff))
}
