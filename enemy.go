package main

import "math"

// UpdateEnemy runs one tick of steering for an AI tank: pick a target
// heading on a coarse cadence, turn toward it, push forward through
// the obstacle resolver, wrap, and maybe fire. Returns the projectile
// when the tank fires, nil otherwise.
//
// The heading is re-evaluated only every few ticks (plus a small
// per-tick chance) so enemies do not visibly jitter. The aim deviation
// shrinks as the enemy closes on the player.
func (t *Tank) UpdateEnemy(cfg Config, player *Tank, obstacles []*Obstacle, bounds Bounds, tick uint64, rng *Rand) *Projectile {
	dist := Distance(t.Position, player.Position)

	retarget := !t.HasTarget
	if !retarget && cfg.EnemyRetargetTicks > 0 && tick%cfg.EnemyRetargetTicks == 0 {
		retarget = true
	}
	if !retarget && rng.Chance(cfg.EnemyRetargetChance) {
		retarget = true
	}

	if retarget {
		bearing := math.Atan2(player.Position.Y-t.Position.Y, player.Position.X-t.Position.X)
		spread := cfg.EnemyAimSpread * Clamp(dist/cfg.EnemyShotRange, 0.15, 1.0)
		t.TargetRotation = NormalizeAngle(bearing + rng.Jitter(spread))
		t.HasTarget = true

		// Bias back toward the center when loitering near an edge
		if t.nearEdge(cfg, bounds) {
			center := Vec2{X: bounds.Width / 2, Y: bounds.Height / 2}
			toCenter := math.Atan2(center.Y-t.Position.Y, center.X-t.Position.X)
			t.TargetRotation = NormalizeAngle(toCenter + rng.Jitter(spread))
		}
	}

	t.FaceToward(t.TargetRotation)

	prev := t.Position
	t.moveAlongHeading(cfg, t.Speed, obstacles)

	if IsStuckAgainstObstacle(t.Position, t.Width, t.Rotation, obstacles, cfg.StuckProbeDistance, cfg.CollisionMargin) {
		t.recoverFromStuck(cfg, obstacles, tick)
	}

	t.LastMove = t.Position.Sub(prev)
	t.Position = WrapPosition(t.Position, cfg.TankWrapThreshold, bounds)

	t.TickCooldown()

	if t.CanFire() && dist < cfg.EnemyShotRange && rng.Chance(cfg.EnemyFireChance) {
		t.Fire(cfg, false)
		return NewProjectile(cfg, t)
	}
	return nil
}

// nearEdge reports whether the tank sits within the bias margin of any
// playfield border.
func (t *Tank) nearEdge(cfg Config, bounds Bounds) bool {
	m := cfg.EdgeBiasMargin
	return t.Position.X < m || t.Position.X > bounds.Width-m ||
		t.Position.Y < m || t.Position.Y > bounds.Height-m
}

// recoverFromStuck frees a tank jammed against obstacles. First try a
// small nudge perpendicular to the heading in either direction; if
// both are blocked, force a hard turn. The turn direction comes from a
// coarse tick bucket rather than per-tick randomness so a jammed tank
// commits to one escape heading instead of twitching.
func (t *Tank) recoverFromStuck(cfg Config, obstacles []*Obstacle, tick uint64) {
	lateral := Heading(t.Rotation + math.Pi/2).Scale(cfg.StuckProbeDistance)
	for _, side := range []Vec2{lateral, lateral.Scale(-1)} {
		candidate := t.Position.Add(side)
		if res := CheckObstacleCollision(candidate, t.Width, obstacles, cfg.CollisionMargin); !res.Collided {
			t.Position = candidate
			return
		}
	}

	bucket := uint64(0)
	if cfg.StuckTurnBucketSize > 0 {
		bucket = tick / cfg.StuckTurnBucketSize
	}
	switch bucket % 3 {
	case 0:
		t.TargetRotation = NormalizeAngle(t.Rotation + math.Pi/2)
	case 1:
		t.TargetRotation = NormalizeAngle(t.Rotation - math.Pi/2)
	default:
		t.TargetRotation = NormalizeAngle(t.Rotation + math.Pi)
	}
	t.HasTarget = true
}
