package main

// Obstacle is a static rectangle blocking movement. Border obstacles
// are indestructible; interior ones have a 30% chance of being
// destructible and carry health.
type Obstacle struct {
	Object
	ID           string
	Destructible bool
	Health       int
}

const borderSlabThickness = 200.0

// borderObstacles builds four oversized indestructible slabs sitting
// flush against the outside of each playfield edge.
func borderObstacles(bounds Bounds) []*Obstacle {
	w, h := bounds.Width, bounds.Height
	t := borderSlabThickness
	slab := func(x, y, sw, sh float64) *Obstacle {
		return &Obstacle{
			Object: Object{
				Position: Vec2{X: x, Y: y},
				Width:    sw,
				Height:   sh,
			},
			ID: GenerateID(4),
		}
	}
	return []*Obstacle{
		slab(w/2, -t/2, w+2*t, t),   // top
		slab(w/2, h+t/2, w+2*t, t),  // bottom
		slab(-t/2, h/2, t, h+2*t),   // left
		slab(w+t/2, h/2, t, h+2*t),  // right
	}
}

// generateObstacles returns the border slabs plus count interior
// rectangles. Interior placements too close to the player spawn point
// (the playfield center) are rejected and retried.
func generateObstacles(cfg Config, bounds Bounds, rng *Rand) []*Obstacle {
	obstacles := borderObstacles(bounds)
	center := Vec2{X: bounds.Width / 2, Y: bounds.Height / 2}

	for i := 0; i < cfg.ObstacleCount; i++ {
		var o *Obstacle
		for attempt := 0; attempt < 50; attempt++ {
			w := rng.Range(cfg.ObstacleMinSize, cfg.ObstacleMaxSize)
			h := rng.Range(cfg.ObstacleMinSize, cfg.ObstacleMaxSize)
			pos := Vec2{
				X: rng.Range(w/2, bounds.Width-w/2),
				Y: rng.Range(h/2, bounds.Height-h/2),
			}
			if Distance(pos, center) < cfg.SpawnClearance {
				continue
			}
			o = &Obstacle{
				Object: Object{Position: pos, Width: w, Height: h},
				ID:     GenerateID(4),
			}
			break
		}
		if o == nil {
			continue
		}
		if rng.Chance(0.3) {
			o.Destructible = true
			o.Health = cfg.ObstacleHealth
		}
		obstacles = append(obstacles, o)
	}
	return obstacles
}

// findSafeSpawnPosition samples random positions inside the
// margin-reduced bounds until one clears every obstacle. Falls back to
// the playfield center when obstacle density leaves no opening.
func findSafeSpawnPosition(bounds Bounds, size float64, obstacles []*Obstacle, margin float64, rng *Rand) Vec2 {
	for attempt := 0; attempt < 50; attempt++ {
		pos := Vec2{
			X: rng.Range(margin, bounds.Width-margin),
			Y: rng.Range(margin, bounds.Height-margin),
		}
		res := CheckObstacleCollision(pos, size, obstacles, 0)
		if !res.Collided {
			return pos
		}
	}
	return Vec2{X: bounds.Width / 2, Y: bounds.Height / 2}
}

// ToState converts to protocol state
func (o *Obstacle) ToState() ObstacleState {
	return ObstacleState{
		ID:   o.ID,
		X:    round1(o.Position.X),
		Y:    round1(o.Position.Y),
		W:    o.Width,
		H:    o.Height,
		Dest: o.Destructible,
		HP:   o.Health,
	}
}

// Damage applies projectile damage; indestructible obstacles ignore it.
// Reports whether the obstacle should be removed.
func (o *Obstacle) Damage(amount int) bool {
	if !o.Destructible {
		return false
	}
	o.Health -= amount
	return o.Health <= 0
}
