package main

import "testing"

func TestBorderObstacles(t *testing.T) {
	bounds := Bounds{Width: 800, Height: 600}
	slabs := borderObstacles(bounds)
	if len(slabs) != 4 {
		t.Fatalf("expected 4 border slabs, got %d", len(slabs))
	}
	for _, s := range slabs {
		if s.Destructible {
			t.Error("border slabs must be indestructible")
		}
	}

	// A point just past each edge hits a slab
	probes := []Vec2{
		{X: 400, Y: -10},
		{X: 400, Y: 610},
		{X: -10, Y: 300},
		{X: 810, Y: 300},
	}
	for _, p := range probes {
		if res := CheckObstacleCollision(p, 40, slabs, 0); !res.Collided {
			t.Errorf("probe at (%v, %v) should hit a border slab", p.X, p.Y)
		}
	}

	// The playfield center is clear
	if res := CheckObstacleCollision(Vec2{X: 400, Y: 300}, 40, slabs, 0); res.Collided {
		t.Error("center should be clear of border slabs")
	}
}

func TestGenerateObstaclesClearance(t *testing.T) {
	cfg := DefaultConfig()
	bounds := Bounds{Width: 800, Height: 600}
	center := Vec2{X: 400, Y: 300}
	obstacles := generateObstacles(cfg, bounds, NewRand(42))

	if len(obstacles) < 4 {
		t.Fatalf("expected at least the border slabs, got %d", len(obstacles))
	}
	for _, o := range obstacles[4:] {
		if Distance(o.Position, center) < cfg.SpawnClearance {
			t.Errorf("obstacle at (%v, %v) violates spawn clearance", o.Position.X, o.Position.Y)
		}
	}
}

func TestFindSafeSpawnPositionFallback(t *testing.T) {
	bounds := Bounds{Width: 800, Height: 600}
	// One obstacle covering the whole playfield leaves no opening
	wall := []*Obstacle{blockObstacle(400, 300, 2000, 2000)}
	pos := findSafeSpawnPosition(bounds, 40, wall, 40, NewRand(1))
	if pos != (Vec2{X: 400, Y: 300}) {
		t.Errorf("expected center fallback, got (%v, %v)", pos.X, pos.Y)
	}
}

func TestObstacleDamage(t *testing.T) {
	o := blockObstacle(100, 100, 60, 60)
	if o.Damage(1000) {
		t.Error("indestructible obstacle should never report destruction")
	}

	o.Destructible = true
	o.Health = 60
	if o.Damage(20) {
		t.Error("obstacle with health remaining should survive")
	}
	if o.Health != 40 {
		t.Errorf("expected health 40, got %d", o.Health)
	}
	if !o.Damage(40) {
		t.Error("damage reducing health to zero should destroy")
	}
}
