package main

import (
	"math"
	"testing"
)

func blockObstacle(x, y, w, h float64) *Obstacle {
	return &Obstacle{Object: Object{Position: Vec2{X: x, Y: y}, Width: w, Height: h}}
}

func TestCheckObstacleCollisionMiss(t *testing.T) {
	obstacles := []*Obstacle{blockObstacle(100, 100, 80, 80)}
	// Half extents: 20 (entity) + 40 (obstacle) + 2 (margin) = 62
	res := CheckObstacleCollision(Vec2{X: 170, Y: 100}, 40, obstacles, 2)
	if res.Collided {
		t.Error("position outside the extended extents should not collide")
	}
	if res.Corrected != (Vec2{X: 170, Y: 100}) {
		t.Error("corrected position of a miss should be the input position")
	}
}

func TestCheckObstacleCollisionPushOutX(t *testing.T) {
	obstacles := []*Obstacle{blockObstacle(100, 100, 80, 80)}
	res := CheckObstacleCollision(Vec2{X: 160, Y: 95}, 40, obstacles, 2)
	if !res.Collided || !res.CollidedX || res.CollidedY {
		t.Fatalf("expected X-axis collision, got %+v", res)
	}
	// Shallow axis is X: pushed out to the extent boundary
	if math.Abs(res.Corrected.X-162) > 1e-9 {
		t.Errorf("expected corrected X 162, got %v", res.Corrected.X)
	}
	if res.Corrected.Y != 95 {
		t.Errorf("Y should be untouched, got %v", res.Corrected.Y)
	}
}

func TestCheckObstacleCollisionPushOutY(t *testing.T) {
	obstacles := []*Obstacle{blockObstacle(100, 100, 80, 80)}
	res := CheckObstacleCollision(Vec2{X: 95, Y: 160}, 40, obstacles, 2)
	if !res.Collided || res.CollidedX || !res.CollidedY {
		t.Fatalf("expected Y-axis collision, got %+v", res)
	}
	if math.Abs(res.Corrected.Y-162) > 1e-9 {
		t.Errorf("expected corrected Y 162, got %v", res.Corrected.Y)
	}
}

func TestCheckObstacleCollisionCorner(t *testing.T) {
	obstacles := []*Obstacle{blockObstacle(100, 100, 80, 80)}
	// Equal overlap on both axes lands inside the corner band
	res := CheckObstacleCollision(Vec2{X: 158, Y: 158}, 40, obstacles, 2)
	if !res.Collided || !res.CollidedX || !res.CollidedY {
		t.Fatalf("expected corner collision blocking both axes, got %+v", res)
	}
	if math.Abs(res.Corrected.X-162) > 1e-9 || math.Abs(res.Corrected.Y-162) > 1e-9 {
		t.Errorf("expected diagonal back-out to (162, 162), got (%v, %v)", res.Corrected.X, res.Corrected.Y)
	}
}

func TestIsStuckAgainstObstacle(t *testing.T) {
	// Corridor: walls above and below, 42-unit collision extents
	walls := []*Obstacle{
		blockObstacle(100, 55, 200, 40),
		blockObstacle(100, 145, 200, 40),
	}

	// Facing across the corridor: both probes hit a wall
	if !IsStuckAgainstObstacle(Vec2{X: 100, Y: 100}, 40, math.Pi/2, walls, 6, 2) {
		t.Error("tank probing into both walls should be stuck")
	}

	// Facing along the corridor: free in both directions
	if IsStuckAgainstObstacle(Vec2{X: 100, Y: 100}, 40, 0, walls, 6, 2) {
		t.Error("tank moving along the corridor should not be stuck")
	}

	// Blocked forward but free backward is not stuck
	oneWall := []*Obstacle{blockObstacle(100, 55, 200, 40)}
	if IsStuckAgainstObstacle(Vec2{X: 100, Y: 100}, 40, -math.Pi/2, oneWall, 60, 2) {
		t.Error("tank with a free reverse path should not be stuck")
	}
}
