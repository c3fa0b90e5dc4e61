package main

import "math"

// cornerEpsilon is the overlap-difference band inside which a hit is
// treated as a corner hit and movement is blocked on both axes.
const cornerEpsilon = 0.5

// CollisionResult reports the outcome of an obstacle test for a
// candidate position. When Collided is set, Corrected holds the
// position pushed out of the obstacle along the shallow axis, and
// CollidedX/CollidedY mark which movement axes are blocked.
type CollisionResult struct {
	Collided  bool
	CollidedX bool
	CollidedY bool
	Corrected Vec2
}

// CheckObstacleCollision tests a square entity of the given size at
// position against every obstacle, stopping at the first hit.
// Obstacles are assumed not to overlap each other.
func CheckObstacleCollision(position Vec2, size float64, obstacles []*Obstacle, margin float64) CollisionResult {
	half := size / 2
	for _, o := range obstacles {
		dx := position.X - o.Position.X
		dy := position.Y - o.Position.Y
		extX := half + o.Width/2 + margin
		extY := half + o.Height/2 + margin
		if math.Abs(dx) >= extX || math.Abs(dy) >= extY {
			continue
		}

		overlapX := extX - math.Abs(dx)
		overlapY := extY - math.Abs(dy)

		res := CollisionResult{Collided: true, Corrected: position}
		switch {
		case math.Abs(overlapX-overlapY) < cornerEpsilon:
			// Corner hit, block both axes and back out diagonally
			res.CollidedX = true
			res.CollidedY = true
			res.Corrected.X = position.X + math.Copysign(overlapX, dx)
			res.Corrected.Y = position.Y + math.Copysign(overlapY, dy)
		case overlapX < overlapY:
			res.CollidedX = true
			res.Corrected.X = position.X + math.Copysign(overlapX, dx)
		default:
			res.CollidedY = true
			res.Corrected.Y = position.Y + math.Copysign(overlapY, dy)
		}
		return res
	}
	return CollisionResult{Corrected: position}
}

// IsStuckAgainstObstacle reports dead-end jamming: a short probe step
// both forward and backward along the current heading each collide.
func IsStuckAgainstObstacle(position Vec2, size, rotation float64, obstacles []*Obstacle, probe, margin float64) bool {
	dir := Heading(rotation).Scale(probe)
	fwd := CheckObstacleCollision(position.Add(dir), size, obstacles, margin)
	if !fwd.Collided {
		return false
	}
	back := CheckObstacleCollision(position.Sub(dir), size, obstacles, margin)
	return back.Collided
}
