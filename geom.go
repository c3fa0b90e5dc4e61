package main

import "math"

// Vec2 is a 2D position or displacement
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns v + o
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{v.X + o.X, v.Y + o.Y}
}

// Sub returns v - o
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{v.X - o.X, v.Y - o.Y}
}

// Scale returns v * s
func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{v.X * s, v.Y * s}
}

// Len returns the vector length
func (v Vec2) Len() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

// Bounds is the playfield size supplied by the host
type Bounds struct {
	Width  float64 `json:"w"`
	Height float64 `json:"h"`
}

// Valid reports whether the bounds describe a usable playfield
func (b Bounds) Valid() bool {
	return b.Width > 0 && b.Height > 0
}

// Object is the common shape used for collision tests: a rotated
// rectangle approximated as a circle for tank/projectile/power-up
// tests and as an axis-aligned box for obstacle tests.
type Object struct {
	Position Vec2    `json:"pos"`
	Rotation float64 `json:"rot"`
	Width    float64 `json:"w"`
	Height   float64 `json:"h"`
}

// Distance returns the distance between two points
func Distance(a, b Vec2) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// CircleHit is the cheap circular collision test: two objects collide
// when their centers are closer than the average of their widths.
func CircleHit(a, b *Object) bool {
	return Distance(a.Position, b.Position) < (a.Width+b.Width)/2
}

// RectOverlap is the exact axis-aligned overlap test, used for
// obstacles which are poorly approximated by circles.
func RectOverlap(a, b *Object) bool {
	return math.Abs(a.Position.X-b.Position.X) < (a.Width+b.Width)/2 &&
		math.Abs(a.Position.Y-b.Position.Y) < (a.Height+b.Height)/2
}

// WrapPosition applies toroidal topology: a coordinate past one edge
// by more than threshold reappears just past the opposite edge. The
// threshold is entity-size-dependent so sprites fully clear the
// boundary before wrapping. Invalid bounds return p unchanged.
func WrapPosition(p Vec2, threshold float64, b Bounds) Vec2 {
	if !b.Valid() {
		return p
	}
	if p.X < -threshold {
		p.X = b.Width + threshold
	} else if p.X > b.Width+threshold {
		p.X = -threshold
	}
	if p.Y < -threshold {
		p.Y = b.Height + threshold
	} else if p.Y > b.Height+threshold {
		p.Y = -threshold
	}
	return p
}

// Clamp restricts v to [min, max]
func Clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// NormalizeAngle wraps angle to [-PI, PI]
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a > math.Pi {
		a -= 2 * math.Pi
	} else if a < -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// Heading returns the unit vector for an angle
func Heading(angle float64) Vec2 {
	return Vec2{math.Cos(angle), math.Sin(angle)}
}
