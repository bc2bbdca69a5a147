// Package math provides the 2D vector type shared by the map, geometry and render packages.
package math

import "math"

// Vec2 is a 2D vector in pixels or grid units.
type Vec2 struct {
	X, Y float32
}

// Add returns v + other.
func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{v.X + other.X, v.Y + other.Y}
}

// Sub returns v - other.
func (v Vec2) Sub(other Vec2) Vec2 {
	return Vec2{v.X - other.X, v.Y - other.Y}
}

// Scale returns v * scalar.
func (v Vec2) Scale(s float32) Vec2 {
	return Vec2{v.X * s, v.Y * s}
}

// Mul returns the component-wise product.
func (v Vec2) Mul(other Vec2) Vec2 {
	return Vec2{v.X * other.X, v.Y * other.Y}
}

// Dot returns the dot product.
func (v Vec2) Dot(other Vec2) float32 {
	return v.X*other.X + v.Y*other.Y
}

// Length returns the magnitude.
func (v Vec2) Length() float32 {
	return float32(math.Sqrt(float64(v.X*v.X + v.Y*v.Y)))
}

// Normalize returns a unit vector.
func (v Vec2) Normalize() Vec2 {
	l := v.Length()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{v.X / l, v.Y / l}
}

// Distance returns the distance to another point.
func (v Vec2) Distance(other Vec2) float32 {
	return v.Sub(other).Length()
}

// IsZero reports whether both components are zero.
func (v Vec2) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

// Floor returns the integer cell containing v.
func (v Vec2) Floor() (int, int) {
	return int(math.Floor(float64(v.X))), int(math.Floor(float64(v.Y)))
}

// Round returns v rounded to the nearest integer cell.
func (v Vec2) Round() (int, int) {
	return int(math.Round(float64(v.X))), int(math.Round(float64(v.Y)))
}

// Rect is an axis-aligned rectangle given by its top-left corner and size.
type Rect struct {
	Pos  Vec2
	Size Vec2
}

// Contains reports whether p lies inside the rectangle (edges inclusive).
func (r Rect) Contains(p Vec2) bool {
	return p.X >= r.Pos.X && p.X <= r.Pos.X+r.Size.X &&
		p.Y >= r.Pos.Y && p.Y <= r.Pos.Y+r.Size.Y
}

// Intersects reports whether the two rectangles overlap.
func (r Rect) Intersects(o Rect) bool {
	return r.Pos.X < o.Pos.X+o.Size.X && o.Pos.X < r.Pos.X+r.Size.X &&
		r.Pos.Y < o.Pos.Y+o.Size.Y && o.Pos.Y < r.Pos.Y+r.Size.Y
}
