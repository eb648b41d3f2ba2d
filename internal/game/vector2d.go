package game

import "math"

// Vec2 is a 2D vector in field units.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func NewVec2(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

func (v Vec2) Plus(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

func (v Vec2) Magnitude() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

// FromPolar builds a vector of the given length pointing at angle radians.
func FromPolar(length, angle float64) Vec2 {
	return Vec2{X: length * math.Cos(angle), Y: length * math.Sin(angle)}
}

func (v Vec2) IsZero() bool {
	return v.X == 0 && v.Y == 0
}
