//go:build !dim3

package vect

import (
	"fmt"
	"math"
)

// Dim is the number of spatial dimensions of this build.
const Dim = 2

type Vector struct {
	X, Y float64
}

// XY returns the vector (x, y).
func XY(x, y float64) Vector {
	return Vector{x, y}
}

func Zero() Vector {
	return Vector{}
}

// Splat returns a vector with every component set to s.
func Splat(s float64) Vector {
	return Vector{s, s}
}

// Axis returns the unit vector along axis i.
func Axis(i int) Vector {
	var v Vector
	return v.With(i, 1)
}

// FromSlice builds a vector from exactly Dim components.
func FromSlice(s []float64) (Vector, error) {
	if len(s) != Dim {
		return Vector{}, fmt.Errorf("vect: expected %d components, got %d", Dim, len(s))
	}
	return Vector{s[0], s[1]}, nil
}

func (v Vector) Slice() []float64 {
	return []float64{v.X, v.Y}
}

func (v Vector) String() string {
	return fmt.Sprintf("%f,%f", v.X, v.Y)
}

// At returns component i.
func (v Vector) At(i int) float64 {
	if i == 0 {
		return v.X
	}
	return v.Y
}

// With returns a copy of v with component i replaced.
func (v Vector) With(i int, f float64) Vector {
	if i == 0 {
		v.X = f
	} else {
		v.Y = f
	}
	return v
}

func (v Vector) Equal(other Vector) bool {
	return v.X == other.X && v.Y == other.Y
}

func (v Vector) Add(other Vector) Vector {
	return Vector{v.X + other.X, v.Y + other.Y}
}

func (v Vector) Sub(other Vector) Vector {
	return Vector{v.X - other.X, v.Y - other.Y}
}

func (v Vector) Neg() Vector {
	return Vector{-v.X, -v.Y}
}

func (v Vector) Mult(s float64) Vector {
	return Vector{v.X * s, v.Y * s}
}

// MultComponents is the component-wise product.
func (v Vector) MultComponents(other Vector) Vector {
	return Vector{v.X * other.X, v.Y * other.Y}
}

func (v Vector) Dot(other Vector) float64 {
	return v.X*other.X + v.Y*other.Y
}

// Cross is the 2D cross product analog: the z component of the 3D cross product.
func (v Vector) Cross(other Vector) float64 {
	return v.X*other.Y - v.Y*other.X
}

func (v Vector) Perp() Vector {
	return Vector{-v.Y, v.X}
}

func (v Vector) ReversePerp() Vector {
	return Vector{v.Y, -v.X}
}

// AnyOrthogonal returns some unit vector orthogonal to v.
func (v Vector) AnyOrthogonal() Vector {
	if v.IsZero() {
		return Vector{0, 1}
	}
	return v.Perp().Normalize()
}

func (v Vector) Min(other Vector) Vector {
	return Vector{math.Min(v.X, other.X), math.Min(v.Y, other.Y)}
}

func (v Vector) Max(other Vector) Vector {
	return Vector{math.Max(v.X, other.X), math.Max(v.Y, other.Y)}
}

func (v Vector) Abs() Vector {
	return Vector{math.Abs(v.X), math.Abs(v.Y)}
}

func (v Vector) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

func (v Vector) LengthSq() float64 {
	return v.Dot(v)
}

func (v Vector) Length() float64 {
	return math.Sqrt(v.Dot(v))
}

func (v Vector) Lerp(other Vector, t float64) Vector {
	return v.Mult(1.0 - t).Add(other.Mult(t))
}

// Normalize returns v scaled to unit length. The zero vector stays zero.
func (v Vector) Normalize() Vector {
	l := v.Length()
	if l == 0 {
		return Vector{}
	}
	return v.Mult(1.0 / l)
}

func (v Vector) Distance(other Vector) float64 {
	return v.Sub(other).Length()
}

func (v Vector) DistanceSq(other Vector) float64 {
	return v.Sub(other).LengthSq()
}

func (v Vector) Near(other Vector, d float64) bool {
	return v.DistanceSq(other) < d*d
}

func (p Vector) ClosestPointOnSegment(a, b Vector) Vector {
	delta := a.Sub(b)
	lsq := delta.LengthSq()
	if lsq == 0 {
		return a
	}
	t := Clamp01(delta.Dot(p.Sub(b)) / lsq)
	return b.Add(delta.Mult(t))
}
