//go:build !dim3

package vect

import (
	"fmt"
	"math"
)

// Rotation is a 2D rotation stored as a unit complex number.
// The zero value is the identity.
type Rotation struct {
	Cos, Sin float64
}

func (r Rotation) norm() Rotation {
	if r.Cos == 0 && r.Sin == 0 {
		return Rotation{1, 0}
	}
	return r
}

func IdentityRotation() Rotation {
	return Rotation{1, 0}
}

// NewRotation returns the rotation by the given angle in radians.
func NewRotation(radians float64) Rotation {
	return Rotation{math.Cos(radians), math.Sin(radians)}
}

// RotationFromSlice accepts a single angle in radians.
func RotationFromSlice(s []float64) (Rotation, error) {
	switch len(s) {
	case 0:
		return IdentityRotation(), nil
	case 1:
		return NewRotation(s[0]), nil
	}
	return Rotation{}, fmt.Errorf("vect: a 2D rotation is one angle, got %d values", len(s))
}

func (r Rotation) Angle() float64 {
	r = r.norm()
	return math.Atan2(r.Sin, r.Cos)
}

func (r Rotation) Rotate(v Vector) Vector {
	r = r.norm()
	return Vector{v.X*r.Cos - v.Y*r.Sin, v.X*r.Sin + v.Y*r.Cos}
}

func (r Rotation) InverseRotate(v Vector) Vector {
	r = r.norm()
	return Vector{v.X*r.Cos + v.Y*r.Sin, v.Y*r.Cos - v.X*r.Sin}
}

func (r Rotation) Mult(other Rotation) Rotation {
	r, other = r.norm(), other.norm()
	return Rotation{r.Cos*other.Cos - r.Sin*other.Sin, r.Cos*other.Sin + r.Sin*other.Cos}
}

func (r Rotation) Inverse() Rotation {
	r = r.norm()
	return Rotation{r.Cos, -r.Sin}
}

func (r Rotation) String() string {
	return fmt.Sprintf("%frad", r.Angle())
}
