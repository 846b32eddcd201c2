//go:build dim3

package vect

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Dim is the number of spatial dimensions of this build.
const Dim = 3

// Vector is a 3D vector stored as an mgl64.Vec3.
type Vector mgl64.Vec3

// XY returns the vector (x, y, 0).
func XY(x, y float64) Vector {
	return Vector{x, y, 0}
}

func XYZ(x, y, z float64) Vector {
	return Vector{x, y, z}
}

func Zero() Vector {
	return Vector{}
}

// Splat returns a vector with every component set to s.
func Splat(s float64) Vector {
	return Vector{s, s, s}
}

// Axis returns the unit vector along axis i.
func Axis(i int) Vector {
	var v Vector
	v[i] = 1
	return v
}

// FromSlice builds a vector from exactly Dim components.
func FromSlice(s []float64) (Vector, error) {
	if len(s) != Dim {
		return Vector{}, fmt.Errorf("vect: expected %d components, got %d", Dim, len(s))
	}
	return Vector{s[0], s[1], s[2]}, nil
}

func (v Vector) vec3() mgl64.Vec3 {
	return mgl64.Vec3(v)
}

func (v Vector) Slice() []float64 {
	return []float64{v[0], v[1], v[2]}
}

func (v Vector) String() string {
	return fmt.Sprintf("%f,%f,%f", v[0], v[1], v[2])
}

func (v Vector) X() float64 { return v[0] }
func (v Vector) Y() float64 { return v[1] }
func (v Vector) Z() float64 { return v[2] }

// Swizzles. XYZ is the identity and exists for completeness.
func (v Vector) XYZ() Vector { return v }
func (v Vector) YXZ() Vector { return Vector{v[1], v[0], v[2]} }
func (v Vector) ZXY() Vector { return Vector{v[2], v[0], v[1]} }
func (v Vector) XZY() Vector { return Vector{v[0], v[2], v[1]} }
func (v Vector) YZX() Vector { return Vector{v[1], v[2], v[0]} }
func (v Vector) ZYX() Vector { return Vector{v[2], v[1], v[0]} }

// At returns component i.
func (v Vector) At(i int) float64 {
	return v[i]
}

// With returns a copy of v with component i replaced.
func (v Vector) With(i int, f float64) Vector {
	v[i] = f
	return v
}

func (v Vector) Equal(other Vector) bool {
	return v == other
}

func (v Vector) Add(other Vector) Vector {
	return Vector(v.vec3().Add(other.vec3()))
}

func (v Vector) Sub(other Vector) Vector {
	return Vector(v.vec3().Sub(other.vec3()))
}

func (v Vector) Neg() Vector {
	return Vector(v.vec3().Mul(-1))
}

func (v Vector) Mult(s float64) Vector {
	return Vector(v.vec3().Mul(s))
}

// MultComponents is the component-wise product.
func (v Vector) MultComponents(other Vector) Vector {
	return Vector{v[0] * other[0], v[1] * other[1], v[2] * other[2]}
}

func (v Vector) Dot(other Vector) float64 {
	return v.vec3().Dot(other.vec3())
}

func (v Vector) Cross(other Vector) Vector {
	return Vector(v.vec3().Cross(other.vec3()))
}

// AnyOrthogonal returns some unit vector orthogonal to v.
func (v Vector) AnyOrthogonal() Vector {
	if v.IsZero() {
		return Vector{0, 1, 0}
	}
	a := v.Abs()
	min := 0
	for i := 1; i < Dim; i++ {
		if a[i] < a[min] {
			min = i
		}
	}
	axis := Axis(min)
	return v.Cross(axis).Normalize()
}

func (v Vector) Min(other Vector) Vector {
	return Vector{math.Min(v[0], other[0]), math.Min(v[1], other[1]), math.Min(v[2], other[2])}
}

func (v Vector) Max(other Vector) Vector {
	return Vector{math.Max(v[0], other[0]), math.Max(v[1], other[1]), math.Max(v[2], other[2])}
}

func (v Vector) Abs() Vector {
	return Vector{math.Abs(v[0]), math.Abs(v[1]), math.Abs(v[2])}
}

func (v Vector) IsZero() bool {
	return v == Vector{}
}

func (v Vector) LengthSq() float64 {
	return v.vec3().LenSqr()
}

func (v Vector) Length() float64 {
	return v.vec3().Len()
}

func (v Vector) Lerp(other Vector, t float64) Vector {
	return v.Mult(1.0 - t).Add(other.Mult(t))
}

// Normalize returns v scaled to unit length. The zero vector stays zero.
func (v Vector) Normalize() Vector {
	if v.IsZero() {
		return Vector{}
	}
	return Vector(v.vec3().Normalize())
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
