//go:build dim3

package vect

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// Rotation is a 3D rotation stored as a unit quaternion.
// The zero value is the identity.
type Rotation struct {
	q mgl64.Quat
}

func (r Rotation) norm() mgl64.Quat {
	if r.q.W == 0 && r.q.V == (mgl64.Vec3{}) {
		return mgl64.QuatIdent()
	}
	return r.q
}

func IdentityRotation() Rotation {
	return Rotation{mgl64.QuatIdent()}
}

// NewRotationAxisAngle rotates by radians around axis.
func NewRotationAxisAngle(axis Vector, radians float64) Rotation {
	if axis.IsZero() {
		return IdentityRotation()
	}
	return Rotation{mgl64.QuatRotate(radians, axis.Normalize().vec3())}
}

// NewRotationScaledAxis rotates around axis by an angle equal to its length.
func NewRotationScaledAxis(axisAngle Vector) Rotation {
	return NewRotationAxisAngle(axisAngle, axisAngle.Length())
}

func NewRotationQuat(w, x, y, z float64) Rotation {
	return Rotation{mgl64.Quat{W: w, V: mgl64.Vec3{x, y, z}}.Normalize()}
}

// RotationFromSlice accepts either a scaled axis (3 values) or a
// quaternion w, x, y, z (4 values).
func RotationFromSlice(s []float64) (Rotation, error) {
	switch len(s) {
	case 0:
		return IdentityRotation(), nil
	case 3:
		return NewRotationScaledAxis(Vector{s[0], s[1], s[2]}), nil
	case 4:
		return NewRotationQuat(s[0], s[1], s[2], s[3]), nil
	}
	return Rotation{}, fmt.Errorf("vect: a 3D rotation is a scaled axis or a quaternion, got %d values", len(s))
}

func (r Rotation) Quat() mgl64.Quat {
	return r.norm()
}

func (r Rotation) Rotate(v Vector) Vector {
	return Vector(r.norm().Rotate(v.vec3()))
}

func (r Rotation) InverseRotate(v Vector) Vector {
	return Vector(r.norm().Conjugate().Rotate(v.vec3()))
}

func (r Rotation) Mult(other Rotation) Rotation {
	return Rotation{r.norm().Mul(other.norm())}
}

func (r Rotation) Inverse() Rotation {
	return Rotation{r.norm().Conjugate()}
}

func (r Rotation) String() string {
	q := r.norm()
	return fmt.Sprintf("%f,%v", q.W, q.V)
}
