package vect

import "fmt"

// Isometry is a rigid transform: a rotation followed by a translation.
type Isometry struct {
	Translation Vector
	Rotation    Rotation
}

func IdentityIsometry() Isometry {
	return Isometry{Rotation: IdentityRotation()}
}

func NewIsometry(translation Vector, rotation Rotation) Isometry {
	return Isometry{translation, rotation}
}

func Translation(t Vector) Isometry {
	return Isometry{Translation: t, Rotation: IdentityRotation()}
}

func (iso Isometry) Point(p Vector) Vector {
	return iso.Rotation.Rotate(p).Add(iso.Translation)
}

func (iso Isometry) Vect(v Vector) Vector {
	return iso.Rotation.Rotate(v)
}

func (iso Isometry) InversePoint(p Vector) Vector {
	return iso.Rotation.InverseRotate(p.Sub(iso.Translation))
}

func (iso Isometry) InverseVect(v Vector) Vector {
	return iso.Rotation.InverseRotate(v)
}

// Mult composes two isometries: the result applies other first.
func (iso Isometry) Mult(other Isometry) Isometry {
	return Isometry{
		Translation: iso.Point(other.Translation),
		Rotation:    iso.Rotation.Mult(other.Rotation),
	}
}

func (iso Isometry) Inverse() Isometry {
	inv := iso.Rotation.Inverse()
	return Isometry{
		Translation: inv.Rotate(iso.Translation.Neg()),
		Rotation:    inv,
	}
}

// Translated returns iso moved by delta in world space.
func (iso Isometry) Translated(delta Vector) Isometry {
	iso.Translation = iso.Translation.Add(delta)
	return iso
}

func (iso Isometry) String() string {
	return fmt.Sprintf("{%v %v}", iso.Translation, iso.Rotation)
}
