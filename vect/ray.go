package vect

// Ray is a half line. Dir is not required to be unit length: time of
// impact values are expressed in multiples of Dir.
type Ray struct {
	Origin, Dir Vector
}

func NewRay(origin, dir Vector) Ray {
	return Ray{origin, dir}
}

func (r Ray) PointAt(t float64) Vector {
	return r.Origin.Add(r.Dir.Mult(t))
}

// Transform maps the ray by iso.
func (r Ray) Transform(iso Isometry) Ray {
	return Ray{iso.Point(r.Origin), iso.Vect(r.Dir)}
}

// InverseTransform maps a world space ray into the local frame of iso.
func (r Ray) InverseTransform(iso Isometry) Ray {
	return Ray{iso.InversePoint(r.Origin), iso.InverseVect(r.Dir)}
}
