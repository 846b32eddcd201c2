package geom

import (
	"math"

	"github.com/spatialq/spatialq/vect"
)

// Cuboid is a rectangle in 2D and a box in 3D, centered on the local origin.
//
// Faces are numbered axis for the positive side and axis+Dim for the
// negative side. Vertex ids set bit i when the vertex is on the positive
// side of axis i.
type Cuboid struct {
	HalfExtents vect.Vector
}

func NewCuboid(halfExtents vect.Vector) *Cuboid {
	return &Cuboid{HalfExtents: halfExtents.Abs()}
}

func (*Cuboid) Type() ShapeType {
	return ShapeCuboid
}

func (*Cuboid) Margin() float64 {
	return 0
}

func (box *Cuboid) LocalSupportPoint(dir vect.Vector) vect.Vector {
	h := box.HalfExtents
	for i := 0; i < vect.Dim; i++ {
		if dir.At(i) < 0 {
			h = h.With(i, -h.At(i))
		}
	}
	return h
}

func (box *Cuboid) ComputeLocalAABB() vect.AABB {
	return vect.NewAABBForExtents(vect.Zero(), box.HalfExtents)
}

func (box *Cuboid) ContainsLocalPoint(p vect.Vector) bool {
	for i := 0; i < vect.Dim; i++ {
		if math.Abs(p.At(i)) > box.HalfExtents.At(i) {
			return false
		}
	}
	return true
}

func cuboidFace(axis int, sign float64) FeatureID {
	if sign >= 0 {
		return Face(uint32(axis))
	}
	return Face(uint32(axis + vect.Dim))
}

func (box *Cuboid) CastLocalRay(ray vect.Ray, maxToi float64, solid bool) (RayIntersection, bool) {
	tmin := -vect.Infinity
	tmax := vect.Infinity
	enterAxis, exitAxis := -1, -1
	var enterSign, exitSign float64

	for i := 0; i < vect.Dim; i++ {
		o := ray.Origin.At(i)
		d := ray.Dir.At(i)
		h := box.HalfExtents.At(i)
		if d == 0 {
			if o < -h || h < o {
				return RayIntersection{}, false
			}
			continue
		}

		t1 := (-h - o) / d
		t2 := (h - o) / d
		s1, s2 := -1.0, 1.0
		if t1 > t2 {
			t1, t2 = t2, t1
			s1, s2 = s2, s1
		}
		if t1 > tmin {
			tmin, enterAxis, enterSign = t1, i, s1
		}
		if t2 < tmax {
			tmax, exitAxis, exitSign = t2, i, s2
		}
	}
	if tmin > tmax {
		return RayIntersection{}, false
	}

	if box.ContainsLocalPoint(ray.Origin) {
		if solid {
			return RayIntersection{Toi: 0}, true
		}
		if exitAxis < 0 || tmax > maxToi {
			return RayIntersection{}, false
		}
		n := vect.Axis(exitAxis).Mult(-exitSign)
		return RayIntersection{Toi: tmax, Normal: n, Feature: cuboidFace(exitAxis, exitSign)}, true
	}

	if enterAxis < 0 || tmax < 0 || tmin < 0 || tmin > maxToi {
		return RayIntersection{}, false
	}
	n := vect.Axis(enterAxis).Mult(enterSign)
	return RayIntersection{Toi: tmin, Normal: n, Feature: cuboidFace(enterAxis, enterSign)}, true
}

// nearestFace returns the axis and side of the face closest to an
// interior point.
func (box *Cuboid) nearestFace(p vect.Vector) (int, float64) {
	best := 0
	bestDist := vect.Infinity
	for i := 0; i < vect.Dim; i++ {
		d := box.HalfExtents.At(i) - math.Abs(p.At(i))
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	if p.At(best) < 0 {
		return best, -1
	}
	return best, 1
}

func (box *Cuboid) ProjectLocalPoint(p vect.Vector, solid bool) PointProjection {
	proj, _ := box.project(p, solid)
	return proj
}

func (box *Cuboid) ProjectLocalPointAndGetFeature(p vect.Vector) (PointProjection, FeatureID) {
	return box.project(p, false)
}

func (box *Cuboid) project(p vect.Vector, solid bool) (PointProjection, FeatureID) {
	h := box.HalfExtents
	clamped := p.Max(h.Neg()).Min(h)

	if !clamped.Equal(p) {
		var count int
		var free int
		var bits uint32
		var faceAxis int
		var faceSign float64
		for i := 0; i < vect.Dim; i++ {
			switch {
			case p.At(i) > h.At(i):
				count++
				bits |= 1 << i
				faceAxis, faceSign = i, 1
			case p.At(i) < -h.At(i):
				count++
				faceAxis, faceSign = i, -1
			default:
				free = i
				if p.At(i) >= 0 {
					bits |= 1 << i
				}
			}
		}

		var feature FeatureID
		switch {
		case count == vect.Dim:
			feature = Vertex(bits)
		case count == 1:
			feature = cuboidFace(faceAxis, faceSign)
		default:
			feature = Edge(uint32(free)<<vect.Dim | bits&^(1<<free))
		}
		return PointProjection{IsInside: false, Point: clamped}, feature
	}

	axis, sign := box.nearestFace(p)
	if solid {
		return PointProjection{IsInside: true, Point: p}, cuboidFace(axis, sign)
	}
	return PointProjection{IsInside: true, Point: p.With(axis, sign*h.At(axis))}, cuboidFace(axis, sign)
}
