package vect

import (
	"fmt"
	"math"
)

// AABB is an axis aligned bounding box.
type AABB struct {
	Min, Max Vector
}

func NewAABB(min, max Vector) AABB {
	return AABB{min, max}
}

func NewAABBForExtents(c, halfExtents Vector) AABB {
	return AABB{c.Sub(halfExtents), c.Add(halfExtents)}
}

func NewAABBForCircle(p Vector, r float64) AABB {
	return NewAABBForExtents(p, Splat(r))
}

// InvalidAABB is the empty box; merging anything into it yields that thing.
func InvalidAABB() AABB {
	return AABB{Splat(Infinity), Splat(-Infinity)}
}

func (a AABB) String() string {
	return fmt.Sprintf("[%v .. %v]", a.Min, a.Max)
}

func (a AABB) Intersects(b AABB) bool {
	for i := 0; i < Dim; i++ {
		if a.Min.At(i) > b.Max.At(i) || b.Min.At(i) > a.Max.At(i) {
			return false
		}
	}
	return true
}

func (bb AABB) Contains(other AABB) bool {
	for i := 0; i < Dim; i++ {
		if bb.Min.At(i) > other.Min.At(i) || bb.Max.At(i) < other.Max.At(i) {
			return false
		}
	}
	return true
}

func (bb AABB) ContainsVect(v Vector) bool {
	for i := 0; i < Dim; i++ {
		if bb.Min.At(i) > v.At(i) || bb.Max.At(i) < v.At(i) {
			return false
		}
	}
	return true
}

func (a AABB) Merge(b AABB) AABB {
	return AABB{a.Min.Min(b.Min), a.Max.Max(b.Max)}
}

func (bb AABB) Expand(v Vector) AABB {
	return AABB{bb.Min.Min(v), bb.Max.Max(v)}
}

// Loosened grows the box by margin on every side.
func (bb AABB) Loosened(margin float64) AABB {
	m := Splat(margin)
	return AABB{bb.Min.Sub(m), bb.Max.Add(m)}
}

// Grown adds half extents on every side; the Minkowski sum with a box.
func (bb AABB) Grown(halfExtents Vector) AABB {
	return AABB{bb.Min.Sub(halfExtents), bb.Max.Add(halfExtents)}
}

// Swept merges the box with itself translated by delta.
func (bb AABB) Swept(delta Vector) AABB {
	return bb.Merge(bb.Offset(delta))
}

func (bb AABB) Center() Vector {
	return bb.Min.Lerp(bb.Max, 0.5)
}

func (bb AABB) HalfExtents() Vector {
	return bb.Max.Sub(bb.Min).Mult(0.5)
}

// Area is the measure of the box: area in 2D, volume in 3D.
func (bb AABB) Area() float64 {
	area := 1.0
	for i := 0; i < Dim; i++ {
		area *= bb.Max.At(i) - bb.Min.At(i)
	}
	return area
}

func (a AABB) MergedArea(b AABB) float64 {
	return a.Merge(b).Area()
}

func (a AABB) Proximity(b AABB) float64 {
	var p float64
	for i := 0; i < Dim; i++ {
		p += math.Abs(a.Min.At(i) + a.Max.At(i) - b.Min.At(i) - b.Max.At(i))
	}
	return p
}

func (bb AABB) Offset(v Vector) AABB {
	return AABB{bb.Min.Add(v), bb.Max.Add(v)}
}

func (bb AABB) ClampVect(v Vector) Vector {
	return v.Max(bb.Min).Min(bb.Max)
}

// DistanceToPoint is zero for points inside the box.
func (bb AABB) DistanceToPoint(p Vector) float64 {
	return bb.ClampVect(p).Distance(p)
}

// SegmentQuery returns the smallest t in [0, tMax] at which the ray is
// inside the box, or Infinity if it never is.
func (bb AABB) SegmentQuery(ray Ray, tMax float64) float64 {
	tmin := -Infinity
	tmax := Infinity

	for i := 0; i < Dim; i++ {
		o := ray.Origin.At(i)
		d := ray.Dir.At(i)
		lo := bb.Min.At(i)
		hi := bb.Max.At(i)
		if d == 0 {
			if o < lo || hi < o {
				return Infinity
			}
			continue
		}
		t1 := (lo - o) / d
		t2 := (hi - o) / d
		tmin = math.Max(tmin, math.Min(t1, t2))
		tmax = math.Min(tmax, math.Max(t1, t2))
	}

	if tmin <= tmax && 0 <= tmax && tmin <= tMax {
		return math.Max(tmin, 0.0)
	}
	return Infinity
}

func (bb AABB) IntersectsRay(ray Ray, tMax float64) bool {
	return bb.SegmentQuery(ray, tMax) != Infinity
}
