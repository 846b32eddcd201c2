package geom

import (
	"math"

	"github.com/spatialq/spatialq/vect"
)

// Capsule is the segment AB inflated by Radius.
//
// The rounded caps are vertex 0 (around A) and vertex 1 (around B); the
// side is face 0.
type Capsule struct {
	A, B   vect.Vector
	Radius float64
}

func NewCapsule(a, b vect.Vector, radius float64) *Capsule {
	return &Capsule{A: a, B: b, Radius: radius}
}

// NewCapsuleY is a capsule along the local y axis.
func NewCapsuleY(halfHeight, radius float64) *Capsule {
	a := vect.Axis(1).Mult(-halfHeight)
	return NewCapsule(a, a.Neg(), radius)
}

func (*Capsule) Type() ShapeType {
	return ShapeCapsule
}

func (c *Capsule) Margin() float64 {
	return c.Radius
}

func (c *Capsule) LocalSupportPoint(dir vect.Vector) vect.Vector {
	if c.A.Dot(dir) >= c.B.Dot(dir) {
		return c.A
	}
	return c.B
}

func (c *Capsule) ComputeLocalAABB() vect.AABB {
	return vect.NewAABB(c.A.Min(c.B), c.A.Max(c.B)).Loosened(c.Radius)
}

// segmentParam is the clamped parameter of the point of AB closest to p.
func (c *Capsule) segmentParam(p vect.Vector) float64 {
	ab := c.B.Sub(c.A)
	lsq := ab.LengthSq()
	if lsq == 0 {
		return 0
	}
	return vect.Clamp01(p.Sub(c.A).Dot(ab) / lsq)
}

func (c *Capsule) ContainsLocalPoint(p vect.Vector) bool {
	closest := c.A.Lerp(c.B, c.segmentParam(p))
	return p.DistanceSq(closest) <= c.Radius*c.Radius
}

func (c *Capsule) CastLocalRay(ray vect.Ray, maxToi float64, solid bool) (RayIntersection, bool) {
	if c.ContainsLocalPoint(ray.Origin) {
		if solid {
			return RayIntersection{Toi: 0}, true
		}
		return castHollowExit(c, ray, maxToi)
	}

	best := RayIntersection{Toi: vect.Infinity}
	found := false

	ab := c.B.Sub(c.A)
	if l := ab.Length(); l > 0 {
		u := ab.Mult(1 / l)
		oa := ray.Origin.Sub(c.A)
		op := oa.Sub(u.Mult(oa.Dot(u)))
		dp := ray.Dir.Sub(u.Mult(ray.Dir.Dot(u)))

		qa := dp.LengthSq()
		qb := op.Dot(dp)
		qc := op.LengthSq() - c.Radius*c.Radius
		if qa > 0 {
			if det := qb*qb - qa*qc; det >= 0 {
				t := (-qb - math.Sqrt(det)) / qa
				s := oa.Add(ray.Dir.Mult(t)).Dot(u)
				if t >= 0 && 0 <= s && s <= l && t <= maxToi {
					best = RayIntersection{Toi: t, Normal: op.Add(dp.Mult(t)).Normalize(), Feature: Face(0)}
					found = true
				}
			}
		}
	}

	for i, center := range [2]vect.Vector{c.A, c.B} {
		hit, ok := ballRay(center, c.Radius, ray, maxToi, true)
		if ok && hit.Toi < best.Toi {
			hit.Feature = Vertex(uint32(i))
			best = hit
			found = true
		}
	}
	return best, found
}

func (c *Capsule) ProjectLocalPoint(p vect.Vector, solid bool) PointProjection {
	proj, _ := c.project(p, solid)
	return proj
}

func (c *Capsule) ProjectLocalPointAndGetFeature(p vect.Vector) (PointProjection, FeatureID) {
	return c.project(p, false)
}

func (c *Capsule) project(p vect.Vector, solid bool) (PointProjection, FeatureID) {
	t := c.segmentParam(p)
	closest := c.A.Lerp(c.B, t)

	feature := Face(0)
	if c.A.Equal(c.B) || t <= 0 {
		feature = Vertex(0)
	} else if t >= 1 {
		feature = Vertex(1)
	}

	delta := p.Sub(closest)
	d := delta.Length()
	inside := d <= c.Radius

	if inside && solid {
		return PointProjection{IsInside: true, Point: p}, feature
	}

	var dir vect.Vector
	if d == 0 {
		dir = c.B.Sub(c.A).AnyOrthogonal()
	} else {
		dir = delta.Mult(1 / d)
	}
	return PointProjection{IsInside: inside, Point: closest.Add(dir.Mult(c.Radius))}, feature
}

// castHollowExit finds where a ray starting inside a convex shape leaves
// it, by casting back from a point beyond the shape.
func castHollowExit(shape Shape, ray vect.Ray, maxToi float64) (RayIntersection, bool) {
	dl := ray.Dir.Length()
	if dl == 0 {
		return RayIntersection{}, false
	}
	bb := shape.ComputeLocalAABB()
	far := (bb.Max.Sub(bb.Min).Length() + ray.Origin.Distance(bb.Center())) / dl
	far += 1

	back := vect.NewRay(ray.PointAt(far), ray.Dir.Neg())
	hit, ok := shape.CastLocalRay(back, far, true)
	if !ok {
		return RayIntersection{}, false
	}
	toi := far - hit.Toi
	if toi > maxToi {
		return RayIntersection{}, false
	}
	return RayIntersection{Toi: math.Max(toi, 0), Normal: hit.Normal.Neg(), Feature: hit.Feature}, true
}
