package geom

import (
	"math"

	"github.com/spatialq/spatialq/vect"
)

// Ball is a circle in 2D and a sphere in 3D, centered on the local origin.
type Ball struct {
	Radius float64
}

func NewBall(radius float64) *Ball {
	return &Ball{Radius: radius}
}

func (*Ball) Type() ShapeType {
	return ShapeBall
}

func (ball *Ball) Margin() float64 {
	return ball.Radius
}

func (ball *Ball) LocalSupportPoint(vect.Vector) vect.Vector {
	return vect.Zero()
}

func (ball *Ball) ComputeLocalAABB() vect.AABB {
	return vect.NewAABBForCircle(vect.Zero(), ball.Radius)
}

func (ball *Ball) ContainsLocalPoint(p vect.Vector) bool {
	return p.LengthSq() <= ball.Radius*ball.Radius
}

func (ball *Ball) CastLocalRay(ray vect.Ray, maxToi float64, solid bool) (RayIntersection, bool) {
	return ballRay(vect.Zero(), ball.Radius, ray, maxToi, solid)
}

// ballRay casts against a ball of radius r centered at center.
func ballRay(center vect.Vector, r float64, ray vect.Ray, maxToi float64, solid bool) (RayIntersection, bool) {
	da := ray.Origin.Sub(center)
	d := ray.Dir

	a := d.LengthSq()
	b := da.Dot(d)
	c := da.LengthSq() - r*r
	inside := c <= 0

	if inside && solid {
		return RayIntersection{Toi: 0, Feature: Face(0)}, true
	}
	// Outside and pointing away, or not moving at all.
	if a == 0 || (c > 0 && b > 0) {
		return RayIntersection{}, false
	}

	det := b*b - a*c
	if det < 0 {
		return RayIntersection{}, false
	}

	var t float64
	if inside {
		t = (-b + math.Sqrt(det)) / a
	} else {
		t = (-b - math.Sqrt(det)) / a
	}
	if t < 0 || t > maxToi {
		return RayIntersection{}, false
	}

	n := da.Add(d.Mult(t)).Normalize()
	if inside {
		n = n.Neg()
	}
	return RayIntersection{Toi: t, Normal: n, Feature: Face(0)}, true
}

func (ball *Ball) ProjectLocalPoint(p vect.Vector, solid bool) PointProjection {
	d := p.Length()
	r := ball.Radius
	inside := d <= r

	if inside && solid {
		return PointProjection{IsInside: true, Point: p}
	}
	if d == 0 {
		return PointProjection{IsInside: inside, Point: vect.Axis(0).Mult(r)}
	}
	return PointProjection{IsInside: inside, Point: p.Mult(r / d)}
}

func (ball *Ball) ProjectLocalPointAndGetFeature(p vect.Vector) (PointProjection, FeatureID) {
	return ball.ProjectLocalPoint(p, false), Face(0)
}
