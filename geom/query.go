package geom

import "github.com/spatialq/spatialq/vect"

// ComputeAABB is the tight world space box of shape placed at pos.
func ComputeAABB(shape Shape, pos vect.Isometry) vect.AABB {
	margin := shape.Margin()
	var min, max vect.Vector
	for i := 0; i < vect.Dim; i++ {
		axis := vect.Axis(i)
		hi := pos.Point(shape.LocalSupportPoint(pos.InverseVect(axis))).At(i)
		lo := pos.Point(shape.LocalSupportPoint(pos.InverseVect(axis.Neg()))).At(i)
		max = max.With(i, hi+margin)
		min = min.With(i, lo-margin)
	}
	return vect.NewAABB(min, max)
}

// CastRay casts a world space ray against shape placed at pos. The
// returned normal is in world space.
func CastRay(shape Shape, pos vect.Isometry, ray vect.Ray, maxToi float64, solid bool) (RayIntersection, bool) {
	hit, ok := shape.CastLocalRay(ray.InverseTransform(pos), maxToi, solid)
	if !ok {
		return RayIntersection{}, false
	}
	hit.Normal = pos.Vect(hit.Normal)
	return hit, true
}

func ProjectPoint(shape Shape, pos vect.Isometry, p vect.Vector, solid bool) PointProjection {
	proj := shape.ProjectLocalPoint(pos.InversePoint(p), solid)
	proj.Point = pos.Point(proj.Point)
	return proj
}

func ProjectPointAndGetFeature(shape Shape, pos vect.Isometry, p vect.Vector) (PointProjection, FeatureID) {
	proj, feature := shape.ProjectLocalPointAndGetFeature(pos.InversePoint(p))
	proj.Point = pos.Point(proj.Point)
	return proj, feature
}

func ContainsPoint(shape Shape, pos vect.Isometry, p vect.Vector) bool {
	return shape.ContainsLocalPoint(pos.InversePoint(p))
}

// Intersects reports whether the two placed shapes overlap or touch.
func Intersects(pos1 vect.Isometry, shape1 Shape, pos2 vect.Isometry, shape2 Shape, tol Tolerances) bool {
	tol = tol.orDefault()
	return ClosestPoints(pos1, shape1, pos2, shape2, tol).Distance <= tol.Epsilon
}
