package spatialq

import (
	"github.com/spatialq/spatialq/geom"
	"github.com/spatialq/spatialq/vect"
)

// ProjectPoint finds the filtered collider closest to point. With solid
// set, a point inside a collider projects onto itself at distance 0;
// otherwise it projects onto the collider's boundary.
func (p *QueryPipeline) ProjectPoint(bodies *BodySet, colliders *ColliderSet, point vect.Vector, solid bool, filter QueryFilter) (PointColliderProjection, bool) {
	return p.projectPoint(bodies, colliders, point, filter, func(shape geom.Shape, pos vect.Isometry) (geom.PointProjection, geom.FeatureID) {
		return geom.ProjectPoint(shape, pos, point, solid), geom.FeatureID{}
	})
}

// ProjectPointAndGetFeature projects point onto the boundary of the
// closest filtered collider and reports the feature it lands on.
func (p *QueryPipeline) ProjectPointAndGetFeature(bodies *BodySet, colliders *ColliderSet, point vect.Vector, filter QueryFilter) (PointColliderProjection, bool) {
	return p.projectPoint(bodies, colliders, point, filter, func(shape geom.Shape, pos vect.Isometry) (geom.PointProjection, geom.FeatureID) {
		return geom.ProjectPointAndGetFeature(shape, pos, point)
	})
}

type projectFunc func(shape geom.Shape, pos vect.Isometry) (geom.PointProjection, geom.FeatureID)

func (p *QueryPipeline) projectPoint(bodies *BodySet, colliders *ColliderSet, point vect.Vector, filter QueryFilter, project projectFunc) (PointColliderProjection, bool) {
	var best PointColliderProjection
	found := false

	visit := func(px *ColliderProxy, maxDist float64) float64 {
		c, ok := p.candidate(bodies, colliders, px, filter)
		if !ok {
			return maxDist
		}
		proj, feature := project(c.shape, px.Position)
		dist := proj.Point.Distance(point)
		if dist > maxDist || (found && dist >= best.Distance) {
			return maxDist
		}
		best = PointColliderProjection{
			Collider: px.Handle,
			Point:    proj.Point,
			IsInside: proj.IsInside,
			Distance: dist,
			Feature:  feature,
		}
		found = true
		return dist
	}

	maxDist := p.staticIndex.PointQuery(point, vect.Infinity, visit)
	p.dynamicIndex.PointQuery(point, maxDist, visit)
	return best, found
}

// IntersectionsWithPoint streams every filtered collider containing point
// until the visitor returns false. A visitor error is logged and the
// enumeration continues.
func (p *QueryPipeline) IntersectionsWithPoint(bodies *BodySet, colliders *ColliderSet, point vect.Vector, filter QueryFilter, visitor ColliderVisitor) {
	visit := func(px *ColliderProxy) bool {
		c, ok := p.candidate(bodies, colliders, px, filter)
		if !ok {
			return true
		}
		if !geom.ContainsPoint(c.shape, px.Position, point) {
			return true
		}
		return p.visitCollider(visitor, px.Handle)
	}

	bb := vect.NewAABB(point, point)
	if p.staticIndex.Query(bb, visit) {
		p.dynamicIndex.Query(bb, visit)
	}
}
