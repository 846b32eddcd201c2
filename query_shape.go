package spatialq

import (
	"github.com/spatialq/spatialq/geom"
	"github.com/spatialq/spatialq/vect"
)

// CastShape sweeps shape from shapePos along shapeVel and reports the
// filtered collider it touches first within maxToi. A shape already
// touching a collider reports it at toi 0 with status TOIPenetrating.
func (p *QueryPipeline) CastShape(bodies *BodySet, colliders *ColliderSet, shapePos vect.Isometry, shapeVel vect.Vector, shape geom.Shape, maxToi float64, filter QueryFilter) (ShapeColliderTOI, bool) {
	var best ShapeColliderTOI
	found := false
	tol := p.config.Tolerances

	visit := func(px *ColliderProxy, tExit float64) float64 {
		c, ok := p.candidate(bodies, colliders, px, filter)
		if !ok {
			return tExit
		}
		toi, ok := geom.CastShapes(shapePos, shapeVel, shape, px.Position, vect.Zero(), c.shape, tExit, tol)
		if !ok || (found && toi.Toi >= best.Toi) {
			return tExit
		}
		best = ShapeColliderTOI{
			Collider: px.Handle,
			Toi:      toi.Toi,
			Witness1: toi.Witness1,
			Witness2: toi.Witness2,
			Normal1:  toi.Normal1,
			Normal2:  toi.Normal2,
			Status:   toi.Status,
		}
		found = true
		return toi.Toi
	}

	bb := geom.ComputeAABB(shape, shapePos)
	tExit := p.staticIndex.SweepQuery(bb, shapeVel, maxToi, visit)
	p.dynamicIndex.SweepQuery(bb, shapeVel, tExit, visit)
	return best, found
}

// IntersectionWithShape returns any filtered collider overlapping shape
// placed at shapePos.
func (p *QueryPipeline) IntersectionWithShape(bodies *BodySet, colliders *ColliderSet, shapePos vect.Isometry, shape geom.Shape, filter QueryFilter) (ColliderHandle, bool) {
	var result ColliderHandle
	found := false
	p.intersectionsWithShape(bodies, colliders, shapePos, shape, filter, func(h ColliderHandle) bool {
		result, found = h, true
		return false
	})
	return result, found
}

// IntersectionsWithShape streams every filtered collider overlapping shape
// placed at shapePos until the visitor returns false. A visitor error is
// logged and the enumeration continues.
func (p *QueryPipeline) IntersectionsWithShape(bodies *BodySet, colliders *ColliderSet, shapePos vect.Isometry, shape geom.Shape, filter QueryFilter, visitor ColliderVisitor) {
	p.intersectionsWithShape(bodies, colliders, shapePos, shape, filter, func(h ColliderHandle) bool {
		return p.visitCollider(visitor, h)
	})
}

func (p *QueryPipeline) intersectionsWithShape(bodies *BodySet, colliders *ColliderSet, shapePos vect.Isometry, shape geom.Shape, filter QueryFilter, f func(ColliderHandle) bool) {
	tol := p.config.Tolerances
	visit := func(px *ColliderProxy) bool {
		c, ok := p.candidate(bodies, colliders, px, filter)
		if !ok {
			return true
		}
		if !geom.Intersects(shapePos, shape, px.Position, c.shape, tol) {
			return true
		}
		return f(px.Handle)
	}

	bb := geom.ComputeAABB(shape, shapePos)
	if p.staticIndex.Query(bb, visit) {
		p.dynamicIndex.Query(bb, visit)
	}
}
