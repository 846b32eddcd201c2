package spatialq

import (
	"github.com/spatialq/spatialq/geom"
	"github.com/spatialq/spatialq/vect"
)

// CastRay finds the filtered collider first hit by the ray within maxToi.
// With solid set, a ray starting inside a collider hits it at toi 0;
// otherwise it hits where it leaves the collider.
func (p *QueryPipeline) CastRay(bodies *BodySet, colliders *ColliderSet, ray vect.Ray, maxToi float64, solid bool, filter QueryFilter) (RayColliderToi, bool) {
	hit, ok := p.castRay(bodies, colliders, ray, maxToi, solid, filter)
	if !ok {
		return RayColliderToi{}, false
	}
	return RayColliderToi{Collider: hit.Collider, Toi: hit.Toi}, true
}

// CastRayAndGetNormal is CastRay reporting the world space normal, point
// and feature of the hit.
func (p *QueryPipeline) CastRayAndGetNormal(bodies *BodySet, colliders *ColliderSet, ray vect.Ray, maxToi float64, solid bool, filter QueryFilter) (RayColliderIntersection, bool) {
	return p.castRay(bodies, colliders, ray, maxToi, solid, filter)
}

func (p *QueryPipeline) castRay(bodies *BodySet, colliders *ColliderSet, ray vect.Ray, maxToi float64, solid bool, filter QueryFilter) (RayColliderIntersection, bool) {
	var best RayColliderIntersection
	found := false

	visit := func(px *ColliderProxy, tExit float64) float64 {
		c, ok := p.candidate(bodies, colliders, px, filter)
		if !ok {
			return tExit
		}
		hit, ok := geom.CastRay(c.shape, px.Position, ray, tExit, solid)
		if !ok || (found && hit.Toi >= best.Toi) {
			return tExit
		}
		best = RayColliderIntersection{
			Collider: px.Handle,
			Toi:      hit.Toi,
			Normal:   hit.Normal,
			Point:    ray.PointAt(hit.Toi),
			Feature:  hit.Feature,
		}
		found = true
		return hit.Toi
	}

	tExit := p.staticIndex.SegmentQuery(ray, maxToi, visit)
	p.dynamicIndex.SegmentQuery(ray, tExit, visit)
	return best, found
}

// IntersectionsWithRay streams every filtered collider hit by the ray
// within maxToi, in no particular order, until the visitor returns false.
// A visitor error is logged and the enumeration continues.
func (p *QueryPipeline) IntersectionsWithRay(bodies *BodySet, colliders *ColliderSet, ray vect.Ray, maxToi float64, solid bool, filter QueryFilter, visitor RayIntersectionVisitor) {
	stopped := false
	visit := func(px *ColliderProxy, tExit float64) float64 {
		c, ok := p.candidate(bodies, colliders, px, filter)
		if !ok {
			return maxToi
		}
		hit, ok := geom.CastRay(c.shape, px.Position, ray, maxToi, solid)
		if !ok {
			return maxToi
		}

		res := RayColliderIntersection{
			Collider: px.Handle,
			Toi:      hit.Toi,
			Normal:   hit.Normal,
			Point:    ray.PointAt(hit.Toi),
			Feature:  hit.Feature,
		}
		cont, err := visitor.VisitRayIntersection(res)
		if err != nil {
			p.logger.Printf("visitor failed on %v, continuing: %v", px.Handle, err)
			return maxToi
		}
		if !cont {
			stopped = true
			return -1
		}
		return maxToi
	}

	p.staticIndex.SegmentQuery(ray, maxToi, visit)
	if !stopped {
		p.dynamicIndex.SegmentQuery(ray, maxToi, visit)
	}
}
