package spatialq

import "github.com/spatialq/spatialq/vect"

// CollidersWithAABBIntersectingAABB streams every indexed collider whose
// box intersects aabb until the visitor returns false. No filter applies.
// A visitor error is logged and the enumeration continues.
func (p *QueryPipeline) CollidersWithAABBIntersectingAABB(aabb vect.AABB, visitor ColliderVisitor) {
	visit := func(px *ColliderProxy) bool {
		if !px.BB.Intersects(aabb) {
			return true
		}
		return p.visitCollider(visitor, px.Handle)
	}
	if p.staticIndex.Query(aabb, visit) {
		p.dynamicIndex.Query(aabb, visit)
	}
}
