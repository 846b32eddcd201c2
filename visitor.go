package spatialq

// Predicate is a caller supplied filter stage, evaluated after every
// other filter test. A returned error rejects the candidate.
type Predicate interface {
	Test(handle ColliderHandle, collider *Collider) (bool, error)
}

type PredicateFunc func(handle ColliderHandle, collider *Collider) (bool, error)

func (f PredicateFunc) Test(handle ColliderHandle, collider *Collider) (bool, error) {
	return f(handle, collider)
}

// RayIntersectionVisitor receives the hits of IntersectionsWithRay.
// Returning false stops the enumeration; a returned error continues it.
type RayIntersectionVisitor interface {
	VisitRayIntersection(hit RayColliderIntersection) (bool, error)
}

type RayIntersectionFunc func(hit RayColliderIntersection) (bool, error)

func (f RayIntersectionFunc) VisitRayIntersection(hit RayColliderIntersection) (bool, error) {
	return f(hit)
}

// ColliderVisitor receives the colliders of the overlap enumerations.
// Returning false stops the enumeration; a returned error continues it.
type ColliderVisitor interface {
	VisitCollider(handle ColliderHandle) (bool, error)
}

type ColliderFunc func(handle ColliderHandle) (bool, error)

func (f ColliderFunc) VisitCollider(handle ColliderHandle) (bool, error) {
	return f(handle)
}
