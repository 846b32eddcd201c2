package spatialq

import "log"

type QueryFilterFlags uint32

const (
	// Colliders attached to no body count as fixed.
	ExcludeFixed QueryFilterFlags = 1 << iota
	ExcludeKinematic
	ExcludeDynamic
	ExcludeSensors
	ExcludeSolids

	OnlyDynamic   = ExcludeFixed | ExcludeKinematic
	OnlyKinematic = ExcludeFixed | ExcludeDynamic
	OnlyFixed     = ExcludeDynamic | ExcludeKinematic

	allFilterFlags = ExcludeFixed | ExcludeKinematic | ExcludeDynamic | ExcludeSensors | ExcludeSolids
)

// Test reports whether the flags let the collider through.
func (flags QueryFilterFlags) Test(bodies *BodySet, c *Collider) bool {
	if flags == 0 {
		return true
	}
	if flags&ExcludeSensors != 0 && c.sensor {
		return false
	}
	if flags&ExcludeSolids != 0 && !c.sensor {
		return false
	}

	bodyType := BodyFixed
	if body := c.parentBody(bodies); body != nil {
		bodyType = body.bodyType
	}
	switch {
	case flags&ExcludeFixed != 0 && bodyType.IsFixed():
		return false
	case flags&ExcludeKinematic != 0 && bodyType.IsKinematic():
		return false
	case flags&ExcludeDynamic != 0 && bodyType.IsDynamic():
		return false
	}
	return true
}

// QueryFilter restricts the colliders a query may report. The zero value
// lets everything through. Filters are values: the With methods return a
// modified copy.
type QueryFilter struct {
	flags            QueryFilterFlags
	groups           *InteractionGroups
	excludeCollider  *ColliderHandle
	excludeRigidBody *RigidBodyHandle
	predicate        Predicate
}

func NewQueryFilter() QueryFilter {
	return QueryFilter{}
}

// NewQueryFilterFromRaw builds a filter from its boundary encoding. Unknown
// flag bits are ignored and groups use the packed form of
// InteractionGroups.Pack.
func NewQueryFilterFromRaw(flags uint32, groups *uint32, excludeCollider, excludeRigidBody *FlatHandle, predicate Predicate) QueryFilter {
	filter := QueryFilter{}.WithFlags(QueryFilterFlags(flags))
	if groups != nil {
		filter = filter.WithGroups(UnpackInteractionGroups(*groups))
	}
	if excludeCollider != nil {
		filter = filter.WithExcludeCollider(ColliderHandleFromFlat(*excludeCollider))
	}
	if excludeRigidBody != nil {
		filter = filter.WithExcludeRigidBody(RigidBodyHandleFromFlat(*excludeRigidBody))
	}
	if predicate != nil {
		filter = filter.WithPredicate(predicate)
	}
	return filter
}

func (f QueryFilter) Flags() QueryFilterFlags {
	return f.flags
}

func (f QueryFilter) Groups() (InteractionGroups, bool) {
	if f.groups == nil {
		return InteractionGroups{}, false
	}
	return *f.groups, true
}

func (f QueryFilter) ExcludedCollider() (ColliderHandle, bool) {
	if f.excludeCollider == nil {
		return ColliderHandle{}, false
	}
	return *f.excludeCollider, true
}

func (f QueryFilter) ExcludedRigidBody() (RigidBodyHandle, bool) {
	if f.excludeRigidBody == nil {
		return RigidBodyHandle{}, false
	}
	return *f.excludeRigidBody, true
}

func (f QueryFilter) Predicate() Predicate {
	return f.predicate
}

func (f QueryFilter) WithFlags(flags QueryFilterFlags) QueryFilter {
	f.flags = flags & allFilterFlags
	return f
}

func (f QueryFilter) WithGroups(groups InteractionGroups) QueryFilter {
	f.groups = &groups
	return f
}

func (f QueryFilter) WithExcludeCollider(h ColliderHandle) QueryFilter {
	f.excludeCollider = &h
	return f
}

func (f QueryFilter) WithExcludeRigidBody(h RigidBodyHandle) QueryFilter {
	f.excludeRigidBody = &h
	return f
}

func (f QueryFilter) WithPredicate(p Predicate) QueryFilter {
	f.predicate = p
	return f
}

// Test runs every stage of the filter on a candidate: flags, groups,
// exclusions, then the predicate. A predicate error rejects the
// candidate.
func (f QueryFilter) Test(bodies *BodySet, handle ColliderHandle, c *Collider) bool {
	return f.test(bodies, handle, c, nil)
}

func (f QueryFilter) test(bodies *BodySet, handle ColliderHandle, c *Collider, logger *log.Logger) bool {
	if !f.flags.Test(bodies, c) {
		return false
	}
	if f.groups != nil && !f.groups.Test(c.groups) {
		return false
	}
	if f.excludeCollider != nil && *f.excludeCollider == handle {
		return false
	}
	if f.excludeRigidBody != nil {
		if c.hasParent && c.parent == *f.excludeRigidBody && c.parentBody(bodies) != nil {
			return false
		}
	}
	if f.predicate == nil {
		return true
	}

	ok, err := f.predicate.Test(handle, c)
	if err != nil {
		if logger != nil {
			logger.Printf("predicate rejected %v: %v", handle, err)
		}
		return false
	}
	return ok
}
