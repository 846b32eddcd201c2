package spatialq

import (
	"github.com/spatialq/spatialq/geom"
	"github.com/spatialq/spatialq/vect"
)

// Group is a bit set of collision groups.
type Group uint32

const (
	GroupNone Group = 0
	// Only the low 16 bits survive packing.
	GroupAll Group = 0xFFFF
)

// InteractionGroups decide which colliders may interact. Two groups are
// compatible when each one's memberships intersect the other's filter.
type InteractionGroups struct {
	Memberships Group
	Filter      Group
}

func NewInteractionGroups(memberships, filter Group) InteractionGroups {
	return InteractionGroups{memberships, filter}
}

func AllInteractionGroups() InteractionGroups {
	return InteractionGroups{GroupAll, GroupAll}
}

func (g InteractionGroups) Test(other InteractionGroups) bool {
	return g.Memberships&other.Filter != 0 && other.Memberships&g.Filter != 0
}

// Pack stores the memberships in the high 16 bits and the filter in the
// low 16 bits.
func (g InteractionGroups) Pack() uint32 {
	return uint32(g.Memberships&0xFFFF)<<16 | uint32(g.Filter&0xFFFF)
}

func UnpackInteractionGroups(packed uint32) InteractionGroups {
	return InteractionGroups{
		Memberships: Group(packed >> 16),
		Filter:      Group(packed & 0xFFFF),
	}
}

// Collider is a shape placed in the world, optionally attached to a body.
// Its pose is relative to the parent body when it has one, and a world
// pose otherwise.
type Collider struct {
	shape    geom.Shape
	position vect.Isometry

	parent    RigidBodyHandle
	hasParent bool

	groups InteractionGroups
	sensor bool

	changes uint64

	UserData interface{}
}

func NewCollider(shape geom.Shape) *Collider {
	return &Collider{
		shape:    shape,
		position: vect.IdentityIsometry(),
		groups:   AllInteractionGroups(),
	}
}

func (c *Collider) Shape() geom.Shape {
	return c.shape
}

func (c *Collider) SetShape(shape geom.Shape) {
	c.shape = shape
	c.changes++
}

// Parent returns false for colliders attached to nothing.
func (c *Collider) Parent() (RigidBodyHandle, bool) {
	return c.parent, c.hasParent
}

// PositionWrtParent is the local pose given to SetPosition.
func (c *Collider) PositionWrtParent() vect.Isometry {
	return c.position
}

func (c *Collider) SetPosition(position vect.Isometry) {
	c.position = position
	c.changes++
}

func (c *Collider) SetTranslation(t vect.Vector) {
	p := c.position
	p.Translation = t
	c.SetPosition(p)
}

// Position is the world pose. A collider whose parent is gone is placed
// as if it had none.
func (c *Collider) Position(bodies *BodySet) vect.Isometry {
	if body := c.parentBody(bodies); body != nil {
		return body.position.Mult(c.position)
	}
	return c.position
}

// NextPosition is the world pose at the end of the step of the parent body.
func (c *Collider) NextPosition(bodies *BodySet) vect.Isometry {
	if body := c.parentBody(bodies); body != nil {
		return body.NextPosition().Mult(c.position)
	}
	return c.position
}

func (c *Collider) ComputeAABB(bodies *BodySet) vect.AABB {
	return geom.ComputeAABB(c.shape, c.Position(bodies))
}

func (c *Collider) CollisionGroups() InteractionGroups {
	return c.groups
}

func (c *Collider) SetCollisionGroups(groups InteractionGroups) {
	c.groups = groups
	c.changes++
}

func (c *Collider) IsSensor() bool {
	return c.sensor
}

func (c *Collider) SetSensor(sensor bool) {
	c.sensor = sensor
	c.changes++
}

func (c *Collider) parentBody(bodies *BodySet) *RigidBody {
	if !c.hasParent || bodies == nil {
		return nil
	}
	body, ok := bodies.Get(c.parent)
	if !ok {
		return nil
	}
	return body
}

func (c *Collider) detach(parentPos vect.Isometry) {
	c.position = parentPos.Mult(c.position)
	c.parent = RigidBodyHandle{}
	c.hasParent = false
	c.changes++
}

type ColliderSet struct {
	arena Arena[*Collider]
}

func NewColliderSet() *ColliderSet {
	return &ColliderSet{}
}

// Insert adds a collider attached to no body.
func (set *ColliderSet) Insert(c *Collider) ColliderHandle {
	c.hasParent = false
	return ColliderHandle(set.arena.Insert(c))
}

// InsertWithParent attaches c to the parent body. A stale parent leaves
// the collider parentless.
func (set *ColliderSet) InsertWithParent(c *Collider, parent RigidBodyHandle, bodies *BodySet) ColliderHandle {
	body, ok := bodies.Get(parent)
	if !ok {
		return set.Insert(c)
	}
	c.parent = parent
	c.hasParent = true
	h := ColliderHandle(set.arena.Insert(c))
	body.addCollider(h)
	return h
}

func (set *ColliderSet) Get(h ColliderHandle) (*Collider, bool) {
	return set.arena.Get(ArenaIndex(h))
}

func (set *ColliderSet) Contains(h ColliderHandle) bool {
	return set.arena.Contains(ArenaIndex(h))
}

// Remove deletes the collider and unlinks it from its parent, if bodies is
// given.
func (set *ColliderSet) Remove(h ColliderHandle, bodies *BodySet) (*Collider, bool) {
	c, ok := set.arena.Remove(ArenaIndex(h))
	if !ok {
		return nil, false
	}
	if body := c.parentBody(bodies); body != nil {
		body.removeCollider(h)
	}
	return c, true
}

func (set *ColliderSet) Len() int {
	return set.arena.Len()
}

func (set *ColliderSet) Each(f func(ColliderHandle, *Collider) bool) {
	set.arena.Each(func(i ArenaIndex, c *Collider) bool {
		return f(ColliderHandle(i), c)
	})
}
