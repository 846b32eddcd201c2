package spatialq

import (
	"fmt"

	"github.com/spatialq/spatialq/vect"
)

type BodyType int

const (
	BodyDynamic BodyType = iota
	BodyFixed
	// Moved by setting its next position.
	BodyKinematicPositionBased
	// Moved by setting its velocity.
	BodyKinematicVelocityBased
)

func (t BodyType) IsFixed() bool {
	return t == BodyFixed
}

func (t BodyType) IsKinematic() bool {
	return t == BodyKinematicPositionBased || t == BodyKinematicVelocityBased
}

func (t BodyType) IsDynamic() bool {
	return t == BodyDynamic
}

func (t BodyType) String() string {
	switch t {
	case BodyDynamic:
		return "dynamic"
	case BodyFixed:
		return "fixed"
	case BodyKinematicPositionBased:
		return "kinematic_position_based"
	case BodyKinematicVelocityBased:
		return "kinematic_velocity_based"
	}
	return fmt.Sprintf("BodyType(%d)", int(t))
}

// RigidBody is the part of a simulated body the query pipeline reads: its
// type, pose and velocity. Every mutation bumps a change counter so the
// pipeline can tell which leaves need a refit.
type RigidBody struct {
	bodyType BodyType

	position     vect.Isometry
	nextPosition vect.Isometry
	hasNext      bool
	linvel       vect.Vector

	colliders []ColliderHandle
	sleeping  bool

	changes uint64

	UserData interface{}
}

func NewRigidBody(bodyType BodyType) *RigidBody {
	return &RigidBody{
		bodyType: bodyType,
		position: vect.IdentityIsometry(),
	}
}

func NewDynamicBody() *RigidBody {
	return NewRigidBody(BodyDynamic)
}

func NewFixedBody() *RigidBody {
	return NewRigidBody(BodyFixed)
}

func (body *RigidBody) String() string {
	return fmt.Sprintf("RigidBody %v %v", body.bodyType, body.position)
}

func (body *RigidBody) Type() BodyType {
	return body.bodyType
}

func (body *RigidBody) SetType(bodyType BodyType) {
	if body.bodyType == bodyType {
		return
	}
	body.bodyType = bodyType
	if bodyType.IsFixed() {
		body.linvel = vect.Zero()
	}
	body.changes++
}

func (body *RigidBody) Position() vect.Isometry {
	return body.position
}

// SetPosition teleports the body. A pending next position is dropped.
func (body *RigidBody) SetPosition(position vect.Isometry) {
	body.position = position
	body.hasNext = false
	body.changes++
}

func (body *RigidBody) SetTranslation(t vect.Vector) {
	p := body.position
	p.Translation = t
	body.SetPosition(p)
}

// NextPosition is the pose the body will have at the end of the step. It
// defaults to the current position.
func (body *RigidBody) NextPosition() vect.Isometry {
	if body.hasNext {
		return body.nextPosition
	}
	return body.position
}

// SetNextPosition sets the target of a position based kinematic body.
func (body *RigidBody) SetNextPosition(position vect.Isometry) {
	body.nextPosition = position
	body.hasNext = true
	body.changes++
}

func (body *RigidBody) Linvel() vect.Vector {
	return body.linvel
}

func (body *RigidBody) SetLinvel(v vect.Vector) {
	if body.bodyType.IsFixed() {
		return
	}
	body.linvel = v
	body.changes++
}

// PredictPosition integrates the linear velocity over dt.
func (body *RigidBody) PredictPosition(dt float64) vect.Isometry {
	return body.position.Translated(body.linvel.Mult(dt))
}

func (body *RigidBody) WorldToLocal(point vect.Vector) vect.Vector {
	return body.position.InversePoint(point)
}

func (body *RigidBody) LocalToWorld(point vect.Vector) vect.Vector {
	return body.position.Point(point)
}

// Colliders are the handles attached through ColliderSet.InsertWithParent.
func (body *RigidBody) Colliders() []ColliderHandle {
	return body.colliders
}

func (body *RigidBody) IsSleeping() bool {
	return body.sleeping
}

func (body *RigidBody) addCollider(h ColliderHandle) {
	body.colliders = append(body.colliders, h)
}

func (body *RigidBody) removeCollider(h ColliderHandle) {
	for i, c := range body.colliders {
		if c == h {
			last := len(body.colliders) - 1
			body.colliders[i] = body.colliders[last]
			body.colliders = body.colliders[:last]
			return
		}
	}
}

type BodySet struct {
	arena Arena[*RigidBody]
}

func NewBodySet() *BodySet {
	return &BodySet{}
}

func (set *BodySet) Insert(body *RigidBody) RigidBodyHandle {
	return RigidBodyHandle(set.arena.Insert(body))
}

// Get returns nil and false for stale handles.
func (set *BodySet) Get(h RigidBodyHandle) (*RigidBody, bool) {
	return set.arena.Get(ArenaIndex(h))
}

func (set *BodySet) Contains(h RigidBodyHandle) bool {
	return set.arena.Contains(ArenaIndex(h))
}

// Remove deletes the body. Its colliders are removed from colliders when
// removeColliders is set, and are left parentless otherwise.
func (set *BodySet) Remove(h RigidBodyHandle, islands *IslandManager, colliders *ColliderSet, removeColliders bool) (*RigidBody, bool) {
	body, ok := set.arena.Remove(ArenaIndex(h))
	if !ok {
		return nil, false
	}
	if islands != nil {
		islands.forget(h)
	}
	if colliders != nil {
		for _, ch := range body.colliders {
			if removeColliders {
				colliders.Remove(ch, nil)
			} else if c, ok := colliders.Get(ch); ok {
				c.detach(body.position)
			}
		}
	}
	body.colliders = nil
	return body, true
}

func (set *BodySet) Len() int {
	return set.arena.Len()
}

func (set *BodySet) Each(f func(RigidBodyHandle, *RigidBody) bool) {
	set.arena.Each(func(i ArenaIndex, body *RigidBody) bool {
		return f(RigidBodyHandle(i), body)
	})
}
