package spatialq

import "sort"

// IslandManager tracks which bodies are awake. Fixed bodies are never
// active.
type IslandManager struct {
	active map[RigidBodyHandle]struct{}
}

func NewIslandManager() *IslandManager {
	return &IslandManager{active: map[RigidBodyHandle]struct{}{}}
}

func (islands *IslandManager) IsActive(h RigidBodyHandle) bool {
	if islands == nil {
		return false
	}
	_, ok := islands.active[h]
	return ok
}

// ActiveBodies returns the awake bodies in handle order.
func (islands *IslandManager) ActiveBodies() []RigidBodyHandle {
	if islands == nil {
		return nil
	}
	out := make([]RigidBodyHandle, 0, len(islands.active))
	for h := range islands.active {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Index < out[j].Index
	})
	return out
}

func (islands *IslandManager) WakeUp(bodies *BodySet, h RigidBodyHandle) {
	body, ok := bodies.Get(h)
	if !ok || body.bodyType.IsFixed() {
		return
	}
	body.sleeping = false
	islands.active[h] = struct{}{}
}

func (islands *IslandManager) Sleep(bodies *BodySet, h RigidBodyHandle) {
	if body, ok := bodies.Get(h); ok {
		body.sleeping = true
	}
	delete(islands.active, h)
}

// UpdateActiveSet recomputes the active set from the bodies' sleep flags.
func (islands *IslandManager) UpdateActiveSet(bodies *BodySet) {
	islands.active = map[RigidBodyHandle]struct{}{}
	bodies.Each(func(h RigidBodyHandle, body *RigidBody) bool {
		if !body.bodyType.IsFixed() && !body.sleeping {
			islands.active[h] = struct{}{}
		}
		return true
	})
}

func (islands *IslandManager) forget(h RigidBodyHandle) {
	delete(islands.active, h)
}
