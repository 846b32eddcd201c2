// Package spatialq answers geometric queries against a world of rigid
// bodies and their colliders: ray casts, shape casts, point projections
// and overlap enumeration, accelerated by a bounding box tree and
// restricted by a composable QueryFilter.
package spatialq

import "fmt"

// FlatHandle is the single integer form of a handle: the index in the low
// 32 bits and the generation in the high 32 bits.
type FlatHandle uint64

// ArenaIndex addresses a slot in an Arena. A slot's generation changes
// every time it is freed, so an index that outlives its value no longer
// resolves. Generation zero is never issued.
type ArenaIndex struct {
	Index, Generation uint32
}

func (i ArenaIndex) Flat() FlatHandle {
	return FlatHandle(uint64(i.Generation)<<32 | uint64(i.Index))
}

func arenaIndexFromFlat(f FlatHandle) ArenaIndex {
	return ArenaIndex{Index: uint32(f), Generation: uint32(f >> 32)}
}

type ColliderHandle ArenaIndex

func ColliderHandleFromFlat(f FlatHandle) ColliderHandle {
	return ColliderHandle(arenaIndexFromFlat(f))
}

func (h ColliderHandle) Flat() FlatHandle {
	return ArenaIndex(h).Flat()
}

// IsValid reports whether h could have been issued by a ColliderSet.
func (h ColliderHandle) IsValid() bool {
	return h.Generation != 0
}

func (h ColliderHandle) String() string {
	return fmt.Sprintf("collider(%d:%d)", h.Index, h.Generation)
}

type RigidBodyHandle ArenaIndex

func RigidBodyHandleFromFlat(f FlatHandle) RigidBodyHandle {
	return RigidBodyHandle(arenaIndexFromFlat(f))
}

func (h RigidBodyHandle) Flat() FlatHandle {
	return ArenaIndex(h).Flat()
}

func (h RigidBodyHandle) IsValid() bool {
	return h.Generation != 0
}

func (h RigidBodyHandle) String() string {
	return fmt.Sprintf("body(%d:%d)", h.Index, h.Generation)
}
