package spatialq

type arenaSlot[T any] struct {
	value      T
	generation uint32
	occupied   bool
}

// Arena is a slot allocator with generation checked indices.
type Arena[T any] struct {
	slots []arenaSlot[T]
	free  []uint32
	count int
}

func (a *Arena[T]) Insert(value T) ArenaIndex {
	var i uint32
	if n := len(a.free); n > 0 {
		i = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		i = uint32(len(a.slots))
		a.slots = append(a.slots, arenaSlot[T]{generation: 1})
	}

	slot := &a.slots[i]
	slot.value = value
	slot.occupied = true
	a.count++
	return ArenaIndex{Index: i, Generation: slot.generation}
}

func (a *Arena[T]) slot(i ArenaIndex) *arenaSlot[T] {
	if int(i.Index) >= len(a.slots) {
		return nil
	}
	slot := &a.slots[i.Index]
	if !slot.occupied || slot.generation != i.Generation {
		return nil
	}
	return slot
}

func (a *Arena[T]) Get(i ArenaIndex) (T, bool) {
	if slot := a.slot(i); slot != nil {
		return slot.value, true
	}
	var zero T
	return zero, false
}

func (a *Arena[T]) Contains(i ArenaIndex) bool {
	return a.slot(i) != nil
}

// Remove frees the slot and invalidates every index pointing at it.
func (a *Arena[T]) Remove(i ArenaIndex) (T, bool) {
	var zero T
	slot := a.slot(i)
	if slot == nil {
		return zero, false
	}

	value := slot.value
	slot.value = zero
	slot.occupied = false
	slot.generation++
	if slot.generation == 0 {
		slot.generation = 1
	}
	a.free = append(a.free, i.Index)
	a.count--
	return value, true
}

func (a *Arena[T]) Len() int {
	return a.count
}

// Each visits the occupied slots in index order until f returns false.
func (a *Arena[T]) Each(f func(ArenaIndex, T) bool) {
	for i := range a.slots {
		slot := &a.slots[i]
		if !slot.occupied {
			continue
		}
		if !f(ArenaIndex{Index: uint32(i), Generation: slot.generation}, slot.value) {
			return
		}
	}
}
