package movie

import "fmt"

// SlotHandle identifies a slot across redraws. Two slots with identical
// options still have different handles. The zero handle means "no slot".
type SlotHandle struct {
	index      uint32
	generation uint32
}

// IsZero reports whether h refers to no slot.
func (h SlotHandle) IsZero() bool {
	return h.generation == 0
}

func (h SlotHandle) String() string {
	if h.IsZero() {
		return "slot(none)"
	}
	return fmt.Sprintf("slot(%d.%d)", h.index, h.generation)
}

type arenaEntry struct {
	slot       *Slot
	generation uint32
	released   bool
}

// slotArena owns every live slot. A handle only resolves while its
// generation matches the entry's; reclaiming an entry bumps the generation.
type slotArena struct {
	entries []arenaEntry
	free    []uint32
}

func (a *slotArena) insert(s *Slot) SlotHandle {
	if n := len(a.free); n > 0 {
		idx := a.free[n-1]
		a.free = a.free[:n-1]
		e := &a.entries[idx]
		e.slot = s
		e.released = false
		return SlotHandle{index: idx, generation: e.generation}
	}

	a.entries = append(a.entries, arenaEntry{slot: s, generation: 1})
	return SlotHandle{index: uint32(len(a.entries) - 1), generation: 1}
}

func (a *slotArena) get(h SlotHandle) *Slot {
	if h.IsZero() || int(h.index) >= len(a.entries) {
		return nil
	}
	e := &a.entries[h.index]
	if e.generation != h.generation {
		return nil
	}
	return e.slot
}

func (a *slotArena) markReleased(h SlotHandle) bool {
	if a.get(h) == nil {
		return false
	}
	a.entries[h.index].released = true
	return true
}

func (a *slotArena) isReleased(h SlotHandle) bool {
	return a.get(h) != nil && a.entries[h.index].released
}

func (a *slotArena) reclaim(h SlotHandle) {
	if a.get(h) == nil {
		return
	}
	e := &a.entries[h.index]
	e.slot = nil
	e.released = false
	e.generation++
	a.free = append(a.free, h.index)
}

// releasedHandles lists handles waiting to be reclaimed.
func (a *slotArena) releasedHandles() []SlotHandle {
	var out []SlotHandle
	for i, e := range a.entries {
		if e.slot != nil && e.released {
			out = append(out, SlotHandle{index: uint32(i), generation: e.generation})
		}
	}
	return out
}

func (a *slotArena) live() int {
	return len(a.entries) - len(a.free)
}
