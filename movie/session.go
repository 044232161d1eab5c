package movie

import (
	"maps"

	"github.com/google/uuid"
)

// Session is the per-playthrough state that survives redraws: which slot
// occupied each channel on the previous redraw. It is swapped out when the
// host rolls back or loads, and replaced when the playthrough resets.
type Session struct {
	id    uuid.UUID
	movie map[string]SlotHandle
}

// NewSession creates an empty session with a fresh identifier.
func NewSession() *Session {
	return &Session{
		id:    uuid.New(),
		movie: make(map[string]SlotHandle),
	}
}

// ID identifies the playthrough in logs.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// Occupancy returns a copy of the previous redraw's channel occupancy.
func (s *Session) Occupancy() map[string]SlotHandle {
	return maps.Clone(s.movie)
}

// Snapshot returns an independent copy, for rollback and saving.
func (s *Session) Snapshot() *Session {
	return &Session{id: s.id, movie: maps.Clone(s.movie)}
}

func (s *Session) references(h SlotHandle) bool {
	for _, v := range s.movie {
		if v == h {
			return true
		}
	}
	return false
}
