package movie

import (
	"errors"
	"maps"
	"slices"

	"github.com/opd-ai/moviesync/metrics"
	"github.com/sirupsen/logrus"
)

// Synchronize reconciles backend playback with the slots that rendered
// during this redraw. It must run after every slot has rendered.
//
// For each occupied channel, with old the previous redraw's occupant and
// last the occupant two redraws back:
//   - a pending restart with replay enabled starts the occupant again;
//   - an occupant that was already old or last is left alone;
//   - a new occupant takes over the channel from old;
//   - a looping occupant that was not last resumes from last.
//
// Channels vacated since the previous or the second-previous redraw are
// stopped, each at most once. The current occupancy then becomes both
// history maps and the restart set is cleared.
//
// Errors from individual play and stop commands are joined; processing
// continues past them.
func (st *State) Synchronize() error {
	var errs []error

	old := st.session.movie
	last := st.lastChannelMovie

	for _, channel := range sortedChannels(st.channelMovie) {
		m := st.arena.get(st.channelMovie[channel])
		if m == nil {
			continue
		}
		oldSlot := st.arena.get(old[channel])
		lastSlot := st.arena.get(last[channel])

		_, reset := st.resetChannels[channel]

		var (
			from   *Slot
			reason string
		)
		switch {
		case reset && st.cfg.ReplayMovieSprites:
			from, reason = oldSlot, metrics.PlayReasonReset
		case oldSlot == m || lastSlot == m:
			continue
		case oldSlot != m:
			from, reason = oldSlot, metrics.PlayReasonTakeover
		case m.loop && lastSlot != m:
			from, reason = lastSlot, metrics.PlayReasonLoop
		default:
			continue
		}

		logrus.WithFields(logrus.Fields{
			"function": "State.Synchronize",
			"channel":  channel,
			"slot":     m.handle.String(),
			"reason":   reason,
		}).Debug("Starting channel occupant")

		m.startReason = reason
		if err := m.Start(from); err != nil {
			errs = append(errs, err)
		}
		m.startReason = ""
	}

	stopped := make(map[string]struct{})
	for _, channel := range sortedChannels(last) {
		if _, ok := st.channelMovie[channel]; ok {
			continue
		}
		stopped[channel] = struct{}{}
		if s := st.arena.get(last[channel]); s != nil {
			errs = append(errs, s.Stop())
		}
	}
	for _, channel := range sortedChannels(old) {
		if _, ok := st.channelMovie[channel]; ok {
			continue
		}
		if _, ok := stopped[channel]; ok {
			continue
		}
		if s := st.arena.get(old[channel]); s != nil {
			errs = append(errs, s.Stop())
		}
	}

	st.session.movie = maps.Clone(st.channelMovie)
	st.lastChannelMovie = maps.Clone(st.channelMovie)
	clear(st.resetChannels)

	st.reclaimReleased()

	return errors.Join(errs...)
}

func sortedChannels(m map[string]SlotHandle) []string {
	return slices.Sorted(maps.Keys(m))
}
