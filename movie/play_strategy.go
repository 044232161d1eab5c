package movie

import "github.com/opd-ai/moviesync/interfaces"

// PlayStrategy starts playback for a slot that took over its channel.
// previous is the slot that occupied the channel before, or nil.
type PlayStrategy interface {
	Start(previous, next *Slot) error
}

// PlayStrategyFunc adapts a function to PlayStrategy.
type PlayStrategyFunc func(previous, next *Slot) error

// Start calls f(previous, next).
func (f PlayStrategyFunc) Start(previous, next *Slot) error {
	return f(previous, next)
}

// DefaultPlayStrategy plays the mask first, then the movie, each looping
// when the slot loops.
type DefaultPlayStrategy struct{}

// Start implements PlayStrategy.
func (DefaultPlayStrategy) Start(previous, next *Slot) error {
	if next == nil {
		return ErrNilSlot
	}

	opts := interfaces.PlayOptions{Loop: next.loop}
	if !next.mask.IsZero() {
		if err := next.PlaySource(next.mask, next.maskChannel, opts); err != nil {
			return err
		}
	}
	return next.PlaySource(next.play, next.channel, opts)
}
