package movie

import (
	"context"
	"errors"

	"github.com/opd-ai/moviesync/config"
	"github.com/opd-ai/moviesync/media"
)

// Driver runs the interaction hooks and the frequent update of a State.
type Driver struct {
	state        *State
	timeProvider TimeProvider
}

// NewDriver creates a driver for st using the system clock.
func NewDriver(st *State) *Driver {
	return &Driver{
		state:        st,
		timeProvider: RealTimeProvider{},
	}
}

// SetTimeProvider replaces the clock used by Run and for tick timing.
func (d *Driver) SetTimeProvider(tp TimeProvider) {
	if tp == nil {
		tp = RealTimeProvider{}
	}
	d.timeProvider = tp
}

// EarlyInteract clears this interaction's registry and channel occupancy
// before slots render.
func (d *Driver) EarlyInteract() {
	d.state.clearRegistry()
	clear(d.state.channelMovie)
}

// Interact evicts textures of channels that stopped and reports whether a
// fullscreen movie is playing with no slot shown on its channel.
func (d *Driver) Interact() bool {
	st := d.state
	st.evictStaleTextures()

	fullscreen := false
	if st.backend.IsPlaying(config.FullscreenChannel) {
		fullscreen = true
		for _, key := range st.registeredOrder {
			if key.channel == config.FullscreenChannel {
				fullscreen = false
				break
			}
		}
	}

	if fullscreen != st.fullscreen {
		NewLogger("Driver.Interact").WithField("fullscreen", fullscreen).Debug("Fullscreen movie state changed")
	}
	st.fullscreen = fullscreen
	return fullscreen
}

// Frequent synchronizes playback, advances the backend clock and cycles
// the group cache.
//
// It returns true when the fullscreen movie has a new frame. When slots
// are registered and every one of their channels has a frame ready, each
// slot gets a zero-delay redraw request instead.
func (d *Driver) Frequent() (bool, error) {
	st := d.state
	start := d.timeProvider.Now()
	defer func() {
		st.metrics.ObserveFrequent(d.timeProvider.Now().Sub(start))
	}()

	err := st.Synchronize()
	st.backend.AdvanceTime()
	st.cycleGroupTextures()

	if st.fullscreen {
		return st.channelReady(config.FullscreenChannel), err
	}

	if len(st.registeredOrder) == 0 {
		return false, err
	}

	for _, key := range st.registeredOrder {
		if !st.channelReady(key.channel) {
			return false, err
		}
		if key.mask != "" && !st.channelReady(key.mask) {
			return false, err
		}
	}

	for _, key := range st.registeredOrder {
		for _, h := range st.registered[key] {
			if s := st.arena.get(h); s != nil {
				st.scheduler.Redraw(s, 0)
			}
		}
	}
	return false, err
}

// RedrawFunc draws one frame for the update loop. It calls EarlyInteract,
// renders the scene's slots and finishes with Interact. newFrame reports
// that the previous frequent update found a new fullscreen movie frame.
type RedrawFunc func(newFrame bool)

// Run drives the movie state from a ticker until ctx is done. On every
// tick it calls redraw, when not nil, and then Frequent, both on the
// calling goroutine. Slots therefore always render before the
// synchronizer looks at channel occupancy, and the state is never touched
// from two goroutines. Hosts that need to change the state while Run is
// active do so from redraw.
//
// Malformed oversampling modifiers end the loop with an error wrapping
// media.ErrUnknownModifier. Other command failures are logged and the
// loop continues. Run returns nil once ctx is cancelled.
func (d *Driver) Run(ctx context.Context, redraw RedrawFunc) error {
	ticker := d.timeProvider.NewTicker(d.state.cfg.FrequentInterval)
	defer ticker.Stop()

	NewLogger("Driver.Run").
		WithField("interval", d.state.cfg.FrequentInterval.String()).
		Info("Starting movie update loop")

	newFrame := false
	for {
		select {
		case <-ctx.Done():
			NewLogger("Driver.Run").Info("Stopped movie update loop")
			return nil
		case <-ticker.C():
			if redraw != nil {
				redraw(newFrame)
			}

			var err error
			newFrame, err = d.Frequent()
			if err != nil {
				if errors.Is(err, media.ErrUnknownModifier) {
					NewLogger("Driver.Run").WithError(err, "frequent").Error("Malformed movie filename")
					return err
				}
				NewLogger("Driver.Run").WithError(err, "frequent").Warn("Movie playback command failed")
			}
		}
	}
}
