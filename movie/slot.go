package movie

import (
	"errors"
	"fmt"
	"image"
	"strings"
	"time"

	"github.com/opd-ai/moviesync/config"
	"github.com/opd-ai/moviesync/interfaces"
	"github.com/opd-ai/moviesync/media"
	"github.com/opd-ai/moviesync/metrics"
	"github.com/opd-ai/moviesync/video"
	"github.com/sirupsen/logrus"
)

// DefaultChannel is the channel a slot uses when none is given. Slots that
// play a source on it are moved to a generated or shared channel.
const DefaultChannel = config.FullscreenChannel

// EventShow is the transform event that restarts a slot's channel.
const EventShow = "show"

// SlotOptions configures a movie slot.
type SlotOptions struct {
	// Size letterboxes the output into a fixed box. The zero value renders
	// at the content's own size; otherwise both dimensions must be positive.
	Size image.Point
	// Channel is the playback channel. Empty means DefaultChannel.
	Channel string
	// Play is the source the slot plays itself.
	Play media.Source
	// Mask is played on MaskChannel and supplies the alpha channel.
	Mask media.Source
	// MaskChannel defaults to "<channel>_mask".
	MaskChannel string
	// SideMask takes the alpha from the right half of each frame. It
	// disables Mask.
	SideMask bool
	// Image is shown instead of the movie when nothing is playing.
	Image interfaces.Displayable
	// StartImage is shown while the movie plays but no frame has arrived.
	StartImage interfaces.Displayable
	// PlayStrategy starts playback. Nil uses DefaultPlayStrategy.
	PlayStrategy PlayStrategy
	// Loop loops the movie.
	Loop bool
	// Group lets slots in the same group share their last frame.
	Group string
	// KeepLastFrame keeps showing the last frame once the movie ends.
	KeepLastFrame bool
	// Oversample forces the oversampling factor. Zero resolves it from the
	// filename.
	Oversample float64
	// Mipmap overrides the mipmap_movies setting when non-nil.
	Mipmap *bool
}

// DefaultSlotOptions returns options for a looping slot on DefaultChannel.
func DefaultSlotOptions() SlotOptions {
	return SlotOptions{
		Channel: DefaultChannel,
		Loop:    true,
	}
}

// Slot is a displayable that shows a movie playing on a channel.
//
// A slot never plays anything by itself while rendering. Rendering records
// that the slot occupied its channel; the synchronizer compares occupancy
// across redraws and issues play and stop commands.
type Slot struct {
	state  *State
	handle SlotHandle

	size        image.Point
	channel     string
	maskChannel string

	play         media.Source
	originalPlay media.Source
	mask         media.Source
	sideMask     bool

	image      interfaces.Displayable
	startImage interfaces.Displayable
	strategy   PlayStrategy

	loop       bool
	group      string
	oversample float64
	mipmap     *bool

	playingOversample float64
	// startReason labels the play commands of the current Start.
	startReason string
}

// NewSlot creates a slot owned by st.
func (st *State) NewSlot(opts SlotOptions) (*Slot, error) {
	if opts.Size != (image.Point{}) && (opts.Size.X <= 0 || opts.Size.Y <= 0) {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, opts.Size.X, opts.Size.Y)
	}

	s := &Slot{
		state:             st,
		size:              opts.Size,
		originalPlay:      opts.Play,
		sideMask:          opts.SideMask,
		image:             opts.Image,
		startImage:        opts.StartImage,
		strategy:          opts.PlayStrategy,
		loop:              opts.Loop,
		group:             opts.Group,
		oversample:        opts.Oversample,
		mipmap:            opts.Mipmap,
		playingOversample: 1,
	}

	channel := opts.Channel
	if channel == "" {
		channel = DefaultChannel
	}
	if channel == DefaultChannel && !opts.Play.IsZero() {
		if st.cfg.SingleMovieChannel != "" {
			channel = st.cfg.SingleMovieChannel
		} else if st.cfg.AutoMovieChannel {
			channel = st.nextChannelName()
		}
	}
	renamed := false
	if !validChannelName(channel) {
		channel = st.nextChannelName()
		renamed = true
	}
	s.channel = channel

	if !opts.SideMask {
		s.mask = opts.Mask
	}
	if !s.mask.IsZero() {
		s.maskChannel = opts.MaskChannel
		if s.maskChannel == "" || renamed || !validChannelName(s.maskChannel) {
			s.maskChannel = channel + "_mask"
		}
	}

	if s.group == "" && opts.KeepLastFrame {
		s.group = st.nextKeepLastFrameGroup()
	}

	s.play = s.validatedSource(opts.Play)

	if err := s.ensureChannels(); err != nil {
		return nil, err
	}
	s.handle = st.arena.insert(s)

	logrus.WithFields(logrus.Fields{
		"function":     "State.NewSlot",
		"slot":         s.handle.String(),
		"channel":      s.channel,
		"mask_channel": s.maskChannel,
		"play":         s.play.String(),
		"group":        s.group,
	}).Debug("Created movie slot")

	return s, nil
}

// validChannelName rejects names containing a space or a slash.
func validChannelName(name string) bool {
	return name != "" && !strings.ContainsAny(name, " /")
}

// validatedSource returns src when any of its paths is loadable, and the
// zero source otherwise.
func (s *Slot) validatedSource(src media.Source) media.Source {
	if src.IsZero() {
		return media.Source{}
	}
	if media.AnyLoadable(s.state.loader, s.state.cfg.LoaderDirectory, src) {
		return src
	}

	logrus.WithFields(logrus.Fields{
		"function": "Slot.validatedSource",
		"channel":  s.channel,
		"play":     src.String(),
	}).Warn("Movie source is not loadable, playback disabled")
	return media.Source{}
}

// ensureChannels registers the slot's channels with the backend.
func (s *Slot) ensureChannels() error {
	var errs []error
	for _, name := range []string{s.channel, s.maskChannel} {
		if name == "" || s.state.backend.ChannelDefined(name) {
			continue
		}

		opts := interfaces.ChannelOptions{
			Mixer:      s.state.cfg.MovieMixer,
			Loop:       true,
			StopOnMute: false,
			Movie:      true,
			FrameDrop:  !s.mask.IsZero(),
			Force:      true,
		}
		if err := s.state.backend.RegisterChannel(name, opts); err != nil {
			errs = append(errs, fmt.Errorf("%w: %s: %w", ErrChannelRegistration, name, err))
			continue
		}

		logrus.WithFields(logrus.Fields{
			"function":   "Slot.ensureChannels",
			"channel":    name,
			"mixer":      opts.Mixer,
			"frame_drop": opts.FrameDrop,
		}).Info("Registered movie channel")
	}
	return errors.Join(errs...)
}

// ensureChannelsLogged registers channels during rendering and
// synchronization, where a failure is reported but not fatal.
func (s *Slot) ensureChannelsLogged(operation string) {
	if err := s.ensureChannels(); err != nil {
		NewLogger("Slot."+operation).
			WithField("channel", s.channel).
			WithError(err, "ensure_channels").
			Warn("Failed to register movie channel")
	}
}

// Handle returns the slot's identity.
func (s *Slot) Handle() SlotHandle { return s.handle }

// Channel returns the playback channel.
func (s *Slot) Channel() string { return s.channel }

// MaskChannel returns the mask channel, or "" when there is no mask.
func (s *Slot) MaskChannel() string { return s.maskChannel }

// Play returns the validated play source. It is zero when the slot has
// nothing loadable to play.
func (s *Slot) Play() media.Source { return s.play }

// OriginalPlay returns the source the slot was configured with.
func (s *Slot) OriginalPlay() media.Source { return s.originalPlay }

// Mask returns the mask source.
func (s *Slot) Mask() media.Source { return s.mask }

// Loop reports whether the movie loops.
func (s *Slot) Loop() bool { return s.loop }

// Group returns the slot's group, including generated keep-last-frame
// groups.
func (s *Slot) Group() string { return s.group }

// PlayingOversample returns the oversampling factor of the movie the slot
// last started.
func (s *Slot) PlayingOversample() float64 { return s.playingOversample }

func (s *Slot) mipmapEnabled() bool {
	if s.mipmap != nil {
		return *s.mipmap
	}
	return s.state.cfg.MipmapMovies
}

// Render draws the slot for one redraw and records that it occupied its
// channel.
//
// The fallback image wins whenever nothing plays on the channel, no
// restart is pending and the group has no cached frame. Otherwise the
// current (or group) texture is drawn, then the start image, then nothing.
// A redraw is always requested so new frames get picked up.
func (s *Slot) Render(width, height int, st, at time.Duration) *video.Render {
	state := s.state
	s.ensureChannelsLogged("Render")

	if !state.cfg.VideoImageFallback {
		state.channelMovie[s.channel] = s.handle
	}

	notPlaying := !state.backend.IsPlaying(s.channel)
	if state.ResetPending(s.channel) {
		notPlaying = false
	}
	if s.group != "" {
		if _, ok := state.groupTexture[s.group]; ok {
			notPlaying = false
		}
	}

	defer state.scheduler.Redraw(s, state.cfg.RedrawInterval)

	if s.image != nil && notPlaying {
		logrus.WithFields(logrus.Fields{
			"function": "Slot.Render",
			"channel":  s.channel,
		}).Debug("Rendering fallback image")
		return renderDisplayable(s.image, width, height, st, at)
	}

	tex, _ := state.movieTexture(s.channel, s.maskChannel, s.sideMask, s.mipmapEnabled())
	if s.group != "" {
		if tex == nil {
			tex = state.groupTexture[s.group]
		} else {
			state.groupTexture[s.group] = tex
		}
	}

	var rv *video.Render
	switch {
	case !notPlaying && tex != nil:
		w, h := tex.Size()
		rv = video.NewRender(w, h)
		rv.Blit(tex, image.Point{})
		if s.playingOversample != 1 {
			rv.SetScale(1 / s.playingOversample)
		}
	case !notPlaying && s.startImage != nil:
		rv = renderDisplayable(s.startImage, width, height, st, at)
	default:
		rv = video.NewRender(0, 0)
	}

	if s.size != (image.Point{}) {
		rv = video.Letterbox(rv, s.size.X, s.size.Y)
	}
	return rv
}

func renderDisplayable(d interfaces.Displayable, width, height int, st, at time.Duration) *video.Render {
	surf := d.Render(width, height, st, at)
	if surf == nil {
		return video.NewRender(0, 0)
	}
	w, h := surf.Size()
	rv := video.NewRender(w, h)
	rv.Blit(surf, image.Point{})
	return rv
}

// SetTransformEvent marks the slot's channel for restart on "show".
func (s *Slot) SetTransformEvent(event string) {
	if event != EventShow {
		return
	}
	s.state.resetChannels[s.channel] = struct{}{}

	logrus.WithFields(logrus.Fields{
		"function": "Slot.SetTransformEvent",
		"channel":  s.channel,
	}).Debug("Marked channel for restart")
}

// HandlesEvent reports whether the slot reacts to a transform event.
func (s *Slot) HandlesEvent(event string) bool {
	return event == EventShow
}

// Start begins playback with old as the previous occupant of the channel.
//
// Nothing happens when neither slot has a source. When the sources differ,
// or replay_movie_sprites is set, the slot's own source is started through
// its play strategy; a slot without a source stops its channels instead.
func (s *Slot) Start(old *Slot) error {
	s.ensureChannelsLogged("Start")

	var oldPlay media.Source
	if old != nil {
		oldPlay = old.play
	}
	if s.play.IsZero() && oldPlay.IsZero() {
		return nil
	}
	if s.play.Equal(oldPlay) && !s.state.cfg.ReplayMovieSprites {
		logrus.WithFields(logrus.Fields{
			"function": "Slot.Start",
			"channel":  s.channel,
		}).Debug("Source unchanged, keeping playback")
		return nil
	}

	if !s.play.IsZero() {
		strategy := s.strategy
		if strategy == nil {
			strategy = DefaultPlayStrategy{}
		}
		return strategy.Start(old, s)
	}

	errs := []error{s.stopChannel(s.channel, metrics.StopReasonCleared)}
	if !s.mask.IsZero() {
		errs = append(errs, s.stopChannel(s.maskChannel, metrics.StopReasonCleared))
	}
	return errors.Join(errs...)
}

// Stop stops the slot's channels if it has a source to stop.
func (s *Slot) Stop() error {
	s.ensureChannelsLogged("Stop")

	if s.play.IsZero() {
		return nil
	}

	var errs []error
	if s.state.backend.ChannelDefined(s.channel) {
		errs = append(errs, s.stopChannel(s.channel, metrics.StopReasonVacated))
	}
	if !s.mask.IsZero() && s.state.backend.ChannelDefined(s.maskChannel) {
		errs = append(errs, s.stopChannel(s.maskChannel, metrics.StopReasonVacated))
	}
	return errors.Join(errs...)
}

func (s *Slot) stopChannel(channel, reason string) error {
	if err := s.state.backend.Stop(channel, 0); err != nil {
		return fmt.Errorf("stop %s: %w", channel, err)
	}
	s.state.metrics.ObserveStop(reason)

	logrus.WithFields(logrus.Fields{
		"function": "Slot.stopChannel",
		"channel":  channel,
		"reason":   reason,
	}).Info("Stopped movie channel")
	return nil
}

// PlaySource resolves src through the oversampling resolver and plays it
// on channel. The resolved factor becomes the slot's playing oversample.
// Play strategies use it to issue their commands.
func (s *Slot) PlaySource(src media.Source, channel string, opts interfaces.PlayOptions) error {
	if channel == "" {
		return ErrInvalidChannel
	}
	if s.state.arena.get(s.handle) != s {
		return fmt.Errorf("play %s: %w", s.handle, ErrSlotReleased)
	}

	resolved, factor, err := s.state.resolver.Resolve(src, s.oversample)
	if err != nil {
		return fmt.Errorf("play %s on %s: %w", src, channel, err)
	}
	s.playingOversample = factor

	if err := s.state.backend.Play(resolved.Paths(), channel, opts); err != nil {
		return fmt.Errorf("play %s on %s: %w", resolved, channel, err)
	}

	reason := s.startReason
	if reason == "" {
		reason = metrics.PlayReasonManual
	}
	s.state.metrics.ObservePlay(reason)

	logrus.WithFields(logrus.Fields{
		"function":   "Slot.PlaySource",
		"channel":    channel,
		"play":       resolved.String(),
		"oversample": factor,
		"loop":       opts.Loop,
	}).Info("Started movie")
	return nil
}

// PerInteract registers the slot as displayed this redraw and asks for an
// immediate redraw.
func (s *Slot) PerInteract() {
	s.ensureChannelsLogged("PerInteract")
	s.state.register(s)
	s.state.scheduler.Redraw(s, 0)
}

// AfterRestore revalidates the slot after it was restored from a save:
// the original source is checked again and invalid channel names are
// regenerated.
func (s *Slot) AfterRestore() {
	play := s.originalPlay
	if play.IsZero() {
		play = s.play
	}
	s.originalPlay = play
	s.play = s.validatedSource(play)

	if !validChannelName(s.channel) {
		s.channel = s.state.nextChannelName()
		if s.maskChannel != "" {
			s.maskChannel = s.channel + "_mask"
		}
	}

	s.ensureChannelsLogged("AfterRestore")
}

// Visit returns the images the slot may show, for preloading.
func (s *Slot) Visit() []interfaces.Displayable {
	var out []interfaces.Displayable
	if s.image != nil {
		out = append(out, s.image)
	}
	if s.startImage != nil {
		out = append(out, s.startImage)
	}
	return out
}

// Release gives the slot back to its state. See State.ReleaseSlot.
func (s *Slot) Release() error {
	return s.state.ReleaseSlot(s.handle)
}

// Released reports whether the slot was given back to its state.
func (s *Slot) Released() bool {
	return s.state.arena.get(s.handle) != s || s.state.arena.isReleased(s.handle)
}
