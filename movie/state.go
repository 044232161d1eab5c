package movie

import (
	"fmt"
	"image"
	"slices"
	"time"

	"github.com/opd-ai/moviesync/config"
	"github.com/opd-ai/moviesync/interfaces"
	"github.com/opd-ai/moviesync/media"
	"github.com/opd-ai/moviesync/metrics"
	"github.com/opd-ai/moviesync/video"
	"github.com/sirupsen/logrus"
)

// Dependencies are the collaborators a State drives.
type Dependencies struct {
	// Backend plays movies and decodes frames. Required.
	Backend interfaces.AVBackend
	// Textures turns decoded frames into textures. Required.
	Textures interfaces.TextureLoader
	// Scheduler receives redraw requests. Optional.
	Scheduler interfaces.RedrawScheduler
	// Loader answers whether a play source exists. Optional; without it
	// no source is loadable and every slot falls back to its images.
	Loader interfaces.Loader
	// Display is consulted for automatic oversampling. Optional.
	Display interfaces.DisplayScale
	// Metrics records playback activity. Optional.
	Metrics *metrics.Metrics
}

// channelKey identifies a registered (channel, mask channel) pair.
type channelKey struct {
	channel string
	mask    string
}

// State is the video subsystem state object. It owns every slot, the
// texture and group caches, channel occupancy history and the set of
// channels to restart.
//
// State is not safe for concurrent use. Rendering, interaction and the
// frequent update must all happen on the same goroutine, in that order.
// Driver.Run does this by calling the host's RedrawFunc before every
// frequent update.
type State struct {
	cfg       *config.Config
	backend   interfaces.AVBackend
	textures  interfaces.TextureLoader
	scheduler interfaces.RedrawScheduler
	loader    interfaces.Loader
	resolver  *media.Resolver
	metrics   *metrics.Metrics

	arena   slotArena
	session *Session

	channelSerial       int
	keepLastFrameSerial int

	// texture caches the last texture decoded for each channel.
	texture map[string]video.Texture
	// groupTexture caches the last texture shown by each group. A present
	// key with a nil value marks a group that rendered without a frame.
	groupTexture map[string]video.Texture

	// registered holds the slots displayed this redraw, keyed by their
	// (channel, mask channel) pair in first-registration order.
	registered      map[channelKey][]SlotHandle
	registeredOrder []channelKey

	// channelMovie records the slot that rendered on each channel during
	// the current redraw.
	channelMovie map[string]SlotHandle
	// lastChannelMovie is the occupancy from two redraws back.
	lastChannelMovie map[string]SlotHandle

	resetChannels map[string]struct{}

	fullscreen  bool
	defaultSize image.Point
}

// NewState creates the video subsystem state. A nil cfg uses
// config.Default(); the configuration is validated before use.
func NewState(cfg *config.Config, deps Dependencies) (*State, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if deps.Backend == nil {
		return nil, ErrNilBackend
	}
	if deps.Textures == nil {
		return nil, ErrNilTextureLoader
	}

	scheduler := deps.Scheduler
	if scheduler == nil {
		scheduler = discardScheduler{}
	}
	loader := deps.Loader
	if loader == nil {
		logrus.WithFields(logrus.Fields{
			"function": "NewState",
		}).Warn("No loader configured, movie sprites will show their fallback images")
		loader = emptyLoader{}
	}

	st := &State{
		cfg:              cfg,
		backend:          deps.Backend,
		textures:         deps.Textures,
		scheduler:        scheduler,
		loader:           loader,
		resolver:         media.NewResolver(loader, deps.Display, cfg.LoaderDirectory, cfg.AutomaticOversampling),
		metrics:          deps.Metrics,
		session:          NewSession(),
		texture:          make(map[string]video.Texture),
		groupTexture:     make(map[string]video.Texture),
		registered:       make(map[channelKey][]SlotHandle),
		channelMovie:     make(map[string]SlotHandle),
		lastChannelMovie: make(map[string]SlotHandle),
		resetChannels:    make(map[string]struct{}),
		defaultSize:      image.Pt(cfg.DefaultWidth, cfg.DefaultHeight),
	}

	logrus.WithFields(logrus.Fields{
		"function":   "NewState",
		"session_id": st.session.ID().String(),
	}).Info("Created movie state")

	return st, nil
}

// Config returns the configuration in use.
func (st *State) Config() *config.Config {
	return st.cfg
}

// Resolver returns the oversampling resolver play strategies go through.
func (st *State) Resolver() *media.Resolver {
	return st.resolver
}

// Session returns the current session.
func (st *State) Session() *Session {
	return st.session
}

// SetSession swaps in a session, typically a snapshot restored on rollback
// or load. A nil session starts a fresh one. Occupancy from two redraws
// back is kept.
func (st *State) SetSession(s *Session) {
	if s == nil {
		s = NewSession()
	}
	st.session = s

	logrus.WithFields(logrus.Fields{
		"function":   "State.SetSession",
		"session_id": s.ID().String(),
	}).Debug("Swapped movie session")
}

// ResetSession starts a fresh playthrough session.
func (st *State) ResetSession() {
	st.session = NewSession()

	logrus.WithFields(logrus.Fields{
		"function":   "State.ResetSession",
		"session_id": st.session.ID().String(),
	}).Info("Reset movie session")
}

// Slot resolves a handle. Released-and-reclaimed or foreign handles
// resolve to nil.
func (st *State) Slot(h SlotHandle) *Slot {
	return st.arena.get(h)
}

// ReleaseSlot marks a slot as no longer in use. It stays addressable until
// no occupancy history refers to it, so a pending stop still reaches it.
func (st *State) ReleaseSlot(h SlotHandle) error {
	if !st.arena.markReleased(h) {
		return fmt.Errorf("release %s: %w", h, ErrSlotReleased)
	}
	return nil
}

// LiveSlots returns the number of slots held by the arena.
func (st *State) LiveSlots() int {
	return st.arena.live()
}

// Occupant returns the slot that rendered on channel during this redraw.
func (st *State) Occupant(channel string) (SlotHandle, bool) {
	h, ok := st.channelMovie[channel]
	return h, ok
}

// ResetPending reports whether channel is marked for restart.
func (st *State) ResetPending(channel string) bool {
	_, ok := st.resetChannels[channel]
	return ok
}

// Texture returns the cached texture of channel.
func (st *State) Texture(channel string) (video.Texture, bool) {
	tex, ok := st.texture[channel]
	return tex, ok
}

// GroupTexture returns the cached texture of group. The second result is
// true when the group has an entry, even a nil one.
func (st *State) GroupTexture(group string) (video.Texture, bool) {
	tex, ok := st.groupTexture[group]
	return tex, ok
}

// Fullscreen reports whether a fullscreen movie is playing with no slot
// displayed on its channel, as of the last Interact.
func (st *State) Fullscreen() bool {
	return st.fullscreen
}

// Registered returns the number of (channel, mask) pairs registered for
// this redraw.
func (st *State) Registered() int {
	return len(st.registeredOrder)
}

// register adds a slot to this redraw's registry.
func (st *State) register(s *Slot) {
	key := channelKey{channel: s.channel, mask: s.maskChannel}
	handles, ok := st.registered[key]
	if !ok {
		st.registeredOrder = append(st.registeredOrder, key)
	}
	if slices.Contains(handles, s.handle) {
		return
	}
	st.registered[key] = append(handles, s.handle)
}

func (st *State) clearRegistry() {
	clear(st.registered)
	st.registeredOrder = st.registeredOrder[:0]
}

// nextChannelName returns a fresh generated channel name.
func (st *State) nextChannelName() string {
	name := fmt.Sprintf("_movie_%d", st.channelSerial)
	st.channelSerial++
	return name
}

func (st *State) nextKeepLastFrameGroup() string {
	name := fmt.Sprintf("_keep_last_frame_%d", st.keepLastFrameSerial)
	st.keepLastFrameSerial++
	return name
}

// reclaimReleased frees released slots that no occupancy map refers to.
func (st *State) reclaimReleased() {
	for _, h := range st.arena.releasedHandles() {
		if st.session.references(h) || mapReferences(st.lastChannelMovie, h) || mapReferences(st.channelMovie, h) {
			continue
		}
		st.arena.reclaim(h)

		logrus.WithFields(logrus.Fields{
			"function": "State.reclaimReleased",
			"slot":     h.String(),
		}).Debug("Reclaimed released slot")
	}
}

func mapReferences(m map[string]SlotHandle, h SlotHandle) bool {
	for _, v := range m {
		if v == h {
			return true
		}
	}
	return false
}

type discardScheduler struct{}

func (discardScheduler) Redraw(any, time.Duration) {}

type emptyLoader struct{}

func (emptyLoader) Loadable(string, string) bool { return false }
