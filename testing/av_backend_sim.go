package testing

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/opd-ai/moviesync/interfaces"
	"github.com/opd-ai/moviesync/video"
	"github.com/sirupsen/logrus"
)

// ErrChannelNotDefined is returned for commands on unregistered channels.
var ErrChannelNotDefined = errors.New("channel not defined")

// Command operations recorded by SimulatedBackend.
const (
	OpRegister = "register"
	OpPlay     = "play"
	OpStop     = "stop"
)

// Command is one recorded backend command.
type Command struct {
	Op           string
	Channel      string
	Sources      []string
	Loop         bool
	SynchroStart bool
	Fadeout      time.Duration
}

// SimulatedBackend implements interfaces.AVBackend and
// interfaces.DisplayScale in memory.
type SimulatedBackend struct {
	mu          sync.RWMutex
	channels    map[string]*SimulatedChannel
	commands    []Command
	ticks       uint64
	drawPerVirt float64
}

// SimulatedChannel is a channel of a SimulatedBackend.
type SimulatedChannel struct {
	backend *SimulatedBackend
	name    string
	opts    interfaces.ChannelOptions
	queue   []string
	loop    bool
	playing bool
	pending []*video.Frame
}

// NewSimulatedBackend creates a backend with no channels and a display
// density of 1.
func NewSimulatedBackend() *SimulatedBackend {
	logrus.WithFields(logrus.Fields{
		"function": "NewSimulatedBackend",
	}).Debug("Creating simulated audio/video backend")

	return &SimulatedBackend{
		channels:    make(map[string]*SimulatedChannel),
		drawPerVirt: 1,
	}
}

// IsPlaying reports whether channel has a live queue.
func (b *SimulatedBackend) IsPlaying(channel string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()

	c, ok := b.channels[channel]
	return ok && c.playing
}

// Play replaces the channel queue.
func (b *SimulatedBackend) Play(sources []string, channel string, opts interfaces.PlayOptions) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	c, ok := b.channels[channel]
	if !ok {
		return fmt.Errorf("%w: %s", ErrChannelNotDefined, channel)
	}

	c.queue = append([]string(nil), sources...)
	c.loop = opts.Loop
	c.playing = len(sources) > 0
	c.pending = nil

	b.commands = append(b.commands, Command{
		Op:           OpPlay,
		Channel:      channel,
		Sources:      append([]string(nil), sources...),
		Loop:         opts.Loop,
		SynchroStart: opts.SynchroStart,
	})
	return nil
}

// Stop empties the channel queue.
func (b *SimulatedBackend) Stop(channel string, fadeout time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	c, ok := b.channels[channel]
	if !ok {
		return fmt.Errorf("%w: %s", ErrChannelNotDefined, channel)
	}

	c.queue = nil
	c.playing = false
	c.pending = nil

	b.commands = append(b.commands, Command{Op: OpStop, Channel: channel, Fadeout: fadeout})
	return nil
}

// RegisterChannel creates a channel. Re-registering an existing channel
// only replaces its options when opts.Force is set.
func (b *SimulatedBackend) RegisterChannel(name string, opts interfaces.ChannelOptions) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if c, ok := b.channels[name]; ok {
		if opts.Force {
			c.opts = opts
		}
		return nil
	}

	b.channels[name] = &SimulatedChannel{backend: b, name: name, opts: opts}
	b.commands = append(b.commands, Command{Op: OpRegister, Channel: name, Loop: opts.Loop})
	return nil
}

// ChannelDefined reports whether name is registered.
func (b *SimulatedBackend) ChannelDefined(name string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()

	_, ok := b.channels[name]
	return ok
}

// Channel returns the handle for name.
func (b *SimulatedBackend) Channel(name string) (interfaces.AVChannel, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	c, ok := b.channels[name]
	if !ok {
		return nil, false
	}
	return c, true
}

// AdvanceTime counts a clock tick.
func (b *SimulatedBackend) AdvanceTime() {
	b.mu.Lock()
	b.ticks++
	b.mu.Unlock()
}

// DrawPerVirt returns the simulated display density.
func (b *SimulatedBackend) DrawPerVirt() float64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.drawPerVirt
}

// SetDrawPerVirt sets the simulated display density.
func (b *SimulatedBackend) SetDrawPerVirt(v float64) {
	b.mu.Lock()
	b.drawPerVirt = v
	b.mu.Unlock()
}

// DeliverFrame makes frame the next decoded frame of channel.
func (b *SimulatedBackend) DeliverFrame(channel string, frame *video.Frame) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	c, ok := b.channels[channel]
	if !ok {
		return fmt.Errorf("%w: %s", ErrChannelNotDefined, channel)
	}
	c.pending = append(c.pending, frame)
	return nil
}

// StartExternally marks channel as playing without recording a command, as
// if a script had started it directly.
func (b *SimulatedBackend) StartExternally(channel string, sources ...string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	c, ok := b.channels[channel]
	if !ok {
		return fmt.Errorf("%w: %s", ErrChannelNotDefined, channel)
	}
	c.queue = append([]string(nil), sources...)
	c.playing = true
	return nil
}

// Finish ends playback on channel as if the queue ran out.
func (b *SimulatedBackend) Finish(channel string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if c, ok := b.channels[channel]; ok {
		c.queue = nil
		c.playing = false
		c.pending = nil
	}
}

// Commands returns a copy of the recorded commands.
func (b *SimulatedBackend) Commands() []Command {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]Command(nil), b.commands...)
}

// CommandsFor returns the recorded commands with the given operation.
func (b *SimulatedBackend) CommandsFor(op string) []Command {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var out []Command
	for _, c := range b.commands {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

// ResetCommands forgets the recorded commands.
func (b *SimulatedBackend) ResetCommands() {
	b.mu.Lock()
	b.commands = nil
	b.mu.Unlock()
}

// Ticks returns how many times AdvanceTime was called.
func (b *SimulatedBackend) Ticks() uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.ticks
}

// ChannelOptions returns the options a channel was registered with.
func (b *SimulatedBackend) ChannelOptions(name string) (interfaces.ChannelOptions, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	c, ok := b.channels[name]
	if !ok {
		return interfaces.ChannelOptions{}, false
	}
	return c.opts, true
}

// Queue returns what the channel is playing.
func (b *SimulatedBackend) Queue(name string) []string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	c, ok := b.channels[name]
	if !ok {
		return nil
	}
	return append([]string(nil), c.queue...)
}

// ReadVideo returns the newest pending frame and drops older ones.
func (c *SimulatedChannel) ReadVideo() *video.Frame {
	c.backend.mu.Lock()
	defer c.backend.mu.Unlock()

	if len(c.pending) == 0 {
		return nil
	}
	frame := c.pending[len(c.pending)-1]
	c.pending = nil
	return frame
}

// VideoReady reports whether a frame is pending.
func (c *SimulatedChannel) VideoReady() bool {
	c.backend.mu.RLock()
	defer c.backend.mu.RUnlock()
	return len(c.pending) > 0
}

// Name returns the channel name.
func (c *SimulatedChannel) Name() string {
	return c.name
}
