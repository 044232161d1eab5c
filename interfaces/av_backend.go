package interfaces

import (
	"time"

	"github.com/opd-ai/moviesync/video"
)

// ChannelOptions describes how a playback channel is registered.
type ChannelOptions struct {
	// Mixer is the volume mixer the channel belongs to.
	Mixer string
	// Loop makes the channel loop its queue by default.
	Loop bool
	// StopOnMute stops playback when the mixer is muted.
	StopOnMute bool
	// Movie marks the channel as carrying video.
	Movie bool
	// FrameDrop lets the decoder drop late frames.
	FrameDrop bool
	// Force registers the channel even outside of init time.
	Force bool
}

// PlayOptions controls a play command.
type PlayOptions struct {
	Loop bool
	// SynchroStart delays the start until every synchro-start channel is ready.
	SynchroStart bool
}

// AVChannel is a handle to a backend playback channel.
type AVChannel interface {
	// ReadVideo returns the most recently decoded frame, or nil if no new
	// frame is available.
	ReadVideo() *video.Frame
	// VideoReady reports whether a decoded frame is waiting to be read.
	VideoReady() bool
}

// AVBackend is the audio/video playback system movies are played through.
//
// All methods are synchronous state reads or commands; none of them block on
// decoding. An undefined channel reads as not playing and not ready.
type AVBackend interface {
	// IsPlaying reports whether anything is queued or playing on channel.
	IsPlaying(channel string) bool
	// Play replaces the channel's queue with sources.
	Play(sources []string, channel string, opts PlayOptions) error
	// Stop stops the channel, fading out over fadeout.
	Stop(channel string, fadeout time.Duration) error
	// RegisterChannel creates a playback channel.
	RegisterChannel(name string, opts ChannelOptions) error
	// ChannelDefined reports whether name has been registered.
	ChannelDefined(name string) bool
	// Channel returns the handle for name.
	Channel(name string) (AVChannel, bool)
	// AdvanceTime moves the backend clock forward by one tick.
	AdvanceTime()
}

// Loader answers whether a file can be loaded.
type Loader interface {
	Loadable(name, directory string) bool
}

// DisplayScale reports the ratio of drawable pixels to virtual pixels.
type DisplayScale interface {
	DrawPerVirt() float64
}

// TextureLoader turns decoded frames into renderable textures.
type TextureLoader interface {
	LoadTexture(frame *video.Frame, mipmap bool) video.Texture
}

// RedrawScheduler asks the display framework to redraw target after delay.
type RedrawScheduler interface {
	Redraw(target any, delay time.Duration)
}

// Displayable is an image-like object a movie slot can show instead of video.
type Displayable interface {
	Render(width, height int, st, at time.Duration) *video.Render
}
