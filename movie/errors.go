package movie

import "errors"

// Construction errors.
var (
	// ErrNilBackend indicates NewState was given no audio/video backend.
	ErrNilBackend = errors.New("audio/video backend cannot be nil")

	// ErrNilTextureLoader indicates NewState was given no texture loader.
	ErrNilTextureLoader = errors.New("texture loader cannot be nil")
)

// Slot errors.
var (
	// ErrNilSlot indicates a play strategy was asked to start no slot.
	ErrNilSlot = errors.New("slot cannot be nil")

	// ErrSlotReleased indicates an operation on a slot that was released.
	ErrSlotReleased = errors.New("slot has been released")

	// ErrInvalidSize indicates a slot size that is neither zero nor
	// positive in both dimensions.
	ErrInvalidSize = errors.New("invalid slot size")

	// ErrInvalidChannel indicates a play command without a channel name.
	ErrInvalidChannel = errors.New("invalid channel name")

	// ErrChannelRegistration indicates the backend refused to register a
	// movie channel.
	ErrChannelRegistration = errors.New("movie channel registration failed")
)
