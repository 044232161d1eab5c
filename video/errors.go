package video

import "errors"

// Frame compositing errors.
var (
	// ErrNoBaseFrame indicates a mask was supplied without a frame to apply it to.
	ErrNoBaseFrame = errors.New("mask frame without base frame")

	// ErrNoMaskFrame indicates ApplyAlphaMask was called without a mask.
	ErrNoMaskFrame = errors.New("no mask frame")
)
