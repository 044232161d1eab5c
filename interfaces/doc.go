// Package interfaces defines the collaborators the movie subsystem drives but
// does not implement.
//
// This package provides the seams that let the same synchronization code run
// against a real audio/video engine or against the in-memory simulation in
// the testing package.
//
// # Core Interfaces
//
// [AVBackend] is the playback engine. It owns named channels, plays queues of
// files on them and hands out decoded frames through [AVChannel] handles:
//
//	if backend.IsPlaying("sprite") {
//	    ch, _ := backend.Channel("sprite")
//	    frame := ch.ReadVideo()
//	}
//
// [Loader] answers whether a file exists in the game's search path. It is
// consulted when validating play sources and when searching for oversampled
// variants.
//
// [TextureLoader], [RedrawScheduler], [DisplayScale] and [Displayable] are the
// rendering side: turning frames into textures, asking for a redraw, reporting
// display density, and rendering fallback images.
//
// # Threading
//
// Implementations may decode on their own goroutines, but every method here
// must return immediately with the current state. The movie package calls
// them only from the redraw/update goroutine.
package interfaces
