// Package testing provides in-memory collaborators for deterministic testing
// of the movie subsystem.
//
// # Overview
//
// SimulatedBackend stands in for the audio/video engine. It keeps named
// channels, records every play, stop and register command, and lets a test
// decide exactly when frames are decoded and when playback ends:
//
//	backend := testing.NewSimulatedBackend()
//	state, _ := movie.NewState(cfg, movie.Dependencies{Backend: backend, ...})
//
//	backend.DeliverFrame("sprite", video.NewSolidFrame(64, 64, red))
//	backend.Finish("sprite")
//
//	for _, cmd := range backend.Commands() {
//	    fmt.Println(cmd.Op, cmd.Channel, cmd.Sources)
//	}
//
// MemoryLoader, RecordingScheduler and SolidImage complete the set of
// collaborators from the interfaces package.
//
// # Simulation vs Real Implementation
//
// Nothing here decodes media. Frames are whatever the test hands in, and
// "playing" simply means a non-empty queue that has not been stopped or
// finished.
//
// # Thread Safety
//
// All types are safe for concurrent use, so a test may deliver frames from a
// goroutine standing in for a decoder thread.
package testing
