// Package moviesync plays movies in step with what a scene shows.
//
// Movies appear on screen through movie slots: displayables bound to a
// playback channel of an audio/video backend. Slots only record which
// channel they occupied while rendering; a synchronizer compares that with
// the previous redraws and issues the play and stop commands, so playback
// follows the scene without restarting movies that stay visible.
//
// This package wires the subsystems together. The packages underneath it
// can also be used on their own:
//
//   - movie: slots, the synchronizer, texture and group caches, the update driver
//   - media: play sources and oversampled filename resolution
//   - video: decoded frames, alpha masks, render trees, letterboxing
//   - config: settings, YAML loading and environment overrides
//   - loader: filesystem lookup of movie files
//   - metrics: Prometheus collectors
//   - testing: in-memory backend and collaborators for tests and demos
//
// # Getting Started
//
//	options := moviesync.NewOptions()
//	options.Backend = backend
//	options.Roots = []string{"game"}
//
//	sys, err := moviesync.New(options)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	opts := movie.DefaultSlotOptions()
//	opts.Play = media.Path("intro.webm")
//	slot, err := sys.State().NewSlot(opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	err = sys.Run(ctx, func(newFrame bool) {
//	    sys.Driver().EarlyInteract()
//	    slot.PerInteract()
//	    draw(slot.Render(width, height, st, at))
//	    sys.Driver().Interact()
//	})
//
// # Threading
//
// Run calls the redraw function and then the frequent update on the driver
// goroutine, once per tick. Everything that touches the movie state,
// rendering included, has to happen inside the redraw function. The loader
// watcher runs on its own goroutine and only touches the loader's cache.
package moviesync
