// Package movie keeps movie playback in step with what is on screen.
//
// A Slot is a displayable that shows whatever its channel is decoding. Slots
// never start playback while rendering; they only record that they occupied
// their channel. Once per redraw the State's synchronizer compares that
// occupancy with the previous two redraws and issues play and stop commands
// to the audio/video backend, so a slot that stays on screen keeps playing
// without restarts and a slot that disappears has its channel stopped once.
//
// # Redraw cycle
//
// The host drives a State through a Driver:
//
//	driver.EarlyInteract()
//	for _, s := range visible {
//	    s.PerInteract()
//	    draw(s.Render(width, height, st, at))
//	}
//	driver.Interact()
//	redraw, err := driver.Frequent()
//
// Driver.Run runs this cycle on a ticker: the host's RedrawFunc covers
// everything up to Interact, then Run calls Frequent on the same goroutine.
// State has no internal locking.
//
// # Textures and groups
//
// The last decoded frame of each channel is cached as a texture until the
// channel stops playing. Slots sharing a group also share their last frame,
// so a new slot in the group shows the previous movie's final frame until its
// own first frame arrives.
//
// # Identity
//
// Slots live in an arena owned by the State and are compared by SlotHandle.
// Two slots built from identical options are still different slots.
// Released slots stay addressable until no occupancy history refers to them.
package movie
