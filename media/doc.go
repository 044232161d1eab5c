// Package media resolves movie play sources before they reach the audio/video
// backend.
//
// A play source is either a single filename or an ordered list of alternate
// filenames. Single filenames may carry an oversampling modifier after an "@"
// marker:
//
//	launch.webm          played at its natural density
//	launch@2.webm        encoded at twice the logical pixel density
//	launch@2,1.5.webm    several comma-separated factors, the first one wins
//	<from 1.0>launch.webm  loader prefix, skipped before looking for the marker
//
// When automatic oversampling is enabled, the Resolver searches for the highest
// loadable "name@N.ext" variant that the display density warrants.
//
//	resolver := media.NewResolver(loader, display, media.DefaultDirectory, 4)
//	src, factor, err := resolver.Resolve(media.Path("launch.webm"), 0)
//	if err != nil {
//	    return fmt.Errorf("resolve movie: %w", err)
//	}
package media
