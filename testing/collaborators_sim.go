package testing

import (
	"image"
	"image/color"
	"sync"
	"time"

	"github.com/opd-ai/moviesync/video"
)

// MemoryLoader is a Loader over a fixed set of names.
type MemoryLoader struct {
	mu    sync.RWMutex
	names map[string]bool
}

// NewMemoryLoader creates a loader that finds names in any directory.
func NewMemoryLoader(names ...string) *MemoryLoader {
	l := &MemoryLoader{names: make(map[string]bool)}
	for _, n := range names {
		l.names[n] = true
	}
	return l
}

// Add makes names loadable.
func (l *MemoryLoader) Add(names ...string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, n := range names {
		l.names[n] = true
	}
}

// Remove makes names unloadable.
func (l *MemoryLoader) Remove(names ...string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, n := range names {
		delete(l.names, n)
	}
}

// Loadable reports whether name, or directory/name, was added.
func (l *MemoryLoader) Loadable(name, directory string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.names[name] || l.names[directory+"/"+name]
}

// RedrawRequest is one recorded redraw request.
type RedrawRequest struct {
	Target any
	Delay  time.Duration
}

// RecordingScheduler records redraw requests.
type RecordingScheduler struct {
	mu       sync.Mutex
	requests []RedrawRequest
}

// NewRecordingScheduler creates an empty scheduler.
func NewRecordingScheduler() *RecordingScheduler {
	return &RecordingScheduler{}
}

// Redraw records the request.
func (s *RecordingScheduler) Redraw(target any, delay time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, RedrawRequest{Target: target, Delay: delay})
}

// Requests returns a copy of the recorded requests.
func (s *RecordingScheduler) Requests() []RedrawRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]RedrawRequest(nil), s.requests...)
}

// RequestsFor returns the requests recorded for target.
func (s *RecordingScheduler) RequestsFor(target any) []RedrawRequest {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []RedrawRequest
	for _, r := range s.requests {
		if r.Target == target {
			out = append(out, r)
		}
	}
	return out
}

// Reset forgets the recorded requests.
func (s *RecordingScheduler) Reset() {
	s.mu.Lock()
	s.requests = nil
	s.mu.Unlock()
}

// SolidImage is a Displayable of a fixed size and color.
type SolidImage struct {
	Width  int
	Height int
	Color  color.NRGBA

	mu      sync.Mutex
	renders int
}

// NewSolidImage creates a solid image.
func NewSolidImage(width, height int, c color.NRGBA) *SolidImage {
	return &SolidImage{Width: width, Height: height, Color: c}
}

// Render returns a render holding a texture of the image's color.
func (s *SolidImage) Render(width, height int, st, at time.Duration) *video.Render {
	s.mu.Lock()
	s.renders++
	s.mu.Unlock()

	rv := video.NewRender(s.Width, s.Height)
	tex := video.NewSoftwareRenderer().LoadTexture(video.NewSolidFrame(s.Width, s.Height, s.Color), false)
	rv.Blit(tex, image.Point{})
	return rv
}

// Renders returns how many times Render was called.
func (s *SolidImage) Renders() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.renders
}
