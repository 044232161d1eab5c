package media

import (
	"regexp"
	"strings"

	"github.com/opd-ai/moviesync/interfaces"
)

// DefaultDirectory is the loader directory movie files are searched in.
const DefaultDirectory = "audio"

var loaderPrefix = regexp.MustCompile(`^<.*>(.*)$`)

// Source is a play source: a single filename, or an ordered list of alternate
// filenames handed to the backend as a queue. The zero value means no source.
type Source struct {
	paths     []string
	alternate bool
}

// Path returns a source made of a single filename.
func Path(name string) Source {
	return Source{paths: []string{name}}
}

// Alternates returns a source made of an ordered list of filenames.
func Alternates(names ...string) Source {
	if len(names) == 0 {
		return Source{}
	}
	return Source{paths: append([]string(nil), names...), alternate: true}
}

// IsZero reports whether the source names no file at all.
func (s Source) IsZero() bool {
	return len(s.paths) == 0
}

// Filename returns the filename of a single-path source.
// It returns false for alternate lists and for the zero source.
func (s Source) Filename() (string, bool) {
	if s.alternate || len(s.paths) != 1 {
		return "", false
	}
	return s.paths[0], true
}

// Paths returns a copy of the filenames in playback order.
func (s Source) Paths() []string {
	return append([]string(nil), s.paths...)
}

// Repeat returns an alternate list holding the source's paths n times.
func (s Source) Repeat(n int) Source {
	if n <= 1 {
		return s
	}
	paths := make([]string, 0, len(s.paths)*n)
	for i := 0; i < n; i++ {
		paths = append(paths, s.paths...)
	}
	return Source{paths: paths, alternate: true}
}

// Equal reports whether two sources name the same files in the same form.
func (s Source) Equal(other Source) bool {
	if s.alternate != other.alternate || len(s.paths) != len(other.paths) {
		return false
	}
	for i := range s.paths {
		if s.paths[i] != other.paths[i] {
			return false
		}
	}
	return true
}

func (s Source) String() string {
	if name, ok := s.Filename(); ok {
		return name
	}
	return "[" + strings.Join(s.paths, ", ") + "]"
}

// AnyLoadable reports whether a single-path source is loadable, or whether any
// path of an alternate list is. A "<...>" loader prefix on a single path is
// skipped before asking the loader.
func AnyLoadable(loader interfaces.Loader, directory string, src Source) bool {
	if loader == nil || src.IsZero() {
		return false
	}

	if name, ok := src.Filename(); ok {
		if m := loaderPrefix.FindStringSubmatch(name); m != nil {
			name = m[1]
		}
		return loader.Loadable(name, directory)
	}

	for _, name := range src.paths {
		if loader.Loadable(name, directory) {
			return true
		}
	}
	return false
}
