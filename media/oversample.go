package media

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/opd-ai/moviesync/interfaces"
	"github.com/sirupsen/logrus"
)

// Resolver derives the filename actually played and the effective
// oversampling factor for a play source.
type Resolver struct {
	loader    interfaces.Loader
	display   interfaces.DisplayScale
	directory string

	// maxOversample caps the automatic search. Zero disables it.
	maxOversample int
}

// NewResolver creates a resolver. A nil display or a maxOversample of zero
// disables the automatic search for oversampled variants.
func NewResolver(loader interfaces.Loader, display interfaces.DisplayScale, directory string, maxOversample int) *Resolver {
	if directory == "" {
		directory = DefaultDirectory
	}

	return &Resolver{
		loader:        loader,
		display:       display,
		directory:     directory,
		maxOversample: maxOversample,
	}
}

// Resolve returns the source to play and its oversampling factor.
//
// An explicit factor greater than zero is used verbatim and the source is
// returned unchanged. Alternate lists always play at factor 1. Single
// filenames go through FindOversampledFilename and then ParseFactor; the
// returned error wraps ErrUnknownModifier when the modifier is malformed.
func (r *Resolver) Resolve(src Source, explicit float64) (Source, float64, error) {
	if explicit > 0 {
		return src, explicit, nil
	}

	name, ok := src.Filename()
	if !ok {
		return src, 1, nil
	}

	name = r.FindOversampledFilename(name)

	factor, err := ParseFactor(name)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "Resolver.Resolve",
			"filename": name,
			"error":    err.Error(),
		}).Error("Malformed oversampling modifier")
		return Path(name), 1, err
	}

	return Path(name), factor, nil
}

// FindOversampledFilename searches for an oversampled variant of filename.
//
// The search only happens when the filename carries no "@" marker, automatic
// oversampling is enabled and the display draws more than one pixel per
// virtual pixel. Candidates run from MaxCandidate down to 2; the first
// loadable one wins. Otherwise filename is returned unchanged.
func (r *Resolver) FindOversampledFilename(filename string) string {
	if strings.Contains(filename, "@") || r.maxOversample <= 0 || r.display == nil {
		return filename
	}

	drawPerVirt := r.display.DrawPerVirt()
	if drawPerVirt <= 1.0 {
		return filename
	}

	limit := MaxCandidate(drawPerVirt, r.maxOversample)
	for i := limit; i > 1; i-- {
		candidate := OversampledName(filename, i)
		if AnyLoadable(r.loader, r.directory, Path(candidate)) {
			logrus.WithFields(logrus.Fields{
				"function":      "Resolver.FindOversampledFilename",
				"filename":      filename,
				"candidate":     candidate,
				"draw_per_virt": drawPerVirt,
			}).Debug("Found oversampled movie")
			return candidate
		}
	}

	return filename
}

// MaxCandidate returns the highest oversampling multiplier worth trying: the
// next power of two at or above drawPerVirt, capped at maxOversample.
func MaxCandidate(drawPerVirt float64, maxOversample int) int {
	n := int(math.Pow(2, math.Ceil(math.Log2(drawPerVirt))))
	if n > maxOversample {
		n = maxOversample
	}
	return n
}

// OversampledName builds "base@N<,extras>.ext" from filename, keeping any
// modifiers already present after an "@" as extras.
func OversampledName(filename string, n int) string {
	base, ext, hasExt := cutLast(filename, ".")
	if !hasExt {
		base = filename
	}

	base, extras, _ := strings.Cut(base, "@")
	if extras != "" {
		extras = "," + extras
	}

	if !hasExt {
		return fmt.Sprintf("%s@%d%s", base, n, extras)
	}
	return fmt.Sprintf("%s@%d%s.%s", base, n, extras, ext)
}

// ParseFactor extracts the oversampling factor from a filename.
//
// Filenames without "@" have factor 1. A leading "<...>" loader prefix is
// skipped. The modifier runs from the last "@" of the name (extension
// removed) to the next "/" or the end, and is split on commas. Every token
// must be a positive finite number; the first one is the factor.
func ParseFactor(filename string) (float64, error) {
	if !strings.Contains(filename, "@") {
		return 1, nil
	}

	name := filename
	if strings.HasPrefix(name, "<") {
		_, name, _ = strings.Cut(name, ">")
	}

	base, _, hasExt := cutLast(name, ".")
	if !hasExt {
		base = name
	}

	_, modifier, found := cutLast(base, "@")
	if !found {
		modifier = base
	}
	modifier, _, _ = strings.Cut(modifier, "/")

	factor := 0.0
	for _, token := range strings.Split(modifier, ",") {
		v, err := strconv.ParseFloat(token, 64)
		if err != nil || v <= 0 || math.IsInf(v, 0) || math.IsNaN(v) {
			return 1, fmt.Errorf("%w %q in %q", ErrUnknownModifier, token, filename)
		}
		if factor == 0 {
			factor = v
		}
	}

	return factor, nil
}

// cutLast slices s around the last instance of sep.
func cutLast(s, sep string) (before, after string, found bool) {
	if i := strings.LastIndex(s, sep); i >= 0 {
		return s[:i], s[i+len(sep):], true
	}
	return s, "", false
}
