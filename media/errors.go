package media

import "errors"

// ErrUnknownModifier indicates a token after the "@" marker of a filename that
// is not a usable oversampling factor. It signals a content authoring mistake.
var ErrUnknownModifier = errors.New("unknown movie modifier")
