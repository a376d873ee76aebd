package analysis

import "errors"

// ErrEmptyInput is returned alongside the placeholder analysis when the prompt
// is empty or whitespace-only.
var ErrEmptyInput = errors.New("prompt is empty")

// ErrUnknownTone is returned by callers that validate a declared tone.
var ErrUnknownTone = errors.New("unknown tone")
