package timer

import "errors"

// Sentinel kinds for timer errors.
var (
	ErrUnknownToken    = errors.New("unknown timer token")
	ErrInvalidDuration = errors.New("timer duration must be positive")
)
