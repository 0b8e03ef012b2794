package service

import "errors"

// Sentinel kinds for controller errors.
var (
	ErrUnknownTask  = errors.New("unknown task")
	ErrNotCounter   = errors.New("task is not a counter")
	ErrInvalidCount = errors.New("counter value must not be negative")
	ErrNoTimer      = errors.New("task has no timer")
)
