package calendar

import "errors"

// Sentinel kinds for calendar errors.
var (
	ErrInvalidDate = errors.New("invalid calendar date")
)
