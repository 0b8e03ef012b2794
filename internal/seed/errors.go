package seed

import "errors"

// Sentinel error kinds for this package.
var (
	ErrInvalidDays = errors.New("days must be between 1 and 84")
)
