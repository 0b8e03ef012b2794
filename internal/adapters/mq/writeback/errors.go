package writeback

import "errors"

// Sentinel kinds for write-back errors.
var (
	ErrClosed = errors.New("writeback closed")
)
