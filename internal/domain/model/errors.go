package model

import "errors"

// Sentinel kinds for model errors.
var (
	ErrInvalidMark = errors.New("invalid completion mark")
)
