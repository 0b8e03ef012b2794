package api

import "errors"

// Sentinel kinds for API errors.
var (
	ErrBadRequest = errors.New("bad request")
	ErrBadPath    = errors.New("malformed path")
	ErrBadDate    = errors.New("invalid date; must be YYYY-MM-DD")
)
