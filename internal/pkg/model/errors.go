package model

import "errors"

// Sentinel errors returned by this package.
var (
	ErrUnknownField   = errors.New("unknown field")
	ErrUnknownBase    = errors.New("unknown baseline mode")
	ErrMissingColumn  = errors.New("missing column")
	ErrMalformedValue = errors.New("malformed value")
)
