package hig

import "errors"

var (
	ErrInvalidPlatform = errors.New("invalid platform")
	ErrInvalidCategory = errors.New("invalid category")
	ErrInvalidSection  = errors.New("invalid section")
	ErrNoContent       = errors.New("section has no content")
)
