package access

import "errors"

var (
	ErrNotFound            = errors.New("access: not found")
	ErrUpstreamUnavailable = errors.New("access: upstream unavailable")
	ErrInvalidInput        = errors.New("access: invalid input")
)
