package auth

import "errors"

// ErrNotFound indicates the requested user record does not exist.
var ErrNotFound = errors.New("auth: not found")
