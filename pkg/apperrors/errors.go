// Package apperrors defines sentinel errors shared across layers.
package apperrors

import "errors"

// ErrNotFound indicates a requested record does not exist.
var ErrNotFound = errors.New("not found")
