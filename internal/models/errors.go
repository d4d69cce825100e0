package models

import "errors"

// ErrInvalidConfig marks a malformed course or task definition. Callers abort on it.
var ErrInvalidConfig = errors.New("invalid configuration")
