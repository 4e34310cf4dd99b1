package domain

import "errors"

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrVersionConflict is returned when a conditional save loses to a
// concurrent writer for the same session.
var ErrVersionConflict = errors.New("session version conflict")
