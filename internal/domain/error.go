package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound          = errors.New("entity not found")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrSourceUnavailable = errors.New("recall source unavailable")
	ErrMalformedResponse = errors.New("malformed recall source response")
	ErrChatAuth          = errors.New("chat credential rejected")
	ErrChatUnavailable   = errors.New("chat endpoint unavailable")
	ErrChatRejected      = errors.New("chat endpoint rejected message")
	ErrMarkerConflict    = errors.New("novelty marker changed concurrently")
	ErrRunInProgress     = errors.New("another poll run is in progress")
)

// Retryable reports whether err is a transient transport failure.
// Auth and rejection errors are never retryable.
func Retryable(err error) bool {
	return errors.Is(err, ErrSourceUnavailable) || errors.Is(err, ErrChatUnavailable)
}
