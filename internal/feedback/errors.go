package feedback

import "errors"

var (
	// ErrInvalidArgument rejects malformed metric values before any mutation.
	ErrInvalidArgument = errors.New("feedback: invalid argument")
	// ErrTransient marks a persistence failure the caller may retry.
	ErrTransient = errors.New("feedback: transient persistence failure")
)
