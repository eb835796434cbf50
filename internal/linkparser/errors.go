package linkparser

import "errors"

var (
	// ErrUnknownBackend is returned by NewBackend for unregistered names.
	ErrUnknownBackend = errors.New("unknown parser backend")

	// ErrNoContent is returned by Backend.Parse when the page has no text.
	ErrNoContent = errors.New("page has no content")
)
