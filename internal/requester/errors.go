package requester

import (
	"errors"
	"fmt"
)

var (
	// ErrNilConfig is returned by New when no configuration is given.
	ErrNilConfig = errors.New("requester: config must not be nil")

	// ErrNilURI is the panic value raised when a request is made without a URI.
	ErrNilURI = errors.New("requester: uri must not be nil")

	// ErrClosed is recorded in FetchResult.Err for requests made after Close.
	ErrClosed = errors.New("requester: closed")

	// ErrInvalidProxyAddress is returned when the proxy address is not "host:port".
	ErrInvalidProxyAddress = errors.New("invalid proxy address format: expected host:port")

	// ErrUnsupportedScheme is recorded when the URI scheme is neither http nor https.
	ErrUnsupportedScheme = errors.New("unsupported url scheme")
)

// StatusError is recorded in FetchResult.Err when strict status checking
// is enabled and the server answered with a non-2xx status.
type StatusError struct {
	StatusCode int
	Status     string
	URL        string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %q for %s", e.Status, e.URL)
}
