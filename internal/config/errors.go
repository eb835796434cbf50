package config

import "errors"

// Configuration validation errors returned by Config.Validate.
// Callers can match them with errors.Is.
var (
	// ErrInvalidTimeout is returned when the request timeout is negative.
	// Zero disables the timeout.
	ErrInvalidTimeout = errors.New("invalid request timeout: must be non-negative")

	// ErrInvalidMaxRedirects is returned when the redirect limit is negative.
	ErrInvalidMaxRedirects = errors.New("invalid max redirects: must be non-negative")

	// ErrInvalidConnectionLimit is returned when the per-host connection
	// limit is negative.
	ErrInvalidConnectionLimit = errors.New("invalid connection limit: must be non-negative")

	// ErrInvalidMaxPageSize is returned when the page size limit is negative.
	ErrInvalidMaxPageSize = errors.New("invalid max page size: must be non-negative")

	// ErrMissingLoginUser is returned when AlwaysLogin is enabled without
	// a login user.
	ErrMissingLoginUser = errors.New("always_login is enabled but login_user is empty")

	// ErrInvalidMemoryCacheTime is returned when the memory cache time is negative.
	ErrInvalidMemoryCacheTime = errors.New("invalid memory cache time: must be non-negative")

	// ErrEmptyCharsetAlias is returned when the alias table maps a charset
	// to an empty name.
	ErrEmptyCharsetAlias = errors.New("charset alias maps to an empty charset name")
)
