package errors

import "errors"

// Run-level errors. Any of these aborts the whole run.
var (
	ErrNoEndpoint    = errors.New("no reachable Immich endpoint")
	ErrAlbumNotFound = errors.New("album not found")
)

// Server/transport errors.
var (
	ErrAPIRequest  = errors.New("API request failed")
	ErrAPIResponse = errors.New("unexpected API response")
)
