package catalog

import "errors"

// ErrTransport means the request did not reach the catalog or the catalog answered with non-success status
var ErrTransport = errors.New("catalog request failed")

// ErrNoResults is matched by NoResultsError
var ErrNoResults = errors.New("no results")

// ErrNotFound is returned when the requested movie does not exist
var ErrNotFound = errors.New("movie not found")

// NoResultsError is an explicit "nothing found" signal of the catalog payload
type NoResultsError struct {
	Message string
}

func (e *NoResultsError) Error() string {
	if e.Message == "" {
		return ErrNoResults.Error()
	}
	return e.Message
}

func (e *NoResultsError) Is(target error) bool {
	return target == ErrNoResults
}
