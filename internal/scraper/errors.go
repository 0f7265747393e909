package scraper

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidURL means the input failed validation; no request was made.
	ErrInvalidURL = errors.New("invalid IMDb title URL")

	// ErrNetwork covers connection, DNS and other transport failures.
	ErrNetwork = errors.New("network error")

	// ErrTimeout is reported when a fetch exceeds the configured timeout.
	ErrTimeout = errors.New("request timed out")

	// ErrUnknown covers fetch failures that fit no other classification.
	ErrUnknown = errors.New("unknown fetch error")

	// ErrParse means a numeric text could not be parsed.
	ErrParse = errors.New("unparseable number")

	// ErrDateParse means an air-date text did not match the expected format.
	ErrDateParse = errors.New("unparseable air date")

	// ErrExtraction means a required field was missing from an episode block.
	ErrExtraction = errors.New("required field missing")
)

// StatusError is a fetch that completed with a non-2xx response.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d fetching %s", e.Code, e.URL)
}

// IsFetchError reports whether err belongs to the fetch failure taxonomy.
func IsFetchError(err error) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) ||
		errors.Is(err, ErrNetwork) ||
		errors.Is(err, ErrTimeout) ||
		errors.Is(err, ErrUnknown)
}
