package core

import (
	"errors"
	"fmt"
)

// FetchError means the page could not be fetched at all.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("[ERROR] Failed to fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ExtractionError means an expected fragment or value is missing or malformed
// (possibly HTML changed).
type ExtractionError struct {
	Field string
	URL   string
	Err   error
}

func (e *ExtractionError) Error() string {
	if e.URL == "" {
		return fmt.Sprintf("[ERROR] Failed to extract %s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("[ERROR] Failed to extract %s from %s: %v", e.Field, e.URL, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// TerminationError means a paginated listing never showed the end marker.
type TerminationError struct {
	BaseURL string
	Pages   int
}

func (e *TerminationError) Error() string {
	return fmt.Sprintf(
		"[ERROR] No end of listing for %s after %d pages (possibly HTML changed)",
		e.BaseURL,
		e.Pages,
	)
}

// withURL attaches the page URL to an ExtractionError that has none.
func withURL(err error, url string) error {
	var ee *ExtractionError
	if errors.As(err, &ee) && ee.URL == "" {
		ee.URL = url
	}
	return err
}
