package apperr

import (
	"errors"
	"fmt"
)

// FetchError reports a failed outbound request after the fetcher gave up.
type FetchError struct {
	URL              string
	Status           int
	RetriesExhausted bool
	Err              error
}

func (e *FetchError) Error() string {
	if e.RetriesExhausted {
		return fmt.Sprintf("fetch %s: status %d after exhausting retries", e.URL, e.Status)
	}
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("fetch %s: status %d", e.URL, e.Status)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is a FetchError for a 404 response.
func IsNotFound(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.Status == 404
}

// MalformedURLError reports a document URL that does not match the
// source's addressing scheme.
type MalformedURLError struct {
	URL    string
	Reason string
}

func (e *MalformedURLError) Error() string {
	return fmt.Sprintf("malformed url %s: %s", e.URL, e.Reason)
}

// ExtractError reports content that could not be parsed into a document.
type ExtractError struct {
	Message string
	Err     error
}

func (e *ExtractError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ExtractError) Unwrap() error {
	return e.Err
}

func NewExtract(msg string) *ExtractError {
	return &ExtractError{Message: msg}
}

func NewExtractWrap(msg string, err error) *ExtractError {
	return &ExtractError{Message: msg, Err: err}
}
