// Package errs defines the failure kinds shared by the Transkribus client,
// the METS helpers and the importer.
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrConfig marks missing or contradictory configuration.
	ErrConfig = errors.New("configuration error")
	// ErrAuth marks a rejected login.
	ErrAuth = errors.New("authentication failed")
	// ErrData marks an expected structural element that is absent.
	ErrData = errors.New("unexpected data")
	// ErrIO marks a missing target directory or a failed local write.
	ErrIO = errors.New("io error")
)

// APIError is a non-success response from the remote API.
type APIError struct {
	Op         string
	URL        string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s returned status %d: %s", e.Op, e.URL, e.StatusCode, e.Body)
}

// Config returns an error wrapping ErrConfig.
func Config(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConfig, fmt.Sprintf(format, args...))
}

// Data returns an error wrapping ErrData.
func Data(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrData, fmt.Sprintf(format, args...))
}

// IO returns an error wrapping ErrIO.
func IO(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrIO, fmt.Sprintf(format, args...))
}

// StatusCode reports the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}
