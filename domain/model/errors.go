package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrVideoNotFound is returned by a statistics lookup that came back without items,
// which happens for videos deleted or made private after they were listed.
var ErrVideoNotFound = errors.New("video not found")

// RemoteAPIError is a non-success HTTP status from the YouTube Data API
type RemoteAPIError struct {
	Endpoint   string // search | videos
	StatusCode int
	Message    string
}

func (e *RemoteAPIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("youtube %s request failed: status code = %d", e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("youtube %s request failed: status code = %d - %s", e.Endpoint, e.StatusCode, e.Message)
}

// TypeConversionError is a malformed numeric or date value met during transform
type TypeConversionError struct {
	Column  string
	Row     int
	VideoID string
	Value   string
	Err     error
}

func (e *TypeConversionError) Error() string {
	return fmt.Sprintf("convert column %s row %d (video %s) value %q: %v", e.Column, e.Row, e.VideoID, e.Value, e.Err)
}

func (e *TypeConversionError) Unwrap() error { return e.Err }

// ConfigurationError lists required settings that are missing
type ConfigurationError struct {
	Missing []string
}

func (e *ConfigurationError) Error() string {
	return "missing required configuration: " + strings.Join(e.Missing, ", ")
}

// PersistenceError is an I/O failure while reading or writing the dataset file
type PersistenceError struct {
	Path string
	Op   string // encode | write | commit | read | decode
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("dataset %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
