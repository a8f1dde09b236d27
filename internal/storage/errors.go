package storage

import "errors"

var (
	// ErrInvalidInput is returned when a caller passes a malformed record,
	// identifier, or field mapping.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnavailable is returned when a backing file cannot be read, parsed,
	// or written.
	ErrUnavailable = errors.New("storage unavailable")
	// ErrSkipWrite can be returned from a Modify callback to finish without
	// rewriting the file.
	ErrSkipWrite = errors.New("skip write")
)
