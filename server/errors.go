package server

import "errors"

var (
	// ErrUploaderRequired is returned when an uploader is not provided.
	ErrUploaderRequired = errors.New("uploader required")

	// ErrRecordsRequired is returned when a record reader is not provided.
	ErrRecordsRequired = errors.New("record reader required")

	// ErrChatterRequired is returned when a chat pipeline is not provided.
	ErrChatterRequired = errors.New("chat pipeline required")
)
