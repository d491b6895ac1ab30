package ingestion

import "errors"

var (
	// ErrRepositoryRequired is returned when a log repository is not provided.
	ErrRepositoryRequired = errors.New("log repository required")

	// ErrIndexRequired is returned when a semantic index is not provided.
	ErrIndexRequired = errors.New("semantic index required")
)
