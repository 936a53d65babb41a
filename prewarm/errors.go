package prewarm

import "errors"

var (
	// ErrRepositoryRequired is returned when no embedding repository is provided.
	ErrRepositoryRequired = errors.New("embedding repository is required")

	// ErrEmbedderRequired is returned when no embedder is provided.
	ErrEmbedderRequired = errors.New("embedder is required")

	// ErrModelRequired is returned when no embedding model name is provided.
	ErrModelRequired = errors.New("embedding model name is required")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	ErrInvalidBatchSize = errors.New("batch size must be greater than 0")

	// ErrModelMismatch is returned when the store holds vectors from a
	// different embedding model than the one being warmed with.
	ErrModelMismatch = errors.New("embedding model mismatch")
)
