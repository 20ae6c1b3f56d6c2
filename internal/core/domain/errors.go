package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNoCredential indicates no usable API credential was available.
	// This is fatal: the run aborts before the pipeline starts.
	ErrNoCredential = errors.New("no usable credential")

	// ErrRetriesExhausted indicates a request kept failing until the retry
	// budget ran out.
	ErrRetriesExhausted = errors.New("retries exhausted")

	// ErrInvalidConfig indicates the run configuration is incomplete.
	ErrInvalidConfig = errors.New("invalid configuration")
)
