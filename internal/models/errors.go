package models

import "errors"

// Error classes surfaced by the search core
var (
	// ErrValidation marks malformed or out-of-range input; the caller can fix it
	ErrValidation = errors.New("invalid search input")
	// ErrTimeout marks a query that exceeded its budget; retry with narrower filters
	ErrTimeout = errors.New("query matched too much data or took too long, add more filters")
	// ErrQuery marks an unexpected registry failure
	ErrQuery = errors.New("registry query failed")
	// ErrNotFound marks a lookup that matched nothing
	ErrNotFound = errors.New("not found")
	// ErrCanceled marks a request abandoned by its caller before completion
	ErrCanceled = errors.New("request canceled by caller")
)
