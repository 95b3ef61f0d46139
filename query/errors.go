package query

import (
	"errors"
	"fmt"
)

var (
	// ErrExecutorRequired is returned when a plan executor is not provided.
	ErrExecutorRequired = errors.New("plan executor required")

	// ErrInvoiceRepositoryRequired is returned when an invoice repository is not provided.
	ErrInvoiceRepositoryRequired = errors.New("invoice repository required")

	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrCriteriaRequired is returned when a search is called with nil criteria.
	ErrCriteriaRequired = errors.New("search criteria required")
)

// InvalidDateFormatError reports a date filter that is not a valid ISO 8601
// calendar date (YYYY-MM-DD).
type InvalidDateFormatError struct {
	Field string
	Value string
}

func (e *InvalidDateFormatError) Error() string {
	return fmt.Sprintf("invalid date format for %s: %q (expected YYYY-MM-DD)", e.Field, e.Value)
}

// DatabaseQueryError wraps a storage failure with the operation that caused it.
type DatabaseQueryError struct {
	Op  string
	Err error
}

func (e *DatabaseQueryError) Error() string {
	return fmt.Sprintf("database query failed during %s: %v", e.Op, e.Err)
}

func (e *DatabaseQueryError) Unwrap() error {
	return e.Err
}
