package engine

import (
	"errors"
	"fmt"
)

// RuntimeError represents an error detected while evaluating a pattern.
//
// Runtime errors include:
//   - Compile failure: a selected relation could not be rendered as SQL
//   - Query failure: the database rejected or aborted a statement
//   - Scan failure: a result row did not fit the relation's projection
//
// An unsatisfiable pattern is never a RuntimeError; it yields no triples.
type RuntimeError struct {
	// Code identifies the error category.
	Code RuntimeErrorCode

	// Message is a human-readable description.
	Message string

	// QueryID identifies the Find call the error belongs to.
	QueryID string

	// Relation is the index of the failing triple relation, or -1.
	Relation int

	// Err is the underlying cause.
	Err error
}

// RuntimeErrorCode categorizes runtime errors.
type RuntimeErrorCode string

const (
	// ErrCodeCompileFailed indicates a selected relation could not be compiled.
	ErrCodeCompileFailed RuntimeErrorCode = "COMPILE_FAILED"

	// ErrCodeQueryFailed indicates the database failed to run a statement.
	ErrCodeQueryFailed RuntimeErrorCode = "QUERY_FAILED"

	// ErrCodeScanFailed indicates a row could not be read into its projection.
	ErrCodeScanFailed RuntimeErrorCode = "SCAN_FAILED"
)

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	switch {
	case e.QueryID != "" && e.Relation >= 0:
		msg += fmt.Sprintf(" (query=%s, relation=%d)", e.QueryID, e.Relation)
	case e.QueryID != "":
		msg += fmt.Sprintf(" (query=%s)", e.QueryID)
	case e.Relation >= 0:
		msg += fmt.Sprintf(" (relation=%d)", e.Relation)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *RuntimeError) Unwrap() error {
	return e.Err
}

func hasCode(err error, code RuntimeErrorCode) bool {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Code == code
	}
	return false
}

// IsCompileError returns true if the error is a compile failure.
// Uses errors.As to handle wrapped errors.
func IsCompileError(err error) bool {
	return hasCode(err, ErrCodeCompileFailed)
}

// IsQueryError returns true if the error is a query failure.
func IsQueryError(err error) bool {
	return hasCode(err, ErrCodeQueryFailed)
}

// IsScanError returns true if the error is a scan failure.
func IsScanError(err error) bool {
	return hasCode(err, ErrCodeScanFailed)
}

// NewCompileError creates a RuntimeError for a relation that failed to compile.
func NewCompileError(queryID string, relation int, err error) *RuntimeError {
	return &RuntimeError{
		Code:     ErrCodeCompileFailed,
		Message:  "cannot compile selected relation",
		QueryID:  queryID,
		Relation: relation,
		Err:      err,
	}
}

// NewQueryError creates a RuntimeError for a failed statement.
func NewQueryError(queryID string, relation int, err error) *RuntimeError {
	return &RuntimeError{
		Code:     ErrCodeQueryFailed,
		Message:  "query failed",
		QueryID:  queryID,
		Relation: relation,
		Err:      err,
	}
}

// NewScanError creates a RuntimeError for a row that could not be read.
func NewScanError(queryID string, relation int, err error) *RuntimeError {
	return &RuntimeError{
		Code:     ErrCodeScanFailed,
		Message:  "cannot read result row",
		QueryID:  queryID,
		Relation: relation,
		Err:      err,
	}
}
