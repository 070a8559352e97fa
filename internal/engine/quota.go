package engine

import (
	"errors"
	"fmt"
)

// TripleQuota counts the distinct triples one Find call delivers and
// enforces a maximum.
//
// Each Find call gets its own TripleQuota. Unlike WithLimit, which
// truncates the rows read per relation, the quota bounds the whole answer
// and fails instead of truncating.
type TripleQuota struct {
	max     int // Maximum allowed triples
	current int // Triples delivered so far
}

// NewTripleQuota creates a quota allowing at most max triples.
func NewTripleQuota(max int) *TripleQuota {
	return &TripleQuota{max: max}
}

// Check counts one more triple and validates against the limit.
//
// Returns TriplesExceededError once the count passes the maximum.
// Call it before delivering each triple.
func (q *TripleQuota) Check(queryID string) error {
	q.current++
	if q.current > q.max {
		return &TriplesExceededError{
			QueryID: queryID,
			Triples: q.current,
			Limit:   q.max,
		}
	}
	return nil
}

// Current returns the number of triples counted.
func (q *TripleQuota) Current() int {
	return q.current
}

// Max returns the limit.
func (q *TripleQuota) Max() int {
	return q.max
}

// TriplesExceededError is returned when a Find call produces more triples
// than its quota allows. Evaluation stops at the first triple over the limit.
type TriplesExceededError struct {
	QueryID string // The Find call that exceeded the quota
	Triples int    // Triples counted, including the rejected one
	Limit   int    // Maximum allowed triples
}

// Error implements the error interface.
func (e *TriplesExceededError) Error() string {
	return fmt.Sprintf("query %s exceeded max triples quota: %d triples > %d limit",
		e.QueryID, e.Triples, e.Limit)
}

// IsTriplesExceededError returns true if the error is a TriplesExceededError.
// Uses errors.As to handle wrapped errors.
func IsTriplesExceededError(err error) bool {
	var te *TriplesExceededError
	return errors.As(err, &te)
}
