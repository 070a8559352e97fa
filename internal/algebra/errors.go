package algebra

import (
	"errors"
	"fmt"
)

// ContractError reports a caller bug detected by the algebra.
//
// Contract errors are raised with panic, never returned: correct callers
// never trigger them, so there is nothing to handle.
type ContractError struct {
	// Op is the operation whose precondition failed.
	Op string

	// Message is a human-readable description.
	Message string
}

// Error implements the error interface.
func (e *ContractError) Error() string {
	return fmt.Sprintf("algebra: %s: %s", e.Op, e.Message)
}

// IsContractError returns true if err is (or wraps) a ContractError.
func IsContractError(err error) bool {
	var ce *ContractError
	return errors.As(err, &ce)
}

func contractViolation(op, format string, args ...any) {
	panic(&ContractError{Op: op, Message: fmt.Sprintf(format, args...)})
}
