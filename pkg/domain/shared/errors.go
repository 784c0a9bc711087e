// Package shared provides domain types and errors used across all domains.
package shared

import (
	"errors"
	"fmt"
)

// Domain errors.
var (
	// ErrAccessDenied means the principal has no membership at all in the
	// tenant (or project) being accessed.
	ErrAccessDenied = errors.New("access denied")

	// ErrInsufficientPermission means a membership exists but its role or
	// capabilities do not allow the operation.
	ErrInsufficientPermission = errors.New("insufficient permission")

	// ErrNotFound means the tenant, project, or principal does not exist.
	ErrNotFound = errors.New("not found")

	// ErrCircularReporting means a cycle was detected in the reports-to
	// graph during traversal. The org data is inconsistent; the read is
	// aborted rather than returning a silently incomplete tree.
	ErrCircularReporting = errors.New("circular reporting relation")

	// ErrInvalidRelation means a manager or subordinate reference does not
	// resolve to a valid project member.
	ErrInvalidRelation = errors.New("invalid reporting relation")

	ErrValidation = errors.New("validation error")
	ErrConflict   = errors.New("conflict")
	ErrInternal   = errors.New("internal error")
)

// DomainError carries a machine-readable code alongside a message.
type DomainError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new DomainError.
func NewDomainError(code, message string, err error) *DomainError {
	return &DomainError{Code: code, Message: message, Err: err}
}

// IsNotFound checks if the error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAccessDenied checks if the error is an access denied error.
func IsAccessDenied(err error) bool {
	return errors.Is(err, ErrAccessDenied)
}

// IsInsufficientPermission checks if the error is a permission error.
func IsInsufficientPermission(err error) bool {
	return errors.Is(err, ErrInsufficientPermission)
}

// IsCircularReporting checks if the error is a reporting-cycle error.
func IsCircularReporting(err error) bool {
	return errors.Is(err, ErrCircularReporting)
}

// IsValidation checks if the error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}
