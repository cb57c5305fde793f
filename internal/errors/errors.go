package errors

import "fmt"

// ErrorCode represents a vvault error code.
type ErrorCode string

const (
	ErrStoreUnavailable ErrorCode = "STORE_UNAVAILABLE" // record store unreachable after retries
	ErrMalformedRecord  ErrorCode = "MALFORMED_RECORD"  // content fails to parse under its classified kind
	ErrNotFound         ErrorCode = "NOT_FOUND"
	ErrInvalidRequest   ErrorCode = "INVALID_REQUEST"
	ErrConflict         ErrorCode = "CONFLICT" // capsule changed between read and conditional write
	ErrValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrInternal         ErrorCode = "INTERNAL"
)

// VaultError represents a structured error with code, status, and details.
type VaultError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *VaultError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewStoreUnavailable creates a 503 error for record store connectivity failures.
func NewStoreUnavailable(op string, err error) *VaultError {
	msg := "record store unavailable"
	if err != nil {
		msg = err.Error()
	}
	return &VaultError{
		Code:    ErrStoreUnavailable,
		Status:  503,
		Message: msg,
		Details: map[string]any{"op": op},
	}
}

// NewMalformedRecord creates a 422 error for a record whose content fails
// to parse under its classified kind. Callers skip the record; the batch
// continues.
func NewMalformedRecord(recordID, canonicalPath string, err error) *VaultError {
	msg := "malformed record"
	if err != nil {
		msg = err.Error()
	}
	return &VaultError{
		Code:    ErrMalformedRecord,
		Status:  422,
		Message: msg,
		Details: map[string]any{"record_id": recordID, "canonical_path": canonicalPath},
	}
}

// NewNotFound creates a 404 error for a missing record or capsule.
func NewNotFound(identifier string) *VaultError {
	return &VaultError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("not found: %s", identifier),
		Details: map[string]any{"identifier": identifier},
	}
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *VaultError {
	return &VaultError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewConflict creates a 409 error for a lost conditional write.
func NewConflict(msg string) *VaultError {
	return &VaultError{
		Code:    ErrConflict,
		Status:  409,
		Message: msg,
	}
}

// NewValidationFailed creates a 422 error for an injection payload that
// must not be published.
func NewValidationFailed(entityID string, problems []string) *VaultError {
	return &VaultError{
		Code:    ErrValidationFailed,
		Status:  422,
		Message: fmt.Sprintf("injection payload failed validation for entity %q", entityID),
		Details: map[string]any{"entity_id": entityID, "problems": problems},
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *VaultError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &VaultError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
	}
}

// Is checks if an error is a VaultError with the given code.
func Is(err error, code ErrorCode) bool {
	if vErr, ok := err.(*VaultError); ok {
		return vErr.Code == code
	}
	return false
}
