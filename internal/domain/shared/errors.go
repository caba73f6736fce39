package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound = NewDomainError("NOT_FOUND", "Resource not found")

	// ErrInvalidArgument signals malformed or missing caller input, such as
	// explicitly supplied predecessor edges or a missing mandatory timestamp.
	ErrInvalidArgument = NewDomainError("INVALID_ARGUMENT", "Invalid input provided")

	// ErrInvalidStateTransition signals that an operation is not in the
	// required state for the requested action.
	ErrInvalidStateTransition = NewDomainError("INVALID_STATE_TRANSITION", "Operation not allowed in current state")

	// ErrOperationNotExecutable signals that subtype preconditions are unmet:
	// insufficient stock, wrong location, inconsistent inputs.
	ErrOperationNotExecutable = NewDomainError("OPERATION_NOT_EXECUTABLE", "Operation preconditions are not met")

	// ErrOperationIrreversible signals a reversal request on a type or
	// configuration that forbids it.
	ErrOperationIrreversible = NewDomainError("OPERATION_IRREVERSIBLE", "Operation cannot be reverted")
)
