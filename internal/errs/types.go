package errs

type ErrorMessage struct {
	Message string
}

func (e *ErrorMessage) Error() string { return e.Message }

// ValidationError means client input was malformed. Fails the request before
// any I/O happens.
type ValidationError struct {
	ErrorMessage
}

// UnrecognizedPrefixError means a syntactically valid transaction id carries
// a routing prefix no registered bank owns (strict mode only).
type UnrecognizedPrefixError struct {
	ErrorMessage
	Prefix string
}

type NotFoundError struct {
	ErrorMessage
}

// DatabaseError wraps a persistence failure. The request cannot produce a
// durable record, so it is surfaced rather than absorbed.
type DatabaseError struct {
	ErrorMessage
	Operation string
}

// ExternalServiceError wraps a failure of an outside dependency. Transient
// marks timeouts and 5xx-style failures that a caller may retry.
type ExternalServiceError struct {
	ErrorMessage
	Service   string
	Transient bool
}

func NewValidationError(message string) *ValidationError {
	return &ValidationError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewUnrecognizedPrefixError(prefix string) *UnrecognizedPrefixError {
	return &UnrecognizedPrefixError{
		ErrorMessage: ErrorMessage{Message: "unrecognized transaction id prefix: " + prefix},
		Prefix:       prefix,
	}
}

func NewNotFoundError(message string) *NotFoundError {
	return &NotFoundError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewDatabaseError(operation, message string) *DatabaseError {
	return &DatabaseError{
		ErrorMessage: ErrorMessage{Message: message},
		Operation:    operation,
	}
}

func NewExternalServiceError(service, message string, transient bool) *ExternalServiceError {
	return &ExternalServiceError{
		ErrorMessage: ErrorMessage{Message: message},
		Service:      service,
		Transient:    transient,
	}
}
