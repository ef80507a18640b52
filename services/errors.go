package services

// Error taxonomy surfaced to handlers. Not-found is always checked before
// authorization so a caller cannot probe for resource existence.

type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

func NewNotFoundError(message string) error { return &NotFoundError{Message: message} }

type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func NewValidationError(message string) error { return &ValidationError{Message: message} }

type AuthenticationError struct {
	Message string
}

func (e *AuthenticationError) Error() string { return e.Message }

func NewAuthenticationError(message string) error { return &AuthenticationError{Message: message} }

type AuthorizationError struct {
	Message string
}

func (e *AuthorizationError) Error() string { return e.Message }

func NewAuthorizationError(message string) error { return &AuthorizationError{Message: message} }

type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

func NewConflictError(message string) error { return &ConflictError{Message: message} }
