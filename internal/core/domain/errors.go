package domain

import "errors"

var (
	ErrValidation          = errors.New("validation failed")
	ErrEmailTaken          = errors.New("email is already registered")
	ErrRoleExists          = errors.New("a role with that name already exists")
	ErrRoleInUse           = errors.New("role is assigned to users")
	ErrRoleNotFound        = errors.New("role not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrEmprendedorNotFound = errors.New("emprendedor not found")
	ErrReviewNotFound      = errors.New("review not found")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrForbidden           = errors.New("access forbidden")
)

// ValidationError reports a rejected input field. It matches ErrValidation
// and, when set, the more specific cause in Err.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrValidation}
	}
	return []error{ErrValidation, e.Err}
}

// NewValidationError returns a ValidationError without a specific cause.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// IsNotFound reports whether err is one of the entity-not-found sentinels.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrRoleNotFound) ||
		errors.Is(err, ErrEmprendedorNotFound) ||
		errors.Is(err, ErrReviewNotFound)
}
