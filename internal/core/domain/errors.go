package domain

import "errors"

// ErrorKind is the machine-readable category of a domain error.
type ErrorKind string

const (
	KindNotFound        ErrorKind = "not_found"
	KindConflict        ErrorKind = "conflict"
	KindUnauthorized    ErrorKind = "unauthorized"
	KindForbidden       ErrorKind = "forbidden"
	KindInvalidState    ErrorKind = "invalid_state"
	KindExternalService ErrorKind = "external_service"
	KindValidation      ErrorKind = "validation"
)

// Error is a domain error tagged with a kind. Sentinels below are compared
// with errors.Is; callers wrap them with fmt.Errorf("...: %w", err).
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string { return e.Message }

func newError(kind ErrorKind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// NewValidationError builds an ad-hoc validation error for boundary checks.
func NewValidationError(msg string) error {
	return newError(KindValidation, msg)
}

// NewExternalError builds an ad-hoc external_service error.
func NewExternalError(msg string) error {
	return newError(KindExternalService, msg)
}

var (
	ErrUserNotFound        = newError(KindNotFound, "user not found")
	ErrCourseNotFound      = newError(KindNotFound, "course not found")
	ErrModuleNotFound      = newError(KindNotFound, "module not found in course")
	ErrEnrollmentNotFound  = newError(KindNotFound, "enrollment not found")
	ErrTransactionNotFound = newError(KindNotFound, "payment transaction not found")
	ErrCertificateNotFound = newError(KindNotFound, "certificate not found")

	ErrUserExists            = newError(KindConflict, "email already registered")
	ErrAlreadyEnrolled       = newError(KindConflict, "already enrolled in this course")
	ErrCertificateExists     = newError(KindConflict, "certificate already issued")
	ErrDuplicateTransaction  = newError(KindConflict, "payment session already recorded")
	ErrInvalidCredentials    = newError(KindUnauthorized, "invalid credentials")
	ErrForbidden             = newError(KindForbidden, "access forbidden")
	ErrEnrollmentIncomplete  = newError(KindInvalidState, "course not completed")
	ErrPaymentNotConfigured  = newError(KindExternalService, "payment service not configured")
	ErrTutorNotConfigured    = newError(KindExternalService, "AI service not configured")
	ErrInvalidRole           = newError(KindValidation, "invalid role")
	ErrInvalidCourseType     = newError(KindValidation, "invalid course type")
	ErrInvalidWebhookPayload = newError(KindValidation, "invalid webhook payload")
)

// KindOf returns the kind of the first domain error in err's chain, or "" if none.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}
