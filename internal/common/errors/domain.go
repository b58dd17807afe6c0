package commonerrors

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorCategory string

const (
	CategoryValidation ErrorCategory = "VALIDATION"
	CategoryAuth       ErrorCategory = "AUTH"
	CategoryNotFound   ErrorCategory = "NOT_FOUND"
	CategoryConflict   ErrorCategory = "CONFLICT"
	CategoryInternal   ErrorCategory = "INTERNAL"
)

// DomainError carries everything the HTTP layer needs to answer a failed
// operation: a stable code, a category, a status, and the client-facing
// message.
type DomainError interface {
	error
	Code() string
	Category() ErrorCategory
	HTTPStatus() int
	Message() string
	Unwrap() error
	WithCause(cause error) DomainError
}

type domainError struct {
	code     string
	category ErrorCategory
	status   int
	message  string
	cause    error
}

func (e *domainError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

func (e *domainError) Code() string { return e.code }

func (e *domainError) Category() ErrorCategory { return e.category }

func (e *domainError) HTTPStatus() int { return e.status }

func (e *domainError) Message() string { return e.message }

func (e *domainError) Unwrap() error { return e.cause }

func (e *domainError) WithCause(cause error) DomainError {
	return &domainError{
		code:     e.code,
		category: e.category,
		status:   e.status,
		message:  e.message,
		cause:    cause,
	}
}

func (e *domainError) Is(target error) bool {
	other, ok := target.(*domainError)
	return ok && other.code == e.code
}

func NewDomainError(code string, category ErrorCategory, status int, message string) DomainError {
	return &domainError{
		code:     code,
		category: category,
		status:   status,
		message:  message,
	}
}

func AsDomainError(err error) (DomainError, bool) {
	var de DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// NewValidationError wraps a dynamic message (typically from input
// validation) as a VALIDATION domain error.
func NewValidationError(message string) DomainError {
	return NewDomainError("INVALID_INPUT", CategoryValidation, http.StatusBadRequest, message)
}

var (
	// Authentication failures. Messages are part of the client contract.
	ErrNotLoggedIn = NewDomainError(
		"NOT_LOGGED_IN",
		CategoryAuth,
		http.StatusUnauthorized,
		"Not logged in",
	)

	ErrLoginRequired = NewDomainError(
		"LOGIN_REQUIRED",
		CategoryAuth,
		http.StatusUnauthorized,
		"You need to be logged in",
	)

	ErrIncorrectEmail = NewDomainError(
		"INCORRECT_EMAIL",
		CategoryAuth,
		http.StatusUnauthorized,
		"Incorrect email",
	)

	ErrIncorrectCredentials = NewDomainError(
		"INCORRECT_CREDENTIALS",
		CategoryAuth,
		http.StatusUnauthorized,
		"Incorrect credentials",
	)

	ErrUsernameTaken = NewDomainError(
		"USERNAME_TAKEN",
		CategoryConflict,
		http.StatusConflict,
		"username already taken",
	)

	ErrEmailTaken = NewDomainError(
		"EMAIL_TAKEN",
		CategoryConflict,
		http.StatusConflict,
		"email already registered",
	)

	ErrSelfFriend = NewDomainError(
		"SELF_FRIEND",
		CategoryValidation,
		http.StatusBadRequest,
		"you cannot add yourself as a friend",
	)

	ErrFriendNotFound = NewDomainError(
		"FRIEND_NOT_FOUND",
		CategoryNotFound,
		http.StatusNotFound,
		"friend not found",
	)

	ErrUnknownOperation = NewDomainError(
		"UNKNOWN_OPERATION",
		CategoryValidation,
		http.StatusBadRequest,
		"unknown operation",
	)

	ErrMissingRequiredEnv = NewDomainError(
		"MISSING_REQUIRED_ENV",
		CategoryValidation,
		http.StatusInternalServerError,
		"missing required environment variable",
	)

	ErrInvalidJWTSecret = NewDomainError(
		"INVALID_JWT_SECRET",
		CategoryValidation,
		http.StatusInternalServerError,
		"JWT_SECRET must be at least 32 bytes",
	)
)
