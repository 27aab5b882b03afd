package conduit

import (
	"strings"

	"github.com/goliatone/go-errors"
)

// ErrIdentityNotFound is returned when a token subject or a profile lookup
// resolves to no stored user.
var ErrIdentityNotFound = errors.New("identity not found", errors.CategoryNotFound).
	WithCode(errors.CodeNotFound).
	WithTextCode("IDENTITY_NOT_FOUND")

// ErrTokenExpired is returned by TokenService.Validate for tokens past
// their expiry. The interceptor treats it the same as ErrTokenMalformed.
var ErrTokenExpired = errors.New("token is expired", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode("TOKEN_EXPIRED")

// ErrTokenMalformed covers forged, garbled, or wrongly-signed tokens.
var ErrTokenMalformed = errors.New("token is malformed", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode("TOKEN_MALFORMED")

// ErrNoAuthentication is what RequireAuthentication returns when the
// interceptor attached no identity to the request.
var ErrNoAuthentication = errors.New("you're not authenticated", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode("NOT_AUTHENTICATED")

// ErrIncorrectCredentials hides whether the email or the password was wrong.
var ErrIncorrectCredentials = errors.New("Incorrect email or password.", errors.CategoryAuth).
	WithCode(errors.CodeForbidden).
	WithTextCode("INVALID_CREDS")

// ErrNoEmptyString rejects empty raw passwords before any digest is computed.
var ErrNoEmptyString = errors.New("A password cannot be empty.", errors.CategoryValidation).
	WithCode(errors.CodeBadRequest).
	WithTextCode("EMPTY_PASSWORD")

// validationError builds the 422-category error carrying the message that
// ends up in the {"errors":{"body":[...]}} response envelope.
func validationError(message string) *errors.Error {
	return errors.New(message, errors.CategoryValidation).
		WithCode(errors.CodeBadRequest).
		WithTextCode("VALIDATION")
}

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}

// IsUniqueViolation reports whether err comes from a unique constraint,
// which registration and follow creation surface as validation failures.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "duplicate key value")
}
