package conduit

import (
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
)

var authResultKey = &contextKey{"authentication"}
var authReasonKey = &contextKey{"authentication_reason"}

type contextKey struct {
	name string
}

// RequireAuthentication reads the authentication result the interceptor
// attached to the request. It fails closed: when no identity was resolved
// it returns a 401-category error carrying the reason recorded by the
// interception stage. Compose it only with Authenticated routes, otherwise
// it degrades into always-reject.
func RequireAuthentication(c *fiber.Ctx) (*AuthenticationResult, error) {
	if result, ok := c.Locals(authResultKey).(*AuthenticationResult); ok && result != nil {
		return result, nil
	}

	reason, _ := c.Locals(authReasonKey).(string)
	if reason == "" {
		reason = ReasonNoHeader
	}

	return nil, errors.New(reason, errors.CategoryAuth).
		WithCode(errors.CodeUnauthorized).
		WithTextCode(ErrNoAuthentication.TextCode)
}

// CurrentAuthentication reads the same per-request state but tolerates
// absence. It never fails; the second return reports presence.
func CurrentAuthentication(c *fiber.Ctx) (*AuthenticationResult, bool) {
	result, ok := c.Locals(authResultKey).(*AuthenticationResult)
	if !ok || result == nil {
		return nil, false
	}
	return result, true
}
