package conduit_test

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	conduit "github.com/goliatone/go-conduit"
)

// newInterceptorApp builds a fiber app with one mandatory and one
// permissive endpoint sharing a resolver over the given store.
func newInterceptorApp(store conduit.UserStore, tokens *conduit.TokenService) *fiber.App {
	resolver := conduit.NewAuthResolver(tokens, store)

	app := fiber.New()

	app.Get("/private", conduit.Authenticated(resolver), func(c *fiber.Ctx) error {
		auth, err := conduit.RequireAuthentication(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).SendString(err.Error())
		}
		return c.SendString(auth.Identity.Username)
	})

	app.Get("/public", conduit.MaybeAuthenticated(resolver), func(c *fiber.Ctx) error {
		if auth, ok := conduit.CurrentAuthentication(c); ok {
			return c.SendString("hello " + auth.Identity.Username)
		}
		return c.SendString("hello stranger")
	})

	return app
}

func issueFor(t *testing.T, tokens *conduit.TokenService, username string) string {
	t.Helper()
	token, err := tokens.Issue(mustUsername(t, username))
	require.NoError(t, err)
	return token
}

func doRequest(t *testing.T, app *fiber.App, method, target, authHeader string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, string(body)
}

func TestInterceptorMandatoryMode(t *testing.T) {
	tokens := newTestTokenService("interceptor-secret")
	jack := &conduit.User{Username: "jack", Email: "jake@jake.com"}

	t.Run("no header is rejected", func(t *testing.T) {
		store := &MockUserStore{}
		app := newInterceptorApp(store, tokens)

		status, body := doRequest(t, app, http.MethodGet, "/private", "")
		assert.Equal(t, fiber.StatusUnauthorized, status)
		assert.Equal(t, conduit.ReasonNoHeader, body)
		store.AssertNotCalled(t, "GetByUsername", mock.Anything, mock.Anything)
	})

	t.Run("bearer scheme is rejected", func(t *testing.T) {
		store := &MockUserStore{}
		app := newInterceptorApp(store, tokens)

		token := issueFor(t, tokens, "jack")
		status, body := doRequest(t, app, http.MethodGet, "/private", "Bearer "+token)
		assert.Equal(t, fiber.StatusUnauthorized, status)
		assert.Equal(t, conduit.ReasonBadHeader, body)
	})

	t.Run("garbled token is rejected", func(t *testing.T) {
		store := &MockUserStore{}
		app := newInterceptorApp(store, tokens)

		status, body := doRequest(t, app, http.MethodGet, "/private", "Token garbage")
		assert.Equal(t, fiber.StatusUnauthorized, status)
		assert.Equal(t, conduit.ReasonInvalidToken, body)
	})

	t.Run("token signed with another secret is rejected", func(t *testing.T) {
		store := &MockUserStore{}
		app := newInterceptorApp(store, tokens)

		forged := issueFor(t, newTestTokenService("other-secret"), "jack")
		status, _ := doRequest(t, app, http.MethodGet, "/private", "Token "+forged)
		assert.Equal(t, fiber.StatusUnauthorized, status)
	})

	t.Run("valid token for deleted user yields 401 not 500", func(t *testing.T) {
		store := &MockUserStore{}
		store.On("GetByUsername", mock.Anything, "jack").Return(nil, conduit.ErrIdentityNotFound)
		app := newInterceptorApp(store, tokens)

		token := issueFor(t, tokens, "jack")
		status, body := doRequest(t, app, http.MethodGet, "/private", "Token "+token)
		assert.Equal(t, fiber.StatusUnauthorized, status)
		assert.Equal(t, conduit.ReasonInvalidToken, body)
		store.AssertExpectations(t)
	})

	t.Run("store transport failure yields 500", func(t *testing.T) {
		store := &MockUserStore{}
		store.On("GetByUsername", mock.Anything, "jack").Return(nil, errors.New("connection refused"))
		app := newInterceptorApp(store, tokens)

		token := issueFor(t, tokens, "jack")
		status, _ := doRequest(t, app, http.MethodGet, "/private", "Token "+token)
		assert.Equal(t, fiber.StatusInternalServerError, status)
	})

	t.Run("valid token resolves the identity", func(t *testing.T) {
		store := &MockUserStore{}
		store.On("GetByUsername", mock.Anything, "jack").Return(jack, nil)
		app := newInterceptorApp(store, tokens)

		token := issueFor(t, tokens, "jack")
		status, body := doRequest(t, app, http.MethodGet, "/private", "Token "+token)
		assert.Equal(t, fiber.StatusOK, status)
		assert.Equal(t, "jack", body)
	})

	t.Run("scheme is whitespace tolerant after the scheme word", func(t *testing.T) {
		store := &MockUserStore{}
		store.On("GetByUsername", mock.Anything, "jack").Return(jack, nil)
		app := newInterceptorApp(store, tokens)

		token := issueFor(t, tokens, "jack")
		status, _ := doRequest(t, app, http.MethodGet, "/private", "Token   "+token)
		assert.Equal(t, fiber.StatusOK, status)
	})
}

func TestInterceptorPermissiveMode(t *testing.T) {
	tokens := newTestTokenService("interceptor-secret")
	jack := &conduit.User{Username: "jack", Email: "jake@jake.com"}

	t.Run("no header proceeds without identity", func(t *testing.T) {
		store := &MockUserStore{}
		app := newInterceptorApp(store, tokens)

		status, body := doRequest(t, app, http.MethodGet, "/public", "")
		assert.Equal(t, fiber.StatusOK, status)
		assert.Equal(t, "hello stranger", body)
	})

	t.Run("invalid token proceeds without identity", func(t *testing.T) {
		store := &MockUserStore{}
		app := newInterceptorApp(store, tokens)

		status, body := doRequest(t, app, http.MethodGet, "/public", "Token garbage")
		assert.Equal(t, fiber.StatusOK, status)
		assert.Equal(t, "hello stranger", body)
	})

	t.Run("deleted user proceeds without identity", func(t *testing.T) {
		store := &MockUserStore{}
		store.On("GetByUsername", mock.Anything, "jack").Return(nil, conduit.ErrIdentityNotFound)
		app := newInterceptorApp(store, tokens)

		token := issueFor(t, tokens, "jack")
		status, body := doRequest(t, app, http.MethodGet, "/public", "Token "+token)
		assert.Equal(t, fiber.StatusOK, status)
		assert.Equal(t, "hello stranger", body)
	})

	t.Run("valid token attaches identity", func(t *testing.T) {
		store := &MockUserStore{}
		store.On("GetByUsername", mock.Anything, "jack").Return(jack, nil)
		app := newInterceptorApp(store, tokens)

		token := issueFor(t, tokens, "jack")
		status, body := doRequest(t, app, http.MethodGet, "/public", "Token "+token)
		assert.Equal(t, fiber.StatusOK, status)
		assert.Equal(t, "hello jack", body)
	})
}
