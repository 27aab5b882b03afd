// Package conduit implements a token-based authentication layer and the
// user/profile domain for a social-networking REST API.
//
// The package is organized around four pieces:
//
//   - Identity value objects (Username, EmailAddress, PasswordDigest) that
//     validate input at parse time, so only well-formed values reach storage.
//   - A TokenService that issues and validates HMAC-signed session tokens.
//   - An authentication interceptor that resolves the Authorization header
//     of an incoming request into an identity, with a mandatory and a
//     permissive enforcement mode sharing the same resolution logic.
//   - Context accessors that hand the resolved identity to route handlers.
//
// The HTTP surface (registration, login, user updates, profiles and follow
// relationships) lives in the Controller, wired together by App.
package conduit
