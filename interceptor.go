package conduit

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
)

// AuthScheme is the literal scheme word expected in the Authorization
// header: "Authorization: Token <jwt>". This is an intentional deviation
// from the RFC Bearer scheme, kept for wire compatibility.
const AuthScheme = "Token"

const (
	// ReasonNoHeader is recorded when the request carried no Authorization
	// header at all.
	ReasonNoHeader = "no Authorization header"
	// ReasonBadHeader is recorded for a present but malformed header,
	// including any scheme other than AuthScheme.
	ReasonBadHeader = "invalid Authorization header"
	// ReasonInvalidToken is recorded when verification fails or the token
	// subject no longer exists. Expired, forged, and stale tokens are
	// deliberately indistinguishable to the caller.
	ReasonInvalidToken = "invalid token"
)

// AuthenticationResult is what a successful resolution attaches to the
// request: the raw token and the identity it resolved to. It lives for one
// request and is read back through RequireAuthentication or
// CurrentAuthentication.
type AuthenticationResult struct {
	Token    string
	Identity *User
}

type resolutionState int

const (
	resolutionAbsent resolutionState = iota
	resolutionInvalid
	resolutionResolved
)

// resolution is the tagged outcome of credential resolution. The
// enforcement policy is applied by the middleware wrappers, never in the
// resolver itself.
type resolution struct {
	state  resolutionState
	reason string
	result *AuthenticationResult
}

// AuthResolver turns an Authorization header into an identity. It performs
// one user-store lookup per request and holds no per-request state.
type AuthResolver struct {
	tokens *TokenService
	store  UserStore
	logger Logger
}

func NewAuthResolver(tokens *TokenService, store UserStore) *AuthResolver {
	return &AuthResolver{
		tokens: tokens,
		store:  store,
		logger: defLogger{},
	}
}

func (r *AuthResolver) WithLogger(logger Logger) *AuthResolver {
	if logger != nil {
		r.logger = logger
	}
	return r
}

// resolve walks the header through extraction, token validation, and the
// store lookup. A non-nil error is a store transport failure; every other
// failure is encoded in the returned tag.
func (r *AuthResolver) resolve(ctx context.Context, header string) (resolution, error) {
	if header == "" {
		return resolution{state: resolutionAbsent, reason: ReasonNoHeader}, nil
	}

	raw, ok := strings.CutPrefix(header, AuthScheme)
	if !ok {
		return resolution{state: resolutionInvalid, reason: ReasonBadHeader}, nil
	}

	token := strings.TrimSpace(raw)
	if token == "" {
		return resolution{state: resolutionInvalid, reason: ReasonBadHeader}, nil
	}

	claims, err := r.tokens.Validate(token)
	if err != nil {
		r.logger.Debug("auth resolution rejected token", "error", err)
		return resolution{state: resolutionInvalid, reason: ReasonInvalidToken}, nil
	}

	identity, err := r.store.GetByUsername(ctx, claims.Username())
	if err != nil {
		if goerrors.Is(err, ErrIdentityNotFound) {
			// Token subject deleted after issuance. Reported exactly like a
			// bad token so callers cannot probe for deleted accounts.
			return resolution{state: resolutionInvalid, reason: ReasonInvalidToken}, nil
		}
		return resolution{}, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to resolve token subject")
	}

	return resolution{
		state: resolutionResolved,
		result: &AuthenticationResult{
			Token:    token,
			Identity: identity,
		},
	}, nil
}

// Authenticated returns the mandatory-mode interception stage: requests
// without a resolved identity are rejected with 401 and a plain-text
// reason, short-circuiting the rest of the pipeline. Store transport
// failures surface as 500, never as 401.
func Authenticated(resolver *AuthResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := resolver.resolve(c.UserContext(), c.Get(fiber.HeaderAuthorization))
		if err != nil {
			resolver.logger.Error("auth resolution store failure", "error", err)
			return c.Status(fiber.StatusInternalServerError).SendString("Unexpected error happened.")
		}

		if res.state != resolutionResolved {
			return c.Status(fiber.StatusUnauthorized).SendString(res.reason)
		}

		c.Locals(authResultKey, res.result)
		return c.Next()
	}
}

// MaybeAuthenticated returns the permissive-mode interception stage: it
// never rejects. When resolution fails the request proceeds with no
// identity attached and the reason recorded for the extractors.
func MaybeAuthenticated(resolver *AuthResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := resolver.resolve(c.UserContext(), c.Get(fiber.HeaderAuthorization))
		if err != nil {
			resolver.logger.Error("auth resolution store failure", "error", err)
			return c.Status(fiber.StatusInternalServerError).SendString("Unexpected error happened.")
		}

		if res.state == resolutionResolved {
			c.Locals(authResultKey, res.result)
		} else {
			c.Locals(authReasonKey, res.reason)
		}

		return c.Next()
	}
}
