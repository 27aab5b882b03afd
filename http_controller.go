package conduit

import (
	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
)

// UserResponse is the envelope every user-facing endpoint returns:
// {"user": {...}}. Bio and image serialize as null until set.
type UserResponse struct {
	User UserResponseFields `json:"user"`
}

type UserResponseFields struct {
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Bio      *string `json:"bio"`
	Image    *string `json:"image"`
	Token    string  `json:"token"`
}

func NewUserResponse(user *User, token string) UserResponse {
	return UserResponse{
		User: UserResponseFields{
			Username: user.Username,
			Email:    user.Email,
			Bio:      user.Bio,
			Image:    user.Image,
			Token:    token,
		},
	}
}

// ProfileResponse is the {"profile": {...}} envelope. The following flag is
// only present when the request carried an identity.
type ProfileResponse struct {
	Profile ProfileResponseFields `json:"profile"`
}

type ProfileResponseFields struct {
	Username  string  `json:"username"`
	Bio       *string `json:"bio"`
	Image     *string `json:"image"`
	Following *bool   `json:"following,omitempty"`
}

func NewProfileResponse(user *User, following *bool) ProfileResponse {
	return ProfileResponse{
		Profile: ProfileResponseFields{
			Username:  user.Username,
			Bio:       user.Bio,
			Image:     user.Image,
			Following: following,
		},
	}
}

// ErrorResponse is the structured error body used for validation and
// not-found failures: {"errors":{"body":["<message>"]}}. Authentication
// failures deliberately use plain text instead.
type ErrorResponse struct {
	Errors ErrorBody `json:"errors"`
}

type ErrorBody struct {
	Body []string `json:"body"`
}

func NewErrorResponse(message string) ErrorResponse {
	return ErrorResponse{Errors: ErrorBody{Body: []string{message}}}
}

// RegisterPayload is the JSON body of POST /api/users.
type RegisterPayload struct {
	User RegisterFields `json:"user"`
}

type RegisterFields struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginPayload is the JSON body of POST /api/users/login.
type LoginPayload struct {
	User LoginFields `json:"user"`
}

type LoginFields struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdatePayload is the JSON body of PUT /api/user. Every field is optional;
// absent fields are left untouched.
type UpdatePayload struct {
	User UpdateFields `json:"user"`
}

type UpdateFields struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Bio      *string `json:"bio"`
	Image    *string `json:"image"`
}

// Controller holds the REST handlers for users, profiles, and follow
// relationships.
type Controller struct {
	users     Users
	followers Followers
	tokens    *TokenService
	logger    Logger
}

func NewController(users Users, followers Followers, tokens *TokenService) *Controller {
	return &Controller{
		users:     users,
		followers: followers,
		tokens:    tokens,
		logger:    defLogger{},
	}
}

func (ct *Controller) WithLogger(logger Logger) *Controller {
	if logger != nil {
		ct.logger = logger
	}
	return ct
}

// RegisterRoutes wires the API route table under /api. The resolver is
// attached per route: mandatory interception on identity-required
// endpoints, permissive on the public profile endpoint.
func (ct *Controller) RegisterRoutes(app *fiber.App, resolver *AuthResolver) {
	api := app.Group("/api")

	api.Get("/health_check", ct.HealthCheck)

	api.Post("/users", ct.Register)
	api.Post("/users/login", ct.Login)

	api.Get("/user", Authenticated(resolver), ct.CurrentUser)
	api.Put("/user", Authenticated(resolver), ct.UpdateUser)

	api.Get("/profiles/:username", MaybeAuthenticated(resolver), ct.GetProfile)
	api.Post("/profiles/:username/follow", Authenticated(resolver), ct.FollowUser)
	api.Delete("/profiles/:username/follow", Authenticated(resolver), ct.UnfollowUser)
}

// HealthCheck handles GET /api/health_check.
func (ct *Controller) HealthCheck(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusOK)
}

// Register handles POST /api/users. Returns 201 with a fresh token on
// success, 422 on any validation failure including username/email
// collisions.
func (ct *Controller) Register(c *fiber.Ctx) error {
	payload := new(RegisterPayload)
	if err := c.BodyParser(payload); err != nil {
		ct.logger.Debug("register parse payload", "error", err)
		return ct.renderError(c, validationError(err.Error()))
	}

	newUser, err := NewUserFromInput(payload.User.Username, payload.User.Email, payload.User.Password)
	if err != nil {
		return ct.renderError(c, err)
	}

	record := &User{
		Username:       newUser.Username.String(),
		Email:          newUser.Email.String(),
		PasswordDigest: newUser.Password.String(),
	}

	if _, err := ct.users.Register(c.UserContext(), record); err != nil {
		if IsUniqueViolation(err) {
			return ct.renderError(c, validationError(
				"Unable to create the user. The username or email might be already in use."))
		}
		ct.logger.Error("register store failure", "error", err)
		return ct.renderError(c, err)
	}

	token, err := ct.tokens.Issue(newUser.Username)
	if err != nil {
		ct.logger.Error("register token issuance failure", "error", err)
		return ct.renderError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(NewUserResponse(record, token))
}

// Login handles POST /api/users/login. Wrong email and wrong password are
// indistinguishable to the caller: both yield 403.
func (ct *Controller) Login(c *fiber.Ctx) error {
	payload := new(LoginPayload)
	if err := c.BodyParser(payload); err != nil {
		ct.logger.Debug("login parse payload", "error", err)
		return ct.renderError(c, validationError(err.Error()))
	}

	login, err := LoginUserFromInput(payload.User.Email, payload.User.Password)
	if err != nil {
		return ct.renderError(c, err)
	}

	record, err := ct.users.GetByEmail(c.UserContext(), login.Email.String())
	if err != nil {
		if goerrors.Is(err, ErrIdentityNotFound) {
			return ct.renderError(c, ErrIncorrectCredentials)
		}
		ct.logger.Error("login store failure", "error", err)
		return ct.renderError(c, err)
	}

	if !PasswordDigestFromStored(record.PasswordDigest).Matches(login.Password) {
		return ct.renderError(c, ErrIncorrectCredentials)
	}

	subject, err := ParseUsername(record.Username)
	if err != nil {
		ct.logger.Error("login stored username fails validation", "username", record.Username)
		return ct.renderError(c, err)
	}

	token, err := ct.tokens.Issue(subject)
	if err != nil {
		ct.logger.Error("login token issuance failure", "error", err)
		return ct.renderError(c, err)
	}

	return c.JSON(NewUserResponse(record, token))
}

// CurrentUser handles GET /api/user, echoing back the token the request
// authenticated with.
func (ct *Controller) CurrentUser(c *fiber.Ctx) error {
	auth, err := RequireAuthentication(c)
	if err != nil {
		return ct.renderError(c, err)
	}

	return c.JSON(NewUserResponse(auth.Identity, auth.Token))
}

// UpdateUser handles PUT /api/user. A fresh token is issued because the
// username, the token subject, may have changed.
func (ct *Controller) UpdateUser(c *fiber.Ctx) error {
	auth, err := RequireAuthentication(c)
	if err != nil {
		return ct.renderError(c, err)
	}

	payload := new(UpdatePayload)
	if err := c.BodyParser(payload); err != nil {
		ct.logger.Debug("update parse payload", "error", err)
		return ct.renderError(c, validationError(err.Error()))
	}

	update, err := UpdateUserFromInput(UpdateUserInput{
		Username: payload.User.Username,
		Email:    payload.User.Email,
		Password: payload.User.Password,
		Bio:      payload.User.Bio,
		Image:    payload.User.Image,
	})
	if err != nil {
		return ct.renderError(c, err)
	}

	if update.IsEmpty() {
		return ct.renderError(c, validationError("No update provided!"))
	}

	record, err := ct.users.UpdateProfile(c.UserContext(), auth.Identity.Username, update)
	if err != nil {
		if IsUniqueViolation(err) {
			return ct.renderError(c, validationError(
				"Unable to update the user. The username or email might be already in use."))
		}
		ct.logger.Error("update store failure", "error", err)
		return ct.renderError(c, err)
	}

	subject, err := ParseUsername(record.Username)
	if err != nil {
		return ct.renderError(c, err)
	}

	token, err := ct.tokens.Issue(subject)
	if err != nil {
		ct.logger.Error("update token issuance failure", "error", err)
		return ct.renderError(c, err)
	}

	return c.JSON(NewUserResponse(record, token))
}

// GetProfile handles GET /api/profiles/:username. The following flag only
// appears when the request resolved an identity.
func (ct *Controller) GetProfile(c *fiber.Ctx) error {
	username := c.Params("username")

	profile, err := ct.users.GetByUsername(c.UserContext(), username)
	if err != nil {
		return ct.renderProfileLookupError(c, err)
	}

	var following *bool
	if auth, ok := CurrentAuthentication(c); ok {
		follows, err := ct.followers.IsFollowing(c.UserContext(), auth.Identity.Username, profile.Username)
		if err != nil {
			ct.logger.Error("profile follow lookup failure", "error", err)
			return ct.renderError(c, err)
		}
		following = &follows
	}

	return c.JSON(NewProfileResponse(profile, following))
}

// FollowUser handles POST /api/profiles/:username/follow.
func (ct *Controller) FollowUser(c *fiber.Ctx) error {
	auth, err := RequireAuthentication(c)
	if err != nil {
		return ct.renderError(c, err)
	}

	username := c.Params("username")

	profile, err := ct.users.GetByUsername(c.UserContext(), username)
	if err != nil {
		return ct.renderProfileLookupError(c, err)
	}

	if profile.Username == auth.Identity.Username {
		return ct.renderError(c, validationError("Cannot follow yourself!"))
	}

	if err := ct.followers.Follow(c.UserContext(), auth.Identity.Username, profile.Username); err != nil {
		if IsUniqueViolation(err) {
			return ct.renderError(c, validationError(
				"Unable to follow. You might already follow this user."))
		}
		ct.logger.Error("follow store failure", "error", err)
		return ct.renderError(c, err)
	}

	following := true
	return c.JSON(NewProfileResponse(profile, &following))
}

// UnfollowUser handles DELETE /api/profiles/:username/follow. Unfollowing
// a user you do not follow is not an error.
func (ct *Controller) UnfollowUser(c *fiber.Ctx) error {
	auth, err := RequireAuthentication(c)
	if err != nil {
		return ct.renderError(c, err)
	}

	username := c.Params("username")

	profile, err := ct.users.GetByUsername(c.UserContext(), username)
	if err != nil {
		return ct.renderProfileLookupError(c, err)
	}

	if profile.Username == auth.Identity.Username {
		return ct.renderError(c, validationError("Cannot unfollow yourself!"))
	}

	if err := ct.followers.Unfollow(c.UserContext(), auth.Identity.Username, profile.Username); err != nil {
		ct.logger.Error("unfollow store failure", "error", err)
		return ct.renderError(c, err)
	}

	following := false
	return c.JSON(NewProfileResponse(profile, &following))
}

func (ct *Controller) renderProfileLookupError(c *fiber.Ctx, err error) error {
	if goerrors.Is(err, ErrIdentityNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(NewErrorResponse("User not found."))
	}
	ct.logger.Error("profile lookup failure", "error", err)
	return ct.renderError(c, err)
}

// renderError maps the error taxonomy onto the wire: validation failures
// get the structured 422 body, authentication failures get plain text, and
// everything unexpected collapses into an opaque 500.
func (ct *Controller) renderError(c *fiber.Ctx, err error) error {
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		return c.Status(fiber.StatusInternalServerError).SendString("Unexpected error happened.")
	}

	switch rich.Category {
	case goerrors.CategoryValidation, goerrors.CategoryBadInput:
		return c.Status(fiber.StatusUnprocessableEntity).JSON(NewErrorResponse(rich.Message))
	case goerrors.CategoryAuth:
		if rich.Code == goerrors.CodeForbidden {
			return c.Status(fiber.StatusForbidden).SendString(rich.Message)
		}
		return c.Status(fiber.StatusUnauthorized).SendString(rich.Message)
	case goerrors.CategoryNotFound:
		return c.Status(fiber.StatusNotFound).JSON(NewErrorResponse(rich.Message))
	default:
		return c.Status(fiber.StatusInternalServerError).SendString("Unexpected error happened.")
	}
}
