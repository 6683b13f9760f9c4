package echoapi

import (
	"net/http"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/edusuite/darasa/core"
	"github.com/edusuite/darasa/core/session"
	"github.com/edusuite/darasa/core/user"
)

const (
	contextTokenKey = "userToken"
	contextUserKey  = "user"
)

// newJWTConfig is the default JWT auth middleware config.
func newJWTConfig(conf *core.Config) middleware.JWTConfig {
	return middleware.JWTConfig{
		SigningKey:    conf.SecretKey,
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    contextTokenKey,
		Claims:        new(session.Claims),
	}
}

func getContextClaims(ctx echo.Context) (session.Claims, error) {
	if token, ok := ctx.Get(contextTokenKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*session.Claims); ok {
			return *claims, nil
		}
	}
	return session.Claims{}, errUnauthorized
}

func getContextUser(ctx echo.Context, svc user.Service, clms ...session.Claims) (user.User, error) {
	if usr, ok := ctx.Get(contextUserKey).(user.User); ok {
		return usr, nil
	}

	var claims session.Claims
	var err error
	if len(clms) > 0 {
		claims = clms[0]
	} else {
		claims, err = getContextClaims(ctx)
		if err != nil {
			return user.User{}, errors.Wrap(err, "getting context claims")
		}
	}

	usr, err := svc.GetByID(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return user.User{}, errors.Wrap(err, "finding user by ID")
	}
	ctx.Set(contextUserKey, usr)
	return usr, nil
}

// contextSession derives the session snapshot the access policy is evaluated
// against. Over HTTP there is no loading phase: restoration is the token
// lookup itself, so the session always arrives settled. A missing, invalid or
// expired token yields the unauthenticated session, never an error.
func contextSession(ctx echo.Context, conf *core.Config, svc user.Service) session.Session {
	var token string
	if auth := ctx.Request().Header.Get(echo.HeaderAuthorization); len(auth) > len("Bearer ") && auth[:len("Bearer ")] == "Bearer " {
		token = auth[len("Bearer "):]
	}
	if token == "" {
		return session.Session{}
	}

	claims, err := session.ParseToken(conf, token)
	if err != nil {
		return session.Session{}
	}
	usr, err := svc.GetByID(ctx.Request().Context(), claims.Subject)
	if err != nil || (usr.IsActive != nil && !*usr.IsActive) {
		return session.Session{}
	}
	ctx.Set(contextUserKey, usr)
	return session.Session{User: &usr, IsAuthenticated: true}
}

type authApi struct {
	conf     *core.Config
	svc      user.Service
	keeper   session.Keeper
	validate *validator.Validate
}

func registerAuthAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := authApi{
		conf:     deps.Conf,
		svc:      deps.UserSvc,
		keeper:   deps.Keeper,
		validate: deps.Validate,
	}

	ag := g.Group("/auth")

	// un-authed endpoints
	ag.POST("/login", api.login)
	ag.POST("/logout", api.logout)
	ag.POST("/password-reset", api.resetPassword)
	ag.POST("/password-reset-confirm", api.confirmPasswordReset)

	// authed endpoints
	tg := ag.Group("", jwt)
	tg.POST("/token-refresh", api.refreshToken)
}

func (api *authApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	reqCtx := ctx.Request().Context()
	usr, err := api.svc.Authenticate(reqCtx, data.Email, data.Password)
	if err != nil {
		switch errors.Cause(err) {
		case user.ErrAuthenticationFailed:
			return errAuthenticationFailed
		case user.ErrAccountDeactivated:
			return errAccountDeactivated
		}
		return errors.Wrap(err, "authenticating")
	}
	if usr, err = api.svc.SetLastLogin(reqCtx, usr); err != nil {
		return errors.Wrap(err, "setting lastLogin")
	}

	token, err := session.SignToken(api.conf, session.NewClaims(api.conf, usr))
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	// the durable session side channel; a failed save never fails the login
	if err = api.keeper.Save(reqCtx, token); err != nil {
		ctx.Logger().Errorf("%+v", errors.Wrap(err, "persisting session token"))
	}

	return ctx.JSON(http.StatusOK, LoginResponse{Token: token, User: usr})
}

// logout clears the persisted session token. Idempotent: logging out twice
// is not an error.
func (api *authApi) logout(ctx echo.Context) error {
	if err := api.keeper.Clear(ctx.Request().Context()); err != nil && errors.Cause(err) != session.ErrNoSession {
		ctx.Logger().Errorf("%+v", errors.Wrap(err, "clearing session token"))
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *authApi) refreshToken(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	usr, err := getContextUser(ctx, api.svc, claims)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	// check if user is still active
	if usr.IsActive != nil && !*usr.IsActive {
		return errAccountDeactivated
	}

	// check if refresh has not expired
	expTime := time.Unix(claims.OrigIssuedAt, 0).Add(api.conf.Server.JWTRefreshExpirationDelta)
	if time.Now().After(expTime) {
		return errRefreshExpired
	}

	newClaims := session.NewClaims(api.conf, usr, claims.OrigIssuedAt)
	token, err := session.SignToken(api.conf, newClaims)
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token, User: usr})
}

func (api *authApi) resetPassword(ctx echo.Context) error {
	var data PasswordResetRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to PasswordResetRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	if err := api.svc.RequestPasswordReset(ctx.Request().Context(), data.Email); !(err == nil || errors.Cause(err) == user.ErrNotFound) {
		// do not return errors to attackers
		ctx.Logger().Errorf("%+v", errors.Wrap(err, "requesting password reset"))
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{
		Success: "If the email address supplied is associated with an active account on this system, " +
			"an email will arrive in your inbox shortly with instructions to reset your password.",
	})
}

func (api *authApi) confirmPasswordReset(ctx echo.Context) error {
	var data user.ResetUserPassword
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ResetUserPassword")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	if err := api.svc.ResetPassword(ctx.Request().Context(), data); err != nil {
		return errors.Wrap(err, "resetting password")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "Password has been reset with the new password."})
}

type (
	LoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Token string    `json:"token"`
		User  user.User `json:"user"`
	}

	PasswordResetRequest struct {
		Email string `json:"email" validate:"required,email"`
	}

	SuccessResponse struct {
		Success string `json:"success"`
	}
)

func (lr *LoginRequest) Validate(validate *validator.Validate) error {
	lr.Email = core.CleanString(lr.Email, true /* lower */)
	return validate.Struct(lr)
}

func (pr *PasswordResetRequest) Validate(validate *validator.Validate) error {
	pr.Email = core.CleanString(pr.Email, true /* lower */)
	return validate.Struct(pr)
}
