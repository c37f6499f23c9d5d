// Package api exposes the auth service over HTTP.
package api

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/kochabx/authkit/core/auth"
	"github.com/kochabx/authkit/core/validator"
	"github.com/kochabx/authkit/errors"
	"github.com/kochabx/authkit/log"
	middleware "github.com/kochabx/authkit/middleware/http"
)

// Prefix is the mount point of every route.
const Prefix = "/api/v0"

// ErrIncorrectCredentials replaces both unknown email and wrong password
// on sign-in so the response does not reveal which accounts exist.
var ErrIncorrectCredentials = errors.New(401, "incorrect_credentials", "incorrect email or password")

// Handler serves the auth and user routes.
type Handler struct {
	svc          *auth.Service
	validate     *validator.Validator
	logger       *log.Logger
	signInLimits middleware.RateLimiter
}

// Option configures a Handler.
type Option func(*Handler)

// WithValidator replaces validator.Validate.
func WithValidator(v *validator.Validator) Option {
	return func(h *Handler) {
		h.validate = v
	}
}

// WithLogger sets the handler logger. Defaults to log.G.
func WithLogger(logger *log.Logger) Option {
	return func(h *Handler) {
		h.logger = logger
	}
}

// WithSignInLimiter throttles sign-in attempts per client IP.
func WithSignInLimiter(l middleware.RateLimiter) Option {
	return func(h *Handler) {
		h.signInLimits = l
	}
}

// New creates a Handler over svc.
func New(svc *auth.Service, opts ...Option) *Handler {
	h := &Handler{
		svc:      svc,
		validate: validator.Validate,
		logger:   log.G,
	}
	for _, opt := range opts {
		opt(h)
	}
	h.logger = h.logger.Component("api")
	return h
}

// Register mounts the routes under Prefix.
func (h *Handler) Register(r gin.IRouter) {
	v0 := r.Group(Prefix)

	authn := middleware.Auth(middleware.AuthConfig{
		Authenticator: h.svc,
		Logger:        h.logger,
	})
	active := middleware.Require(middleware.Active)
	superuser := middleware.Require(middleware.Active, middleware.Superuser)

	signIn := []gin.HandlerFunc{h.signIn}
	if h.signInLimits != nil {
		limit := middleware.RateLimit(middleware.RateLimitConfig{Limiter: h.signInLimits, Logger: h.logger})
		signIn = append([]gin.HandlerFunc{limit}, signIn...)
	}

	a := v0.Group("/auth")
	a.POST("/sign-in", signIn...)
	a.POST("/refresh", h.refresh)
	a.POST("/logout", h.logout)
	a.POST("/logout-all", h.logoutAll)

	u := v0.Group("/users")
	u.POST("/open", h.register)
	u.GET("/me", authn, active, h.readMe)
	u.PUT("/me", authn, active, h.updateMe)
	u.GET("/:id", authn, active, h.readUser)
	u.GET("", authn, superuser, h.listUsers)
	u.POST("", authn, superuser, h.createUser)
	u.PUT("/:id", authn, superuser, h.updateUser)
	u.DELETE("/:id", authn, superuser, h.deleteUser)
}

// bind decodes the JSON body into obj and validates it.
func (h *Handler) bind(c *gin.Context, obj any) error {
	if err := c.ShouldBindWith(obj, binding.JSON); err != nil {
		return errors.BadRequest("malformed request body").WithCause(err)
	}
	if err := h.validate.StructCtx(c.Request.Context(), obj); err != nil {
		var ve *validator.Errors
		if errors.As(err, &ve) {
			meta := make(map[string]string, len(ve.Fields))
			for _, f := range ve.Fields {
				meta[f.Field] = f.Message
			}
			return errors.BadRequest("%s", ve.Error()).WithMetadata(meta)
		}
		return errors.BadRequest("invalid request").WithCause(err)
	}
	return nil
}

func pathID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.BadRequest("invalid user id %q", c.Param("id"))
	}
	return id, nil
}
