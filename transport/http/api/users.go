package api

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kochabx/authkit/core/auth"
	"github.com/kochabx/authkit/core/user"
	"github.com/kochabx/authkit/errors"
	middleware "github.com/kochabx/authkit/middleware/http"
	"github.com/kochabx/authkit/transport/http/response"
)

// User is the public view of an account. The password hash never leaves
// the service.
type User struct {
	ID          int64     `json:"id"`
	Email       string    `json:"email"`
	FullName    string    `json:"full_name"`
	IsActive    bool      `json:"is_active"`
	IsSuperuser bool      `json:"is_superuser"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func newUser(u *user.User) User {
	return User{
		ID:          u.ID,
		Email:       u.Email,
		FullName:    u.FullName,
		IsActive:    u.IsActive,
		IsSuperuser: u.IsSuperuser,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

type updateMeRequest struct {
	Email    *string `json:"email" validate:"omitempty,email,max=255"`
	Password *string `json:"password" validate:"omitempty,max=72"`
	FullName *string `json:"full_name" validate:"omitempty,max=255"`
}

type registerRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,max=72"`
	FullName string `json:"full_name" validate:"max=255"`
}

func (h *Handler) readMe(c *gin.Context) {
	me, err := middleware.CurrentUser(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, newUser(me))
}

func (h *Handler) updateMe(c *gin.Context) {
	me, err := middleware.CurrentUser(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req updateMeRequest
	if err := h.bind(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	updated, err := h.svc.Update(c.Request.Context(), me, auth.UserUpdate{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, newUser(updated))
}

func (h *Handler) register(c *gin.Context) {
	if !h.svc.OpenRegistration() {
		response.Error(c, errors.ErrOpenRegistrationDisabled)
		return
	}

	var req registerRequest
	if err := h.bind(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	u, err := h.svc.Register(c.Request.Context(), auth.UserCreate{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, newUser(u))
}

// readUser lets any active user read themselves; reading others needs
// superuser rights.
func (h *Handler) readUser(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	me, err := middleware.CurrentUser(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	if id == me.ID {
		response.JSON(c, newUser(me))
		return
	}
	if err := auth.RequireSuperuser(me); err != nil {
		response.Error(c, err)
		return
	}

	u, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, newUser(u))
}

func (h *Handler) listUsers(c *gin.Context) {
	skip, err := queryInt(c, "skip", 0)
	if err != nil {
		response.Error(c, err)
		return
	}
	limit, err := queryInt(c, "limit", user.DefaultListLimit)
	if err != nil {
		response.Error(c, err)
		return
	}

	users, err := h.svc.List(c.Request.Context(), skip, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	out := make([]User, len(users))
	for i, u := range users {
		out[i] = newUser(u)
	}
	response.JSON(c, out)
}

func (h *Handler) createUser(c *gin.Context) {
	var req auth.UserCreate
	if err := h.bind(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	u, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, newUser(u))
}

func (h *Handler) updateUser(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req auth.UserUpdate
	if err := h.bind(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	ctx := c.Request.Context()
	u, err := h.svc.Get(ctx, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	updated, err := h.svc.Update(ctx, u, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, newUser(updated))
}

func (h *Handler) deleteUser(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	deleted, err := h.svc.DeleteByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, newUser(deleted))
}

func queryInt(c *gin.Context, key string, def int) (int, error) {
	raw, ok := c.GetQuery(key)
	if !ok || raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, errors.BadRequest("query parameter %s must be a non-negative integer", key)
	}
	return n, nil
}
