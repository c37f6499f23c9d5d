package api

import (
	"github.com/gin-gonic/gin"

	"github.com/kochabx/authkit/errors"
	"github.com/kochabx/authkit/transport/http/response"
)

type signInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type refreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

func (h *Handler) signIn(c *gin.Context) {
	var req signInRequest
	if err := h.bind(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	pair, _, err := h.svc.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, errors.ErrUserNotFound) || errors.Is(err, errors.ErrWrongPassword) {
			err = ErrIncorrectCredentials
		}
		response.Error(c, err)
		return
	}
	response.JSON(c, pair)
}

func (h *Handler) refresh(c *gin.Context) {
	var req refreshTokenRequest
	if err := h.bind(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	pair, _, err := h.svc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, pair)
}

func (h *Handler) logout(c *gin.Context) {
	var req refreshTokenRequest
	if err := h.bind(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	if err := h.svc.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, nil)
}

func (h *Handler) logoutAll(c *gin.Context) {
	var req refreshTokenRequest
	if err := h.bind(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	if err := h.svc.LogoutAllWithToken(c.Request.Context(), req.RefreshToken); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, nil)
}
