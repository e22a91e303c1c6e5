// Package handler provides HTTP handlers for the auth feature.
package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"papertrade/internal/feature/auth/transport/http/dto"
	"papertrade/internal/feature/auth/usecase"
	jwtmw "papertrade/internal/platform/jwt"
	"papertrade/internal/platform/view"
)

// AuthUsecase defines the auth operations the handler needs.
// Interfaces are defined by the consumer (handler), not the provider (usecase).
type AuthUsecase interface {
	Register(ctx context.Context, username, password, confirmation string) error
	Login(ctx context.Context, username, password string, client usecase.ClientInfo) (string, error)
	Logout(ctx context.Context, token string)
	ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword, confirmation string) error
}

// AuthHandler serves the login, logout, register and change-password pages.
type AuthHandler struct {
	auth    AuthUsecase
	cookies jwtmw.Cookies
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(auth AuthUsecase, cookies jwtmw.Cookies) *AuthHandler {
	return &AuthHandler{auth: auth, cookies: cookies}
}

// LoginForm shows the login page. Any current session is ended first.
func (h *AuthHandler) LoginForm(c *gin.Context) {
	h.endSession(c)
	view.Render(c, http.StatusOK, "login", nil)
}

// Login authenticates the posted credentials and starts a new session.
func (h *AuthHandler) Login(c *gin.Context) {
	h.endSession(c)

	var form dto.LoginForm
	if err := c.ShouldBind(&form); err != nil {
		view.Apology(c, http.StatusBadRequest, "invalid request")
		return
	}

	client := usecase.ClientInfo{UserAgent: c.Request.UserAgent(), IPAddress: c.ClientIP()}
	token, err := h.auth.Login(c.Request.Context(), form.Username, form.Password, client)
	if err != nil {
		slog.Warn("login failed", "error", err, "remote_addr", c.ClientIP())
		view.FailWithStatus(c, http.StatusForbidden, err)
		return
	}

	h.cookies.Set(c, token)
	slog.Info("user login successful", "username", form.Username, "remote_addr", c.ClientIP())
	view.SetFlash(c, fmt.Sprintf("Welcome, %s!", strings.TrimSpace(form.Username)))
	c.Redirect(http.StatusFound, "/")
}

// Logout ends the session, if any, and returns to the home page.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.endSession(c)
	c.Redirect(http.StatusFound, "/")
}

// RegisterForm shows the registration page.
func (h *AuthHandler) RegisterForm(c *gin.Context) {
	view.Render(c, http.StatusOK, "register", nil)
}

// Register creates an account and sends the user to the login page.
func (h *AuthHandler) Register(c *gin.Context) {
	var form dto.RegisterForm
	if err := c.ShouldBind(&form); err != nil {
		view.Apology(c, http.StatusBadRequest, "invalid request")
		return
	}

	err := h.auth.Register(c.Request.Context(), form.Username, form.Password, form.Confirmation)
	if err != nil {
		if errors.Is(err, usecase.ErrUsernameTaken) {
			slog.Warn("signup failed", "error", err, "remote_addr", c.ClientIP())
		}
		view.Fail(c, err)
		return
	}

	slog.Info("user signup successful", "username", form.Username, "remote_addr", c.ClientIP())
	view.SetFlash(c, "Registered successfully! Please log in.")
	c.Redirect(http.StatusFound, "/login")
}

// ChangePasswordForm shows the change-password page.
func (h *AuthHandler) ChangePasswordForm(c *gin.Context) {
	view.Render(c, http.StatusOK, "changepass", nil)
}

// ChangePassword replaces the signed-in user's password.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID, ok := jwtmw.UserID(c)
	if !ok {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	var form dto.ChangePasswordForm
	if err := c.ShouldBind(&form); err != nil {
		view.Apology(c, http.StatusBadRequest, "invalid request")
		return
	}

	if err := h.auth.ChangePassword(c.Request.Context(), userID, form.Old, form.New, form.Confirm); err != nil {
		view.Fail(c, err)
		return
	}

	slog.Info("password changed", "user_id", userID, "remote_addr", c.ClientIP())
	view.SetFlash(c, "Password changed successfully")
	c.Redirect(http.StatusFound, "/")
}

func (h *AuthHandler) endSession(c *gin.Context) {
	if token := jwtmw.SessionToken(c); token != "" {
		h.auth.Logout(c.Request.Context(), token)
	}
	h.cookies.Clear(c)
}
