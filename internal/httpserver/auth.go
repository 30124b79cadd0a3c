package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/chooseyourcart/storefront/internal/api"
	"github.com/chooseyourcart/storefront/internal/logging"
	"github.com/chooseyourcart/storefront/internal/models"
	"github.com/chooseyourcart/storefront/internal/store"
)

type AuthHTTP struct {
	Auth   *store.Auth
	Client *api.Client
}

type sessionView struct {
	Authenticated bool         `json:"authenticated"`
	User          *models.User `json:"user,omitempty"`
}

func (h *AuthHTTP) session() sessionView {
	return sessionView{
		Authenticated: h.Auth.IsAuthenticated(),
		User:          h.Auth.User(),
	}
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req api.RegisterRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid body"})
	}

	if err := h.Auth.Register(ctx, req); err != nil {
		l.Warn("register_error", "status", 422, "error", err)
		return c.JSON(http.StatusUnprocessableEntity, map[string]string{"message": err.Error()})
	}

	l.Info("register_success")
	return c.JSON(http.StatusCreated, h.session())
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req api.LoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid body"})
	}

	if err := h.Auth.Login(ctx, req); err != nil {
		l.Warn("login_failed", "status", 422, "error", err)
		return c.JSON(http.StatusUnprocessableEntity, map[string]string{"message": err.Error()})
	}

	l.Info("login_success")
	return c.JSON(http.StatusOK, h.session())
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.logout")

	h.Auth.Logout(ctx)

	l.Info("logout_success")
	return c.JSON(http.StatusOK, h.session())
}

func (h *AuthHTTP) GetSession(c echo.Context) error {
	return c.JSON(http.StatusOK, h.session())
}

func (h *AuthHTTP) GetProfile(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.profile")

	if err := h.Auth.RefreshProfile(ctx); err != nil {
		l.Warn("refresh_profile_failed", "status", 401, "error", err)
		return c.JSON(http.StatusUnauthorized, map[string]string{"message": "unauthorized"})
	}

	user := h.Auth.User()
	if user == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"message": "unauthorized"})
	}
	return c.JSON(http.StatusOK, user)
}

func (h *AuthHTTP) UpdateProfile(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.update_profile")

	var req api.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid body"})
	}

	user, err := h.Auth.UpdateProfile(ctx, req)
	if err != nil {
		if errors.Is(err, store.ErrNotAuthenticated) {
			return c.JSON(http.StatusUnauthorized, map[string]string{"message": "unauthorized"})
		}
		l.Warn("update_profile_error", "status", 422, "error", err)
		return c.JSON(http.StatusUnprocessableEntity, map[string]string{"message": err.Error()})
	}
	return c.JSON(http.StatusOK, user)
}

func (h *AuthHTTP) ChangePassword(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.change_password")

	var req api.ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid body"})
	}

	msg, err := h.Auth.ChangePassword(ctx, req)
	if err != nil {
		if errors.Is(err, store.ErrNotAuthenticated) {
			return c.JSON(http.StatusUnauthorized, map[string]string{"message": "unauthorized"})
		}
		l.Warn("change_password_error", "status", 422, "error", err)
		return c.JSON(http.StatusUnprocessableEntity, map[string]string{"message": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": msg})
}

func (h *AuthHTTP) ForgotPassword(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.forgot_password")

	var req api.ForgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid body"})
	}

	msg, err := h.Client.ForgotPassword(ctx, req)
	if err != nil {
		l.Warn("forgot_password_error", "status", 422, "error", err)
		return c.JSON(http.StatusUnprocessableEntity, map[string]string{"message": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": msg})
}

func (h *AuthHTTP) ResetPassword(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.reset_password")

	var req api.ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid body"})
	}

	msg, err := h.Client.ResetPassword(ctx, req)
	if err != nil {
		l.Warn("reset_password_error", "status", 422, "error", err)
		return c.JSON(http.StatusUnprocessableEntity, map[string]string{"message": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": msg})
}
