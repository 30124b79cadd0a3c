package api

import (
	"context"

	"github.com/chooseyourcart/storefront/internal/models"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Email                string `json:"email"`
	Token                string `json:"token"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

type ChangePasswordRequest struct {
	CurrentPassword      string `json:"current_password"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

type UpdateProfileRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type AuthResponse struct {
	User      models.User `json:"user"`
	Token     string      `json:"token"`
	TokenType string      `json:"token_type"`
}

type messageData struct {
	Message string `json:"message"`
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.postJSON(ctx, "/auth/register", "", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.postJSON(ctx, "/auth/login", "", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Logout(ctx context.Context, token string) error {
	return c.postJSON(ctx, "/auth/logout", token, nil, nil)
}

// Profile returns the user behind the token. The API nests the user one
// level down, unlike login/register.
func (c *Client) Profile(ctx context.Context, token string) (*models.User, error) {
	var out struct {
		User models.User `json:"user"`
	}
	if err := c.getJSON(ctx, "/auth/profile", token, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

func (c *Client) UpdateProfile(ctx context.Context, token string, req UpdateProfileRequest) (*models.User, error) {
	var out struct {
		User models.User `json:"user"`
	}
	if err := c.putJSON(ctx, "/auth/profile", token, req, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

func (c *Client) ChangePassword(ctx context.Context, token string, req ChangePasswordRequest) (string, error) {
	var out messageData
	if err := c.postJSON(ctx, "/auth/change-password", token, req, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

func (c *Client) ForgotPassword(ctx context.Context, req ForgotPasswordRequest) (string, error) {
	var out messageData
	if err := c.postJSON(ctx, "/auth/forgot-password", "", req, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

func (c *Client) ResetPassword(ctx context.Context, req ResetPasswordRequest) (string, error) {
	var out messageData
	if err := c.postJSON(ctx, "/auth/reset-password", "", req, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}
