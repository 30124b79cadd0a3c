package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/chooseyourcart/storefront/internal/api"
	"github.com/chooseyourcart/storefront/internal/logging"
	"github.com/chooseyourcart/storefront/internal/models"
	"github.com/chooseyourcart/storefront/internal/repo"
)

const tokenKey = "authToken"

var ErrNotAuthenticated = errors.New("not authenticated")

// Auth owns the session: the signed-in user and the API bearer token.
// The token persists across restarts; the user is re-fetched from the
// profile endpoint on startup.
type Auth struct {
	mu          sync.Mutex
	user        *models.User
	token       string
	initialized bool

	repo      *repo.Store
	client    *api.Client
	listeners []func(ctx context.Context, userID int)
}

func NewAuth(r *repo.Store, client *api.Client) *Auth {
	return &Auth{repo: r, client: client}
}

// Subscribe registers a callback for user changes (login, logout,
// rehydration). Used to swap the wishlist to the new user's list.
func (a *Auth) Subscribe(fn func(ctx context.Context, userID int)) {
	a.listeners = append(a.listeners, fn)
}

func (a *Auth) notify(ctx context.Context, userID int) {
	for _, fn := range a.listeners {
		fn(ctx, userID)
	}
}

// tokenExpired reports whether the persisted token is a JWT whose exp
// claim is already past. Opaque tokens can't be prechecked and go
// straight to the profile fetch.
func tokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}

// Init rehydrates the session from the persisted token. An invalid or
// rejected token is discarded silently; the store ends up anonymous.
// Consumers must not treat the store as signed out before Init ran.
func (a *Auth) Init(ctx context.Context) error {
	l := logging.FromContext(ctx).With("svc", "auth.init")

	a.mu.Lock()
	defer a.mu.Unlock()

	var token string
	ok, err := a.repo.Load(ctx, tokenKey, &token)
	if err != nil {
		return fmt.Errorf("load token: %w", err)
	}

	if ok && token != "" {
		if tokenExpired(token) {
			l.Info("persisted token expired, discarding")
			_ = a.repo.Delete(ctx, tokenKey)
		} else if user, err := a.client.Profile(ctx, token); err != nil {
			l.Warn("persisted token rejected, discarding", "error", err)
			_ = a.repo.Delete(ctx, tokenKey)
		} else {
			a.user = user
			a.token = token
		}
	}

	a.initialized = true
	a.notifyLocked(ctx)
	return nil
}

func (a *Auth) notifyLocked(ctx context.Context) {
	id := 0
	if a.user != nil {
		id = a.user.ID
	}
	a.notify(ctx, id)
}

func (a *Auth) setSession(ctx context.Context, resp *api.AuthResponse) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.repo.Save(ctx, tokenKey, resp.Token); err != nil {
		return fmt.Errorf("persist token: %w", err)
	}
	user := resp.User
	a.user = &user
	a.token = resp.Token
	a.initialized = true
	a.notifyLocked(ctx)
	return nil
}

// Login leaves the prior state untouched when the API rejects the
// credentials.
func (a *Auth) Login(ctx context.Context, req api.LoginRequest) error {
	resp, err := a.client.Login(ctx, req)
	if err != nil {
		return err
	}
	return a.setSession(ctx, resp)
}

func (a *Auth) Register(ctx context.Context, req api.RegisterRequest) error {
	resp, err := a.client.Register(ctx, req)
	if err != nil {
		return err
	}
	return a.setSession(ctx, resp)
}

// Logout notifies the API best-effort and always ends up anonymous with
// the persisted token cleared.
func (a *Auth) Logout(ctx context.Context) {
	l := logging.FromContext(ctx).With("svc", "auth.logout")

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.token != "" {
		if err := a.client.Logout(ctx, a.token); err != nil {
			l.Warn("remote logout failed", "error", err)
		}
	}
	a.user = nil
	a.token = ""
	_ = a.repo.Delete(ctx, tokenKey)
	a.notifyLocked(ctx)
}

// RefreshProfile re-fetches the profile; a failure means the token went
// stale, so the session is torn down.
func (a *Auth) RefreshProfile(ctx context.Context) error {
	a.mu.Lock()
	token := a.token
	a.mu.Unlock()

	if token == "" {
		return nil
	}

	user, err := a.client.Profile(ctx, token)
	if err != nil {
		a.Logout(ctx)
		return err
	}

	a.mu.Lock()
	a.user = user
	a.mu.Unlock()
	return nil
}

func (a *Auth) UpdateProfile(ctx context.Context, req api.UpdateProfileRequest) (*models.User, error) {
	a.mu.Lock()
	token := a.token
	a.mu.Unlock()

	if token == "" {
		return nil, ErrNotAuthenticated
	}

	user, err := a.client.UpdateProfile(ctx, token, req)
	if err != nil {
		return nil, err
	}

	a.mu.Lock()
	a.user = user
	a.mu.Unlock()
	return user, nil
}

func (a *Auth) ChangePassword(ctx context.Context, req api.ChangePasswordRequest) (string, error) {
	a.mu.Lock()
	token := a.token
	a.mu.Unlock()

	if token == "" {
		return "", ErrNotAuthenticated
	}
	return a.client.ChangePassword(ctx, token, req)
}

// IsAuthenticated is only true once Init completed and both user and
// token are present.
func (a *Auth) IsAuthenticated() bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.initialized && a.user != nil && a.token != ""
}

func (a *Auth) User() *models.User {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.user == nil {
		return nil
	}
	u := *a.user
	return &u
}

func (a *Auth) Token() string {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.token
}
