// Package auth tracks the authentication state of one actor class on top of
// its session store.
package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/andressep95/hr-service/pkg/client"
	"github.com/andressep95/hr-service/pkg/session"
)

// Backend is the server side of a session.
type Backend interface {
	EndSession(ctx context.Context, class session.Class) error
	FetchProfile(ctx context.Context, class session.Class) (*session.Profile, error)
}

type Navigator interface {
	Navigate(route string)
}

type Level int

const (
	LevelInfo Level = iota
	LevelError
)

// Notifier shows a message to the user.
type Notifier interface {
	Notify(level Level, message string)
}

// Resetter is anything holding per-actor state that must be dropped on logout.
type Resetter interface {
	Reset()
}

type Option func(*Hook)

func WithNavigator(n Navigator) Option {
	return func(h *Hook) { h.nav = n }
}

func WithNotifier(n Notifier) Option {
	return func(h *Hook) { h.notifier = n }
}

func WithLogger(l *slog.Logger) Option {
	return func(h *Hook) { h.log = l }
}

// WithResetOnLogout registers r to be reset whenever the session ends.
func WithResetOnLogout(r Resetter) Option {
	return func(h *Hook) { h.resetters = append(h.resetters, r) }
}

type noopNavigator struct{}

func (noopNavigator) Navigate(string) {}

type noopNotifier struct{}

func (noopNotifier) Notify(Level, string) {}

// Hook exposes the session of one actor class. Local state always clears on
// logout, whatever the server answers.
type Hook struct {
	store     *session.Store
	backend   Backend
	nav       Navigator
	notifier  Notifier
	log       *slog.Logger
	resetters []Resetter

	mu            sync.RWMutex
	authenticated bool
	loading       bool
	profile       *session.Profile
	// epoch changes on every login and logout; async work started under an
	// older epoch must not write state.
	epoch uint64
}

func New(store *session.Store, backend Backend, opts ...Option) *Hook {
	h := &Hook{
		store:    store,
		backend:  backend,
		nav:      noopNavigator{},
		notifier: noopNotifier{},
		log:      slog.New(slog.NewJSONHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.log = h.log.With("component", "auth", "class", string(store.Class()))

	return h
}

func (h *Hook) Class() session.Class {
	return h.store.Class()
}

func (h *Hook) IsAuthenticated() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.authenticated
}

func (h *Hook) IsLoading() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.loading
}

// Profile returns a copy of the current profile, or nil.
func (h *Hook) Profile() *session.Profile {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.profile == nil {
		return nil
	}
	p := *h.profile
	return &p
}

// Mount hydrates the hook from storage: no token sends the user to the login
// route; a token without a cached profile triggers a fetch. Only an
// authentication failure of that fetch ends the session.
func (h *Hook) Mount(ctx context.Context) {
	h.mu.Lock()
	h.loading = true
	epoch := h.epoch
	h.mu.Unlock()

	token, err := h.store.Token(ctx)
	if err != nil {
		h.log.Error("failed to read token", "error", err)
	}
	if token == "" {
		h.mu.Lock()
		if h.epoch == epoch {
			h.authenticated = false
			h.profile = nil
		}
		h.loading = false
		h.mu.Unlock()

		h.nav.Navigate(h.Class().LoginRoute())
		return
	}

	h.mu.Lock()
	if h.epoch == epoch {
		h.authenticated = true
	}
	h.mu.Unlock()

	cached, err := h.store.Profile(ctx)
	if err != nil {
		h.log.Warn("ignoring unreadable cached profile", "error", err)
	}
	if cached != nil {
		h.mu.Lock()
		if h.epoch == epoch {
			h.profile = cached
		}
		h.loading = false
		h.mu.Unlock()
		return
	}

	fetched, err := h.backend.FetchProfile(ctx, h.Class())
	if err != nil {
		if h.isCurrent(epoch) {
			h.HandleError(ctx, err)
		}
		h.mu.Lock()
		h.loading = false
		h.mu.Unlock()
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.loading = false

	if h.epoch != epoch {
		h.log.Debug("dropping profile fetched for an ended session")
		return
	}
	if err := h.store.SetProfile(ctx, fetched); err != nil {
		h.log.Warn("failed to cache profile", "error", err)
	}
	h.profile = fetched
}

func (h *Hook) isCurrent(epoch uint64) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.epoch == epoch
}

// Login stores the token, and the profile when given, and marks the hook
// authenticated before returning.
func (h *Hook) Login(ctx context.Context, token string, profile *session.Profile) error {
	if token == "" {
		return errors.New("empty token")
	}

	if err := h.store.SetToken(ctx, token); err != nil {
		return err
	}
	if profile != nil {
		if err := h.store.SetProfile(ctx, profile); err != nil {
			return err
		}
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.epoch++
	h.authenticated = true
	h.loading = false
	if profile != nil {
		p := *profile
		h.profile = &p
	} else {
		h.profile = nil
	}

	h.log.Info("signed in")
	return nil
}

// UpdateProfile replaces the profile after the server confirmed an edit.
func (h *Hook) UpdateProfile(ctx context.Context, profile *session.Profile) error {
	if profile == nil {
		return errors.New("nil profile")
	}
	if err := h.store.SetProfile(ctx, profile); err != nil {
		return err
	}

	p := *profile
	h.mu.Lock()
	h.profile = &p
	h.mu.Unlock()
	return nil
}

// Logout ends the session on the server when a token is held, then clears
// local state and navigates to the login route. Server failures are logged
// and otherwise ignored.
func (h *Hook) Logout(ctx context.Context) {
	h.mu.Lock()
	h.epoch++
	h.mu.Unlock()

	if h.store.HasToken(ctx) {
		if err := h.backend.EndSession(ctx, h.Class()); err != nil {
			h.log.Warn("server logout failed", "error", err)
		}
	}

	h.clear(ctx)
	h.nav.Navigate(h.Class().LoginRoute())
}

// HandleError applies the error policy to the failure of any API call made
// with this session: authentication failures end the session locally, other
// failures are reported and leave it untouched. It reports whether the
// session was ended.
func (h *Hook) HandleError(ctx context.Context, err error) bool {
	if err == nil {
		return false
	}

	if client.IsAuthError(err) {
		h.log.Info("session rejected by server", "error", err)
		h.mu.Lock()
		h.epoch++
		h.mu.Unlock()

		h.clear(ctx)
		h.notifier.Notify(LevelError, "Your session has expired. Please sign in again.")
		h.nav.Navigate(h.Class().LoginRoute())
		return true
	}

	h.log.Warn("request failed", "error", err)
	h.notifier.Notify(LevelError, err.Error())
	return false
}

func (h *Hook) clear(ctx context.Context) {
	if err := h.store.Clear(ctx); err != nil {
		h.log.Error("failed to clear session storage", "error", err)
	}

	h.mu.Lock()
	h.authenticated = false
	h.profile = nil
	h.loading = false
	h.mu.Unlock()

	for _, r := range h.resetters {
		r.Reset()
	}
}
