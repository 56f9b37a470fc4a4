// Package auth signs users in with email and password and holds the current session
package auth

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/xerrors"
)

// User is the signed-in identity
type User struct {
	UID     string
	Email   string
	IDToken string
}

// Provider is the remote authentication backend
type Provider interface {
	SignUp(ctx context.Context, email, password string) (*User, error)
	SignIn(ctx context.Context, email, password string) (*User, error)
	SendPasswordReset(ctx context.Context, email string) error
}

// Session holds the current user. Listeners are told about every sign-in and sign-out.
type Session struct {
	provider Provider
	logger   *zap.Logger

	mu        sync.RWMutex
	user      *User
	listeners []func(*User)
}

// NewSession returns a signed-out session
func NewSession(p Provider, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Session{
		provider: p,
		logger:   logger,
	}
}

// OnChange registers fn for session changes. fn receives nil on sign-out.
func (s *Session) OnChange(fn func(*User)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.listeners = append(s.listeners, fn)
}

func (s *Session) set(u *User) {
	s.mu.Lock()
	s.user = u
	listeners := append([]func(*User){}, s.listeners...)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(u)
	}
}

// CurrentUser returns the signed-in user or nil
func (s *Session) CurrentUser() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// SignUp creates an account and signs in
func (s *Session) SignUp(ctx context.Context, email, password string) (*User, error) {
	u, err := s.provider.SignUp(ctx, strings.TrimSpace(email), password)
	if err != nil {
		s.logger.Warn("sign up failed", zap.String("email", email), zap.Error(err))
		return nil, xerrors.Errorf("failed to sign up: %w", classify(err))
	}

	s.set(u)
	return u, nil
}

// SignIn signs in with email and password
func (s *Session) SignIn(ctx context.Context, email, password string) (*User, error) {
	u, err := s.provider.SignIn(ctx, strings.TrimSpace(email), password)
	if err != nil {
		s.logger.Warn("sign in failed", zap.String("email", email), zap.Error(err))
		return nil, xerrors.Errorf("failed to sign in: %w", classify(err))
	}

	s.set(u)
	return u, nil
}

// SendPasswordReset sends a reset mail. An empty email is rejected without calling the provider.
func (s *Session) SendPasswordReset(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ErrEmailRequired
	}

	if err := s.provider.SendPasswordReset(ctx, email); err != nil {
		s.logger.Warn("password reset failed", zap.String("email", email), zap.Error(err))
		return xerrors.Errorf("failed to send password reset: %w", classify(err))
	}

	return nil
}

// Restore sets a user whose identity was established elsewhere, such as a fixed emulator uid
func (s *Session) Restore(u *User) {
	s.set(u)
}

// SignOut clears the session
func (s *Session) SignOut() {
	s.set(nil)
}
