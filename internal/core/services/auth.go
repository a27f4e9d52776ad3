package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
	"github.com/custodia-labs/docchat/internal/logger"
)

// Ensure AuthService implements the interface.
var _ driving.AuthService = (*AuthService)(nil)

// AuthService forwards credentials to the identity provider and keeps
// the logged-in user in the config store.
type AuthService struct {
	identity    driven.IdentityProvider
	configStore driven.ConfigStore
}

// NewAuthService creates an auth service. identity may be nil, in which
// case signup and login report the provider as unavailable.
func NewAuthService(identity driven.IdentityProvider, configStore driven.ConfigStore) *AuthService {
	return &AuthService{
		identity:    identity,
		configStore: configStore,
	}
}

// SignUp creates an account without logging in.
func (s *AuthService) SignUp(ctx context.Context, email, password string) (*domain.Identity, error) {
	email, err := validateCredentials(email, password)
	if err != nil {
		return nil, err
	}
	if s.identity == nil {
		return nil, domain.ErrIdentityUnavailable
	}

	id, err := s.identity.SignUp(ctx, email, password)
	if err != nil {
		logger.Warn("Sign up failed for %s: %v", email, err)
		return nil, err
	}
	return id, nil
}

// Login verifies credentials and persists the session.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	email, err := validateCredentials(email, password)
	if err != nil {
		return nil, err
	}
	if s.identity == nil {
		return nil, domain.ErrIdentityUnavailable
	}

	id, err := s.identity.SignIn(ctx, email, password)
	if err != nil {
		logger.Warn("Sign in failed for %s: %v", email, err)
		return nil, err
	}
	if id.UserID == "" {
		return nil, fmt.Errorf("%w: identity provider returned no user id", domain.ErrExternalService)
	}

	if err := s.configStore.Set(KeySessionUserID, id.UserID); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	if err := s.configStore.Set(KeySessionEmail, email); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	return &domain.Session{UserID: id.UserID, Email: email}, nil
}

// Logout clears the persisted session.
func (s *AuthService) Logout() error {
	for _, key := range []string{KeySessionUserID, KeySessionEmail} {
		if err := s.configStore.Delete(key); err != nil {
			return fmt.Errorf("clear session: %w", err)
		}
	}
	return nil
}

// Current returns the persisted session, or domain.ErrAuthRequired.
func (s *AuthService) Current() (domain.Session, error) {
	session := domain.Session{
		UserID: s.configStore.GetString(KeySessionUserID),
		Email:  s.configStore.GetString(KeySessionEmail),
	}
	if !session.IsAuthenticated() {
		return domain.Session{}, domain.ErrAuthRequired
	}
	return session, nil
}

func validateCredentials(email, password string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return "", fmt.Errorf("%w: email and password are required", domain.ErrValidation)
	}
	return email, nil
}
