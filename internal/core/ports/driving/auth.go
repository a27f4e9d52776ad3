package driving

import (
	"context"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// AuthService manages accounts and the persisted login session.
type AuthService interface {
	// SignUp creates an account. It does not log the user in.
	SignUp(ctx context.Context, email, password string) (*domain.Identity, error)

	// Login verifies credentials and persists the session.
	Login(ctx context.Context, email, password string) (*domain.Session, error)

	// Logout clears the persisted session.
	Logout() error

	// Current returns the persisted session or domain.ErrAuthRequired.
	Current() (domain.Session, error)
}
