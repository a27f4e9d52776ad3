package driven

import (
	"context"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// IdentityProvider verifies email/password credentials with an external service.
// The returned UserID is used as an opaque partition key and never interpreted.
type IdentityProvider interface {
	// SignUp creates an account. It returns a *domain.AuthError when the
	// provider rejects the request (e.g. the email already exists).
	SignUp(ctx context.Context, email, password string) (*domain.Identity, error)

	// SignIn verifies credentials for an existing account.
	SignIn(ctx context.Context, email, password string) (*domain.Identity, error)
}
