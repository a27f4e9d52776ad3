// Package firebase verifies email/password credentials with the Firebase
// Authentication REST API (Identity Toolkit).
package firebase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/api/googleapi"

	"github.com/custodia-labs/docchat/internal/adapters/driven/google"
	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// Ensure Provider implements the interface.
var _ driven.IdentityProvider = (*Provider)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "https://identitytoolkit.googleapis.com"
	DefaultTimeout = 10 * time.Second
)

// Config holds configuration for the Firebase identity provider.
type Config struct {
	// APIKey is the Firebase web API key (required).
	APIKey string

	// BaseURL is the Identity Toolkit base URL. Tests point this at a local server.
	BaseURL string

	// Timeout bounds each request (default: 10s).
	Timeout time.Duration
}

// Provider calls accounts:signUp and accounts:signInWithPassword.
type Provider struct {
	client  *google.Client
	baseURL string
}

type credentialsRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type credentialsResponse struct {
	LocalID string `json:"localId"`
	Email   string `json:"email"`
	IDToken string `json:"idToken"`
}

// NewProvider creates a Firebase identity provider.
func NewProvider(cfg Config) (*Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: firebase: API key is required", domain.ErrIdentityUnavailable)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Provider{
		client:  google.NewClient(cfg.Timeout, google.WithAPIKey(cfg.APIKey)),
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
	}, nil
}

// SignUp creates an account.
func (p *Provider) SignUp(ctx context.Context, email, password string) (*domain.Identity, error) {
	return p.call(ctx, "accounts:signUp", email, password)
}

// SignIn verifies credentials for an existing account.
func (p *Provider) SignIn(ctx context.Context, email, password string) (*domain.Identity, error) {
	return p.call(ctx, "accounts:signInWithPassword", email, password)
}

func (p *Provider) call(ctx context.Context, method, email, password string) (*domain.Identity, error) {
	body := credentialsRequest{Email: email, Password: password, ReturnSecureToken: true}
	endpoint := p.baseURL + "/v1/" + method

	var resp credentialsResponse
	if err := p.client.PostJSON(ctx, endpoint, body, &resp); err != nil {
		return nil, wrapError(err)
	}
	if resp.LocalID == "" {
		return nil, fmt.Errorf("%w: firebase: response has no localId", domain.ErrIdentityUnavailable)
	}

	if resp.Email == "" {
		resp.Email = email
	}
	return &domain.Identity{UserID: resp.LocalID, Email: resp.Email, IDToken: resp.IDToken}, nil
}

// wrapError turns a rejected request into *domain.AuthError carrying
// Firebase's reason code. Anything else means the service is unavailable.
func wrapError(err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Code == http.StatusBadRequest {
		if reason := google.Message(err); reason != "" {
			return &domain.AuthError{Reason: reason}
		}
	}
	return google.WrapError("firebase", domain.ErrIdentityUnavailable, err)
}
