// Package local provides an identity provider that keeps accounts on this
// machine. It needs no network access and is meant for offline use and tests.
package local

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// Ensure Provider implements the interface.
var _ driven.IdentityProvider = (*Provider)(nil)

// UsersFile is the file name used inside the docchat home directory.
const UsersFile = "users.json"

// Reasons reported in *domain.AuthError, matching Firebase's codes.
const (
	ReasonEmailExists     = "EMAIL_EXISTS"
	ReasonEmailNotFound   = "EMAIL_NOT_FOUND"
	ReasonInvalidPassword = "INVALID_PASSWORD"
)

type account struct {
	UserID       string `json:"user_id"`
	Email        string `json:"email"`
	PasswordHash []byte `json:"password_hash"`
}

// Provider is an account map keyed by lowercased email.
type Provider struct {
	mu       sync.Mutex
	path     string
	cost     int
	accounts map[string]account
}

// Option configures a Provider.
type Option func(*Provider)

// WithBcryptCost sets the password hashing cost.
func WithBcryptCost(cost int) Option {
	return func(p *Provider) {
		p.cost = cost
	}
}

// NewProvider creates a provider. With a non-empty path, accounts are read
// from and written to that JSON file; otherwise they live in memory only.
func NewProvider(path string, opts ...Option) (*Provider, error) {
	p := &Provider{
		path:     path,
		cost:     bcrypt.DefaultCost,
		accounts: make(map[string]account),
	}
	for _, opt := range opts {
		opt(p)
	}

	if path == "" {
		return p, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return p, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read users file: %w", err)
	}
	if len(data) == 0 {
		return p, nil
	}
	if err := json.Unmarshal(data, &p.accounts); err != nil {
		return nil, fmt.Errorf("parse users file %s: %w", path, err)
	}
	return p, nil
}

// SignUp creates an account with a fresh uuid user id.
func (p *Provider) SignUp(_ context.Context, email, password string) (*domain.Identity, error) {
	key := normaliseEmail(email)

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.accounts[key]; ok {
		return nil, &domain.AuthError{Reason: ReasonEmailExists}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		// bcrypt rejects passwords over 72 bytes.
		return nil, &domain.AuthError{Reason: ReasonInvalidPassword + " : " + err.Error()}
	}

	acct := account{UserID: uuid.NewString(), Email: strings.TrimSpace(email), PasswordHash: hash}
	p.accounts[key] = acct
	if err := p.save(); err != nil {
		delete(p.accounts, key)
		return nil, err
	}

	return &domain.Identity{UserID: acct.UserID, Email: acct.Email}, nil
}

// SignIn verifies the password against the stored hash.
func (p *Provider) SignIn(_ context.Context, email, password string) (*domain.Identity, error) {
	p.mu.Lock()
	acct, ok := p.accounts[normaliseEmail(email)]
	p.mu.Unlock()

	if !ok {
		return nil, &domain.AuthError{Reason: ReasonEmailNotFound}
	}
	if err := bcrypt.CompareHashAndPassword(acct.PasswordHash, []byte(password)); err != nil {
		return nil, &domain.AuthError{Reason: ReasonInvalidPassword}
	}

	return &domain.Identity{UserID: acct.UserID, Email: acct.Email}, nil
}

// save writes the account map. Callers hold p.mu.
func (p *Provider) save() error {
	if p.path == "" {
		return nil
	}

	data, err := json.MarshalIndent(p.accounts, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal users: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(p.path), 0700); err != nil {
		return fmt.Errorf("create users directory: %w", err)
	}

	tmp := p.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("write users file: %w", err)
	}
	if err := os.Rename(tmp, p.path); err != nil {
		return fmt.Errorf("replace users file: %w", err)
	}
	return nil
}

func normaliseEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
