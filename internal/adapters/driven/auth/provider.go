package auth

import (
	"context"
	"fmt"
	"sync"

	"github.com/ONS-Innovation/keh-github-scraper-batch/internal/core/domain"
	"github.com/ONS-Innovation/keh-github-scraper-batch/internal/core/ports/driven"
)

// Ensure both providers implement the TokenProvider interface.
var (
	_ driven.TokenProvider = (*StaticTokenProvider)(nil)
	_ driven.TokenProvider = (*SecretTokenProvider)(nil)
)

// StaticTokenProvider provides a fixed Personal Access Token.
// PATs don't expire and don't require refresh.
type StaticTokenProvider struct {
	token string
}

// NewStaticTokenProvider creates a token provider around a known token.
func NewStaticTokenProvider(token string) *StaticTokenProvider {
	return &StaticTokenProvider{token: token}
}

// GetToken returns the token, or ErrNoCredential when none was configured.
func (p *StaticTokenProvider) GetToken(_ context.Context) (string, error) {
	if p.token == "" {
		return "", domain.ErrNoCredential
	}
	return p.token, nil
}

// IsAuthenticated returns true if a token is present.
func (p *StaticTokenProvider) IsAuthenticated() bool {
	return p.token != ""
}

// SecretTokenProvider resolves the token from a secret store on first use
// and caches it for the rest of the run.
type SecretTokenProvider struct {
	secretName string
	resolver   driven.SecretResolver

	mu    sync.Mutex
	token string
}

// NewSecretTokenProvider creates a token provider backed by a secret store.
func NewSecretTokenProvider(secretName string, resolver driven.SecretResolver) *SecretTokenProvider {
	return &SecretTokenProvider{
		secretName: secretName,
		resolver:   resolver,
	}
}

// GetToken resolves and caches the token.
func (p *SecretTokenProvider) GetToken(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.token != "" {
		return p.token, nil
	}
	if p.secretName == "" {
		return "", fmt.Errorf("%w: secret name is empty", domain.ErrNoCredential)
	}

	token, err := p.resolver.Resolve(ctx, p.secretName)
	if err != nil {
		return "", fmt.Errorf("resolve secret %q: %w", p.secretName, err)
	}
	if token == "" {
		return "", fmt.Errorf("%w: secret %q is empty", domain.ErrNoCredential, p.secretName)
	}

	p.token = token
	return token, nil
}

// IsAuthenticated returns true once a token has been resolved.
func (p *SecretTokenProvider) IsAuthenticated() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.token != ""
}
