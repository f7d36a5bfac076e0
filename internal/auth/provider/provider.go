package provider

import (
	"context"

	"chat-service/internal/auth"
)

// OAuthProvider defines the contract every external auth provider
// must implement. Implementations return profile facts only and
// must not perform user creation, linking, or session management.
type OAuthProvider interface {
	// Name returns the provider identifier (e.g. "github", "google").
	Name() string

	// AuthCodeURL returns the OAuth authorization URL.
	// State and PKCE parameters are provided by the caller; providers
	// without PKCE support ignore the challenge.
	AuthCodeURL(state string, codeChallenge string) string

	// ExchangeCode exchanges the authorization code for provider
	// credentials and returns the raw external profile. No auth
	// decisions are made here.
	ExchangeCode(
		ctx context.Context,
		code string,
		codeVerifier string,
	) (*auth.ExternalProfile, error)
}
