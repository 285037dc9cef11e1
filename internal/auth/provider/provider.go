package provider

import (
	"context"

	"github.com/iMedia24/workplacify/internal/auth"
)

// Result is what a successful code exchange yields: the normalized
// identity and the account record to persist when linking it.
type Result struct {
	Identity *auth.Identity
	Account  auth.Account
}

// OAuthProvider defines the contract every external auth provider
// must implement. Implementations return identity facts only and
// must not perform user creation, linking, or session management.
type OAuthProvider interface {
	// ID returns the provider identifier (e.g. "google").
	ID() string

	// Descriptor returns the static configuration of the provider.
	Descriptor() Descriptor

	// AuthCodeURL returns the OAuth authorization URL.
	// State and PKCE parameters are provided by the caller; codeChallenge
	// is ignored unless the descriptor requires the pkce check.
	AuthCodeURL(state string, codeChallenge string) string

	// Exchange exchanges the authorization code for provider credentials
	// and returns a normalized identity. No auth decisions are made here.
	Exchange(
		ctx context.Context,
		code string,
		codeVerifier string,
	) (*Result, error)
}
