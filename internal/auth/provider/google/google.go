package google

import (
	"context"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	"github.com/iMedia24/workplacify/internal/auth"
	"github.com/iMedia24/workplacify/internal/auth/provider"
)

const ProviderID = "google"

const (
	issuer    = "https://accounts.google.com"
	authURL   = "https://accounts.google.com/o/oauth2/v2/auth"
	tokenURL  = "https://oauth2.googleapis.com/token"
	wellKnown = "https://accounts.google.com/.well-known/openid-configuration"
	jwksURL   = "https://www.googleapis.com/oauth2/v3/certs"
)

// NewDescriptor describes Google's OIDC endpoints for the given client.
func NewDescriptor(clientID, clientSecret string) provider.Descriptor {
	return provider.Descriptor{
		ID:           ProviderID,
		Name:         "Google",
		Type:         provider.TypeOIDC,
		Issuer:       issuer,
		AuthURL:      authURL,
		TokenURL:     tokenURL,
		WellKnown:    wellKnown,
		JWKSURL:      jwksURL,
		Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Checks:       []string{provider.CheckPKCE, provider.CheckState},
		AuthStyle:    oauth2.AuthStyleInParams,
		Style: provider.Style{
			Text: "#000",
			Bg:   "#fff",
			Logo: "https://authjs.dev/img/providers/google.svg",
		},
	}
}

// Profile maps Google ID token claims to an identity.
func Profile(_ context.Context, p auth.Profile, _ auth.Tokens) auth.Identity {
	identity := auth.Identity{
		ID:            p.First("sub"),
		Name:          p.First("name"),
		Email:         p.First("email"),
		EmailVerified: p.Bool("email_verified"),
	}
	if picture := p.First("picture"); picture != "" {
		identity.Image = &picture
	}
	return identity
}

// New builds the Google provider.
func New(clientID, clientSecret, redirectURL string, opts ...provider.Option) (*provider.OIDCProvider, error) {
	return provider.NewOIDC(NewDescriptor(clientID, clientSecret), redirectURL, Profile, opts...)
}
