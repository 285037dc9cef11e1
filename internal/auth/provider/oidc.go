package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	"github.com/iMedia24/workplacify/internal/auth"
	"github.com/iMedia24/workplacify/internal/logger"
)

// ProfileFunc maps verified ID token claims and the token set to an
// identity. It must not fail: missing claims yield empty fields.
type ProfileFunc func(ctx context.Context, profile auth.Profile, tokens auth.Tokens) auth.Identity

// OIDCProvider implements the authorization code flow for any provider
// described by a Descriptor, verifying the returned ID token.
type OIDCProvider struct {
	desc        Descriptor
	oauthConfig *oauth2.Config
	verifier    *oidc.IDTokenVerifier
	profile     ProfileFunc
	httpClient  *http.Client
}

type Option func(*options)

type options struct {
	keySet     oidc.KeySet
	httpClient *http.Client
}

// WithKeySet verifies ID tokens against keys instead of the descriptor's JWKS URL.
func WithKeySet(keys oidc.KeySet) Option {
	return func(o *options) { o.keySet = keys }
}

// WithHTTPClient sets the client used for the token exchange and key fetches.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

// NewOIDC builds a provider from desc. No network calls are made;
// signing keys are fetched lazily on first verification.
func NewOIDC(desc Descriptor, redirectURL string, profile ProfileFunc, opts ...Option) (*OIDCProvider, error) {
	if desc.ID == "" || desc.ClientID == "" || desc.AuthURL == "" || desc.TokenURL == "" {
		return nil, fmt.Errorf("%s oauth config missing required fields", desc.ID)
	}
	if profile == nil {
		return nil, fmt.Errorf("%s: profile mapping is required", desc.ID)
	}

	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	keySet := o.keySet
	if keySet == nil {
		if desc.JWKSURL == "" {
			return nil, fmt.Errorf("%s: jwks url is required", desc.ID)
		}
		ctx := context.Background()
		if o.httpClient != nil {
			ctx = oidc.ClientContext(ctx, o.httpClient)
		}
		keySet = oidc.NewRemoteKeySet(ctx, desc.JWKSURL)
	}

	verifier := oidc.NewVerifier(desc.Issuer, keySet, &oidc.Config{
		ClientID:        desc.ClientID,
		SkipIssuerCheck: desc.SkipIssuerCheck,
	})

	return &OIDCProvider{
		desc: desc,
		oauthConfig: &oauth2.Config{
			ClientID:     desc.ClientID,
			ClientSecret: desc.ClientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     desc.Endpoint(),
			Scopes:       desc.Scopes,
		},
		verifier:   verifier,
		profile:    profile,
		httpClient: o.httpClient,
	}, nil
}

func (p *OIDCProvider) ID() string {
	return p.desc.ID
}

func (p *OIDCProvider) Descriptor() Descriptor {
	return p.desc
}

// AuthCodeURL builds the authorization URL, adding the PKCE challenge
// when the descriptor asks for it.
func (p *OIDCProvider) AuthCodeURL(state string, codeChallenge string) string {
	opts := []oauth2.AuthCodeOption{oauth2.AccessTypeOnline}
	if p.desc.Requires(CheckPKCE) {
		opts = append(opts,
			oauth2.SetAuthURLParam("code_challenge", codeChallenge),
			oauth2.SetAuthURLParam("code_challenge_method", "S256"),
		)
	}
	return p.oauthConfig.AuthCodeURL(state, opts...)
}

// Exchange exchanges the authorization code and returns a normalized identity.
// This method MUST NOT create users, sessions, or perform linking logic.
func (p *OIDCProvider) Exchange(
	ctx context.Context,
	code string,
	codeVerifier string,
) (*Result, error) {

	if p.httpClient != nil {
		ctx = oidc.ClientContext(ctx, p.httpClient)
	}

	var opts []oauth2.AuthCodeOption
	if p.desc.Requires(CheckPKCE) {
		opts = append(opts, oauth2.SetAuthURLParam("code_verifier", codeVerifier))
	}

	token, err := p.oauthConfig.Exchange(ctx, code, opts...)
	if err != nil {
		logger.Error("token exchange failed", map[string]any{
			"provider": p.desc.ID,
			"error":    err.Error(),
		})
		return nil, fmt.Errorf("%s token exchange failed: %w", p.desc.ID, err)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return nil, errors.New(p.desc.ID + " did not return id_token")
	}

	idToken, err := p.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, fmt.Errorf("%s id_token verification failed: %w", p.desc.ID, err)
	}

	var claims auth.Profile
	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("%s id_token claims parse failed: %w", p.desc.ID, err)
	}

	logger.Debug("oidc profile received", map[string]any{
		"provider": p.desc.ID,
		"profile":  claims,
	})

	identity := p.profile(ctx, claims, auth.Tokens{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		IDToken:      rawIDToken,
		TokenType:    token.TokenType,
		Expiry:       token.Expiry,
	})
	identity.Provider = p.desc.ID

	logger.Info("oidc verified", map[string]any{
		"provider":        p.desc.ID,
		"issuer":          idToken.Issuer,
		"subject_present": identity.ID != "",
		"email_present":   identity.Email != "",
		"image_present":   identity.Image != nil,
		"expiry_unix":     idToken.Expiry.Unix(),
	})

	return &Result{
		Identity: &identity,
		Account:  p.account(identity, token, rawIDToken),
	}, nil
}

func (p *OIDCProvider) account(identity auth.Identity, token *oauth2.Token, rawIDToken string) auth.Account {
	acct := auth.Account{
		auth.AccountType:              p.desc.Type,
		auth.AccountProvider:          p.desc.ID,
		auth.AccountProviderAccountID: identity.ID,
		auth.AccountAccessToken:       token.AccessToken,
		auth.AccountTokenType:         token.TokenType,
		auth.AccountIDToken:           rawIDToken,
	}
	if token.RefreshToken != "" {
		acct[auth.AccountRefreshToken] = token.RefreshToken
	}
	if !token.Expiry.IsZero() {
		acct[auth.AccountExpiresAt] = token.Expiry.Unix()
	}

	extras := append([]string{auth.AccountScope, auth.AccountSessionState}, p.desc.TokenExtras...)
	for _, k := range extras {
		switch v := token.Extra(k).(type) {
		case nil:
		case string:
			if v != "" {
				acct[k] = v
			}
		default:
			acct[k] = v
		}
	}
	return acct
}
