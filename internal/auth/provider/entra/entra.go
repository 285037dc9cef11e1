// Package entra wires Microsoft Entra ID as an OpenID Connect provider.
package entra

import (
	"fmt"
	"regexp"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/iMedia24/workplacify/internal/auth/provider"
)

const ProviderID = "microsoft-entra-id"

// DefaultTenant is used when no tenant can be read from the issuer URL.
const DefaultTenant = "common"

const loginHost = "https://login.microsoftonline.com"

// wsfedTenant matches the tenant segment of a WS-Federation sign-on
// endpoint, e.g. https://login.microsoftonline.com/{tenant}/wsfed.
var wsfedTenant = regexp.MustCompile(`/([^/]+)/wsfed$`)

// issuerChecked reports whether tokens are issued under tenant itself.
// Entra puts the tenant GUID in "iss", so multi-tenant segments
// ("common", "organizations", "consumers") and domain names such as
// contoso.onmicrosoft.com cannot be checked against the issuer.
func issuerChecked(tenant string) bool {
	_, err := uuid.Parse(tenant)
	return err == nil
}

type Config struct {
	ClientID     string
	ClientSecret string
	// Issuer is the WS-Federation sign-on endpoint of the app registration.
	Issuer string
}

// TenantFromIssuer extracts the tenant segment from issuer, falling back
// to DefaultTenant when the URL does not end in /{tenant}/wsfed.
func TenantFromIssuer(issuer string) string {
	m := wsfedTenant.FindStringSubmatch(issuer)
	if m == nil {
		return DefaultTenant
	}
	return m[1]
}

// NewDescriptor derives every endpoint from the tenant segment of cfg.Issuer.
func NewDescriptor(cfg Config) provider.Descriptor {
	tenant := TenantFromIssuer(cfg.Issuer)
	base := fmt.Sprintf("%s/%s", loginHost, tenant)

	return provider.Descriptor{
		ID:           ProviderID,
		Name:         "Microsoft Entra ID",
		Type:         provider.TypeOIDC,
		Issuer:       base + "/v2.0",
		AuthURL:      base + "/oauth2/v2.0/authorize",
		TokenURL:     base + "/oauth2/v2.0/token",
		WellKnown:    base + "/v2.0/.well-known/openid-configuration",
		JWKSURL:      base + "/discovery/v2.0/keys",
		Scopes:       []string{oidc.ScopeOpenID, "profile", "email", "User.Read"},
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Checks:       []string{provider.CheckState},
		AuthStyle:    oauth2.AuthStyleInParams,
		TokenExtras:  []string{"ext_expires_in"},

		SkipIssuerCheck: !issuerChecked(tenant),

		Style: provider.Style{
			Text: "#fff",
			Bg:   "#0072c6",
			Logo: "https://learn.microsoft.com/en-us/entra/fundamentals/media/new-name/microsoft-entra-id-icon.png",
		},
	}
}

// New builds the Entra provider. A nil normalizer uses the Graph API
// defaults.
func New(cfg Config, redirectURL string, normalizer *Normalizer, opts ...provider.Option) (*provider.OIDCProvider, error) {
	if normalizer == nil {
		normalizer = &Normalizer{}
	}
	return provider.NewOIDC(NewDescriptor(cfg), redirectURL, normalizer.Normalize, opts...)
}
