package provider

import "golang.org/x/oauth2"

const (
	CheckState = "state"
	CheckPKCE  = "pkce"

	TypeOIDC = "oidc"
)

// Style is how a sign-in button for the provider is drawn.
type Style struct {
	Text string `json:"text"`
	Bg   string `json:"bg"`
	Logo string `json:"logo"`
}

// Descriptor is the immutable description of one configured identity
// provider. It is built once at startup and never performs I/O itself.
type Descriptor struct {
	ID   string
	Name string
	Type string

	Issuer    string
	AuthURL   string
	TokenURL  string
	WellKnown string
	JWKSURL   string

	Scopes []string

	ClientID     string
	ClientSecret string

	// Checks lists the protections applied around the redirect: "state", "pkce".
	Checks []string

	// AuthStyle is how client credentials are sent to the token endpoint.
	AuthStyle oauth2.AuthStyle

	// TokenExtras names token-response fields copied verbatim into the
	// linked account record.
	TokenExtras []string

	// SkipIssuerCheck is set for multi-tenant endpoints whose tokens carry
	// the user's own tenant as issuer.
	SkipIssuerCheck bool

	Style Style
}

// Requires reports whether check is enabled for the provider.
func (d Descriptor) Requires(check string) bool {
	for _, c := range d.Checks {
		if c == check {
			return true
		}
	}
	return false
}

// Endpoint returns the oauth2 endpoint for the descriptor.
func (d Descriptor) Endpoint() oauth2.Endpoint {
	return oauth2.Endpoint{
		AuthURL:   d.AuthURL,
		TokenURL:  d.TokenURL,
		AuthStyle: d.AuthStyle,
	}
}
