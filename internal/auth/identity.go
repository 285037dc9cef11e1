package auth

import "time"

// Identity is the provider-independent shape of a signed-in person,
// produced by a provider's profile mapping. It contains facts only.
type Identity struct {
	Provider      string  // provider id, e.g. "google", "microsoft-entra-id"
	ID            string  // provider-scoped stable subject
	Name          string  // display name, may be empty
	Email         string  // may be empty
	Image         *string // avatar URL or data URI; nil when unavailable
	EmailVerified bool
}

// Tokens is the token set returned by a provider's token endpoint.
type Tokens struct {
	AccessToken  string
	RefreshToken string
	IDToken      string
	TokenType    string
	Expiry       time.Time
}

// Profile is an unvalidated claim set as returned by an identity provider.
type Profile map[string]any

// First returns the first of keys holding a non-empty string value,
// or "" when none does.
func (p Profile) First(keys ...string) string {
	for _, k := range keys {
		if s, ok := p[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// Bool returns the boolean claim at key. Some providers send
// "true"/"false" strings instead of JSON booleans.
func (p Profile) Bool(key string) bool {
	switch v := p[key].(type) {
	case bool:
		return v
	case string:
		return v == "true"
	default:
		return false
	}
}
