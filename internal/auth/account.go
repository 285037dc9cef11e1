package auth

// Well-known Account keys. Providers may add others taken straight from
// their token response; the persistence layer decides what it accepts.
const (
	AccountUserID            = "userId"
	AccountType              = "type"
	AccountProvider          = "provider"
	AccountProviderAccountID = "providerAccountId"
	AccountAccessToken       = "access_token"
	AccountRefreshToken      = "refresh_token"
	AccountExpiresAt         = "expires_at"
	AccountTokenType         = "token_type"
	AccountScope             = "scope"
	AccountIDToken           = "id_token"
	AccountSessionState      = "session_state"
	AccountExtExpiresIn      = "extExpiresIn"
)

// Account is a link request between an external identity and a local
// user, together with whatever token fields the provider returned.
type Account map[string]any

// Provider returns the provider id of the account, or "".
func (a Account) Provider() string {
	s, _ := a[AccountProvider].(string)
	return s
}

// Clone returns a shallow copy.
func (a Account) Clone() Account {
	out := make(Account, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}
