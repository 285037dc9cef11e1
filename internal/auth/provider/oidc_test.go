package provider

import (
	"context"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	jose "github.com/go-jose/go-jose/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/iMedia24/workplacify/internal/auth"
)

const testIssuer = "https://issuer.example.com"

func signIDToken(t *testing.T, key *rsa.PrivateKey, claims map[string]any) string {
	t.Helper()

	signer, err := jose.NewSigner(jose.SigningKey{Algorithm: jose.RS256, Key: key}, nil)
	require.NoError(t, err)

	payload, err := json.Marshal(claims)
	require.NoError(t, err)

	jws, err := signer.Sign(payload)
	require.NoError(t, err)

	raw, err := jws.CompactSerialize()
	require.NoError(t, err)
	return raw
}

func testDescriptor(tokenURL string) Descriptor {
	return Descriptor{
		ID:           "test-idp",
		Name:         "Test IdP",
		Type:         TypeOIDC,
		Issuer:       testIssuer,
		AuthURL:      "https://issuer.example.com/authorize",
		TokenURL:     tokenURL,
		JWKSURL:      "https://issuer.example.com/keys",
		Scopes:       []string{oidc.ScopeOpenID, "email"},
		ClientID:     "client-1",
		ClientSecret: "secret-1",
		Checks:       []string{CheckState},
		AuthStyle:    oauth2.AuthStyleInParams,
		TokenExtras:  []string{"ext_expires_in"},
	}
}

func passthroughProfile(_ context.Context, p auth.Profile, _ auth.Tokens) auth.Identity {
	return auth.Identity{
		ID:    p.First("sub"),
		Name:  p.First("name"),
		Email: p.First("email"),
	}
}

func TestNewOIDCRequiresFields(t *testing.T) {
	t.Parallel()

	_, err := NewOIDC(Descriptor{ID: "x"}, "", passthroughProfile)
	require.Error(t, err)

	desc := testDescriptor("https://issuer.example.com/token")
	_, err = NewOIDC(desc, "", nil)
	require.Error(t, err)

	desc.JWKSURL = ""
	_, err = NewOIDC(desc, "", passthroughProfile)
	require.Error(t, err)
}

func TestAuthCodeURL(t *testing.T) {
	t.Parallel()

	desc := testDescriptor("https://issuer.example.com/token")
	p, err := NewOIDC(desc, "http://localhost:3000/api/auth/callback/test-idp", passthroughProfile)
	require.NoError(t, err)

	u, err := url.Parse(p.AuthCodeURL("state-1", "challenge-1"))
	require.NoError(t, err)
	q := u.Query()
	assert.Equal(t, "state-1", q.Get("state"))
	assert.Equal(t, "client-1", q.Get("client_id"))
	assert.Equal(t, "openid email", q.Get("scope"))
	assert.Empty(t, q.Get("code_challenge"), "pkce is not enabled for this descriptor")

	desc.Checks = []string{CheckState, CheckPKCE}
	p, err = NewOIDC(desc, "", passthroughProfile)
	require.NoError(t, err)

	u, err = url.Parse(p.AuthCodeURL("state-1", "challenge-1"))
	require.NoError(t, err)
	assert.Equal(t, "challenge-1", u.Query().Get("code_challenge"))
	assert.Equal(t, "S256", u.Query().Get("code_challenge_method"))
}

func TestExchange(t *testing.T) {
	t.Parallel()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	idToken := signIDToken(t, key, map[string]any{
		"iss":   testIssuer,
		"aud":   "client-1",
		"sub":   "abc",
		"name":  "A",
		"email": "a@x.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
		"iat":   time.Now().Unix(),
	})

	var form url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		form = r.PostForm

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token":   "access-1",
			"token_type":     "Bearer",
			"expires_in":     3600,
			"ext_expires_in": 3600,
			"scope":          "openid email",
			"id_token":       idToken,
		})
	}))
	t.Cleanup(srv.Close)

	p, err := NewOIDC(testDescriptor(srv.URL), "http://localhost/cb", passthroughProfile,
		WithKeySet(&oidc.StaticKeySet{PublicKeys: []crypto.PublicKey{&key.PublicKey}}),
		WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)

	res, err := p.Exchange(context.Background(), "code-1", "")
	require.NoError(t, err)

	assert.Equal(t, "code-1", form.Get("code"))
	assert.Equal(t, "secret-1", form.Get("client_secret"), "client secret is posted in the body")
	assert.Empty(t, form.Get("code_verifier"))

	assert.Equal(t, &auth.Identity{
		Provider: "test-idp",
		ID:       "abc",
		Name:     "A",
		Email:    "a@x.com",
	}, res.Identity)

	assert.Equal(t, "test-idp", res.Account.Provider())
	assert.Equal(t, "abc", res.Account[auth.AccountProviderAccountID])
	assert.Equal(t, "access-1", res.Account[auth.AccountAccessToken])
	assert.Equal(t, "openid email", res.Account[auth.AccountScope])
	assert.Equal(t, float64(3600), res.Account["ext_expires_in"])
	assert.Contains(t, res.Account, auth.AccountExpiresAt)
	assert.NotContains(t, res.Account, auth.AccountRefreshToken)
}

func TestExchangeRejectsForeignAudience(t *testing.T) {
	t.Parallel()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	idToken := signIDToken(t, key, map[string]any{
		"iss": testIssuer,
		"aud": "someone-else",
		"sub": "abc",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "access-1",
			"token_type":   "Bearer",
			"id_token":     idToken,
		})
	}))
	t.Cleanup(srv.Close)

	p, err := NewOIDC(testDescriptor(srv.URL), "", passthroughProfile,
		WithKeySet(&oidc.StaticKeySet{PublicKeys: []crypto.PublicKey{&key.PublicKey}}),
		WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)

	_, err = p.Exchange(context.Background(), "code-1", "")
	require.Error(t, err)
}

func TestExchangeWithoutIDToken(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"a","token_type":"Bearer"}`))
	}))
	t.Cleanup(srv.Close)

	p, err := NewOIDC(testDescriptor(srv.URL), "", passthroughProfile, WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	_, err = p.Exchange(context.Background(), "code-1", "")
	require.ErrorContains(t, err, "did not return id_token")
}
