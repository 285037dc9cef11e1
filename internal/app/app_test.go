package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iMedia24/workplacify/internal/auth"
	"github.com/iMedia24/workplacify/internal/auth/adapter"
	"github.com/iMedia24/workplacify/internal/auth/provider"
	"github.com/iMedia24/workplacify/internal/auth/provider/entra"
	"github.com/iMedia24/workplacify/internal/auth/provider/google"
	"github.com/iMedia24/workplacify/internal/auth/resolver"
	"github.com/iMedia24/workplacify/internal/config"
	"github.com/iMedia24/workplacify/internal/db/dbtest"
	"github.com/iMedia24/workplacify/internal/healthcheck"
	"github.com/iMedia24/workplacify/internal/session"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testRouter struct {
	*gin.Engine
	sessions *session.RedisStore
	users    adapter.Adapter
}

func newTestRouter(t *testing.T) *testRouter {
	t.Helper()

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	database := dbtest.Setup(t)
	users := adapter.NewEntraLinkPatch(adapter.NewSQLAdapter(database))
	sessions := session.NewRedisStore(client)

	r := newRouter(routerDeps{
		cfg:      config.Config{BaseURL: "http://localhost:3000", SessionMaxAge: time.Hour},
		registry: provider.NewRegistry(),
		sessions: sessions,
		users:    users,
		resolver: resolver.NewAdapterResolver(users),
		health:   map[string]healthcheck.Pinger{"database": database},
	})
	return &testRouter{Engine: r, sessions: sessions, users: users}
}

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRootRedirectsToApp(t *testing.T) {
	t.Parallel()

	w := serve(newTestRouter(t), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/app", w.Header().Get("Location"))
}

func TestHealthcheckRoute(t *testing.T) {
	t.Parallel()

	w := serve(newTestRouter(t), httptest.NewRequest(http.MethodGet, healthcheck.Path, nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"result":{"data":"ok"}}`, w.Body.String())
}

func TestProvidersRouteEmpty(t *testing.T) {
	t.Parallel()

	w := serve(newTestRouter(t), httptest.NewRequest(http.MethodGet, "/api/auth/providers", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{}`, w.Body.String())
}

func TestMeRequiresSession(t *testing.T) {
	t.Parallel()

	r := newTestRouter(t)

	w := serve(r, httptest.NewRequest(http.MethodGet, "/api/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	ctx := context.Background()
	user, err := r.users.CreateUser(ctx, auth.User{Name: "A", Email: "a@x.com"})
	require.NoError(t, err)
	require.NoError(t, r.sessions.Create(ctx, session.Session{
		SessionID: "sid-1",
		UserID:    user.ID,
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(time.Hour),
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: "sid-1"})
	w = serve(r, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":"`+user.ID+`","name":"A","email":"a@x.com","image":null}`, w.Body.String())
}

func TestActiveProviders(t *testing.T) {
	t.Parallel()

	full := config.Config{
		BaseURL: "http://localhost:3000/",
		Google: config.GoogleConfig{
			ClientID:     "g-id",
			ClientSecret: "g-secret",
		},
		MicrosoftEntra: config.MicrosoftEntraConfig{
			ClientID:     "m-id",
			ClientSecret: "m-secret",
			Issuer:       "https://login.microsoftonline.com/tenant-1/wsfed",
		},
	}

	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   []string
	}{
		{
			name:   "all configured",
			mutate: func(*config.Config) {},
			want:   []string{google.ProviderID, entra.ProviderID},
		},
		{
			name:   "nothing configured",
			mutate: func(c *config.Config) { *c = config.Config{} },
			want:   []string{},
		},
		{
			name:   "entra missing issuer",
			mutate: func(c *config.Config) { c.MicrosoftEntra.Issuer = "" },
			want:   []string{google.ProviderID},
		},
		{
			name:   "google missing secret",
			mutate: func(c *config.Config) { c.Google.ClientSecret = "" },
			want:   []string{entra.ProviderID},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := full
			tt.mutate(&cfg)

			list, err := activeProviders(cfg)
			require.NoError(t, err)

			ids := []string{}
			for _, p := range list {
				ids = append(ids, p.ID())
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestRedirectURL(t *testing.T) {
	t.Parallel()

	assert.Equal(t,
		"http://localhost:3000/api/auth/callback/microsoft-entra-id",
		redirectURL("http://localhost:3000/", entra.ProviderID),
	)
}
