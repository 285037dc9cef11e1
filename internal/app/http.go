package app

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/iMedia24/workplacify/internal/auth/adapter"
	"github.com/iMedia24/workplacify/internal/auth/handler"
	"github.com/iMedia24/workplacify/internal/auth/provider"
	"github.com/iMedia24/workplacify/internal/auth/resolver"
	"github.com/iMedia24/workplacify/internal/config"
	"github.com/iMedia24/workplacify/internal/healthcheck"
	"github.com/iMedia24/workplacify/internal/middleware"
	"github.com/iMedia24/workplacify/internal/session"
	"github.com/iMedia24/workplacify/internal/theme"
)

// AppPath is where the web application lives; "/" redirects here.
const AppPath = "/app"

func setupHTTP(ctx context.Context, cfg config.Config) (*gin.Engine, func() error, error) {
	infra, err := setupInfra(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	providers, err := activeProviders(cfg)
	if err != nil {
		_ = infra.Close()
		return nil, nil, err
	}

	users := adapter.NewEntraLinkPatch(adapter.NewSQLAdapter(infra.DB))

	router := newRouter(routerDeps{
		cfg:      cfg,
		registry: provider.NewRegistry(providers...),
		sessions: session.NewRedisStore(infra.Redis.Client),
		users:    users,
		resolver: resolver.NewAdapterResolver(users),
		health: map[string]healthcheck.Pinger{
			"database": infra.DB,
			"redis":    infra.Redis,
		},
	})

	return router, infra.Close, nil
}

type routerDeps struct {
	cfg      config.Config
	registry *provider.Registry
	sessions session.Store
	users    adapter.Adapter
	resolver resolver.Resolver
	health   map[string]healthcheck.Pinger
}

func newRouter(d routerDeps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger())

	// Public routes

	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, AppPath)
	})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	handler.NewHandler(d.registry, d.sessions, d.resolver, d.users, handler.Config{
		BaseURL:          d.cfg.BaseURL,
		SessionMaxAge:    d.cfg.SessionMaxAge,
		SessionUpdateAge: d.cfg.SessionUpdateAge,
	}).RegisterRoutes(router)

	healthcheck.NewHandler(d.health).RegisterRoutes(router)
	theme.NewHandler(theme.Default()).RegisterRoutes(router)

	// Protected routes

	requireAuth := middleware.GinRequireAuth(middleware.NewAuthMiddleware(d.sessions))

	router.GET("/api/me", requireAuth, func(c *gin.Context) {
		user, err := d.users.GetUser(c.Request.Context(), c.GetString(middleware.UserIDKey))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
			"image": user.Image,
		})
	})

	router.GET(AppPath, requireAuth, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": c.GetString(middleware.UserIDKey),
		})
	})

	return router
}
