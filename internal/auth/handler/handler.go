// Package handler serves the sign-in routes under /api/auth.
package handler

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/iMedia24/workplacify/internal/auth/adapter"
	"github.com/iMedia24/workplacify/internal/auth/provider"
	"github.com/iMedia24/workplacify/internal/auth/resolver"
	"github.com/iMedia24/workplacify/internal/logger"
	"github.com/iMedia24/workplacify/internal/session"
)

const (
	BasePath = "/api/auth"

	// DefaultCallbackURL is where users land after signing in.
	DefaultCallbackURL = "/app"

	errorPath = BasePath + "/error"
)

// Error codes passed to the error route.
const (
	ErrCodeAccountNotLinked = "OAuthAccountNotLinked"
	ErrCodeCallback         = "OAuthCallbackError"
	ErrCodeSignin           = "OAuthSignin"
	ErrCodeDefault          = "Default"
)

// DefaultSessionUpdateAge is how often an active session's expiry is
// pushed forward.
const DefaultSessionUpdateAge = 24 * time.Hour

type Config struct {
	// BaseURL is the public origin, used to build absolute URLs.
	BaseURL       string
	SessionMaxAge time.Duration

	// SessionUpdateAge defaults to DefaultSessionUpdateAge.
	SessionUpdateAge time.Duration
}

type Handler struct {
	providers    *provider.Registry
	sessionStore session.Store
	resolver     resolver.Resolver
	users        adapter.Adapter
	cfg          Config
	now          func() time.Time
}

func NewHandler(
	registry *provider.Registry,
	sessionStore session.Store,
	resolver resolver.Resolver,
	users adapter.Adapter,
	cfg Config,
) *Handler {
	if cfg.SessionUpdateAge <= 0 {
		cfg.SessionUpdateAge = DefaultSessionUpdateAge
	}
	return &Handler{
		providers:    registry,
		sessionStore: sessionStore,
		resolver:     resolver,
		users:        users,
		cfg:          cfg,
		now:          time.Now,
	}
}

func (h *Handler) RegisterRoutes(r gin.IRouter) {
	g := r.Group(BasePath)
	g.GET("/providers", h.listProviders)
	g.GET("/signin/:provider", h.signin)
	g.GET("/callback/:provider", h.callback)
	g.GET("/session", h.session)
	g.POST("/signout", h.Signout)
	g.GET("/error", h.errorPage)
}

type providerView struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Type        string         `json:"type"`
	SigninURL   string         `json:"signinUrl"`
	CallbackURL string         `json:"callbackUrl"`
	Style       provider.Style `json:"style"`
}

func (h *Handler) listProviders(c *gin.Context) {
	out := make(map[string]providerView, h.providers.Len())
	for _, p := range h.providers.List() {
		d := p.Descriptor()
		out[d.ID] = providerView{
			ID:          d.ID,
			Name:        d.Name,
			Type:        d.Type,
			SigninURL:   h.absURL("/signin/" + d.ID),
			CallbackURL: h.absURL("/callback/" + d.ID),
			Style:       d.Style,
		}
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) signin(c *gin.Context) {
	providerName := c.Param("provider")

	p, err := h.providers.Get(providerName)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "unknown oauth provider",
		})
		return
	}

	state, err := generateState(c)
	if err != nil {
		h.redirectError(c, ErrCodeSignin)
		return
	}

	var codeChallenge string
	if p.Descriptor().Requires(provider.CheckPKCE) {
		if _, codeChallenge, err = generatePKCE(c); err != nil {
			h.redirectError(c, ErrCodeSignin)
			return
		}
	}

	setFlowCookie(c, callbackCookieName, safeCallbackURL(c.Query("callbackUrl"), DefaultCallbackURL))

	c.Redirect(http.StatusFound, p.AuthCodeURL(state, codeChallenge))
}

func (h *Handler) callback(c *gin.Context) {
	providerName := c.Param("provider")

	p, err := h.providers.Get(providerName)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "unknown oauth provider",
		})
		return
	}

	if !validateState(c) {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "invalid state",
		})
		return
	}

	callbackURL := safeCallbackURL(flowCookie(c, callbackCookieName), DefaultCallbackURL)
	clearFlowCookie(c, stateCookieName)
	clearFlowCookie(c, callbackCookieName)

	if errParam := c.Query("error"); errParam != "" {
		logger.Warn("oidc callback returned error", map[string]any{
			"provider": providerName,
			"error":    errParam,
			"desc":     c.Query("error_description"),
		})
		h.redirectError(c, ErrCodeCallback)
		return
	}

	code := c.Query("code")
	if code == "" {
		logger.Error("oidc callback missing code and error", map[string]any{
			"provider": providerName,
		})
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}

	var codeVerifier string
	if p.Descriptor().Requires(provider.CheckPKCE) {
		codeVerifier = getPKCEVerifier(c)
		if codeVerifier == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "missing pkce verifier",
			})
			return
		}
		clearFlowCookie(c, pkceCookieName)
	}

	ctx := c.Request.Context()

	res, err := p.Exchange(ctx, code, codeVerifier)
	if err != nil {
		h.redirectError(c, ErrCodeCallback)
		return
	}

	user, err := h.resolver.Resolve(ctx, res.Identity, res.Account)
	if errors.Is(err, resolver.ErrAccountNotLinked) {
		h.redirectError(c, ErrCodeAccountNotLinked)
		return
	}
	if err != nil {
		logger.Error("failed to resolve user", map[string]any{
			"provider": providerName,
			"error":    err.Error(),
		})
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed to resolve user",
		})
		return
	}

	sessionID, err := session.GenerateID()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed to create session",
		})
		return
	}

	now := h.now()
	sess := session.Session{
		SessionID: sessionID,
		UserID:    user.ID,
		Provider:  providerName,
		CreatedAt: now,
		ExpiresAt: now.Add(h.cfg.SessionMaxAge),
	}

	if err := h.sessionStore.Create(ctx, sess); err != nil {
		logger.Error("failed to persist session", map[string]any{
			"error": err.Error(),
		})
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed to persist session",
		})
		return
	}

	session.SetCookie(c.Writer, sessionID, sess.ExpiresAt, session.CookieOptions{})

	logger.Info("login success", map[string]any{
		"user_id":  user.ID,
		"provider": providerName,
		"ip":       c.ClientIP(),
	})

	c.Redirect(http.StatusFound, callbackURL)
}

// session answers with the shaped session of the caller, or {} when
// there is none.
func (h *Handler) session(c *gin.Context) {
	ctx := c.Request.Context()

	sessionID := session.FromRequest(c.Request)
	if sessionID == "" {
		c.JSON(http.StatusOK, gin.H{})
		return
	}

	sess, err := h.sessionStore.Get(ctx, sessionID)
	if err != nil {
		logger.Error("session lookup failed", map[string]any{
			"error": err.Error(),
		})
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed to load session",
		})
		return
	}
	if sess == nil || sess.Expired(h.now()) {
		c.JSON(http.StatusOK, gin.H{})
		return
	}

	user, err := h.users.GetUser(ctx, sess.UserID)
	if errors.Is(err, adapter.ErrNotFound) {
		c.JSON(http.StatusOK, gin.H{})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed to load user",
		})
		return
	}

	h.refresh(c, sess)

	c.JSON(http.StatusOK, session.Shape(session.NewView(*sess, *user), *user))
}

// refresh extends sess to a full max age once SessionUpdateAge has
// passed since it was last extended. Failures keep the old expiry.
func (h *Handler) refresh(c *gin.Context, sess *session.Session) {
	now := h.now()
	lastExtended := sess.ExpiresAt.Add(-h.cfg.SessionMaxAge)
	if now.Sub(lastExtended) < h.cfg.SessionUpdateAge {
		return
	}

	extended := *sess
	extended.ExpiresAt = now.Add(h.cfg.SessionMaxAge)
	if err := h.sessionStore.Update(c.Request.Context(), extended); err != nil {
		logger.Warn("session refresh failed", map[string]any{
			"error": err.Error(),
		})
		return
	}

	*sess = extended
	session.SetCookie(c.Writer, sess.SessionID, sess.ExpiresAt, session.CookieOptions{})
}

// Signout is idempotent: it answers 204 whether or not a session existed.
func (h *Handler) Signout(c *gin.Context) {
	if sessionID := session.FromRequest(c.Request); sessionID != "" {
		if err := h.sessionStore.Delete(c.Request.Context(), sessionID); err != nil {
			logger.Warn("session delete failed", map[string]any{
				"error": err.Error(),
			})
		}
		logger.Info("logout", map[string]any{
			"ip": c.ClientIP(),
		})
	}

	session.ClearCookie(c.Writer, session.CookieOptions{})
	c.Status(http.StatusNoContent)
}

func (h *Handler) errorPage(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error": c.DefaultQuery("error", ErrCodeDefault),
	})
}

func (h *Handler) redirectError(c *gin.Context, code string) {
	c.Redirect(http.StatusFound, errorPath+"?error="+url.QueryEscape(code))
}

func (h *Handler) absURL(path string) string {
	return strings.TrimRight(h.cfg.BaseURL, "/") + BasePath + path
}
