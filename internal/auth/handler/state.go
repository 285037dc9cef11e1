package handler

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/iMedia24/workplacify/internal/utils"
)

const (
	stateCookieName    = "__oauth_state"
	callbackCookieName = "__oauth_callback"
	flowTTL            = 5 * time.Minute
)

func setFlowCookie(c *gin.Context, name, value string) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(flowTTL.Seconds()),
	})
}

func clearFlowCookie(c *gin.Context, name string) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

func flowCookie(c *gin.Context, name string) string {
	cookie, err := c.Request.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func generateState(c *gin.Context) (string, error) {
	state, err := utils.RandomString(32)
	if err != nil {
		return "", err
	}
	setFlowCookie(c, stateCookieName, state)
	return state, nil
}

func validateState(c *gin.Context) bool {
	stateQuery := c.Query("state")
	if stateQuery == "" {
		return false
	}

	stored := flowCookie(c, stateCookieName)
	if stored == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(stateQuery)) == 1
}

// safeCallbackURL accepts same-origin paths only; anything else falls
// back to def.
func safeCallbackURL(raw, def string) string {
	if len(raw) == 0 || raw[0] != '/' {
		return def
	}
	if len(raw) > 1 && (raw[1] == '/' || raw[1] == '\\') {
		return def
	}
	return raw
}
