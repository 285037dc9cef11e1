// Package healthcheck serves and probes the liveness endpoint the
// deployment polls.
package healthcheck

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/iMedia24/workplacify/internal/logger"
)

// Path is the route the health endpoint is served on.
const Path = "/api/trpc/healthcheck"

const checkTimeout = 3 * time.Second

// Pinger is a dependency that can report whether it is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	deps map[string]Pinger
}

// NewHandler checks every dependency in deps, keyed by a name used in logs.
func NewHandler(deps map[string]Pinger) *Handler {
	return &Handler{deps: deps}
}

func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.GET(Path, h.check)
}

func (h *Handler) check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), checkTimeout)
	defer cancel()

	for name, dep := range h.deps {
		if err := dep.Ping(ctx); err != nil {
			logger.Error("health check failed", map[string]any{
				"dependency": name,
				"error":      err.Error(),
			})
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error": gin.H{"message": name + " unavailable"},
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"result": gin.H{"data": "ok"},
	})
}
