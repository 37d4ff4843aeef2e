package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Pinger checks a dependency.
type Pinger interface {
	Ping(ctx context.Context) error
}

// SessionCounter reports open wizard sessions.
type SessionCounter interface {
	Len() int
}

// HealthHandler provides health check endpoints.
type HealthHandler struct {
	store    Pinger
	backend  string
	sessions SessionCounter
	version  string
}

// NewHealthHandler creates a new health handler. store may be nil.
func NewHealthHandler(store Pinger, backend string, sessions SessionCounter, version string) *HealthHandler {
	return &HealthHandler{store: store, backend: backend, sessions: sessions, version: version}
}

// Live handles liveness probe (is the process alive?).
// GET /health/live
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// Ready handles readiness probe (can snapshots be persisted?).
// GET /health/ready
func (h *HealthHandler) Ready(c *gin.Context) {
	if h.store != nil {
		if err := h.store.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "error",
				"checks": map[string]string{
					"snapshot_store": "unhealthy: " + err.Error(),
				},
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"checks": map[string]string{
			"snapshot_store": "healthy",
		},
	})
}

// Info returns application information.
// GET /health/info
func (h *HealthHandler) Info(c *gin.Context) {
	info := gin.H{
		"app":     "onboarding",
		"version": h.version,
		"backend": h.backend,
	}
	if h.sessions != nil {
		info["open_sessions"] = h.sessions.Len()
	}
	c.JSON(http.StatusOK, info)
}
