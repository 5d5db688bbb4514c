package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/lexiconlab/babelex/internal/models"
)

// HealthChecker probes a backend dependency. *dbpool.Pool satisfies it.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// HealthHandler serves the health check endpoint.
type HealthHandler struct {
	checker       HealthChecker
	log           *logrus.Logger
	version       string
	backend       string
	schemaVersion int
}

// NewHealthHandler creates a HealthHandler. checker may be nil.
func NewHealthHandler(checker HealthChecker, log *logrus.Logger, version, backend string, schemaVersion int) *HealthHandler {
	return &HealthHandler{
		checker:       checker,
		log:           log,
		version:       version,
		backend:       backend,
		schemaVersion: schemaVersion,
	}
}

// Liveness handles GET /api/v1/health. It answers 503 when the backend
// probe fails.
func (h *HealthHandler) Liveness(c *gin.Context) {
	resp := models.HealthResponse{
		Status:        "ok",
		Version:       h.version,
		Backend:       h.backend,
		SchemaVersion: h.schemaVersion,
	}

	if h.checker != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := h.checker.HealthCheck(ctx); err != nil {
			h.log.WithError(err).Warn("health check failed")
			resp.Status = "unavailable"
			c.JSON(http.StatusServiceUnavailable, resp)

			return
		}
	}

	c.JSON(http.StatusOK, resp)
}
