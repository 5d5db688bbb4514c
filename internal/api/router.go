// Package api serves an ontology backend read-only over HTTP.
package api

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/lexiconlab/babelex/internal/domain"
	"github.com/lexiconlab/babelex/internal/middleware"
)

const metricsPath = "/metrics"

// RouterDeps holds all dependencies needed by the router.
type RouterDeps struct {
	Log           *logrus.Logger
	Ontology      domain.Ontology
	Health        HealthChecker // optional backend probe
	Backend       string
	Version       string
	SchemaVersion int
	APIKey        string
	CORSOrigins   []string
}

// setupMiddleware configures all middleware on the Gin engine.
func setupMiddleware(r *gin.Engine, deps *RouterDeps) {
	r.SetTrustedProxies(nil) //nolint:errcheck // nil always succeeds.
	r.Use(middleware.RequestID(deps.Log))
	r.Use(middleware.Logger(deps.Log))
	r.Use(gin.Recovery())

	if len(deps.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     deps.CORSOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodOptions},
			AllowHeaders:     []string{"Authorization"},
			ExposeHeaders:    []string{middleware.RequestIDHeader},
			MaxAge:           1 * time.Hour,
			AllowCredentials: false,
		}))
	}

	r.Use(middleware.Prometheus(metricsPath))

	// Metrics endpoint (unauthenticated, like health).
	r.GET(metricsPath, gin.WrapH(promhttp.Handler()))
}

// registerRoutes sets up all API route handlers on the given router group.
func registerRoutes(api *gin.RouterGroup, deps *RouterDeps) {
	health := NewHealthHandler(deps.Health, deps.Log, deps.Version, deps.Backend, deps.SchemaVersion)
	ontology := NewOntologyHandler(deps.Ontology, deps.Log)

	// Health is unauthenticated.
	api.GET("/health", health.Liveness)

	api.Use(middleware.APIKey(deps.APIKey, deps.Log))

	api.GET("/synsets/:id/edges", ontology.Edges)
	api.GET("/synsets/:id/senses", ontology.Senses)
	api.GET("/lemmas/:lemma/synsets", ontology.SynsetsByLemma)
}

// NewRouter creates and configures the Gin engine with all middleware and routes.
func NewRouter(deps *RouterDeps) http.Handler {
	r := gin.New()
	setupMiddleware(r, deps)
	registerRoutes(r.Group("/api/v1"), deps)

	r.NoRoute(func(c *gin.Context) {
		middleware.RespondError(c, http.StatusNotFound, middleware.ErrCodeNotFound, "route not found")
	})

	return r
}
