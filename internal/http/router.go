// Grounded on internal/http/router.go's RouterConfig + route-grouping style.
package http

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/neurobridge-backend/internal/http/handlers"
	httpMW "github.com/yungbote/neurobridge-backend/internal/http/middleware"
	"github.com/yungbote/neurobridge-backend/internal/platform/logger"
)

type RouterConfig struct {
	ConceptHandler *handlers.ConceptHandler
	HealthHandler  *handlers.HealthHandler
	Log            *logger.Logger
	AllowOrigins   []string
}

// NewRouter builds the gin engine serving S9's read-only endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpMW.AttachRequestContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS(cfg.AllowOrigins))

	if cfg.HealthHandler != nil {
		r.GET("/healthz", cfg.HealthHandler.HealthCheck)
	}

	v1 := r.Group("/v1")
	{
		if cfg.ConceptHandler != nil {
			v1.GET("/concepts/:id", cfg.ConceptHandler.GetConcept)
			v1.GET("/concepts/:id/evidence", cfg.ConceptHandler.GetEvidence)
			v1.GET("/concepts/:id/neighbors", cfg.ConceptHandler.GetNeighbors)
		}
	}

	return r
}
