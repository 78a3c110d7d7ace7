package api

import (
	"net/http"

	routes "mgrsgrid/internal/api/handlers"

	"github.com/gin-gonic/gin"
)

// SetupRouter initializes all application routes
func SetupRouter(r *gin.Engine, config map[string]string, grid *routes.GridHandlers, metrics http.Handler) {
	// API group
	api := r.Group("/api")

	// Setup main handlers
	routes.SetupMainHandlers(r.Group(""), config, metrics)

	// Setup grid handlers
	routes.SetupGridHandlers(api, grid)
}
