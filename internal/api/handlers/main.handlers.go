package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SetupMainHandlers registers the main application endpoints
func SetupMainHandlers(router *gin.RouterGroup, config map[string]string, metrics http.Handler) {
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"port":     config["port"],
			"sqidData": config["sqidData"],
			"mapMode":  config["mapMode"],
		})
	})

	if metrics != nil {
		router.GET("/metrics", gin.WrapH(metrics))
	}
}
