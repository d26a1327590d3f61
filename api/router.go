package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/berejant/sheetengine/contracts"
)

// ApiVersion is the URL path segment every route is grouped under.
const ApiVersion = "v1"

// SetupRouter wires every route in spec.md §6's table onto a fresh gin
// engine, exactly as the teacher's router.go does for its own endpoint
// set.
func SetupRouter(controller contracts.ApiController) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	apiGroup := router.Group("/api/" + ApiVersion)
	apiGroup.POST("/:sheet_id/:cell_id/copy", controller.CopyCellAction)
	apiGroup.POST("/:sheet_id/:cell_id/subscribe", controller.SubscribeAction)
	apiGroup.POST("/:sheet_id/:cell_id", controller.SetCellAction)
	apiGroup.GET("/:sheet_id/:cell_id", controller.GetCellAction)
	apiGroup.DELETE("/:sheet_id/:cell_id", controller.DeleteCellAction)
	apiGroup.GET("/:sheet_id", controller.GetSheetAction)
	apiGroup.DELETE("/:sheet_id", controller.ClearSheetAction)

	router.GET("/healthcheck", func(c *gin.Context) {
		c.String(http.StatusOK, "health")
	})

	return router
}
