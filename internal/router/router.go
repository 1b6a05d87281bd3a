package router

import (
	"github.com/gin-gonic/gin"

	"github.com/jalshrestha/capitolwatch/internal/handler"
)

// New assembles the HTTP routes.
func New(h *handler.ScrapeHandler) *gin.Engine {
	r := gin.Default()

	v1 := r.Group("/v1")
	{
		v1.POST("/scrape", h.Trigger)
		v1.GET("/scheduler", h.SchedulerStatus)
		v1.POST("/scheduler", h.SchedulerControl)
	}

	return r
}
