package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Idkwii/Cycle-youtube-analytics/infrastructure/configuration"
	httpHandler "github.com/Idkwii/Cycle-youtube-analytics/interfaces/http"
)

// InitiateRouter wires the HTTP surface: the dashboard API under /api, a
// liveness probe and the Prometheus scrape endpoint.
func InitiateRouter(
	dashboardHandler httpHandler.IDashboardHandler,
	metricsHandler http.Handler,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     configuration.C.App.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if metricsHandler != nil {
		router.GET("/metrics", gin.WrapH(metricsHandler))
	}

	api := router.Group("api")
	{
		api.GET("/state", dashboardHandler.GetState)

		api.POST("/folders", dashboardHandler.AddFolder)
		api.DELETE("/folders/:id", dashboardHandler.DeleteFolder)

		api.POST("/channels", dashboardHandler.AddChannel)
		api.DELETE("/channels/:id", dashboardHandler.DeleteChannel)
		api.PUT("/channels/:id/folder", dashboardHandler.MoveChannel)

		api.PUT("/period", dashboardHandler.SetPeriod)
		api.POST("/refresh", dashboardHandler.Refresh)

		api.GET("/share-link", dashboardHandler.GetShareLink)
		api.POST("/import", dashboardHandler.ImportShareLink)

		api.GET("/notifications", dashboardHandler.GetNotifications)
		api.GET("/videos", dashboardHandler.GetVideos)
		api.GET("/summary", dashboardHandler.GetSummary)
		api.GET("/top-channels", dashboardHandler.GetTopChannels)
	}

	return router
}
