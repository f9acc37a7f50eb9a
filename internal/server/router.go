package server

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"metasecure-core/internal/handler"
	"metasecure-core/internal/handler/response"
	"metasecure-core/pkg/monitor"
)

// NewHTTPRouter builds the gin engine with the coordinator routes.
func NewHTTPRouter(sessionHandler *handler.SessionHandler, txHandler *handler.TransactionHandler) *gin.Engine {
	monitor.Init()

	r := gin.Default()

	r.Use(monitor.PrometheusMiddleware())

	r.GET("/health", handler.HealthCheck)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api/v1")
	{
		api.GET("/ping", func(c *gin.Context) {
			response.Success(c, gin.H{"pong": true})
		})

		sess := api.Group("/session")
		{
			sess.POST("/connect", sessionHandler.Connect)
			sess.GET("", sessionHandler.Get)
			sess.DELETE("", sessionHandler.Disconnect)
		}

		tx := api.Group("/transactions")
		{
			tx.POST("", txHandler.Submit)
			tx.GET("", txHandler.List)
			tx.PATCH("/draft", txHandler.UpdateDraft)
			tx.GET("/count", txHandler.Count)
			tx.GET("/partials", txHandler.Partials)
		}
	}

	return r
}
