package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"ntf/internal/config"
	"ntf/internal/http/controller"
	"ntf/internal/http/dto"
	"ntf/internal/http/middleware"
	"ntf/internal/http/resp"
)

func NewRouter(cfg *config.Config, handler *controller.Handler, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(
		otelgin.Middleware(cfg.OTELServiceName),
		middleware.Metrics(),
		middleware.ZapLogger(logger),
		middleware.ZapRecovery(logger),
	)

	router.GET("/health", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	router.GET("/status", handler.Status)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/sse", handler.Stream)

	notifications := router.Group("/notifications")
	notifications.GET("", handler.ListNotifications)
	notifications.POST("", handler.CreateNotification)
	notifications.POST("/publish", handler.PublishNotification)
	notifications.GET("/:id", handler.GetNotification)
	notifications.PUT("/:id", handler.AcknowledgeNotification)
	notifications.DELETE("/:id", handler.DeleteNotification)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Code: resp.CodeNotFound, Message: "route not found"})
	})

	return router
}
