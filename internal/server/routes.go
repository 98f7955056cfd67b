package server

import (
	"github.com/labstack/echo/v4"

	"example.com/ai-green-advisor/backend/internal/handlers"
)

func registerRoutes(
	e *echo.Echo,
	recHandler *handlers.RecommendationHandler,
	notificationHandler *handlers.NotificationHandler,
	aiRateLimiter echo.MiddlewareFunc,
) {
	e.GET("/health", handlers.Health)

	api := e.Group("/api/v1")

	aiGroup := api.Group("/ai", aiRateLimiter)
	aiGroup.POST("/recommendations", recHandler.Generate)

	recommendations := api.Group("/recommendations")
	recommendations.GET("/:city", recHandler.Latest)
	recommendations.GET("/:city/history", recHandler.History)

	notifications := api.Group("/notifications")
	notifications.GET("/stream", notificationHandler.Stream)
}
