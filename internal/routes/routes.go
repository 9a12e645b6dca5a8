package routes

import (
	"transport_backend/internal/handlers"
	"transport_backend/internal/logger"

	"github.com/gin-gonic/gin"
)

// Middlewares - готовые middleware, которые маршруты навешивают на группы
type Middlewares struct {
	Auth         gin.HandlerFunc
	OptionalAuth gin.HandlerFunc
	Admin        gin.HandlerFunc
	RateLimit    gin.HandlerFunc
}

// RegisterRoutes регистрирует все HTTP маршруты.
func RegisterRoutes(
	ginRouter *gin.Engine,
	appHandlers *handlers.AppHandlers,
	mw Middlewares,
) {
	// Служебные: /, /health, /metrics, /swagger, NoRoute
	appHandlers.SystemHandler.RegisterRoutes(ginRouter)

	api := ginRouter.Group("/api")
	{
		// Публичные
		appHandlers.AuthHandler.RegisterRoutes(api, mw.RateLimit)

		// Защищенные
		protected := api.Group("")
		protected.Use(mw.Auth)
		{
			appHandlers.UserHandler.RegisterRoutes(protected, mw.Admin)
			appHandlers.PostHandler.RegisterRoutes(protected)
			appHandlers.VehicleHandler.RegisterRoutes(protected)
			appHandlers.BookingHandler.RegisterRoutes(protected)
			appHandlers.NotificationHandler.RegisterRoutes(protected)
		}
	}

	uploads := ginRouter.Group("/uploads")
	appHandlers.UploadHandler.RegisterRoutes(uploads, mw.OptionalAuth)

	logger.Info("HTTP routes registered", "routes", len(ginRouter.Routes()))
}
