package router

import (
	"github.com/labstack/echo/v4"

	"github.com/dkarpov/event-booking/internal/handler"
	"github.com/dkarpov/event-booking/internal/middleware"
)

// RegisterAdmin registers event management and the stats dashboard.
// Both groups demand the admin role on top of a valid token.
func RegisterAdmin(e *echo.Echo, ev *handler.EventHandler, jwtSecret string) {
	events := e.Group("/api/events")
	events.Use(middleware.JWTAuth(jwtSecret))
	events.Use(middleware.RequireRole("admin"))
	events.POST("", ev.Create)
	events.PUT("/:id", ev.Update)
	events.DELETE("/:id", ev.Delete)

	stats := e.Group("/api/stats")
	stats.Use(middleware.JWTAuth(jwtSecret))
	stats.Use(middleware.RequireRole("admin"))
	stats.GET("", ev.AdminStats)
}
