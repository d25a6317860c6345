package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/dkarpov/event-booking/internal/config"
	"github.com/dkarpov/event-booking/internal/handler"
	"github.com/dkarpov/event-booking/internal/middleware"
)

// RegisterBookings registers the booking lifecycle routes.  Every
// route requires a valid bearer token; the write endpoints also sit
// behind the Redis token-bucket limiter so one client cannot flood the
// ledger with booking attempts.
func RegisterBookings(e *echo.Echo, b *handler.BookingHandler, jwtSecret string, rlCfg config.RateLimitConfig, rdb *redis.Client) {
	g := e.Group("/api/bookings")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole("client", "admin"))

	limit := middleware.NewTokenBucket(rlCfg, rdb)

	g.POST("", b.Create, limit)
	g.GET("", b.List)
	g.GET("/:id", b.Get)
	g.PUT("/:id", b.Update, limit)
	g.DELETE("/:id", b.Cancel, limit)
	g.POST("/:id/send-ticket", b.SendTicket, limit)
}
