// Package router wires handlers and middleware onto the Echo instance.
// Public catalog routes, auth routes, booking routes and admin routes
// are registered by separate functions so main can compose exactly the
// surface it needs.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/dkarpov/event-booking/internal/config"
	"github.com/dkarpov/event-booking/internal/handler"
	"github.com/dkarpov/event-booking/internal/middleware"
)

// RegisterRoutes registers routes that require no authentication: the
// health check and the public event catalog.  The catalog sits behind
// the Redis response cache when one is configured.
func RegisterRoutes(e *echo.Echo, ev *handler.EventHandler, cacheCfg config.CacheConfig, rdb *redis.Client) {
	e.GET("/healthz", handler.Health)

	cache := middleware.NewRedisCache(cacheCfg, rdb)
	e.GET("/api/events", ev.List, cache)
	e.GET("/api/events/:id", ev.Get, cache)
}
