package router

import (
	"github.com/labstack/echo/v4"

	"github.com/dkarpov/event-booking/internal/handler"
	"github.com/dkarpov/event-booking/internal/middleware"
)

// RegisterAuth registers the auth endpoints and the authenticated
// profile endpoints.  Register, login and refresh need no session;
// logout accepts either a refresh token in the body or a bearer token,
// so it is wired both inside and outside the protected group.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, u *handler.UserHandler, jwtSecret string) {
	g := e.Group("/api/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)

	users := e.Group("/api/users")
	users.Use(middleware.JWTAuth(jwtSecret))
	users.Use(middleware.RequireRole("client", "admin"))
	users.GET("/profile", u.Profile)
	users.PUT("/profile", u.UpdateProfile)
	users.PUT("/change-password", u.ChangePassword)
}
