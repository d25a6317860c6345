// Package handler contains the HTTP handlers for the event booking
// API.  Handlers translate between HTTP and the service/repository
// layers; authentication and role checks happen in middleware, but each
// handler still extracts the caller's identity from the context.
package handler

import (
	"errors"
	"strconv"

	"github.com/labstack/echo/v4"
)

var errNoUserID = errors.New("user id missing from context")

// getUserID extracts the authenticated user's ID from the echo context.
// JWT numeric claims arrive as float64; tokens minted by other
// implementations may carry the subject as a string.
func getUserID(c echo.Context) (uint64, error) {
	switch v := c.Get("user_id").(type) {
	case float64:
		if v < 0 {
			return 0, errNoUserID
		}
		return uint64(v), nil
	case uint64:
		return v, nil
	case int64:
		if v < 0 {
			return 0, errNoUserID
		}
		return uint64(v), nil
	case string:
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return 0, errNoUserID
		}
		return n, nil
	}
	return 0, errNoUserID
}

// currentRole returns the role claim set by the JWT middleware, or ""
// when absent.
func currentRole(c echo.Context) string {
	if role, ok := c.Get("role").(string); ok {
		return role
	}
	return ""
}

// currentEmail returns the email claim set by the JWT middleware.
func currentEmail(c echo.Context) string {
	if email, ok := c.Get("email").(string); ok {
		return email
	}
	return ""
}

// pathID parses the :id path parameter as a positive uint64.
func pathID(c echo.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}
