package middleware

// identity.go holds the identity lookup shared by the rate limiter key
// builder.  It reads the values JWTAuth stored in the context; requests
// without a verified token are keyed as "anon".

import (
	"fmt"

	"github.com/labstack/echo/v4"
)

// currentUserID returns a stable string identifier for the
// authenticated user, or "anon" when the request carries no identity.
func currentUserID(c echo.Context) string {
	switch v := c.Get("user_id").(type) {
	case string:
		if v != "" {
			return v
		}
	case float64:
		return fmt.Sprintf("%.0f", v)
	case uint64:
		return fmt.Sprintf("%d", v)
	}
	return "anon"
}
