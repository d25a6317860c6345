package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkarpov/event-booking/internal/utils"
)

const testSecret = "test-secret"

func runProtected(t *testing.T, authHeader string, mw ...echo.MiddlewareFunc) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	for i := len(mw) - 1; i >= 0; i-- {
		h = mw[i](h)
	}
	require.NoError(t, h(c))
	return rec, c
}

func TestJWTAuth(t *testing.T) {
	t.Run("valid token populates identity claims", func(t *testing.T) {
		at, err := utils.NewAccessToken(testSecret, 42, "user@example.com", "client", 5)
		require.NoError(t, err)

		rec, c := runProtected(t, "Bearer "+at.Token, JWTAuth(testSecret))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, float64(42), c.Get("user_id"))
		assert.Equal(t, "user@example.com", c.Get("email"))
		assert.Equal(t, "client", c.Get("role"))
	})

	t.Run("missing header", func(t *testing.T) {
		rec, _ := runProtected(t, "", JWTAuth(testSecret))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("wrong secret", func(t *testing.T) {
		at, err := utils.NewAccessToken("other-secret", 42, "user@example.com", "client", 5)
		require.NoError(t, err)

		rec, _ := runProtected(t, "Bearer "+at.Token, JWTAuth(testSecret))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRequireRole(t *testing.T) {
	adminToken := func(t *testing.T, role string) string {
		at, err := utils.NewAccessToken(testSecret, 1, "a@example.com", role, 5)
		require.NoError(t, err)
		return "Bearer " + at.Token
	}

	t.Run("allowed role passes", func(t *testing.T) {
		rec, _ := runProtected(t, adminToken(t, "admin"), JWTAuth(testSecret), RequireRole("admin"))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("disallowed role gets 403", func(t *testing.T) {
		rec, _ := runProtected(t, adminToken(t, "client"), JWTAuth(testSecret), RequireRole("admin"))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}
