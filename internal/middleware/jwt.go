package middleware // middleware contains reusable HTTP middleware functions

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/readyyyk/next-todos-api/internal/model"
	"github.com/readyyyk/next-todos-api/internal/utils"
)

// UserIDKey is the context key under which JWTAuth stores the
// authenticated subject's user id (as uint64).
const UserIDKey = "user_id"

// JWTAuth returns an Echo middleware that validates a Bearer access
// token and injects the token's subject into the request context.
// The secret must match the one used at issuance. Refresh tokens are
// rejected here even when otherwise valid: only the access kind
// authorizes API calls. Wrap every owner-scoped route with this so
// handlers can read the caller via c.Get(UserIDKey).
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, model.APIError{
					Message: "missing bearer token", Code: http.StatusUnauthorized,
				})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			uid, err := utils.VerifyToken(secret, raw, utils.KindAccess)
			if err != nil {
				// Expired, malformed, tampered and wrong-kind tokens all
				// collapse into the same client-facing 401.
				return c.JSON(http.StatusUnauthorized, model.APIError{
					Message: "invalid or expired token", Code: http.StatusUnauthorized,
				})
			}
			c.Set(UserIDKey, uid)
			return next(c)
		}
	}
}
