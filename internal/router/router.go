package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/readyyyk/next-todos-api/internal/handler"
	"github.com/readyyyk/next-todos-api/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication:
// the greeting at the root and the health probe.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/", handler.Root)
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the login and token-refresh endpoints.
// Neither requires an access token: login takes credentials and
// refresh takes a bearer refresh token which the handler verifies
// itself.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler) {
	g := e.Group("/auth")
	g.POST("/login", a.Login)
	g.POST("/refresh-tokens", a.RefreshTokens)
}

// RegisterUsers registers account endpoints. Signup and public
// profile reads are open; everything touching the caller's own
// account sits behind the access-token middleware. The cache
// middleware (pass-through when Redis is absent) wraps only the
// public profile read.
func RegisterUsers(e *echo.Echo, u *handler.UserHandler, jwtSecret string, cache echo.MiddlewareFunc) {
	e.POST("/users/create", u.Create)
	e.GET("/users/:id", u.GetByID, cache)

	auth := middleware.JWTAuth(jwtSecret)
	e.GET("/users/me", u.Me, auth)
	e.PUT("/users/update", u.Update, auth)
	e.DELETE("/users/delete", u.Delete, auth)
}

// RegisterTodos registers todo endpoints. The whole group requires a
// valid access token; per-resource ownership is enforced inside the
// handlers.
func RegisterTodos(e *echo.Echo, t *handler.TodoHandler, jwtSecret string) {
	g := e.Group("/todos")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.GET("/my", t.My)
	g.POST("/create", t.Create)
	g.GET("/:id", t.Get)
	g.GET("/:id/with-owner", t.GetWithOwner)
	g.PUT("/:id/update", t.Update)
	g.DELETE("/:id/delete", t.Delete)
}
