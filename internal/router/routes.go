package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ukbizhub/directory-api/internal/auth"
	"github.com/ukbizhub/directory-api/internal/config"
	"github.com/ukbizhub/directory-api/internal/handler"
	middlewarepkg "github.com/ukbizhub/directory-api/internal/middleware"
)

// Handlers aggregates HTTP handlers used by the router.
type Handlers struct {
	Auth       *handler.AuthHandler
	Users      *handler.UserAdminHandler
	Businesses *handler.BusinessesHandler
	Submit     *handler.SubmitHandler
	Waitlist   *handler.WaitlistHandler
}

// Register wires all HTTP routes for the API.
func Register(e *echo.Echo, cfg *config.Config, jwtManager *auth.JWTManager, handlers Handlers) {
	e.GET("/healthz", func(c echo.Context) error {
		return handler.Success(c, http.StatusOK, "service healthy", map[string]any{"status": "ok"})
	})

	e.POST("/auth/login", handlers.Auth.Login)

	e.POST("/submit-business", handlers.Submit.Submit, middlewarepkg.SubmitRateLimiter(cfg.RateLimitSubmit))
	e.POST("/waitlist", handlers.Waitlist.Join)
	e.GET("/businesses", handlers.Businesses.List)
	e.GET("/businesses/:slug", handlers.Businesses.GetBySlug)

	secured := e.Group("")
	secured.Use(middlewarepkg.JWT(jwtManager))

	admin := secured.Group("/admin", middlewarepkg.RequireRole("admin"))
	admin.GET("/businesses", handlers.Businesses.ListAdmin)
	admin.GET("/businesses/:id", handlers.Businesses.GetAdmin)
	admin.PUT("/businesses/:id", handlers.Businesses.Update)
	admin.PATCH("/businesses/:id/status", handlers.Businesses.UpdateStatus)
	admin.DELETE("/businesses/:id", handlers.Businesses.Delete)
	admin.GET("/waitlist", handlers.Waitlist.List)
	admin.GET("/users", handlers.Users.List)
	admin.POST("/users", handlers.Users.Create)
	admin.PATCH("/users/:id", handlers.Users.Update)
	admin.DELETE("/users/:id", handlers.Users.Delete)
}
