package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octobees/identity-console/api/internal/config"
	"github.com/octobees/identity-console/api/internal/handler"
	middlewarepkg "github.com/octobees/identity-console/api/internal/middleware"
)

// Handlers aggregates HTTP handlers used by the router.
type Handlers struct {
	Auth          *handler.AuthHandler
	ContextSwitch *handler.ContextSwitchHandler
	Console       *handler.ConsoleHandler
	Proxy         *handler.ProxyHandler
	Admin         *handler.AdminHandler
}

// Register wires all HTTP routes for the console gateway. The identity
// middleware is assumed to already be installed globally; route groups only
// add enforcement.
func Register(e *echo.Echo, cfg *config.Config, handlers Handlers) {
	e.GET("/healthz", func(c echo.Context) error {
		return handler.Success(c, http.StatusOK, "service healthy", map[string]any{"status": "ok"})
	})

	authLimit := middlewarepkg.AuthRateLimiter(cfg.RateLimitAuth)

	e.POST("/auth/login", handlers.Auth.Login, authLimit)

	secured := e.Group("", middlewarepkg.RequireAuth())
	secured.GET("/auth/session", handlers.Auth.Session)
	secured.POST("/auth/logout", handlers.Auth.Logout)
	secured.POST("/auth/context/switch", handlers.ContextSwitch.Switch, authLimit)
	secured.POST("/auth/context/switchback", handlers.ContextSwitch.SwitchBack, authLimit)
	secured.GET("/console/overview", handlers.Console.Overview)
	secured.Any("/api/*", handlers.Proxy.Forward)

	admin := secured.Group("/admin", middlewarepkg.RequireRole("admin"))
	admin.GET("/session/config", handlers.Admin.SessionConfig)
}
