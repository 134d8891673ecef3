package router // package router defines how HTTP routes are registered

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/film-dashboard/internal/handler"
)

// RegisterRoutes registers routes that need neither a session nor the
// films store.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterDashboard registers the HTML dashboard.  session resolves the
// caller's session; limiter guards the insert form.
func RegisterDashboard(e *echo.Echo, d *handler.DashboardHandler, session, limiter echo.MiddlewareFunc) {
	g := e.Group("", session)
	g.GET("/", d.Index)
	g.GET("/search", d.Search)
	g.GET("/filter", d.Filter)
	g.POST("/films", d.Insert, limiter)
}

// RegisterAPI registers the JSON mirror of the dashboard actions under /v1.
// It shares the session cookie with the HTML pages so both see the same
// memoized table.
func RegisterAPI(e *echo.Echo, a *handler.APIHandler, session, limiter echo.MiddlewareFunc) {
	g := e.Group("/v1", session)
	g.GET("/films", a.ListFilms)
	g.GET("/films/search", a.SearchFilms)
	g.GET("/films/directors", a.ListDirectors)
	g.GET("/films/filter", a.FilterFilms)
	g.POST("/films", a.CreateFilm, limiter)
}
