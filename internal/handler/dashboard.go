// Package handler exposes the HTTP handlers of the film dashboard.  Every
// user action (toggle listing, search, filter, insert) has its own handler
// working on the shared catalog accessor and the caller's session.
package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/film-dashboard/internal/catalog"
	"github.com/iliyamo/film-dashboard/internal/middleware"
)

// requestTimeout bounds the store round trips of a single request.
const requestTimeout = 10 * time.Second

// DashboardHandler serves the HTML dashboard.
type DashboardHandler struct {
	Films *catalog.Accessor // Films is the application state shared by all sessions
	Title string            // Title is shown in the page header
}

// NewDashboardHandler constructs a DashboardHandler and panics if films is nil.
func NewDashboardHandler(films *catalog.Accessor) *DashboardHandler {
	if films == nil {
		panic("nil accessor passed to NewDashboardHandler")
	}
	return &DashboardHandler{Films: films, Title: "Film Dashboard"}
}

type resultView struct {
	Heading string
	Table   *catalog.Table
}

type dashboardView struct {
	Title            string
	ShowAll          bool
	ShowParam        string
	Table            *catalog.Table
	Directors        []string
	SearchName       string
	SelectedDirector string
	Result           *resultView
	Notices          []catalog.Notice
	Form             catalog.FilmInput
}

// load resolves the session table and starts a view around it.
func (h *DashboardHandler) load(c echo.Context) (context.Context, context.CancelFunc, *dashboardView) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	table, n := h.Films.Current(ctx, middleware.SessionID(c))
	v := &dashboardView{Title: h.Title, Table: table}
	v.ShowAll = showAll(c)
	v.ShowParam = "0"
	if v.ShowAll {
		v.ShowParam = "1"
	}
	if n != nil {
		v.Notices = append(v.Notices, *n)
	}
	return ctx, cancel, v
}

func (h *DashboardHandler) render(c echo.Context, v *dashboardView) error {
	v.Directors = v.Table.Directors()
	return c.Render(http.StatusOK, "dashboard", v)
}

// Index handles GET / and shows the full listing unless show=0.
func (h *DashboardHandler) Index(c echo.Context) error {
	_, cancel, v := h.load(c)
	defer cancel()
	return h.render(c, v)
}

// Search handles GET /search?name=... .
func (h *DashboardHandler) Search(c echo.Context) error {
	_, cancel, v := h.load(c)
	defer cancel()
	v.SearchName = c.QueryParam("name")
	result, n := v.Table.Search(v.SearchName)
	v.Notices = append(v.Notices, n)
	if result != nil {
		v.Result = &resultView{Heading: "Search results", Table: result}
	}
	return h.render(c, v)
}

// Filter handles GET /filter?director=... .
func (h *DashboardHandler) Filter(c echo.Context) error {
	_, cancel, v := h.load(c)
	defer cancel()
	v.SelectedDirector = c.QueryParam("director")
	result, n := v.Table.FilterByDirector(v.SelectedDirector)
	v.Notices = append(v.Notices, n)
	if result != nil {
		v.Result = &resultView{Heading: "Films by " + v.SelectedDirector, Table: result}
	}
	return h.render(c, v)
}

// Insert handles the POST /films form.  Validation and duplicate failures
// are rendered inline and keep the submitted values in the form.
func (h *DashboardHandler) Insert(c echo.Context) error {
	ctx, cancel, v := h.load(c)
	defer cancel()
	var in catalog.FilmInput
	if err := c.Bind(&in); err != nil {
		v.Notices = append(v.Notices, catalog.Error("Invalid form submission."))
		return h.render(c, v)
	}
	res, err := h.Films.Insert(ctx, middleware.SessionID(c), v.Table, in)
	v.Table = res.Table
	v.Notices = append(v.Notices, res.Notices...)
	if err != nil {
		v.Form = in
	}
	return h.render(c, v)
}

// showAll reads the listing toggle; anything but an explicit off value
// keeps the listing visible.
func showAll(c echo.Context) bool {
	raw := c.QueryParam("show")
	if raw == "" {
		raw = c.FormValue("show")
	}
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "0", "false", "off", "no":
		return false
	}
	return true
}
