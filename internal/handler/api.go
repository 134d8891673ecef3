package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/film-dashboard/internal/catalog"
	"github.com/iliyamo/film-dashboard/internal/middleware"
)

// APIHandler exposes the dashboard actions as JSON under /v1.
type APIHandler struct {
	Films *catalog.Accessor
}

// NewAPIHandler constructs an APIHandler and panics if films is nil.
func NewAPIHandler(films *catalog.Accessor) *APIHandler {
	if films == nil {
		panic("nil accessor passed to NewAPIHandler")
	}
	return &APIHandler{Films: films}
}

func notices(ns ...*catalog.Notice) []catalog.Notice {
	out := []catalog.Notice{}
	for _, n := range ns {
		if n != nil {
			out = append(out, *n)
		}
	}
	return out
}

func tableJSON(t *catalog.Table, ns []catalog.Notice) echo.Map {
	return echo.Map{"items": t.Rows, "count": t.Len(), "columns": t.Columns, "notices": ns}
}

// ListFilms handles GET /v1/films.  A failed load still answers 200 with
// an empty list and an error notice.
func (h *APIHandler) ListFilms(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()
	t, n := h.Films.Current(ctx, middleware.SessionID(c))
	return c.JSON(http.StatusOK, tableJSON(t, notices(n)))
}

// SearchFilms handles GET /v1/films/search?name=... .  A blank name is not
// an error: it answers 200 with no items and the search prompt.
func (h *APIHandler) SearchFilms(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()
	t, loadNotice := h.Films.Current(ctx, middleware.SessionID(c))
	result, n := t.Search(c.QueryParam("name"))
	if result == nil {
		result = catalog.EmptyTable()
	}
	return c.JSON(http.StatusOK, tableJSON(result, notices(loadNotice, &n)))
}

// ListDirectors handles GET /v1/films/directors.
func (h *APIHandler) ListDirectors(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()
	t, n := h.Films.Current(ctx, middleware.SessionID(c))
	return c.JSON(http.StatusOK, echo.Map{"items": t.Directors(), "notices": notices(n)})
}

// FilterFilms handles GET /v1/films/filter?director=... .  The director is
// matched exactly, without trimming; a blank one answers with the prompt.
func (h *APIHandler) FilterFilms(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()
	t, loadNotice := h.Films.Current(ctx, middleware.SessionID(c))
	result, n := t.FilterByDirector(c.QueryParam("director"))
	if result == nil {
		result = catalog.EmptyTable()
	}
	return c.JSON(http.StatusOK, tableJSON(result, notices(loadNotice, &n)))
}

// CreateFilm handles POST /v1/films.  400 for blank fields, 409 for a
// duplicate name, 500 when the store rejects the write.
func (h *APIHandler) CreateFilm(c echo.Context) error {
	var in catalog.FilmInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()
	sid := middleware.SessionID(c)
	current, loadNotice := h.Films.Current(ctx, sid)
	res, err := h.Films.Insert(ctx, sid, current, in)
	ns := append(notices(loadNotice), res.Notices...)
	switch {
	case errors.Is(err, catalog.ErrMissingField):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name, genre, director and company are required", "notices": ns})
	case errors.Is(err, catalog.ErrDuplicateName):
		return c.JSON(http.StatusConflict, echo.Map{"error": "film already exists", "notices": ns})
	case err != nil:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not insert film", "notices": ns})
	}
	return c.JSON(http.StatusCreated, echo.Map{"film": res.Film, "count": res.Table.Len(), "notices": ns})
}
