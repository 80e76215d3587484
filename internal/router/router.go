// Package router builds the echo instance and maps every URL of the site to
// its handler and middleware.
package router

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/restaurant-booking/internal/handler"
	"github.com/iliyamo/restaurant-booking/internal/metrics"
	"github.com/iliyamo/restaurant-booking/internal/middleware"
	"github.com/iliyamo/restaurant-booking/internal/view"
)

// Options carries the optional middleware. Nil fields are skipped.
type Options struct {
	Logger    *slog.Logger
	Cache     *middleware.ResponseCache // menu pages
	RateLimit echo.MiddlewareFunc       // POST /book and POST /menu
	CSRF      echo.MiddlewareFunc
}

// New returns a configured echo instance serving the site through h.
func New(h *handler.Handler, renderer echo.Renderer, opts Options) *echo.Echo {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = renderer
	e.HTTPErrorHandler = handler.ErrorHandler(logger)

	// /book/ and /book are the same page.
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(middleware.RequestID())
	e.Use(metrics.Middleware())
	e.Use(middleware.RequestLogger(logger))
	e.Use(echomw.Recover())
	if opts.CSRF != nil {
		e.Use(opts.CSRF)
	}

	RegisterRoutes(e)
	RegisterSite(e, h, opts)
	return e
}

// RegisterRoutes registers operational endpoints: the liveness probe, the
// Prometheus scrape endpoint and the embedded static assets.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
	e.GET("/metrics", metrics.Handler())
	e.StaticFS("/static", view.StaticFS())
}

// RegisterSite registers the public pages.
func RegisterSite(e *echo.Echo, h *handler.Handler, opts Options) {
	var submit []echo.MiddlewareFunc
	if opts.RateLimit != nil {
		submit = append(submit, opts.RateLimit)
	}
	// Every page carries the visitor's CSRF token, so only script requests
	// are cached.
	pagesOnly := func(c echo.Context) bool { return !middleware.IsProgrammatic(c) }
	menuCache := opts.Cache.Middleware(handler.MenuCacheNamespace, pagesOnly)
	itemCache := opts.Cache.Middleware(handler.MenuCacheNamespace, pagesOnly)

	e.GET("/", h.Home)
	e.GET("/about", h.About)

	e.GET("/book", h.Book)
	e.POST("/book", h.Book, submit...)
	e.GET("/bookings", h.Bookings)

	e.GET("/menu", h.Menu, menuCache)
	e.POST("/menu", h.Menu, submit...)
	e.GET("/menu/item", h.MenuItem)
	e.GET("/menu/item/:id", h.MenuItem, itemCache)

	e.Any("/favicon.ico", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })
}
