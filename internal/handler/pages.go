package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-booking/internal/availability"
)

// HomePage is the view model of index.html.
type HomePage struct {
	TodayHours string
}

// Home renders the landing page with today's opening hours.
func (h *Handler) Home(c echo.Context) error {
	return c.Render(http.StatusOK, "index.html", HomePage{
		TodayHours: availability.HoursFor(h.today()).Display,
	})
}

// About renders the static about page.
func (h *Handler) About(c echo.Context) error {
	return c.Render(http.StatusOK, "about.html", nil)
}
