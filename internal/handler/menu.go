package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-booking/internal/form"
	"github.com/iliyamo/restaurant-booking/internal/metrics"
	"github.com/iliyamo/restaurant-booking/internal/middleware"
	"github.com/iliyamo/restaurant-booking/internal/model"
)

// MenuPage is the view model of menu.html.
type MenuPage struct {
	Menu   []model.MenuItem
	Form   form.Menu
	Errors form.Errors
}

// MenuItemPage is the view model of menu_item.html. Item is nil when no id
// was given.
type MenuItemPage struct {
	Item *model.MenuItem
}

type menuEntry struct {
	ID          uint64  `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
}

type menuResponse struct {
	Menu []menuEntry `json:"menu"`
}

// Menu serves GET and POST /menu.
func (h *Handler) Menu(c echo.Context) error {
	if c.Request().Method == http.MethodPost {
		return h.createMenuItem(c)
	}
	items, err := h.MenuRepo.ListAll(c.Request().Context())
	if err != nil {
		return err
	}
	if middleware.IsProgrammatic(c) {
		out := menuResponse{Menu: make([]menuEntry, 0, len(items))}
		for _, it := range items {
			out.Menu = append(out.Menu, menuEntry{ID: it.ID, Name: it.Name, Price: it.Price, Description: it.Description})
		}
		return c.JSON(http.StatusOK, out)
	}
	return c.Render(http.StatusOK, "menu.html", MenuPage{Menu: items})
}

func (h *Handler) createMenuItem(c echo.Context) error {
	ctx := c.Request().Context()
	programmatic := middleware.IsProgrammatic(c)

	f := form.MenuFromValues(c.FormValue)
	item, errs := f.Validate()
	if len(errs) > 0 {
		if programmatic {
			return c.JSON(http.StatusBadRequest, statusResponse{Status: "error", Message: "Invalid form data", Errors: errs})
		}
		items, err := h.MenuRepo.ListAll(ctx)
		if err != nil {
			return err
		}
		return c.Render(http.StatusOK, "menu.html", MenuPage{Menu: items, Form: f, Errors: errs})
	}

	if err := h.MenuRepo.Create(ctx, &item); err != nil {
		h.logger().Error("menu: create failed", "err", err)
		if programmatic {
			return c.JSON(http.StatusInternalServerError, internalResponse)
		}
		return err
	}
	metrics.RecordMenuItemCreated()
	h.purgeMenu(ctx)

	if programmatic {
		return c.JSON(http.StatusOK, successResponse)
	}
	return c.Redirect(http.StatusFound, "/menu")
}

// MenuItem serves GET /menu/item and /menu/item/:id. A missing item is
// returned as repository.ErrNotFound for the error handler to turn into 404.
func (h *Handler) MenuItem(c echo.Context) error {
	raw := c.Param("id")
	if raw == "" {
		return c.Render(http.StatusOK, "menu_item.html", MenuItemPage{})
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return echo.ErrNotFound
	}
	item, err := h.MenuRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, "menu_item.html", MenuItemPage{Item: item})
}
