package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-booking/internal/middleware"
	"github.com/iliyamo/restaurant-booking/internal/repository"
)

// ErrorPage is the view model of error.html.
type ErrorPage struct {
	Code    int
	Title   string
	Message string
}

// ErrorHandler renders errors returned by handlers. repository.ErrNotFound
// becomes a 404. Anything that is not an *echo.HTTPError is logged and
// answered with a generic 500 so internals never reach the client.
func ErrorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		msg := "Something went wrong on our side. Please try again."
		var he *echo.HTTPError
		switch {
		case errors.Is(err, repository.ErrNotFound):
			code = http.StatusNotFound
			msg = "The requested item does not exist."
		case errors.As(err, &he):
			code = he.Code
			if code < http.StatusInternalServerError {
				msg = fmt.Sprint(he.Message)
			}
		}
		if code >= http.StatusInternalServerError {
			logger.Error("request failed", "method", c.Request().Method, "path", c.Request().URL.Path, "err", err)
		}

		var werr error
		switch {
		case c.Request().Method == http.MethodHead:
			werr = c.NoContent(code)
		case middleware.IsProgrammatic(c):
			werr = c.JSON(code, echo.Map{"error": msg})
		default:
			werr = c.Render(code, "error.html", ErrorPage{Code: code, Title: http.StatusText(code), Message: msg})
			if werr != nil && !c.Response().Committed {
				werr = c.String(code, msg)
			}
		}
		if werr != nil {
			logger.Error("writing error response", "err", werr)
		}
	}
}
