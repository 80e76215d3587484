package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health is a liveness probe for load balancers. It answers "ok" while the
// process can serve requests and does not touch the record store.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}
