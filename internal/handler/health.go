package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health reports process liveness for load balancers and uptime
// probes. It deliberately touches no backing store; a wedged database
// should surface through request latency alarms, not a flapping
// health check.
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
