// health.go: liveness endpoint
package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

var serverStart = time.Now()

func (c *Controller) initHealthRoutes() {
	c.Group.GET("/health", c.HealthCheck)
}

// HealthCheck handles GET /api/health.
func (c *Controller) HealthCheck(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]any{
		"status":         "healthy",
		"uptime_seconds": int64(time.Since(serverStart).Seconds()),
		"version":        c.Settings.Version,
	})
}
