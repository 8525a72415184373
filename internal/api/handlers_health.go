// handlers_health.go - Health check handlers
package api

import (
	"net/http"
	"os"

	"github.com/labstack/echo/v4"
)

// HealthHandlerImpl implements the HealthHandler interface
type HealthHandlerImpl struct {
	version   string
	uploadDir string
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(version, uploadDir string) HealthHandler {
	return &HealthHandlerImpl{
		version:   version,
		uploadDir: uploadDir,
	}
}

// HandleHealth returns server health status. The server is unhealthy when
// the upload directory has disappeared.
func (h *HealthHandlerImpl) HandleHealth(c echo.Context) error {
	status, code := "ok", http.StatusOK
	if info, err := os.Stat(h.uploadDir); err != nil || !info.IsDir() {
		status, code = "upload directory unavailable", http.StatusServiceUnavailable
	}

	return respond(c, code, map[string]string{
		"status":  status,
		"version": h.version,
	})
}
