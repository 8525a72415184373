// interfaces.go - Handler interface definitions
package api

import (
	"github.com/course-import/backend/internal/validator"
	"github.com/labstack/echo/v4"
)

// UploadHandler handles workbook uploads
type UploadHandler interface {
	HandleUpload(c echo.Context) error
}

// HealthHandler handles health check operations
type HealthHandler interface {
	HandleHealth(c echo.Context) error
}

// WorkbookValidator checks a stored workbook. Implementations report every
// failure through the result message rather than an error.
type WorkbookValidator interface {
	Validate(path string) validator.Result
}
