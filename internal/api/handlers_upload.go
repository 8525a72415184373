// handlers_upload.go - Workbook upload handler
package api

import (
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"

	"github.com/course-import/backend/internal/models"
	"github.com/course-import/backend/internal/storage"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// UploadHandlerImpl implements the UploadHandler interface
type UploadHandlerImpl struct {
	store     storage.Store
	validator WorkbookValidator
	logger    zerolog.Logger
}

// NewUploadHandler creates a new upload handler instance
func NewUploadHandler(store storage.Store, v WorkbookValidator, logger zerolog.Logger) UploadHandler {
	return &UploadHandlerImpl{
		store:     store,
		validator: v,
		logger:    logger,
	}
}

// HandleUpload stores the multipart "file" field and validates it.
// A stored file always yields 200; the message tells whether it passed.
func (h *UploadHandlerImpl) HandleUpload(c echo.Context) error {
	part, err := filePart(c.Request())
	if err != nil {
		return err
	}
	defer part.Close()

	name := part.FileName()
	if name == "" {
		return NewBadRequestError(MsgNoSelectedFile, nil)
	}

	info, err := h.store.Save(name, part)
	if err != nil {
		if errors.Is(err, echo.ErrStatusRequestEntityTooLarge) {
			return echo.ErrStatusRequestEntityTooLarge
		}
		return NewInternalError("failed to save file", err)
	}

	h.logger.Info().
		Str("file_id", info.ID).
		Str("name", info.Name).
		Int64("size", info.Size).
		Msg("upload stored")

	result := h.validator.Validate(info.Path)

	return respond(c, http.StatusOK, models.UploadResult{Message: result.Message})
}

// filePart returns the first part named "file" whose Content-Disposition
// carries a filename parameter, empty or not. A part without the parameter
// is a plain form field and is skipped.
func filePart(r *http.Request) (*multipart.Part, error) {
	mr, err := r.MultipartReader()
	if err != nil {
		return nil, NewBadRequestError(MsgNoFilePart, nil)
	}

	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			return nil, NewBadRequestError(MsgNoFilePart, nil)
		}
		if err != nil {
			if errors.Is(err, echo.ErrStatusRequestEntityTooLarge) {
				return nil, echo.ErrStatusRequestEntityTooLarge
			}
			return nil, NewBadRequestError(MsgNoFilePart, nil)
		}
		if part.FormName() == "file" && hasFilenameParam(part) {
			return part, nil
		}
		part.Close()
	}
}

func hasFilenameParam(part *multipart.Part) bool {
	_, params, err := mime.ParseMediaType(part.Header.Get("Content-Disposition"))
	if err != nil {
		return false
	}
	_, ok := params["filename"]
	return ok
}
