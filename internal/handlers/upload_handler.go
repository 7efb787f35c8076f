package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "lumen/internal/errors"
	"lumen/internal/upload"
)

// maxUploadBytes bounds a receipt or invoice upload.
const maxUploadBytes = 20 << 20

// UploadHandler drives the shared upload modal.
type UploadHandler struct {
	coord *upload.Coordinator
	modal *upload.Modal
}

// NewUploadHandler creates a new UploadHandler.
func NewUploadHandler(coord *upload.Coordinator, modal *upload.Modal) *UploadHandler {
	return &UploadHandler{coord: coord, modal: modal}
}

// State returns whether the modal is open and what it holds.
func (h *UploadHandler) State(c *gin.Context) {
	respond(c, http.StatusOK, h.modal.State(), nil)
}

// Open shows the modal.
func (h *UploadHandler) Open(c *gin.Context) {
	h.coord.Open()
	respond(c, http.StatusOK, h.modal.State(), nil)
}

// Select stages the multipart "file" field for upload.
func (h *UploadHandler) Select(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		respondWithError(c, apperrors.ErrNoFileSelected)
		return
	}
	if fh.Size > maxUploadBytes {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "File must be 20 MB or smaller"))
		return
	}
	f, err := fh.Open()
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInvalidInput, err))
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInvalidInput, err))
		return
	}

	h.coord.Open()
	h.modal.Select(upload.File{Name: fh.Filename, Data: data})
	respond(c, http.StatusOK, h.modal.State(), nil)
}

// Submit uploads the staged file. The modal closes itself shortly after a
// success.
func (h *UploadHandler) Submit(c *gin.Context) {
	res, err := h.modal.Submit(c.Request.Context())
	respond(c, http.StatusOK, res, err)
}

// Dismiss closes the modal and drops the staged file.
func (h *UploadHandler) Dismiss(c *gin.Context) {
	h.modal.Dismiss()
	respond(c, http.StatusOK, h.modal.State(), nil)
}
