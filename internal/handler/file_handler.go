package handler

import (
	"errors"
	"io"
	"io/fs"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/ecoquest-api/pkg/errors"
	"github.com/noah-isme/ecoquest-api/pkg/response"
)

type signedFileOpener interface {
	Open(key, token string) (*os.File, error)
}

// FileHandler streams locally stored attachments behind signed links.
type FileHandler struct {
	files signedFileOpener
}

// NewFileHandler constructs the handler.
func NewFileHandler(files signedFileOpener) *FileHandler {
	return &FileHandler{files: files}
}

// Download godoc
// @Summary Download attachment
// @Tags Files
// @Produce octet-stream
// @Param path path string true "Object path"
// @Param token query string true "Signed token"
// @Success 200 {file} file
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /files/{path} [get]
func (h *FileHandler) Download(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("path"), "/")
	token := c.Query("token")
	if key == "" || token == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "signed token required"))
		return
	}

	file, err := h.files.Open(key, token)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "file not found"))
			return
		}
		response.Error(c, appErrors.Wrap(err, appErrors.ErrForbidden.Code, appErrors.ErrForbidden.Status, "invalid or expired link"))
		return
	}
	defer file.Close()

	contentType := mime.TypeByExtension(filepath.Ext(key))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Type", contentType)
	c.Header("Content-Disposition", "inline; filename=\""+filepath.Base(key)+"\"")
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, file)
}
