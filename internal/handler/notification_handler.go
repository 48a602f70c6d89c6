package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/ecoquest-api/internal/dto"
	"github.com/noah-isme/ecoquest-api/internal/models"
	appErrors "github.com/noah-isme/ecoquest-api/pkg/errors"
	"github.com/noah-isme/ecoquest-api/pkg/response"
)

type notificationService interface {
	MaxFileSize() int64
	Post(ctx context.Context, actor *models.Actor, req dto.CreateNotificationRequest, attachment *dto.Attachment) (*models.Notification, error)
	List(ctx context.Context, actor *models.Actor) ([]models.Notification, error)
}

// NotificationHandler serves NGO notifications.
type NotificationHandler struct {
	service notificationService
}

// NewNotificationHandler constructs the handler.
func NewNotificationHandler(svc notificationService) *NotificationHandler {
	return &NotificationHandler{service: svc}
}

// Create godoc
// @Summary Post notification
// @Description Multipart form with title, content and an optional file attachment
// @Tags Notifications
// @Accept multipart/form-data
// @Produce json
// @Param title formData string true "Title"
// @Param content formData string true "Content"
// @Param file formData file false "Attachment"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /notifications [post]
func (h *NotificationHandler) Create(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	var req dto.CreateNotificationRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, invalidPayload(err, "invalid notification payload"))
		return
	}

	attachment, err := h.readAttachment(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	notification, err := h.service.Post(c.Request.Context(), actor, req, attachment)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, notification)
}

// List godoc
// @Summary List notifications
// @Tags Notifications
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /notifications [get]
func (h *NotificationHandler) List(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	items, err := h.service.List(c.Request.Context(), actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, items, map[string]interface{}{"count": len(items)})
}

// readAttachment reads at most one byte past the limit so oversize uploads
// are detected without buffering them whole.
func (h *NotificationHandler) readAttachment(c *gin.Context) (*dto.Attachment, error) {
	header, err := c.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, invalidPayload(err, "invalid file upload")
	}

	max := h.service.MaxFileSize()
	attachment := &dto.Attachment{Name: header.Filename, Size: header.Size}
	if header.Size > max {
		return attachment, nil
	}

	file, err := header.Open()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read upload")
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, max+1))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read upload")
	}
	attachment.Data = data
	return attachment, nil
}
