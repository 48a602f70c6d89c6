package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/ecoquest-api/internal/dto"
	"github.com/noah-isme/ecoquest-api/internal/models"
	appErrors "github.com/noah-isme/ecoquest-api/pkg/errors"
	"github.com/noah-isme/ecoquest-api/pkg/events"
	"github.com/noah-isme/ecoquest-api/pkg/storage"
)

// DefaultMaxAttachmentSize caps notification attachments.
const DefaultMaxAttachmentSize int64 = 10 * 1024 * 1024

type notificationStore interface {
	Create(ctx context.Context, n *models.Notification) error
	List(ctx context.Context, ngoID string) ([]models.Notification, error)
}

// FileStore uploads bytes and returns a URL clients can fetch them from.
type FileStore interface {
	Upload(ctx context.Context, path string, data []byte) (string, error)
	PublicURL(path string) (string, error)
}

// NotificationService manages NGO announcements and their attachments.
type NotificationService struct {
	repo        notificationStore
	files       FileStore
	events      events.Publisher
	metrics     *MetricsService
	logger      *zap.Logger
	maxFileSize int64
	now         func() time.Time
}

// NewNotificationService constructs a NotificationService.
func NewNotificationService(repo notificationStore, files FileStore, publisher events.Publisher, metrics *MetricsService, logger *zap.Logger, maxFileSize int64) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxFileSize <= 0 {
		maxFileSize = DefaultMaxAttachmentSize
	}
	return &NotificationService{
		repo:        repo,
		files:       files,
		events:      publisher,
		metrics:     metrics,
		logger:      logger,
		maxFileSize: maxFileSize,
		now:         time.Now,
	}
}

// MaxFileSize reports the attachment limit in bytes.
func (s *NotificationService) MaxFileSize() int64 {
	return s.maxFileSize
}

// Post publishes a notification, uploading the optional attachment first.
func (s *NotificationService) Post(ctx context.Context, actor *models.Actor, req dto.CreateNotificationRequest, attachment *dto.Attachment) (*models.Notification, error) {
	if err := RequireRole(actor, models.RoleNGO); err != nil {
		return nil, err
	}
	title := strings.TrimSpace(req.Title)
	content := strings.TrimSpace(req.Content)
	if title == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "title is required")
	}
	if content == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "content is required")
	}

	notification := &models.Notification{NGOID: actor.ID, Title: title, Content: content}
	if attachment != nil {
		size := attachment.Size
		if int64(len(attachment.Data)) > size {
			size = int64(len(attachment.Data))
		}
		if size > s.maxFileSize {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("file must be %d MB or smaller", s.maxFileSize/(1024*1024)))
		}
		if s.files == nil {
			return nil, appErrors.Clone(appErrors.ErrInternal, "file storage is not configured")
		}
		name := storage.SanitizeName(attachment.Name)
		path := fmt.Sprintf("notifications/%d-%s", s.now().UnixMilli(), name)
		url, err := s.files.Upload(ctx, path, attachment.Data)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to upload attachment")
		}
		original := strings.TrimSpace(attachment.Name)
		if original == "" {
			original = name
		}
		notification.FileURL = &url
		notification.FileName = &original
	}

	if err := s.repo.Create(ctx, notification); err != nil {
		return nil, appErrors.Repository(err, "failed to create notification")
	}

	publishEvent(ctx, s.events, s.metrics, s.logger, events.Event{
		Type:       events.TypeNotificationPosted,
		Key:        notification.ID,
		OccurredAt: s.now().UTC(),
		ActorID:    actor.ID,
		Data:       notification,
	})
	return notification, nil
}

// List returns every notification newest first.
func (s *NotificationService) List(ctx context.Context, actor *models.Actor) ([]models.Notification, error) {
	if actor == nil {
		return nil, appErrors.Clone(appErrors.ErrAuthenticationRequired, "")
	}
	notifications, err := s.repo.List(ctx, "")
	if err != nil {
		return nil, appErrors.Repository(err, "failed to list notifications")
	}
	return notifications, nil
}

// ListByNGO returns the notifications posted by the calling NGO.
func (s *NotificationService) ListByNGO(ctx context.Context, actor *models.Actor) ([]models.Notification, error) {
	if err := RequireRole(actor, models.RoleNGO); err != nil {
		return nil, err
	}
	notifications, err := s.repo.List(ctx, actor.ID)
	if err != nil {
		return nil, appErrors.Repository(err, "failed to list notifications")
	}
	return notifications, nil
}
