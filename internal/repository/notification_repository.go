package repository

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/ecoquest-api/internal/models"
)

var notificationColumns = []string{"id", "ngo_id", "title", "content", "file_url", "file_name", "created_at"}

// NotificationRepository persists NGO notifications.
type NotificationRepository struct {
	db *sqlx.DB
	sb squirrel.StatementBuilderType
}

// NewNotificationRepository creates a new instance of NotificationRepository.
func NewNotificationRepository(db *sqlx.DB) *NotificationRepository {
	return &NotificationRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts the notification and fills id and created_at.
func (r *NotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	query, args, err := r.sb.Insert("notifications").
		Columns("id", "ngo_id", "title", "content", "file_url", "file_name").
		Values(n.ID, n.NGOID, n.Title, n.Content, n.FileURL, n.FileName).
		Suffix("RETURNING created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert notification: %w", err)
	}
	if err := r.db.QueryRowxContext(ctx, query, args...).Scan(&n.CreatedAt); err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

// List returns notifications newest first, optionally limited to one NGO.
func (r *NotificationRepository) List(ctx context.Context, ngoID string) ([]models.Notification, error) {
	builder := r.sb.Select(notificationColumns...).From("notifications")
	if ngoID != "" {
		builder = builder.Where(squirrel.Eq{"ngo_id": ngoID})
	}
	query, args, err := builder.OrderBy("created_at DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list notifications: %w", err)
	}
	notifications := make([]models.Notification, 0)
	if err := r.db.SelectContext(ctx, &notifications, query, args...); err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return notifications, nil
}
