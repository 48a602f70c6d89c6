package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/ecoquest-api/internal/models"
)

func TestNotificationCreate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewNotificationRepository(db)

	now := time.Now()
	url := "http://files/notifications/1-flyer.pdf"
	name := "flyer.pdf"
	mock.ExpectQuery(`INSERT INTO notifications \(id,ngo_id,title,content,file_url,file_name\) VALUES .* RETURNING created_at`).
		WithArgs(sqlmock.AnyArg(), "n1", "Beach cleanup", "Join us", &url, &name).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))

	n := &models.Notification{NGOID: "n1", Title: "Beach cleanup", Content: "Join us", FileURL: &url, FileName: &name}
	require.NoError(t, repo.Create(context.Background(), n))
	assert.NotEmpty(t, n.ID)
	assert.Equal(t, now, n.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationListFiltersByNGO(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewNotificationRepository(db)

	mock.ExpectQuery(`FROM notifications WHERE ngo_id = \$1 ORDER BY created_at DESC`).
		WithArgs("n1").
		WillReturnRows(sqlmock.NewRows(notificationColumns).AddRow("x", "n1", "t", "c", nil, nil, time.Now()))

	list, err := repo.List(context.Background(), "n1")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	mock.ExpectQuery(`FROM notifications ORDER BY created_at DESC`).
		WillReturnRows(sqlmock.NewRows(notificationColumns))
	all, err := repo.List(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, all)
	assert.NoError(t, mock.ExpectationsWereMet())
}
