package repository

import (
	"fmt"
	"testing"
	"time"

	"lms-backend/internal/notification/domain"
	"lms-backend/pkg/database"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) NotificationRepository {
	t.Helper()
	db, err := database.NewSQLiteConnection(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&domain.Notification{}))
	return NewGormNotificationRepository(db)
}

func row(id, userID string, at time.Time) *domain.Notification {
	return &domain.Notification{ID: id, UserID: userID, Type: domain.TypeNewCourse, Title: id, CreatedAt: at}
}

func TestNotificationRepository(t *testing.T) {
	repo := newTestRepo(t)
	base := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

	var rows []*domain.Notification
	for i := 0; i < 55; i++ {
		rows = append(rows, row(fmt.Sprintf("ana-%02d", i), "ana", base.Add(time.Duration(i)*time.Minute)))
	}
	rows = append(rows, row("ben-1", "ben", base))
	require.NoError(t, repo.CreateMany(rows))
	require.NoError(t, repo.CreateMany(nil))

	t.Run("latest first with limit", func(t *testing.T) {
		latest, err := repo.ListLatest("ana", 50)
		require.NoError(t, err)
		require.Len(t, latest, 50)
		assert.Equal(t, "ana-54", latest[0].ID)
		assert.Equal(t, "ana-05", latest[49].ID)
	})

	t.Run("mark one read", func(t *testing.T) {
		require.NoError(t, repo.MarkRead("ana-00"))
		n, err := repo.FindByID("ana-00")
		require.NoError(t, err)
		assert.True(t, n.IsRead)

		unread, err := repo.CountUnread("ana")
		require.NoError(t, err)
		assert.EqualValues(t, 54, unread)
	})

	t.Run("mark all read only touches owner", func(t *testing.T) {
		changed, err := repo.MarkAllRead("ana")
		require.NoError(t, err)
		assert.EqualValues(t, 54, changed)

		unread, err := repo.CountUnread("ben")
		require.NoError(t, err)
		assert.EqualValues(t, 1, unread)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.Delete("ben-1"))
		n, err := repo.FindByID("ben-1")
		require.NoError(t, err)
		assert.Nil(t, n)
	})

	t.Run("purge", func(t *testing.T) {
		deleted, err := repo.Purge()
		require.NoError(t, err)
		assert.EqualValues(t, 55, deleted)

		latest, err := repo.ListLatest("ana", 50)
		require.NoError(t, err)
		assert.Empty(t, latest)
	})
}
