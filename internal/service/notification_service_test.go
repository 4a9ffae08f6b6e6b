package service_test

import (
	"testing"

	"github.com/fixline/complaint-api/internal/domain"
	"github.com/fixline/complaint-api/internal/notify"
	"github.com/fixline/complaint-api/internal/repository"
	"github.com/fixline/complaint-api/internal/service"
	"github.com/fixline/complaint-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newNotificationService(db *gorm.DB) *service.NotificationService {
	return service.NewNotificationService(
		repository.NewNotificationRepository(db),
		notify.NewResolver(notify.DefaultCatalog()),
		zap.NewNop(),
	)
}

func seedNotification(t *testing.T, db *gorm.DB, recipient *domain.User, message string) *domain.Notification {
	t.Helper()
	notification := &domain.Notification{
		RecipientID:   recipient.ID,
		RecipientRole: recipient.Role,
		Type:          string(domain.NotificationTypeStatusUpdate),
		Title:         "Complaint status changed",
		Message:       message,
	}
	require.NoError(t, db.Create(notification).Error)
	return notification
}

func TestNotificationService_GetForCurrentUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newNotificationService(db)

	user := testutil.CreateTestUser(t, db, domain.RoleUser)
	other := testutil.CreateTestUser(t, db, domain.RoleUser)

	structured := notify.Encode(notify.KeyClosedUser, map[string]string{
		notify.ParamReportNumber: "CMP-2026-003",
	})
	seedNotification(t, db, user, structured)
	seedNotification(t, db, user, "Old free-text message from before the format change")
	seedNotification(t, db, other, "not yours")

	page, err := svc.GetForCurrentUser(asUser(user), 1, 20, false, "")
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Total)

	dtos, ok := page.Data.([]domain.NotificationDTO)
	require.True(t, ok)
	require.Len(t, dtos, 2)

	byMessage := map[string]domain.NotificationDTO{}
	for _, dto := range dtos {
		byMessage[dto.Message] = dto
	}

	// Structured payloads are rendered, legacy text passes through
	assert.Equal(t, "Your complaint CMP-2026-003 has been resolved and is ready for pickup", byMessage[structured].Text)
	assert.Equal(t, "Old free-text message from before the format change", byMessage["Old free-text message from before the format change"].Text)
}

func TestNotificationService_ReadMarks(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newNotificationService(db)

	user := testutil.CreateTestUser(t, db, domain.RoleUser)
	other := testutil.CreateTestUser(t, db, domain.RoleUser)

	n1 := seedNotification(t, db, user, "first")
	seedNotification(t, db, user, "second")

	t.Run("unread count", func(t *testing.T) {
		count, err := svc.GetUnreadCount(asUser(user))
		require.NoError(t, err)
		assert.Equal(t, 2, count.Count)
	})

	t.Run("mark one as read", func(t *testing.T) {
		require.NoError(t, svc.MarkAsRead(asUser(user), n1.ID))

		count, err := svc.GetUnreadCount(asUser(user))
		require.NoError(t, err)
		assert.Equal(t, 1, count.Count)

		dto, err := svc.GetByID(asUser(user), n1.ID)
		require.NoError(t, err)
		assert.True(t, dto.Read)
	})

	t.Run("marking again is a no-op", func(t *testing.T) {
		assert.NoError(t, svc.MarkAsRead(asUser(user), n1.ID))
	})

	t.Run("recipients only", func(t *testing.T) {
		err := svc.MarkAsRead(asUser(other), n1.ID)
		assert.ErrorIs(t, err, service.ErrNotificationNotOwned)

		_, err = svc.GetByID(asUser(other), n1.ID)
		assert.ErrorIs(t, err, service.ErrNotificationNotOwned)
	})

	t.Run("mark all as read", func(t *testing.T) {
		require.NoError(t, svc.MarkAllAsReadForUser(asUser(user)))

		count, err := svc.GetUnreadCount(asUser(user))
		require.NoError(t, err)
		assert.Equal(t, 0, count.Count)
	})
}
