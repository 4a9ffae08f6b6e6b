package service_test

import (
	"context"
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

func newDispatcher(db *gorm.DB) *service.NotificationDispatcher {
	return service.NewNotificationDispatcher(
		repository.NewNotificationRepository(db),
		repository.NewUserRepository(db),
		zap.NewNop(),
	)
}

func listNotifications(t *testing.T, db *gorm.DB, recipientID interface{}) []domain.Notification {
	t.Helper()
	var notifications []domain.Notification
	require.NoError(t, db.Where("recipient_id = ?", recipientID).Order("created_at ASC").Find(&notifications).Error)
	return notifications
}

func TestNotificationDispatcher_ComplaintCreated(t *testing.T) {
	db := testutil.SetupTestDB(t)
	d := newDispatcher(db)
	ctx := context.Background()

	owner := testutil.CreateTestUser(t, db, domain.RoleUser)
	admin1 := testutil.CreateTestUser(t, db, domain.RoleAdmin)
	admin2 := testutil.CreateTestUser(t, db, domain.RoleAdmin)
	inactiveAdmin := testutil.CreateInactiveUser(t, db, domain.RoleAdmin)
	complaint := testutil.CreateTestComplaint(t, db, owner)

	d.ComplaintCreated(ctx, complaint, owner)

	for _, admin := range []*domain.User{admin1, admin2} {
		got := listNotifications(t, db, admin.ID)
		require.Len(t, got, 1)
		assert.Equal(t, string(domain.NotificationTypeNewComplaint), got[0].Type)

		decoded := notify.Decode(got[0].Message)
		assert.Equal(t, notify.KindStructured, decoded.Kind)
		assert.Equal(t, notify.KeyNewComplaint, decoded.Key)
		assert.Equal(t, complaint.ReportNumber, decoded.Params[notify.ParamReportNumber])
		assert.Equal(t, owner.DisplayName, decoded.Params[notify.ParamCustomer])
	}

	// Deactivated admins are skipped
	assert.Empty(t, listNotifications(t, db, inactiveAdmin.ID))

	got := listNotifications(t, db, owner.ID)
	require.Len(t, got, 1)
	decoded := notify.Decode(got[0].Message)
	assert.Equal(t, notify.KeyUserComplaintOpened, decoded.Key)
}

func TestNotificationDispatcher_ComplaintForwarded(t *testing.T) {
	db := testutil.SetupTestDB(t)
	d := newDispatcher(db)
	ctx := context.Background()

	owner := testutil.CreateTestUser(t, db, domain.RoleUser)
	tech := testutil.CreateTestUser(t, db, domain.RoleTechnician)

	t.Run("standard in-process wording for the customer", func(t *testing.T) {
		complaint := testutil.CreateTestComplaint(t, db, owner)
		testutil.AssignComplaint(t, db, complaint, tech, domain.StatusInProcess)

		d.ComplaintForwarded(ctx, complaint, tech)

		techGot := listNotifications(t, db, tech.ID)
		require.Len(t, techGot, 1)
		assert.Equal(t, notify.KeyProcessingTech, notify.Decode(techGot[0].Message).Key)

		userGot := listNotifications(t, db, owner.ID)
		require.Len(t, userGot, 1)
		decoded := notify.Decode(userGot[0].Message)
		assert.Equal(t, notify.KeyProcessingUser, decoded.Key)
		assert.Equal(t, tech.DisplayName, decoded.Params[notify.ParamTechnician])
	})

	t.Run("status variant when the forward carried another status", func(t *testing.T) {
		owner2 := testutil.CreateTestUser(t, db, domain.RoleUser)
		complaint := testutil.CreateTestComplaint(t, db, owner2)
		testutil.AssignComplaint(t, db, complaint, tech, domain.StatusPending)

		d.ComplaintForwarded(ctx, complaint, tech)

		userGot := listNotifications(t, db, owner2.ID)
		require.Len(t, userGot, 1)
		decoded := notify.Decode(userGot[0].Message)
		assert.Equal(t, notify.KeyForwardStatusUser, decoded.Key)
		assert.Equal(t, string(domain.StatusPending), decoded.Params[notify.ParamStatus])
	})
}

func TestNotificationDispatcher_StatusChanged(t *testing.T) {
	db := testutil.SetupTestDB(t)
	d := newDispatcher(db)
	ctx := context.Background()

	owner := testutil.CreateTestUser(t, db, domain.RoleUser)
	admin := testutil.CreateTestUser(t, db, domain.RoleAdmin)
	tech := testutil.CreateTestUser(t, db, domain.RoleTechnician)

	t.Run("closed adds pickup framing for the customer", func(t *testing.T) {
		complaint := testutil.CreateTestComplaint(t, db, owner)
		testutil.AssignComplaint(t, db, complaint, tech, domain.StatusClosed)

		d.StatusChanged(ctx, complaint, tech.DisplayName)

		adminGot := listNotifications(t, db, admin.ID)
		require.Len(t, adminGot, 1)
		assert.Equal(t, string(domain.NotificationTypeStatusDetailed), adminGot[0].Type)
		assert.Equal(t, notify.KeyClosedAdmin, notify.Decode(adminGot[0].Message).Key)

		userGot := listNotifications(t, db, owner.ID)
		require.Len(t, userGot, 1)
		assert.Equal(t, string(domain.NotificationTypeStatusUpdate), userGot[0].Type)
		assert.Equal(t, notify.KeyClosedUser, notify.Decode(userGot[0].Message).Key)
	})

	t.Run("in-process gets its own wording", func(t *testing.T) {
		owner2 := testutil.CreateTestUser(t, db, domain.RoleUser)
		complaint := testutil.CreateTestComplaint(t, db, owner2)
		testutil.AssignComplaint(t, db, complaint, tech, domain.StatusInProcess)

		d.StatusChanged(ctx, complaint, tech.DisplayName)

		userGot := listNotifications(t, db, owner2.ID)
		require.Len(t, userGot, 1)
		assert.Equal(t, notify.KeyInProcessUser, notify.Decode(userGot[0].Message).Key)
	})
}

func TestNotificationDispatcher_RemarkSaved(t *testing.T) {
	db := testutil.SetupTestDB(t)
	d := newDispatcher(db)
	ctx := context.Background()

	owner := testutil.CreateTestUser(t, db, domain.RoleUser)
	admin := testutil.CreateTestUser(t, db, domain.RoleAdmin)
	tech := testutil.CreateTestUser(t, db, domain.RoleTechnician)

	t.Run("each facet fires its own pair", func(t *testing.T) {
		complaint := testutil.CreateTestComplaint(t, db, owner)
		testutil.AssignComplaint(t, db, complaint, tech, domain.StatusClosed)

		d.RemarkSaved(ctx, complaint, domain.RoleTechnician, tech.DisplayName, &domain.RemarkRequest{
			NoteTransport: "Sent for pickup",
			Checking:      "Board replaced",
			Remark:        "Done",
			Status:        string(domain.StatusClosed),
		}, true)

		// Transport, checking, remark and the status change each reach
		// the customer as a separate message, never collapsed
		userGot := listNotifications(t, db, owner.ID)
		require.Len(t, userGot, 4)
		keys := make([]string, len(userGot))
		for i, n := range userGot {
			keys[i] = notify.Decode(n.Message).Key
		}
		assert.Contains(t, keys, notify.KeyTransportUser)
		assert.Contains(t, keys, notify.KeyCheckingUser)
		assert.Contains(t, keys, notify.KeyRemarkUser)
		assert.Contains(t, keys, notify.KeyClosedUser)

		assert.Len(t, listNotifications(t, db, admin.ID), 4)

		// The technician authored the remark, no extra notice
		assert.Empty(t, listNotifications(t, db, tech.ID))
	})

	t.Run("empty facets fire nothing", func(t *testing.T) {
		owner2 := testutil.CreateTestUser(t, db, domain.RoleUser)
		complaint := testutil.CreateTestComplaint(t, db, owner2)

		d.RemarkSaved(ctx, complaint, domain.RoleAdmin, admin.DisplayName, &domain.RemarkRequest{
			Remark: "Spare part ordered",
		}, false)

		userGot := listNotifications(t, db, owner2.ID)
		require.Len(t, userGot, 1)
		assert.Equal(t, notify.KeyRemarkUser, notify.Decode(userGot[0].Message).Key)
	})

	t.Run("admin remark on an assigned complaint informs the technician", func(t *testing.T) {
		owner3 := testutil.CreateTestUser(t, db, domain.RoleUser)
		complaint := testutil.CreateTestComplaint(t, db, owner3)
		testutil.AssignComplaint(t, db, complaint, tech, domain.StatusInProcess)

		d.RemarkSaved(ctx, complaint, domain.RoleAdmin, admin.DisplayName, &domain.RemarkRequest{
			NoteTransport: "Customer will drop off the unit",
		}, false)

		techGot := listNotifications(t, db, tech.ID)
		require.Len(t, techGot, 1)
		assert.Equal(t, notify.KeyRemarkTech, notify.Decode(techGot[0].Message).Key)
	})
}

func TestNotificationDispatcher_ComplaintCancelled(t *testing.T) {
	db := testutil.SetupTestDB(t)
	d := newDispatcher(db)
	ctx := context.Background()

	owner := testutil.CreateTestUser(t, db, domain.RoleUser)
	firstAdmin := testutil.CreateTestUser(t, db, domain.RoleAdmin)
	secondAdmin := testutil.CreateTestUser(t, db, domain.RoleAdmin)
	complaint := testutil.CreateTestComplaint(t, db, owner)

	d.ComplaintCancelled(ctx, complaint)

	userGot := listNotifications(t, db, owner.ID)
	require.Len(t, userGot, 1)
	assert.Equal(t, notify.KeyCancelledUser, notify.Decode(userGot[0].Message).Key)

	// Exactly one admin is told: the longest-standing active account
	assert.Len(t, listNotifications(t, db, firstAdmin.ID), 1)
	assert.Empty(t, listNotifications(t, db, secondAdmin.ID))
}

func TestNotificationDispatcher_PendingReminder(t *testing.T) {
	db := testutil.SetupTestDB(t)
	d := newDispatcher(db)
	ctx := context.Background()

	owner := testutil.CreateTestUser(t, db, domain.RoleUser)
	admin := testutil.CreateTestUser(t, db, domain.RoleAdmin)
	complaint := testutil.CreateTestComplaint(t, db, owner)

	d.PendingReminder(ctx, complaint, 5)

	got := listNotifications(t, db, admin.ID)
	require.Len(t, got, 1)
	assert.Equal(t, string(domain.NotificationTypeReminder), got[0].Type)

	decoded := notify.Decode(got[0].Message)
	assert.Equal(t, notify.KeyPendingReminder, decoded.Key)
	assert.Equal(t, "5", decoded.Params[notify.ParamDays])

	// The customer is not nagged about backlog
	assert.Empty(t, listNotifications(t, db, owner.ID))
}
