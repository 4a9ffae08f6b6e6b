package jobs_test

import (
	"testing"
	"time"

	"github.com/fixline/complaint-api/internal/domain"
	"github.com/fixline/complaint-api/internal/jobs"
	"github.com/fixline/complaint-api/internal/repository"
	"github.com/fixline/complaint-api/internal/service"
	"github.com/fixline/complaint-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPendingReminderJob_Run(t *testing.T) {
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()

	complaintRepo := repository.NewComplaintRepository(db)
	dispatcher := service.NewNotificationDispatcher(
		repository.NewNotificationRepository(db),
		repository.NewUserRepository(db),
		logger,
	)

	owner := testutil.CreateTestUser(t, db, domain.RoleUser)
	admin := testutil.CreateTestUser(t, db, domain.RoleAdmin)
	tech := testutil.CreateTestUser(t, db, domain.RoleTechnician)

	stale := testutil.CreateTestComplaint(t, db, owner)
	require.NoError(t, db.Model(stale).Update("created_at", time.Now().Add(-10*24*time.Hour)).Error)

	// Fresh pending complaint, under the age threshold
	testutil.CreateTestComplaint(t, db, owner)

	forwarded := testutil.CreateTestComplaint(t, db, owner)
	require.NoError(t, db.Model(forwarded).Update("created_at", time.Now().Add(-10*24*time.Hour)).Error)
	testutil.AssignComplaint(t, db, forwarded, tech, domain.StatusInProcess)

	job := jobs.NewPendingReminderJob(complaintRepo, dispatcher, logger, 7*24*time.Hour)
	job.Run()

	// Only the stale pending complaint triggers a reminder
	got := testutil.CountNotifications(t, db, admin.ID)
	assert.EqualValues(t, 1, got)

	// A second sweep nags again; reminders are not deduplicated
	job.Run()
	assert.EqualValues(t, 2, testutil.CountNotifications(t, db, admin.ID))
}
