package jobs

import (
	"context"
	"time"

	"github.com/fixline/complaint-api/internal/domain"
	"go.uber.org/zap"
)

// PendingReminderJobName is the name of the stale pending complaint reminder job
const PendingReminderJobName = "pending_reminder"

// DefaultJobTimeout bounds one reminder run
const DefaultJobTimeout = 5 * time.Minute

// ComplaintLister finds complaints stuck in pending. The interface lets
// the job call the repository without importing it directly.
type ComplaintLister interface {
	ListPendingOlderThan(ctx context.Context, cutoff time.Time) ([]domain.Complaint, error)
}

// ReminderDispatcher sends the reminder notifications for one complaint.
type ReminderDispatcher interface {
	PendingReminder(ctx context.Context, complaint *domain.Complaint, days int)
}

// PendingReminderJob nudges admins about complaints that have sat in
// pending longer than the configured age without being forwarded.
type PendingReminderJob struct {
	complaints ComplaintLister
	dispatcher ReminderDispatcher
	logger     *zap.Logger
	pendingAge time.Duration
	timeout    time.Duration
}

// NewPendingReminderJob creates a new pending complaint reminder job.
func NewPendingReminderJob(
	complaints ComplaintLister,
	dispatcher ReminderDispatcher,
	logger *zap.Logger,
	pendingAge time.Duration,
) *PendingReminderJob {
	return &PendingReminderJob{
		complaints: complaints,
		dispatcher: dispatcher,
		logger:     logger,
		pendingAge: pendingAge,
		timeout:    DefaultJobTimeout,
	}
}

// Run executes one reminder sweep.
func (j *PendingReminderJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	cutoff := time.Now().Add(-j.pendingAge)
	complaints, err := j.complaints.ListPendingOlderThan(ctx, cutoff)
	if err != nil {
		j.logger.Error("failed to list stale pending complaints", zap.Error(err))
		return
	}

	if len(complaints) == 0 {
		j.logger.Debug("no stale pending complaints found")
		return
	}

	for i := range complaints {
		complaint := &complaints[i]
		days := int(time.Since(complaint.CreatedAt).Hours() / 24)
		j.dispatcher.PendingReminder(ctx, complaint, days)
	}

	j.logger.Info("pending complaint reminders dispatched",
		zap.Int("count", len(complaints)),
	)
}
