package service

import (
	"context"
	"strconv"
	"time"

	"github.com/fixline/complaint-api/internal/domain"
	"github.com/fixline/complaint-api/internal/notify"
	"github.com/fixline/complaint-api/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// NotificationDispatcher translates complaint lifecycle events into
// notification records. Delivery is best-effort and independent per
// recipient: a failed write is logged and skipped, and never fails or
// rolls back the workflow operation that triggered it.
type NotificationDispatcher struct {
	notificationRepo *repository.NotificationRepository
	userRepo         *repository.UserRepository
	logger           *zap.Logger
	now              func() time.Time
}

// NewNotificationDispatcher creates a new NotificationDispatcher instance
func NewNotificationDispatcher(
	notificationRepo *repository.NotificationRepository,
	userRepo *repository.UserRepository,
	logger *zap.Logger,
) *NotificationDispatcher {
	return &NotificationDispatcher{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		logger:           logger,
		now:              time.Now,
	}
}

// deliver writes one notification, logging instead of failing on error
func (d *NotificationDispatcher) deliver(
	ctx context.Context,
	recipientID uuid.UUID,
	role domain.UserRole,
	notificationType domain.NotificationType,
	title string,
	message string,
	referenceID *uuid.UUID,
) {
	notification := &domain.Notification{
		RecipientID:   recipientID,
		RecipientRole: role,
		Type:          string(notificationType),
		Title:         title,
		Message:       message,
		Read:          false,
		ReferenceID:   referenceID,
	}

	if err := d.notificationRepo.Create(ctx, notification); err != nil {
		d.logger.Warn("failed to create notification for recipient",
			zap.String("recipientID", recipientID.String()),
			zap.String("type", string(notificationType)),
			zap.Error(err),
		)
	}
}

// broadcastAdmins delivers one notification to every active admin
func (d *NotificationDispatcher) broadcastAdmins(
	ctx context.Context,
	notificationType domain.NotificationType,
	title string,
	message string,
	referenceID *uuid.UUID,
) {
	admins, err := d.userRepo.ListActiveAdmins(ctx)
	if err != nil {
		d.logger.Warn("failed to list admins for notification broadcast",
			zap.String("type", string(notificationType)),
			zap.Error(err),
		)
		return
	}

	for _, admin := range admins {
		d.deliver(ctx, admin.ID, domain.RoleAdmin, notificationType, title, message, referenceID)
	}
}

// dateTimeParams formats the dispatcher clock for payload interpolation
func (d *NotificationDispatcher) dateTimeParams() (string, string) {
	now := d.now()
	return now.Format("02 Jan 2006"), now.Format("15:04")
}

// ComplaintCreated notifies every admin plus the owning customer
func (d *NotificationDispatcher) ComplaintCreated(ctx context.Context, complaint *domain.Complaint, customer *domain.User) {
	refID := complaint.ID
	date, timeOfDay := d.dateTimeParams()

	customerName := ""
	if customer != nil {
		customerName = customer.DisplayName
	}

	adminMsg := notify.Encode(notify.KeyNewComplaint, map[string]string{
		notify.ParamReportNumber: complaint.ReportNumber,
		notify.ParamCustomer:     customerName,
		notify.ParamDate:         date,
		notify.ParamTime:         timeOfDay,
	})
	d.broadcastAdmins(ctx, domain.NotificationTypeNewComplaint, "New complaint", adminMsg, &refID)

	userMsg := notify.Encode(notify.KeyUserComplaintOpened, map[string]string{
		notify.ParamReportNumber: complaint.ReportNumber,
	})
	d.deliver(ctx, complaint.UserID, domain.RoleUser, domain.NotificationTypeNewComplaint, "Complaint registered", userMsg, &refID)
}

// ComplaintForwarded notifies the newly assigned technician and the
// owning customer. When the forward carried an explicit status other
// than in_process, the customer message names that status instead of
// the standard in-process wording.
func (d *NotificationDispatcher) ComplaintForwarded(ctx context.Context, complaint *domain.Complaint, technician *domain.User) {
	refID := complaint.ID
	date, timeOfDay := d.dateTimeParams()

	techMsg := notify.Encode(notify.KeyProcessingTech, map[string]string{
		notify.ParamReportNumber: complaint.ReportNumber,
		notify.ParamDate:         date,
		notify.ParamTime:         timeOfDay,
	})
	d.deliver(ctx, technician.ID, domain.RoleTechnician, domain.NotificationTypeAssignment, "Complaint assigned", techMsg, &refID)

	var userMsg string
	if complaint.Status == domain.StatusInProcess {
		userMsg = notify.Encode(notify.KeyProcessingUser, map[string]string{
			notify.ParamReportNumber: complaint.ReportNumber,
			notify.ParamTechnician:   technician.DisplayName,
		})
	} else {
		userMsg = notify.Encode(notify.KeyForwardStatusUser, map[string]string{
			notify.ParamReportNumber: complaint.ReportNumber,
			notify.ParamTechnician:   technician.DisplayName,
			notify.ParamStatus:       string(complaint.Status),
		})
	}
	d.deliver(ctx, complaint.UserID, domain.RoleUser, domain.NotificationTypeAssignment, "Complaint assigned", userMsg, &refID)
}

// StatusChanged notifies every admin plus the owning customer about a
// status transition. Admin wording differentiates in_process from
// closed; the customer message adds pickup framing on closed.
func (d *NotificationDispatcher) StatusChanged(ctx context.Context, complaint *domain.Complaint, actorName string) {
	refID := complaint.ID
	date, _ := d.dateTimeParams()

	var adminMsg, userMsg string
	switch complaint.Status {
	case domain.StatusInProcess:
		adminMsg = notify.Encode(notify.KeyInProcessAdmin, map[string]string{
			notify.ParamReportNumber: complaint.ReportNumber,
			notify.ParamTechnician:   actorName,
			notify.ParamDate:         date,
		})
		userMsg = notify.Encode(notify.KeyInProcessUser, map[string]string{
			notify.ParamReportNumber: complaint.ReportNumber,
		})
	case domain.StatusClosed:
		adminMsg = notify.Encode(notify.KeyClosedAdmin, map[string]string{
			notify.ParamReportNumber: complaint.ReportNumber,
			notify.ParamTechnician:   actorName,
			notify.ParamDate:         date,
		})
		userMsg = notify.Encode(notify.KeyClosedUser, map[string]string{
			notify.ParamReportNumber: complaint.ReportNumber,
		})
	default:
		adminMsg = notify.Encode(notify.KeyStatusAdmin, map[string]string{
			notify.ParamReportNumber: complaint.ReportNumber,
			notify.ParamStatus:       string(complaint.Status),
		})
		userMsg = notify.Encode(notify.KeyStatusUser, map[string]string{
			notify.ParamReportNumber: complaint.ReportNumber,
			notify.ParamStatus:       string(complaint.Status),
		})
	}

	d.broadcastAdmins(ctx, domain.NotificationTypeStatusDetailed, "Complaint status changed", adminMsg, &refID)
	d.deliver(ctx, complaint.UserID, domain.RoleUser, domain.NotificationTypeStatusUpdate, "Complaint status changed", userMsg, &refID)
}

// RemarkSaved fans out every facet of a remark submission. One
// submission can carry up to four facets (transport, checking, free
// text, status) and each fires its own admin+customer pair; the pairs
// are deliberate and must not be collapsed into one message. When an
// admin authored the remark on an assigned complaint, the technician
// holding it is told as well.
func (d *NotificationDispatcher) RemarkSaved(
	ctx context.Context,
	complaint *domain.Complaint,
	authorRole domain.UserRole,
	authorName string,
	fields *domain.RemarkRequest,
	statusChanged bool,
) {
	refID := complaint.ID

	if fields.NoteTransport != "" {
		d.facetPair(ctx, complaint, domain.NotificationTypeTransportUpdate, "Transport update",
			notify.KeyTransportAdmin, notify.KeyTransportUser, fields.NoteTransport)
	}

	if fields.Checking != "" {
		d.facetPair(ctx, complaint, domain.NotificationTypeCheckingUpdate, "Checking update",
			notify.KeyCheckingAdmin, notify.KeyCheckingUser, fields.Checking)
	}

	if fields.Remark != "" {
		d.facetPair(ctx, complaint, domain.NotificationTypeRemarkUpdate, "Complaint update",
			notify.KeyRemarkAdmin, notify.KeyRemarkUser, fields.Remark)
	}

	if statusChanged {
		d.StatusChanged(ctx, complaint, authorName)
	}

	if authorRole == domain.RoleAdmin && complaint.AssignedTo != nil {
		techMsg := notify.Encode(notify.KeyRemarkTech, map[string]string{
			notify.ParamReportNumber: complaint.ReportNumber,
		})
		d.deliver(ctx, *complaint.AssignedTo, domain.RoleTechnician, domain.NotificationTypeRemarkUpdate, "Complaint update", techMsg, &refID)
	}
}

// facetPair sends one remark facet to every admin and to the customer
func (d *NotificationDispatcher) facetPair(
	ctx context.Context,
	complaint *domain.Complaint,
	notificationType domain.NotificationType,
	title string,
	adminKey string,
	userKey string,
	note string,
) {
	refID := complaint.ID

	adminMsg := notify.Encode(adminKey, map[string]string{
		notify.ParamReportNumber: complaint.ReportNumber,
		notify.ParamNote:         note,
	})
	d.broadcastAdmins(ctx, notificationType, title, adminMsg, &refID)

	userMsg := notify.Encode(userKey, map[string]string{
		notify.ParamReportNumber: complaint.ReportNumber,
		notify.ParamNote:         note,
	})
	d.deliver(ctx, complaint.UserID, domain.RoleUser, notificationType, title, userMsg, &refID)
}

// ComplaintCancelled confirms the cancellation to the customer and
// informs a single admin. The admin choice is arbitrary; the stable
// longest-standing active account is used.
func (d *NotificationDispatcher) ComplaintCancelled(ctx context.Context, complaint *domain.Complaint) {
	refID := complaint.ID

	userMsg := notify.Encode(notify.KeyCancelledUser, map[string]string{
		notify.ParamReportNumber: complaint.ReportNumber,
	})
	d.deliver(ctx, complaint.UserID, domain.RoleUser, domain.NotificationTypeCancellation, "Complaint cancelled", userMsg, &refID)

	admin, err := d.userRepo.PickNotificationAdmin(ctx)
	if err != nil {
		d.logger.Warn("failed to pick admin for cancellation notice",
			zap.String("complaintID", complaint.ID.String()),
			zap.Error(err),
		)
		return
	}

	adminMsg := notify.Encode(notify.KeyCancelledAdmin, map[string]string{
		notify.ParamReportNumber: complaint.ReportNumber,
	})
	d.deliver(ctx, admin.ID, domain.RoleAdmin, domain.NotificationTypeCancellation, "Complaint cancelled", adminMsg, &refID)
}

// PendingReminder nudges every admin about a complaint that has sat in
// pending past the configured threshold
func (d *NotificationDispatcher) PendingReminder(ctx context.Context, complaint *domain.Complaint, days int) {
	refID := complaint.ID

	msg := notify.Encode(notify.KeyPendingReminder, map[string]string{
		notify.ParamReportNumber: complaint.ReportNumber,
		notify.ParamDays:         strconv.Itoa(days),
	})
	d.broadcastAdmins(ctx, domain.NotificationTypeReminder, "Pending complaint reminder", msg, &refID)
}
